package models

// Group is the aggregate root owning members, bills and settlements.
// All engine operations take a Group as input; the mutating ledger
// operations append to Bills/Settlements, everything else is read-only.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// OwnerID is the user account that created the group.
	OwnerID string `json:"owner_id"`

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string `json:"name"`

	// Note is an optional free-form description.
	Note string `json:"note,omitempty"`

	// Currency is an optional display currency code (e.g., "SGD").
	// The engine never converts; all amounts in a group share one currency.
	Currency string `json:"currency,omitempty"`

	// Members is the list of people in this group, in join order.
	// Join order is the deterministic tie-break order for the planner.
	Members []Member `json:"members"`

	// Bills are the group's shared expenses, in creation order.
	Bills []Bill `json:"bills"`

	// Settlements are the recorded payments between members, in creation order.
	Settlements []Settlement `json:"settlements"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"created_at"`
}

// MemberByID returns the member with the given ID, or nil.
func (g *Group) MemberByID(id string) *Member {
	for i := range g.Members {
		if g.Members[i].ID == id {
			return &g.Members[i]
		}
	}
	return nil
}

// BillByID returns the bill with the given ID, or nil.
func (g *Group) BillByID(id string) *Bill {
	for i := range g.Bills {
		if g.Bills[i].ID == id {
			return &g.Bills[i]
		}
	}
	return nil
}

// MemberReferenced reports whether any bill or settlement references the
// member. Referenced members must be archived rather than deleted.
func (g *Group) MemberReferenced(memberID string) bool {
	for i := range g.Bills {
		b := &g.Bills[i]
		for _, c := range b.Contributions {
			if c.MemberID == memberID {
				return true
			}
		}
		for _, s := range b.Splits {
			if s.MemberID == memberID {
				return true
			}
		}
	}
	for _, s := range g.Settlements {
		if s.FromID == memberID || s.ToID == memberID {
			return true
		}
	}
	return false
}
