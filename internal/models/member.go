package models

// Member represents one person in a group.
// Members are identified by a stable ID; display names may change freely.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	ID string `json:"id"`

	// Name is the display name of the member.
	Name string `json:"name"`

	// Contact is an optional email or phone number, informational only.
	Contact string `json:"contact,omitempty"`

	// Archived marks a member who has left the group. Archived members stay
	// in history and in balances but are excluded from new bills. Members
	// referenced by a bill or settlement are archived, never hard-deleted.
	Archived bool `json:"archived,omitempty"`
}
