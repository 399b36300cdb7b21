package service

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/junman99/fingrow-sub006/internal/calculator"
	"github.com/junman99/fingrow-sub006/internal/ledger"
	"github.com/junman99/fingrow-sub006/internal/models"
	"github.com/junman99/fingrow-sub006/internal/money"
	"github.com/junman99/fingrow-sub006/internal/storage"
)

// SettlementService exposes balances, settlement plans and settlement
// recording for a group.
type SettlementService struct {
	store storage.Store
	locks *groupLocks
}

// NewSettlementService creates a new SettlementService with the given
// storage backend.
func NewSettlementService(store storage.Store, locks *groupLocks) *SettlementService {
	return &SettlementService{store: store, locks: locks}
}

// memberBalance is one row of the balances report, ordered by join order.
type memberBalance struct {
	MemberID string          `json:"member_id"`
	Name     string          `json:"name"`
	Balance  decimal.Decimal `json:"balance"`
	Status   string          `json:"status"` // "owed", "owes" or "settled"
}

func (s *SettlementService) handleBalances(w http.ResponseWriter, r *http.Request) {
	group, err := loadOwnedGroup(r.Context(), s.store, chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, err)
		return
	}

	balances := calculator.Balances(group)
	report := make([]memberBalance, 0, len(group.Members))
	for _, m := range group.Members {
		bal := money.Round(balances[m.ID])
		status := "settled"
		switch {
		case money.IsOwed(bal):
			status = "owed"
		case money.Owes(bal):
			status = "owes"
		}
		report = append(report, memberBalance{
			MemberID: m.ID,
			Name:     m.Name,
			Balance:  bal,
			Status:   status,
		})
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *SettlementService) handlePlan(w http.ResponseWriter, r *http.Request) {
	group, err := loadOwnedGroup(r.Context(), s.store, chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, err)
		return
	}
	edges := calculator.Plan(group)
	if edges == nil {
		edges = []calculator.Edge{}
	}
	writeJSON(w, http.StatusOK, edges)
}

type recordSettlementRequest struct {
	FromID string          `json:"from_id"`
	ToID   string          `json:"to_id"`
	Amount decimal.Decimal `json:"amount"`
	BillID string          `json:"bill_id,omitempty"`
	Memo   string          `json:"memo,omitempty"`
}

func (s *SettlementService) handleRecord(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")

	var req recordSettlementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	lock := s.locks.forGroup(groupID)
	lock.Lock()
	defer lock.Unlock()

	group, err := loadOwnedGroup(r.Context(), s.store, groupID)
	if err != nil {
		writeError(w, err)
		return
	}

	settlement, err := ledger.AddSettlement(group, req.FromID, req.ToID, req.Amount, req.BillID, req.Memo)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.CreateSettlement(r.Context(), settlement); err != nil {
		writeError(w, err)
		return
	}
	slog.Info("Settlement recorded", "group_id", groupID, "settlement_id", settlement.ID,
		"from_id", settlement.FromID, "to_id", settlement.ToID, "amount", settlement.Amount)
	writeJSON(w, http.StatusCreated, settlement)
}

type applyPlanRequest struct {
	Memo string `json:"memo,omitempty"`
}

// handleApplyPlan computes the current settlement plan and records every
// edge as a settlement. Each edge is an independent append; a failure
// partway through leaves the already-recorded settlements in place.
func (s *SettlementService) handleApplyPlan(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")

	var req applyPlanRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
	}

	lock := s.locks.forGroup(groupID)
	lock.Lock()
	defer lock.Unlock()

	group, err := loadOwnedGroup(r.Context(), s.store, groupID)
	if err != nil {
		writeError(w, err)
		return
	}

	edges := calculator.Plan(group)
	recorded := make([]*models.Settlement, 0, len(edges))
	for _, edge := range edges {
		settlement, err := ledger.AddSettlement(group, edge.FromID, edge.ToID, edge.Amount, "", req.Memo)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := s.store.CreateSettlement(r.Context(), settlement); err != nil {
			slog.Error("Failed to persist plan settlement", "group_id", groupID,
				"recorded", len(recorded), "error", err)
			writeError(w, err)
			return
		}
		recorded = append(recorded, settlement)
	}
	slog.Info("Settlement plan applied", "group_id", groupID, "settlements", len(recorded))
	writeJSON(w, http.StatusCreated, recorded)
}
