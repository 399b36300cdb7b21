package service

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/junman99/fingrow-sub006/internal/calculator"
	"github.com/junman99/fingrow-sub006/internal/ledger"
	"github.com/junman99/fingrow-sub006/internal/models"
	"github.com/junman99/fingrow-sub006/internal/storage"
)

// BillService handles bill creation, lookup, deletion and split settling.
type BillService struct {
	store storage.Store
	locks *groupLocks
}

// NewBillService creates a new BillService with the given storage backend.
func NewBillService(store storage.Store, locks *groupLocks) *BillService {
	return &BillService{store: store, locks: locks}
}

type createBillRequest struct {
	Title        string                     `json:"title"`
	Amount       decimal.Decimal            `json:"amount"`
	Tax          decimal.Decimal            `json:"tax"`
	TaxMode      string                     `json:"tax_mode"`
	Discount     decimal.Decimal            `json:"discount"`
	DiscountMode string                     `json:"discount_mode"`
	Strategy     string                     `json:"strategy"`
	Participants []string                   `json:"participants"`
	Weights      map[string]decimal.Decimal `json:"weights,omitempty"`
	Amounts      map[string]decimal.Decimal `json:"amounts,omitempty"`
	PaidBy       string                     `json:"paid_by,omitempty"`

	// Contributions lists multiple payers; mutually exclusive with PaidBy.
	Contributions []models.Contribution `json:"contributions,omitempty"`
}

func (s *BillService) handleCreate(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")

	var req createBillRequest
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

	bill, err := ledger.AddBill(group, ledger.BillInput{
		Title:         req.Title,
		Amount:        req.Amount,
		Tax:           req.Tax,
		TaxMode:       req.TaxMode,
		Discount:      req.Discount,
		DiscountMode:  req.DiscountMode,
		Strategy:      calculator.Strategy(req.Strategy),
		Participants:  req.Participants,
		Weights:       req.Weights,
		Amounts:       req.Amounts,
		PaidBy:        req.PaidBy,
		Contributions: req.Contributions,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.store.CreateBill(r.Context(), bill); err != nil {
		writeError(w, err)
		return
	}
	slog.Info("Bill created", "group_id", groupID, "bill_id", bill.ID,
		"final_amount", bill.FinalAmount, "strategy", req.Strategy)
	writeJSON(w, http.StatusCreated, bill)
}

func (s *BillService) handleList(w http.ResponseWriter, r *http.Request) {
	group, err := loadOwnedGroup(r.Context(), s.store, chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, err)
		return
	}
	if group.Bills == nil {
		group.Bills = []models.Bill{}
	}
	writeJSON(w, http.StatusOK, group.Bills)
}

func (s *BillService) handleGet(w http.ResponseWriter, r *http.Request) {
	group, err := loadOwnedGroup(r.Context(), s.store, chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, err)
		return
	}
	bill, err := ledger.FindBill(group, chi.URLParam(r, "billID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bill)
}

// handleDelete removes a bill. Settlements referencing it are deliberately
// left alone; balances always read the live settlement list.
func (s *BillService) handleDelete(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	billID := chi.URLParam(r, "billID")

	lock := s.locks.forGroup(groupID)
	lock.Lock()
	defer lock.Unlock()

	group, err := loadOwnedGroup(r.Context(), s.store, groupID)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := ledger.DeleteBill(group, billID); err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.DeleteBill(r.Context(), billID); err != nil {
		writeError(w, err)
		return
	}
	slog.Info("Bill deleted", "group_id", groupID, "bill_id", billID)
	writeJSON(w, http.StatusNoContent, nil)
}

// handleSettleSplit flips the lightweight settled marker on one member's
// split. No settlement record is created.
func (s *BillService) handleSettleSplit(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	billID := chi.URLParam(r, "billID")
	memberID := chi.URLParam(r, "memberID")

	lock := s.locks.forGroup(groupID)
	lock.Lock()
	defer lock.Unlock()

	group, err := loadOwnedGroup(r.Context(), s.store, groupID)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := ledger.MarkSplitPaid(group, billID, memberID); err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.SetSplitSettled(r.Context(), billID, memberID, true); err != nil {
		writeError(w, err)
		return
	}
	slog.Info("Split marked settled", "group_id", groupID, "bill_id", billID, "member_id", memberID)
	writeJSON(w, http.StatusNoContent, nil)
}
