package service

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/junman99/fingrow-sub006/internal/ledger"
	"github.com/junman99/fingrow-sub006/internal/middleware"
	"github.com/junman99/fingrow-sub006/internal/models"
	"github.com/junman99/fingrow-sub006/internal/storage"
)

// GroupService handles group and member management.
type GroupService struct {
	store storage.Store
	locks *groupLocks
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, locks *groupLocks) *GroupService {
	return &GroupService{store: store, locks: locks}
}

// loadOwnedGroup fetches the full aggregate and enforces ownership.
func loadOwnedGroup(ctx context.Context, store storage.Store, groupID string) (*models.Group, error) {
	group, err := store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.OwnerID != middleware.GetUserID(ctx) {
		return nil, ErrForbidden
	}
	return group, nil
}

type memberInput struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

type createGroupRequest struct {
	Name     string        `json:"name"`
	Note     string        `json:"note"`
	Currency string        `json:"currency"`
	Members  []memberInput `json:"members"`
}

func (s *GroupService) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Name == "" {
		writeError(w, badRequestf("group name required"))
		return
	}

	group := &models.Group{
		OwnerID:  middleware.GetUserID(r.Context()),
		Name:     req.Name,
		Note:     req.Note,
		Currency: req.Currency,
	}
	for _, m := range req.Members {
		if m.Name == "" {
			writeError(w, badRequestf("member name required"))
			return
		}
		group.Members = append(group.Members, models.Member{Name: m.Name, Contact: m.Contact})
	}

	if err := s.store.CreateGroup(r.Context(), group); err != nil {
		writeError(w, err)
		return
	}
	slog.Info("Group created", "group_id", group.ID, "members", len(group.Members))
	writeJSON(w, http.StatusCreated, group)
}

func (s *GroupService) handleList(w http.ResponseWriter, r *http.Request) {
	groups, err := s.store.ListGroupsByOwner(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	if groups == nil {
		groups = []*models.Group{}
	}
	writeJSON(w, http.StatusOK, groups)
}

func (s *GroupService) handleGet(w http.ResponseWriter, r *http.Request) {
	group, err := loadOwnedGroup(r.Context(), s.store, chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

type addMembersRequest struct {
	Members []memberInput `json:"members"`
}

func (s *GroupService) handleAddMembers(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")

	var req addMembersRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if len(req.Members) == 0 {
		writeError(w, badRequestf("no members given"))
		return
	}

	lock := s.locks.forGroup(groupID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := loadOwnedGroup(r.Context(), s.store, groupID); err != nil {
		writeError(w, err)
		return
	}

	members := make([]models.Member, 0, len(req.Members))
	for _, m := range req.Members {
		if m.Name == "" {
			writeError(w, badRequestf("member name required"))
			return
		}
		members = append(members, models.Member{Name: m.Name, Contact: m.Contact})
	}

	if err := s.store.AddMembers(r.Context(), groupID, members); err != nil {
		writeError(w, err)
		return
	}
	slog.Info("Members added", "group_id", groupID, "count", len(members))
	writeJSON(w, http.StatusCreated, members)
}

// handleArchiveMember retires a member from new participation. Members stay
// in history; there is no hard delete.
func (s *GroupService) handleArchiveMember(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")
	memberID := chi.URLParam(r, "memberID")

	lock := s.locks.forGroup(groupID)
	lock.Lock()
	defer lock.Unlock()

	group, err := loadOwnedGroup(r.Context(), s.store, groupID)
	if err != nil {
		writeError(w, err)
		return
	}
	if group.MemberByID(memberID) == nil {
		writeError(w, ledger.ErrNotFound)
		return
	}

	if err := s.store.ArchiveMember(r.Context(), groupID, memberID); err != nil {
		writeError(w, err)
		return
	}
	slog.Info("Member archived", "group_id", groupID, "member_id", memberID)
	writeJSON(w, http.StatusNoContent, nil)
}
