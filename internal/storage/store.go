// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/junman99/fingrow-sub006/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for ledger persistence.
//
// The engine packages never see this interface: services load a full Group
// aggregate, run the pure engine on it, and persist the delta through these
// methods. Swapping the backend (SQLite, PostgreSQL, ...) never touches the
// engine.
type Store interface {
	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email (lowercased).
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateGroup persists a new group with its initial members.
	// Missing IDs and timestamps are populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup loads the full group aggregate: members in join order,
	// bills with contributions and splits, and settlements.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsByOwner returns the groups owned by a user, members
	// included, bills and settlements omitted.
	ListGroupsByOwner(ctx context.Context, ownerID string) ([]*models.Group, error)

	// AddMembers appends members to a group, preserving join order.
	AddMembers(ctx context.Context, groupID string, members []models.Member) error

	// ArchiveMember marks a member as archived.
	ArchiveMember(ctx context.Context, groupID, memberID string) error

	// CreateBill persists a bill with its contributions and splits.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// DeleteBill removes a bill and its contributions/splits. Settlements
	// referencing the bill are left untouched.
	DeleteBill(ctx context.Context, billID string) error

	// SetSplitSettled updates one split's settled flag.
	SetSplitSettled(ctx context.Context, billID, memberID string, settled bool) error

	// CreateSettlement persists a settlement record.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// Close releases any resources held by the store.
	Close() error
}
