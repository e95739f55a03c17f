package storage

import (
	"context"

	"github.com/kmicah/cardtable-go/internal/model"
)

// CredentialStore holds registered user accounts. It is the only persistent
// collaborator of the table server; everything else lives in process memory.
type CredentialStore interface {
	// SaveUser inserts a new user. Returns model.ErrDuplicateUsername if the
	// username is already taken.
	SaveUser(ctx context.Context, user *model.User) error

	// GetUserByUsername looks up a user. Returns model.ErrUserNotFound if no
	// such user is registered.
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)

	// DeleteUser removes a user account. Deleting a missing user is a no-op.
	DeleteUser(ctx context.Context, username string) error
}
