package users

import (
	"context"

	"github.com/avolkovs/artefactreg/internal/server/models"
)

// Repository persists user accounts.
type Repository interface {
	// Create inserts a new user. The provided PasswordHash must already be
	// hashed. Returns common.ErrorAlreadyExists when the username is taken.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByUsername returns the user with the given username, or
	// common.ErrorNotFound.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}
