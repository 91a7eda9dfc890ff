// Package users declares the server-side repository contract for user
// identity records.
package users

import (
	"context"

	"github.com/mlorenc/gotodo/internal/server/models"
)

type Repository interface {
	// Create inserts a new user and returns it with the generated id.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail looks up a user by exact email. Implementations return a
	// not-found error when the user is absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID looks up a user by primary key.
	GetByID(ctx context.Context, id int64) (*models.User, error)
}
