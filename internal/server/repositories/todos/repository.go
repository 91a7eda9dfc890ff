// Package todos declares the server-side repository contract for todo items.
package todos

import (
	"context"

	"github.com/mlorenc/gotodo/internal/server/models"
)

// ListQuery describes pagination, filtering and ordering for SelectByUser.
// Page is 1-based. SortBy must be one of the whitelisted column names; any
// other value falls back to created_at.
type ListQuery struct {
	Search    string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

type Repository interface {
	// Create inserts a new todo and returns it with generated fields set.
	Create(ctx context.Context, todo *models.Todo) (*models.Todo, error)

	// GetByID looks up a todo by primary key regardless of owner.
	GetByID(ctx context.Context, id int64) (*models.Todo, error)

	// SelectByUser returns one page of the user's todos plus the total
	// match count for pagination metadata.
	SelectByUser(ctx context.Context, userID int64, q ListQuery) ([]*models.Todo, int64, error)

	// Update persists title, description, completed and image reference.
	Update(ctx context.Context, todo *models.Todo) (*models.Todo, error)

	// Delete removes a todo by primary key.
	Delete(ctx context.Context, id int64) error
}
