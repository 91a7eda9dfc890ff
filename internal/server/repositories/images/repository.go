// Package images declares the server-side repository contract for image
// attachment metadata.
package images

import (
	"context"

	"github.com/mlorenc/gotodo/internal/server/models"
)

type Repository interface {
	// Create inserts a metadata row for a stored image blob.
	Create(ctx context.Context, image *models.Image) (*models.Image, error)

	// GetByID looks up image metadata by primary key.
	GetByID(ctx context.Context, id int64) (*models.Image, error)

	// Delete removes the metadata row. The blob in object storage is the
	// caller's responsibility.
	Delete(ctx context.Context, id int64) error
}
