// Package refreshtokens declares the server-side repository contract for
// managing hashed refresh tokens in persistent storage.
package refreshtokens

import (
	"context"
	"time"

	"github.com/mlorenc/gotodo/internal/server/models"
)

// Repository defines the row-level operations behind the refresh token
// store. Hash comparison is the caller's concern; the repository only ever
// sees digests.
type Repository interface {
	// Create stores a new token digest for userID with an absolute expiry.
	Create(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error

	// SelectUnexpired returns every row with expires_at >= now. The digests
	// are salted, so lookup-by-hash is impossible; candidates must be
	// verified one by one.
	SelectUnexpired(ctx context.Context, now time.Time) ([]*models.RefreshToken, error)

	// DeleteByUser removes every token row owned by userID. Deleting for a
	// user who holds no tokens is not an error.
	DeleteByUser(ctx context.Context, userID int64) error

	// DeleteExpired removes every row with expires_at < now.
	DeleteExpired(ctx context.Context, now time.Time) error
}
