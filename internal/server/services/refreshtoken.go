package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mlorenc/gotodo/internal/common"
	"github.com/mlorenc/gotodo/internal/cryptox"
	"github.com/mlorenc/gotodo/internal/server/repositories/repomanager"
	"github.com/mlorenc/gotodo/internal/shared"
)

// opaqueTokenBytes is the entropy of one refresh token secret (256 bits).
const opaqueTokenBytes = 32

// RefreshTokenService manages the lifecycle of the opaque long-lived
// refresh credentials. Only salted digests are persisted; the plaintext
// exists exactly once, in the return value of Issue.
type RefreshTokenService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewRefreshTokenService(db *sql.DB, m repomanager.RepositoryManager) *RefreshTokenService {
	return &RefreshTokenService{db: db, repomanager: m, now: time.Now}
}

// Issue generates a fresh opaque token for userID, stores its digest with
// the given absolute expiry, and returns the plaintext. The plaintext is
// not recoverable afterwards.
func (s *RefreshTokenService) Issue(ctx context.Context, userID int64, expiresAt time.Time) (string, error) {
	plaintext, err := shared.MakeOpaqueToken(opaqueTokenBytes)
	if err != nil {
		return "", common.ErrorInternal
	}

	hash, err := cryptox.HashPassword(plaintext)
	if err != nil {
		return "", common.ErrorInternal
	}

	repo := s.repomanager.RefreshTokens(s.db)
	if err := repo.Create(ctx, userID, hash, expiresAt); err != nil {
		return "", fmt.Errorf("error storing refresh token: %w", err)
	}
	return plaintext, nil
}

// Verify returns the owning user id for a presented plaintext token. The
// digests are salted, so there is no direct lookup: every unexpired
// candidate row is hash-compared in turn. Not-found, expired and mismatch
// all collapse to common.ErrInvalidOrExpiredToken.
func (s *RefreshTokenService) Verify(ctx context.Context, plaintext string) (int64, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	candidates, err := repo.SelectUnexpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("error loading refresh tokens: %w", err)
	}

	for _, candidate := range candidates {
		if cryptox.VerifyPassword(candidate.TokenHash, plaintext) {
			return candidate.UserID, nil
		}
	}
	return 0, common.ErrInvalidOrExpiredToken
}

// RevokeAllForUser deletes every token owned by userID. Revoking a user
// with no tokens is a no-op.
func (s *RefreshTokenService) RevokeAllForUser(ctx context.Context, userID int64) error {
	repo := s.repomanager.RefreshTokens(s.db)
	if err := repo.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("error revoking refresh tokens: %w", err)
	}
	return nil
}

// SweepExpired deletes rows past their expiry. Running it is optional:
// Verify already excludes expired rows, the sweep only reclaims storage.
func (s *RefreshTokenService) SweepExpired(ctx context.Context) error {
	repo := s.repomanager.RefreshTokens(s.db)
	if err := repo.DeleteExpired(ctx, s.now()); err != nil {
		return fmt.Errorf("error sweeping refresh tokens: %w", err)
	}
	return nil
}
