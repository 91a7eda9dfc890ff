package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mlorenc/gotodo/internal/common"
	"github.com/mlorenc/gotodo/internal/cryptox"
	"github.com/mlorenc/gotodo/internal/server/auth"
	"github.com/mlorenc/gotodo/internal/server/config"
	"github.com/mlorenc/gotodo/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh
// token together with their lifetimes, so the transport layer can set
// matching cookie expiries.
type TokenPair struct {
	AccessToken     string
	RefreshToken    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// SessionService composes credential verification, the access token
// authority and the refresh token store into the login / refresh / logout
// operations.
type SessionService struct {
	db                   *sql.DB
	repomanager          repomanager.RepositoryManager
	authority            *auth.Authority
	tokens               *RefreshTokenService
	refreshTokenValidity time.Duration
	now                  func() time.Time
}

// NewSessionService constructs a SessionService using repositories and
// server config.
func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *SessionService {
	return &SessionService{
		db:                   db,
		repomanager:          m,
		authority:            auth.NewAuthority([]byte(cfg.SecretKey), cfg.AccessTokenValidityDuration),
		tokens:               NewRefreshTokenService(db, m),
		refreshTokenValidity: cfg.RefreshTokenValidityDuration,
		now:                  time.Now,
	}
}

// VerifyCredentials checks email and password and returns the user id.
// Unknown email and wrong password are indistinguishable to the caller:
// both yield common.ErrInvalidCredentials. Read-only.
func (s *SessionService) VerifyCredentials(ctx context.Context, email string, password string) (int64, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, common.ErrInvalidCredentials
		}
		return 0, common.ErrorInternal
	}

	if !cryptox.VerifyPassword(user.PasswordHash, password) {
		return 0, common.ErrInvalidCredentials
	}
	return user.ID, nil
}

// Login verifies credentials and, only on success, mints a token pair.
// No token is issued on a failed login.
func (s *SessionService) Login(ctx context.Context, email string, password string) (*TokenPair, error) {
	userID, err := s.VerifyCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.generateTokenPair(ctx, userID)
}

// Refresh exchanges a valid refresh token for a brand-new token pair. The
// presented token is verified before anything is issued. The superseded row
// is not removed here: it stays usable until its own expiry or until the
// user logs out.
func (s *SessionService) Refresh(ctx context.Context, refreshPlaintext string) (*TokenPair, error) {
	userID, err := s.tokens.Verify(ctx, refreshPlaintext)
	if err != nil {
		if errors.Is(err, common.ErrInvalidOrExpiredToken) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}
	return s.generateTokenPair(ctx, userID)
}

// Logout revokes every refresh token the user holds. Already-issued access
// tokens stay valid until their natural expiry; there is no blacklist.
// Idempotent.
func (s *SessionService) Logout(ctx context.Context, userID int64) error {
	return s.tokens.RevokeAllForUser(ctx, userID)
}

// VerifyAccess validates an access token and returns the principal user id.
func (s *SessionService) VerifyAccess(token string) (int64, error) {
	return s.authority.Verify(token)
}

// SweepExpiredTokens removes expired refresh token rows.
func (s *SessionService) SweepExpiredTokens(ctx context.Context) error {
	return s.tokens.SweepExpired(ctx)
}

func (s *SessionService) generateTokenPair(ctx context.Context, userID int64) (*TokenPair, error) {
	access, err := s.authority.Issue(userID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refresh, err := s.tokens.Issue(ctx, userID, s.now().Add(s.refreshTokenValidity))
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{
		AccessToken:     access,
		RefreshToken:    refresh,
		AccessTokenTTL:  s.authority.Validity(),
		RefreshTokenTTL: s.refreshTokenValidity,
	}, nil
}
