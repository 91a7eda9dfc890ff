// Package services contains server-side business logic on top of the
// repository layer: user accounts, the session/token subsystem, todo items,
// and image attachments.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mlorenc/gotodo/internal/common"
	"github.com/mlorenc/gotodo/internal/cryptox"
	"github.com/mlorenc/gotodo/internal/dbx"
	"github.com/mlorenc/gotodo/internal/server/models"
	"github.com/mlorenc/gotodo/internal/server/repositories/repomanager"
)

// UserService handles account creation and lookups. Passwords are hashed
// before they reach the repository and the hash never leaves this layer.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager) *UserService {
	return &UserService{db: db, repomanager: m}
}

// Register creates a new user with the given email and plaintext password.
// A taken email yields common.ErrorConflict. The existence check and the
// insert run in one transaction so two concurrent registrations for the
// same email cannot both succeed.
func (s *UserService) Register(ctx context.Context, email string, password string) (*models.User, error) {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		if _, err := repo.GetByEmail(ctx, email); err == nil {
			return common.ErrorConflict
		} else if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error checking existing user: %w", err)
		}

		u, err := repo.Create(ctx, &models.User{Email: email, PasswordHash: hash})
		if err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetByID returns the user with the given id or common.ErrorNotFound.
func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	return repo.GetByID(ctx, id)
}
