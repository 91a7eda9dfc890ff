// Package images provides a PostgreSQL-backed repository for image metadata.
package images

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mlorenc/gotodo/internal/common"
	"github.com/mlorenc/gotodo/internal/dbx"
	"github.com/mlorenc/gotodo/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, image *models.Image) (*models.Image, error) {
	query := `
		INSERT INTO images (storage_key, original_name, size)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, image.StorageKey, image.OriginalName, image.Size).
		Scan(&image.ID, &image.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return image, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Image, error) {
	query := `
		SELECT id, storage_key, original_name, size, created_at
		FROM images
		WHERE id = $1
	`
	image := &models.Image{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&image.ID, &image.StorageKey, &image.OriginalName, &image.Size, &image.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return image, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `
		DELETE FROM images
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
