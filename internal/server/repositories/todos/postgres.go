// Package todos provides a PostgreSQL-backed repository for todo items.
package todos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mlorenc/gotodo/internal/common"
	"github.com/mlorenc/gotodo/internal/dbx"
	"github.com/mlorenc/gotodo/internal/server/models"
)

// sortColumns whitelists the columns a client may order by. Anything else
// silently falls back to created_at.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"title":      "title",
	"completed":  "completed",
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	query := `
		INSERT INTO todos (user_id, title, description, completed, image_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		todo.UserID, todo.Title, todo.Description, todo.Completed, todo.ImageID).
		Scan(&todo.ID, &todo.CreatedAt, &todo.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return todo, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Todo, error) {
	query := `
		SELECT id, user_id, title, description, completed, image_id, created_at, updated_at
		FROM todos
		WHERE id = $1
	`
	todo := &models.Todo{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&todo.ID, &todo.UserID, &todo.Title, &todo.Description,
			&todo.Completed, &todo.ImageID, &todo.CreatedAt, &todo.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return todo, nil
}

func (r *PostgresRepository) SelectByUser(ctx context.Context, userID int64, q ListQuery) ([]*models.Todo, int64, error) {
	column, ok := sortColumns[q.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if q.SortOrder == "desc" {
		direction = "DESC"
	}

	search := "%" + q.Search + "%"

	var total int64
	countQuery := `
		SELECT COUNT(*)
		FROM todos
		WHERE user_id = $1 AND title ILIKE $2
	`
	if err := r.db.QueryRowContext(ctx, countQuery, userID, search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	offset := (q.Page - 1) * q.Limit
	listQuery := fmt.Sprintf(`
		SELECT id, user_id, title, description, completed, image_id, created_at, updated_at
		FROM todos
		WHERE user_id = $1 AND title ILIKE $2
		ORDER BY %s %s
		LIMIT $3 OFFSET $4
	`, column, direction)

	rows, err := r.db.QueryContext(ctx, listQuery, userID, search, q.Limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var items []*models.Todo
	for rows.Next() {
		todo := &models.Todo{}
		if err := rows.Scan(&todo.ID, &todo.UserID, &todo.Title, &todo.Description,
			&todo.Completed, &todo.ImageID, &todo.CreatedAt, &todo.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		items = append(items, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	return items, total, nil
}

func (r *PostgresRepository) Update(ctx context.Context, todo *models.Todo) (*models.Todo, error) {
	query := `
		UPDATE todos
		SET title = $1, description = $2, completed = $3, image_id = $4, updated_at = now()
		WHERE id = $5
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		todo.Title, todo.Description, todo.Completed, todo.ImageID, todo.ID).
		Scan(&todo.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return todo, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `
		DELETE FROM todos
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
