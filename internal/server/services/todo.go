package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mlorenc/gotodo/internal/common"
	"github.com/mlorenc/gotodo/internal/server/models"
	"github.com/mlorenc/gotodo/internal/server/repositories/repomanager"
	"github.com/mlorenc/gotodo/internal/server/repositories/todos"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// TodoPage is one page of a user's todos plus pagination metadata.
type TodoPage struct {
	Items      []*models.Todo
	Total      int64
	Page       int
	Limit      int
	TotalPages int64
}

// UpdateTodoInput carries a partial update; nil fields are left unchanged.
type UpdateTodoInput struct {
	Title       *string
	Description *string
	Completed   *bool
	ImageID     *int64
}

// TodoService implements CRUD over todo items with per-user ownership:
// every operation is scoped to the acting user and touching another user's
// todo yields common.ErrorForbidden.
type TodoService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTodoService(db *sql.DB, m repomanager.RepositoryManager) *TodoService {
	return &TodoService{db: db, repomanager: m}
}

func (s *TodoService) Create(ctx context.Context, userID int64, title, description string, imageID *int64) (*models.Todo, error) {
	repo := s.repomanager.Todos(s.db)
	todo, err := repo.Create(ctx, &models.Todo{
		UserID:      userID,
		Title:       title,
		Description: description,
		ImageID:     imageID,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating todo: %w", err)
	}
	return todo, nil
}

// List returns one page of the user's todos. Page and limit are clamped to
// sane values before they reach the repository.
func (s *TodoService) List(ctx context.Context, userID int64, q todos.ListQuery) (*TodoPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultPageLimit
	}
	if q.Limit > maxPageLimit {
		q.Limit = maxPageLimit
	}

	repo := s.repomanager.Todos(s.db)
	items, total, err := repo.SelectByUser(ctx, userID, q)
	if err != nil {
		return nil, fmt.Errorf("error listing todos: %w", err)
	}

	totalPages := total / int64(q.Limit)
	if total%int64(q.Limit) != 0 {
		totalPages++
	}

	return &TodoPage{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: totalPages,
	}, nil
}

// Get returns one todo if it exists and belongs to userID.
func (s *TodoService) Get(ctx context.Context, id int64, userID int64) (*models.Todo, error) {
	repo := s.repomanager.Todos(s.db)

	todo, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if todo.UserID != userID {
		return nil, common.ErrorForbidden
	}
	return todo, nil
}

// Update applies a partial update after the ownership check.
func (s *TodoService) Update(ctx context.Context, id int64, userID int64, in UpdateTodoInput) (*models.Todo, error) {
	todo, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		todo.Title = *in.Title
	}
	if in.Description != nil {
		todo.Description = *in.Description
	}
	if in.Completed != nil {
		todo.Completed = *in.Completed
	}
	if in.ImageID != nil {
		todo.ImageID = in.ImageID
	}

	repo := s.repomanager.Todos(s.db)
	updated, err := repo.Update(ctx, todo)
	if err != nil {
		return nil, fmt.Errorf("error updating todo: %w", err)
	}
	return updated, nil
}

// Delete removes one todo after the ownership check.
func (s *TodoService) Delete(ctx context.Context, id int64, userID int64) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}

	repo := s.repomanager.Todos(s.db)
	if err := repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting todo: %w", err)
	}
	return nil
}
