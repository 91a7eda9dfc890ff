package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mlorenc/gotodo/internal/server/models"
	"github.com/mlorenc/gotodo/internal/server/repositories/todos"
	"github.com/mlorenc/gotodo/internal/server/services"
)

type createTodoRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	ImageID     *int64 `json:"imageId"`
}

type updateTodoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
	ImageID     *int64  `json:"imageId"`
}

type todoResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	ImageID     *int64    `json:"imageId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type todoPageResponse struct {
	Items      []todoResponse `json:"items"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int64          `json:"totalPages"`
}

func toTodoResponse(t *models.Todo) todoResponse {
	return todoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		ImageID:     t.ImageID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// idParam parses the :id path segment.
func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func (s *Server) handleCreateTodo(c *gin.Context) {
	userID, _ := principal(c)

	var req createTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	todo, err := s.todos.Create(c.Request.Context(), userID, req.Title, req.Description, req.ImageID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTodoResponse(todo))
}

func (s *Server) handleListTodos(c *gin.Context) {
	userID, _ := principal(c)

	q := todos.ListQuery{
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	q.Page, _ = strconv.Atoi(c.Query("page"))
	q.Limit, _ = strconv.Atoi(c.Query("limit"))

	page, err := s.todos.List(c.Request.Context(), userID, q)
	if err != nil {
		s.writeError(c, err)
		return
	}

	resp := todoPageResponse{
		Items:      make([]todoResponse, 0, len(page.Items)),
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	}
	for _, t := range page.Items {
		resp.Items = append(resp.Items, toTodoResponse(t))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetTodo(c *gin.Context) {
	userID, _ := principal(c)
	id, ok := idParam(c)
	if !ok {
		return
	}

	todo, err := s.todos.Get(c.Request.Context(), id, userID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTodoResponse(todo))
}

func (s *Server) handleUpdateTodo(c *gin.Context) {
	userID, _ := principal(c)
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req updateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed body"})
		return
	}

	todo, err := s.todos.Update(c.Request.Context(), id, userID, services.UpdateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		ImageID:     req.ImageID,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTodoResponse(todo))
}

func (s *Server) handleDeleteTodo(c *gin.Context) {
	userID, _ := principal(c)
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := s.todos.Delete(c.Request.Context(), id, userID); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
