// Package httpapi exposes the service layer as a JSON API over gin. Session
// transport is cookie based: the access token and the refresh token travel
// in separate HttpOnly cookies.
package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/mlorenc/gotodo/internal/logging"
	"github.com/mlorenc/gotodo/internal/server/config"
	"github.com/mlorenc/gotodo/internal/server/services"
)

type Server struct {
	cfg      *config.Config
	logger   logging.Logger
	users    *services.UserService
	sessions *services.SessionService
	todos    *services.TodoService
	images   *services.ImageService
}

func NewServer(cfg *config.Config, logger logging.Logger,
	users *services.UserService, sessions *services.SessionService,
	todos *services.TodoService, images *services.ImageService) *Server {
	return &Server{
		cfg:      cfg,
		logger:   logger,
		users:    users,
		sessions: sessions,
		todos:    todos,
		images:   images,
	}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	if s.cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")

	api.POST("/auth/register", s.handleRegister)
	api.POST("/auth/login", s.handleLogin)
	api.POST("/auth/refresh", s.handleRefresh)

	protected := api.Group("")
	protected.Use(s.requireAuth())

	protected.POST("/auth/logout", s.handleLogout)
	protected.GET("/me", s.handleMe)

	protected.POST("/todos", s.handleCreateTodo)
	protected.GET("/todos", s.handleListTodos)
	protected.GET("/todos/:id", s.handleGetTodo)
	protected.PATCH("/todos/:id", s.handleUpdateTodo)
	protected.DELETE("/todos/:id", s.handleDeleteTodo)

	protected.POST("/images", s.handleUploadImage)
	protected.GET("/images/:id", s.handleGetImage)
	protected.DELETE("/images/:id", s.handleDeleteImage)

	return r
}
