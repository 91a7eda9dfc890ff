package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mlorenc/gotodo/internal/common"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if !strings.Contains(req.Email, "@") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email"})
		return
	}
	if len(req.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 8 characters"})
		return
	}

	user, err := s.users.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "user registered", "user_id", user.ID)
	c.JSON(http.StatusCreated, userResponse{ID: user.ID, Email: user.Email, CreatedAt: user.CreatedAt})
}

// handleLogin authenticates with HTTP Basic credentials and starts a
// session by setting both token cookies.
func (s *Server) handleLogin(c *gin.Context) {
	email, password, ok := c.Request.BasicAuth()
	if !ok {
		c.Header("WWW-Authenticate", `Basic realm="gotodo"`)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "basic credentials required"})
		return
	}

	pair, err := s.sessions.Login(c.Request.Context(), email, password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.setSessionCookies(c, pair)
	c.JSON(http.StatusOK, gin.H{"message": "logged in"})
}

// handleRefresh rotates the session: the refresh cookie is exchanged for a
// fresh cookie pair.
func (s *Server) handleRefresh(c *gin.Context) {
	token, err := c.Cookie(common.RefreshTokenCookieName)
	if err != nil || token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	pair, err := s.sessions.Refresh(c.Request.Context(), token)
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.setSessionCookies(c, pair)
	c.JSON(http.StatusOK, gin.H{"message": "refreshed"})
}

func (s *Server) handleLogout(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if err := s.sessions.Logout(c.Request.Context(), userID); err != nil {
		s.writeError(c, err)
		return
	}

	s.clearSessionCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (s *Server) handleMe(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	user, err := s.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userResponse{ID: user.ID, Email: user.Email, CreatedAt: user.CreatedAt})
}
