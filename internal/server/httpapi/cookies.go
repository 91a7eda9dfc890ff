package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mlorenc/gotodo/internal/common"
	"github.com/mlorenc/gotodo/internal/server/services"
)

// setSessionCookies writes both token cookies. Lifetimes mirror the token
// TTLs so the browser drops a cookie at the same moment the token inside it
// stops being accepted.
func (s *Server) setSessionCookies(c *gin.Context, pair *services.TokenPair) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(common.AccessTokenCookieName, pair.AccessToken,
		int(pair.AccessTokenTTL.Seconds()), "/", "", s.cfg.Production, true)
	c.SetCookie(common.RefreshTokenCookieName, pair.RefreshToken,
		int(pair.RefreshTokenTTL.Seconds()), "/", "", s.cfg.Production, true)
}

// clearSessionCookies expires both token cookies immediately.
func (s *Server) clearSessionCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(common.AccessTokenCookieName, "", -1, "/", "", s.cfg.Production, true)
	c.SetCookie(common.RefreshTokenCookieName, "", -1, "/", "", s.cfg.Production, true)
}
