package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/devcamper/devcamper-api/internal/models"
	"github.com/devcamper/devcamper-api/internal/tokens"
	"github.com/devcamper/devcamper-api/pkg/middleware"
	"github.com/devcamper/devcamper-api/pkg/web"
	"github.com/devcamper/devcamper-api/pkg/weberr"
)

// UserLookup loads the stored user for a subject.
type UserLookup interface {
	GetBySub(ctx context.Context, sub string) (*models.User, error)
}

// Revoker records a logged-out access token until it expires.
type Revoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
}

// AuthHandler serves the account endpoints around the bearer token.
type AuthHandler struct {
	users   UserLookup
	revoker Revoker
}

func NewAuthHandler(u UserLookup, r Revoker) *AuthHandler {
	return &AuthHandler{users: u, revoker: r}
}

// Register routes under /auth. Both routes require protect.
func (h *AuthHandler) Register(rg gin.IRouter, protect gin.HandlerFunc) {
	a := rg.Group("/auth", protect)
	a.GET("/me", h.Me)
	a.POST("/logout", h.Logout)
}

// Me returns the stored user, or the verified claims when no user is stored.
func (h *AuthHandler) Me(c *gin.Context) {
	caller := middleware.CallerFrom(c)
	if h.users != nil {
		u, err := h.users.GetBySub(c.Request.Context(), caller.ID)
		if err != nil {
			_ = c.Error(weberr.Internal(err, "Server Error"))
			return
		}
		if u != nil {
			web.Respond(c, http.StatusOK, u)
			return
		}
	}
	web.Respond(c, http.StatusOK, middleware.Claims(c))
}

// Logout revokes the presented access token for the rest of its lifetime.
func (h *AuthHandler) Logout(c *gin.Context) {
	if h.revoker != nil {
		ttl := tokens.Remaining(middleware.Claims(c))
		if err := h.revoker.Revoke(c.Request.Context(), middleware.RawToken(c), ttl); err != nil {
			_ = c.Error(weberr.Internal(err, "Server Error"))
			return
		}
	}
	web.Respond(c, http.StatusOK, web.Empty)
}
