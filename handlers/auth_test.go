package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devcamper/devcamper-api/internal/config"
	"github.com/devcamper/devcamper-api/internal/models"
	"github.com/devcamper/devcamper-api/internal/sessions"
	"github.com/devcamper/devcamper-api/internal/tokens"
	"github.com/devcamper/devcamper-api/internal/users"
	"github.com/devcamper/devcamper-api/pkg/middleware"
)

const secret = "auth-handler-test-secret-32-bytes"

func setupAuth(t *testing.T) (*gin.Engine, *users.Service, *mr.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	m := mr.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	uSvc := users.NewService(users.NewMemoryUserRepository())
	rev := sessions.NewRevocations(rdb)
	protect := middleware.AuthMiddleware(tokens.NewVerifier(secret),
		middleware.WithRevocations(rev), middleware.WithResolver(uSvc))

	r := gin.New()
	r.Use(middleware.Errors())
	NewAuthHandler(uSvc, rev).Register(r.Group("/api/v1"), protect)
	return r, uSvc, m
}

func issue(t *testing.T, u *models.User) string {
	t.Helper()
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	tok, err := tokens.GenerateAccessToken(cfg, u, time.Hour)
	require.NoError(t, err)
	return tok
}

func call(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMeReturnsStoredUser(t *testing.T) {
	r, _, _ := setupAuth(t)
	tok := issue(t, &models.User{Sub: "alice", Email: "a@b.c", Name: "Alice", Role: "publisher"})

	w := call(r, "GET", "/api/v1/auth/me", tok)
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Success bool        `json:"success"`
		Data    models.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, got.Success)
	assert.Equal(t, "alice", got.Data.Sub)
	assert.Equal(t, "publisher", got.Data.Role)
}

func TestMeFallsBackToClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Errors())
	NewAuthHandler(nil, nil).Register(r.Group("/api/v1"), middleware.AuthMiddleware(tokens.NewVerifier(secret)))

	w := call(r, "GET", "/api/v1/auth/me", issue(t, &models.User{Sub: "bob"}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"sub":"bob"`)
}

func TestLogoutRevokesToken(t *testing.T) {
	r, _, m := setupAuth(t)
	tok := issue(t, &models.User{Sub: "carol"})

	require.Equal(t, http.StatusOK, call(r, "GET", "/api/v1/auth/me", tok).Code)
	w := call(r, "POST", "/api/v1/auth/logout", tok)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{}}`, w.Body.String())

	revoked, err := sessions.NewRevocations(redis.NewClient(&redis.Options{Addr: m.Addr()})).IsRevoked(context.Background(), tok)
	require.NoError(t, err)
	assert.True(t, revoked)

	w = call(r, "GET", "/api/v1/auth/me", tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Not authorized to access this route")

	// the revocation lapses with the token
	m.FastForward(2 * time.Hour)
	assert.Empty(t, m.Keys())
}

func TestAuthRoutesRequireToken(t *testing.T) {
	r, _, _ := setupAuth(t)
	assert.Equal(t, http.StatusUnauthorized, call(r, "GET", "/api/v1/auth/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(r, "POST", "/api/v1/auth/logout", "garbage").Code)
}
