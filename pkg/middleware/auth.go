package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/devcamper/devcamper-api/internal/auth"
	"github.com/devcamper/devcamper-api/pkg/logger"
	"github.com/devcamper/devcamper-api/pkg/web"
)

const (
	claimsKey = "claims"
	callerKey = "caller"
	tokenKey  = "token"
)

// Token is minimal interface for a verified token that can expose claims
type Token interface {
	Claims(v interface{}) error
}

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

// RevocationChecker reports whether a raw token was revoked by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// CallerResolver maps verified claims to the stored identity, e.g. to
// apply the role kept in the users collection.
type CallerResolver interface {
	Resolve(ctx context.Context, claims map[string]interface{}, caller auth.Caller) (auth.Caller, error)
}

type authOptions struct {
	revocations RevocationChecker
	resolver    CallerResolver
}

type AuthOption func(*authOptions)

func WithRevocations(r RevocationChecker) AuthOption {
	return func(o *authOptions) { o.revocations = r }
}

func WithResolver(r CallerResolver) AuthOption {
	return func(o *authOptions) { o.resolver = r }
}

const notAuthorized = "Not authorized to access this route"

// AuthMiddleware returns a Gin middleware that verifies Bearer tokens using the provided verifier
// and stores the claims and the resolved auth.Caller in the context.
func AuthMiddleware(ver Verifier, opts ...AuthOption) gin.HandlerFunc {
	var o authOptions
	for _, fn := range opts {
		fn(&o)
	}
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if header == "" || !strings.HasPrefix(header, "Bearer ") || raw == "" {
			web.Fail(c, http.StatusUnauthorized, notAuthorized)
			return
		}
		ctx := c.Request.Context()

		if o.revocations != nil {
			revoked, err := o.revocations.IsRevoked(ctx, raw)
			if err != nil {
				logger.Warnf("revocation check failed: %v", err)
			}
			if revoked {
				web.Fail(c, http.StatusUnauthorized, notAuthorized)
				return
			}
		}

		tok, err := ver.Verify(ctx, raw)
		if err != nil {
			logger.Debugf("token rejected: %v", err)
			web.Fail(c, http.StatusUnauthorized, notAuthorized)
			return
		}
		var claims map[string]interface{}
		if err := tok.Claims(&claims); err != nil {
			web.Fail(c, http.StatusUnauthorized, notAuthorized)
			return
		}

		caller := CallerFromClaims(claims)
		if caller.ID == "" {
			web.Fail(c, http.StatusUnauthorized, notAuthorized)
			return
		}
		if o.resolver != nil {
			resolved, err := o.resolver.Resolve(ctx, claims, caller)
			if err != nil {
				logger.Errorf("resolve caller %s: %v", caller.ID, err)
				web.Fail(c, http.StatusInternalServerError, "Server Error")
				return
			}
			caller = resolved
		}

		c.Set(claimsKey, claims)
		c.Set(callerKey, caller)
		c.Set(tokenKey, raw)
		c.Next()
	}
}

// CallerFromClaims reads the subject and role. The role comes from a "role"
// claim or, for Keycloak tokens, the highest of realm_access.roles.
func CallerFromClaims(claims map[string]interface{}) auth.Caller {
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if role == "" {
		if ra, ok := claims["realm_access"].(map[string]interface{}); ok {
			if roles, ok := ra["roles"].([]interface{}); ok {
				for _, r := range roles {
					switch r {
					case auth.RoleAdmin:
						role = auth.RoleAdmin
					case auth.RolePublisher:
						if role != auth.RoleAdmin {
							role = auth.RolePublisher
						}
					}
				}
			}
		}
	}
	switch role {
	case auth.RoleAdmin, auth.RolePublisher, auth.RoleUser:
	default:
		role = auth.RoleUser
	}
	return auth.Caller{ID: sub, Role: role}
}

// CallerFrom returns the caller stored by AuthMiddleware; the zero Caller
// when the route is public.
func CallerFrom(c *gin.Context) auth.Caller {
	if v, ok := c.Get(callerKey); ok {
		if caller, ok := v.(auth.Caller); ok {
			return caller
		}
	}
	return auth.Caller{}
}

// RawToken returns the bearer token accepted by AuthMiddleware.
func RawToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}

// Claims returns the verified claims stored by AuthMiddleware.
func Claims(c *gin.Context) map[string]interface{} {
	if v, ok := c.Get(claimsKey); ok {
		if m, ok := v.(map[string]interface{}); ok {
			return m
		}
	}
	return nil
}

// rateKey prefers the authenticated caller and falls back to the client IP.
func rateKey(c *gin.Context) string {
	if caller := CallerFrom(c); caller.ID != "" {
		return "sub:" + caller.ID
	}
	if v, ok := c.Get(claimsKey); ok {
		if cm, ok := v.(map[string]interface{}); ok {
			if sub, ok := cm["sub"].(string); ok && sub != "" {
				return "sub:" + sub
			}
		}
	}
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}
