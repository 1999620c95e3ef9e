package users

import (
	"context"

	"github.com/devcamper/devcamper-api/internal/auth"
	"github.com/devcamper/devcamper-api/internal/models"
	"github.com/devcamper/devcamper-api/pkg/middleware"
)

// Service encapsulates user-related business logic
type Service struct {
	repo UserRepository
}

func NewService(r UserRepository) *Service {
	return &Service{repo: r}
}

// explicitRole returns the role the token asserts, or "" when it asserts none.
func explicitRole(claims map[string]interface{}) string {
	role, _ := claims["role"].(string)
	_, hasRealm := claims["realm_access"]
	if role == "" && !hasRealm {
		return ""
	}
	return middleware.CallerFromClaims(claims).Role
}

// UpsertFromClaims creates or updates a user from verified token claims.
func (s *Service) UpsertFromClaims(ctx context.Context, claims map[string]interface{}) (*models.User, error) {
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	if sub == "" {
		return nil, nil
	}
	u := &models.User{
		Sub:   sub,
		Email: email,
		Name:  name,
		Role:  explicitRole(claims),
	}
	return s.repo.UpsertBySub(ctx, u)
}

func (s *Service) GetBySub(ctx context.Context, sub string) (*models.User, error) {
	return s.repo.GetBySub(ctx, sub)
}

// Resolve records the caller and returns it with the stored role.
func (s *Service) Resolve(ctx context.Context, claims map[string]interface{}, caller auth.Caller) (auth.Caller, error) {
	u, err := s.UpsertFromClaims(ctx, claims)
	if err != nil {
		return auth.Caller{}, err
	}
	if u == nil {
		return caller, nil
	}
	return auth.Caller{ID: u.Sub, Role: u.Role}, nil
}
