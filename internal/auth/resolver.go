package auth

import (
	"context"
	"errors"
	"fmt"

	"snackstore-be/internal/logger"
	"snackstore-be/internal/user"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// ProfileSource reads the profile row a role is derived from.
type ProfileSource interface {
	GetProfile(ctx context.Context, userID string) (*user.Profile, error)
}

// RoleResolver looks a user's role up once and caches it.
type RoleResolver struct {
	profiles ProfileSource
	cache    *lru.Cache[string, Role]
}

func NewRoleResolver(profiles ProfileSource, size int) (*RoleResolver, error) {
	cache, err := lru.New[string, Role](size)
	if err != nil {
		return nil, fmt.Errorf("role cache: %w", err)
	}
	return &RoleResolver{profiles: profiles, cache: cache}, nil
}

// Resolve returns the cached role or fetches it. A missing profile resolves
// to customer.
func (r *RoleResolver) Resolve(ctx context.Context, userID string) (Role, error) {
	if userID == "" {
		return RoleCustomer, nil
	}
	if role, ok := r.cache.Get(userID); ok {
		return role, nil
	}

	p, err := r.profiles.GetProfile(ctx, userID)
	switch {
	case errors.Is(err, user.ErrProfileNotFound):
		r.cache.Add(userID, RoleCustomer)
		return RoleCustomer, nil
	case err != nil:
		logger.FromCtx(ctx).Warn("role lookup failed",
			zap.String("user_id", userID), zap.Error(err))
		return RoleCustomer, err
	}

	role := ParseRole(p.Role)
	r.cache.Add(userID, role)
	return role, nil
}

// Forget drops a cached role, e.g. on logout.
func (r *RoleResolver) Forget(userID string) {
	r.cache.Remove(userID)
}
