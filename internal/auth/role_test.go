package auth

import (
	"context"
	"errors"
	"testing"

	"snackstore-be/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"admin":       RoleAdmin,
		" ADMIN ":     RoleAdmin,
		"super_admin": RoleSuperAdmin,
		"superadmin":  RoleSuperAdmin,
		"customer":    RoleCustomer,
		"":            RoleCustomer,
		"owner":       RoleCustomer,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseRole(in), "input %q", in)
	}
}

func TestRole_Checks(t *testing.T) {
	assert.False(t, RoleCustomer.IsAdmin())
	assert.True(t, RoleAdmin.IsAdmin())
	assert.False(t, RoleAdmin.IsSuperAdmin())
	assert.True(t, RoleSuperAdmin.IsAdmin())
	assert.True(t, RoleSuperAdmin.AtLeast(RoleAdmin))
	assert.False(t, RoleCustomer.AtLeast(RoleAdmin))

	text, err := RoleSuperAdmin.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "super_admin", string(text))
}

func TestIdentityContext(t *testing.T) {
	ctx := context.Background()
	assert.False(t, IdentityFrom(ctx).Authenticated())

	ctx = WithIdentity(ctx, Identity{UserID: "u1", Email: "a@b.c"})
	assert.Equal(t, "u1", IdentityFrom(ctx).UserID)
	assert.True(t, IdentityFrom(ctx).Authenticated())
}

type mockProfiles struct {
	mock.Mock
}

func (m *mockProfiles) GetProfile(ctx context.Context, userID string) (*user.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.Profile), args.Error(1)
}

func TestRoleResolver(t *testing.T) {
	ctx := context.Background()

	t.Run("Resolves once and caches", func(t *testing.T) {
		profiles := new(mockProfiles)
		profiles.On("GetProfile", ctx, "u1").Return(&user.Profile{UserID: "u1", Role: "admin"}, nil).Once()

		r, err := NewRoleResolver(profiles, 8)
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			role, err := r.Resolve(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, RoleAdmin, role)
		}
		profiles.AssertNumberOfCalls(t, "GetProfile", 1)
	})

	t.Run("Forget forces a new lookup", func(t *testing.T) {
		profiles := new(mockProfiles)
		profiles.On("GetProfile", ctx, "u1").Return(&user.Profile{Role: "customer"}, nil).Once()
		profiles.On("GetProfile", ctx, "u1").Return(&user.Profile{Role: "super_admin"}, nil).Once()

		r, _ := NewRoleResolver(profiles, 8)
		role, _ := r.Resolve(ctx, "u1")
		assert.Equal(t, RoleCustomer, role)

		r.Forget("u1")
		role, _ = r.Resolve(ctx, "u1")
		assert.Equal(t, RoleSuperAdmin, role)
	})

	t.Run("Missing profile is a customer", func(t *testing.T) {
		profiles := new(mockProfiles)
		profiles.On("GetProfile", ctx, "u2").Return(nil, user.ErrProfileNotFound).Once()

		r, _ := NewRoleResolver(profiles, 8)
		role, err := r.Resolve(ctx, "u2")
		assert.NoError(t, err)
		assert.Equal(t, RoleCustomer, role)
	})

	t.Run("Lookup error is not cached", func(t *testing.T) {
		profiles := new(mockProfiles)
		profiles.On("GetProfile", ctx, "u3").Return(nil, errors.New("db down")).Once()
		profiles.On("GetProfile", ctx, "u3").Return(&user.Profile{Role: "admin"}, nil).Once()

		r, _ := NewRoleResolver(profiles, 8)
		_, err := r.Resolve(ctx, "u3")
		assert.Error(t, err)

		role, err := r.Resolve(ctx, "u3")
		assert.NoError(t, err)
		assert.Equal(t, RoleAdmin, role)
	})

	t.Run("Anonymous", func(t *testing.T) {
		r, _ := NewRoleResolver(new(mockProfiles), 8)
		role, err := r.Resolve(ctx, "")
		assert.NoError(t, err)
		assert.Equal(t, RoleCustomer, role)
	})

	t.Run("Invalid size", func(t *testing.T) {
		_, err := NewRoleResolver(new(mockProfiles), 0)
		assert.Error(t, err)
	})
}
