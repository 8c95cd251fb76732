package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockRepository) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Profile), args.Error(1)
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	tokens, err := NewTokenManager("testsecret")
	require.NoError(t, err)
	hash, err := HashPassword("pw")
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByEmail", ctx, "a@b.c").Return(User{ID: "u1", Email: "a@b.c", Password: hash}, nil)

		token, u, err := NewService(repo, tokens).Login(ctx, "a@b.c", "pw")
		require.NoError(t, err)
		assert.Equal(t, "u1", u.ID)

		claims, err := tokens.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.UserID)
	})

	t.Run("Wrong password", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByEmail", ctx, "a@b.c").Return(User{ID: "u1", Password: hash}, nil)

		_, _, err := NewService(repo, tokens).Login(ctx, "a@b.c", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Unknown email", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByEmail", ctx, "x@y.z").Return(User{}, ErrUserNotFound)

		_, _, err := NewService(repo, tokens).Login(ctx, "x@y.z", "pw")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("DB failure", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByEmail", ctx, "a@b.c").Return(User{}, errors.New("db down"))

		_, _, err := NewService(repo, tokens).Login(ctx, "a@b.c", "pw")
		assert.EqualError(t, err, "db down")
	})
}
