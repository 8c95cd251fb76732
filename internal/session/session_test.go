package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"snackstore-be/internal/auth"
	"snackstore-be/internal/metrics"
	"snackstore-be/internal/product"
	"snackstore-be/internal/realtime"
	"snackstore-be/internal/wishlist"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockWishlistRepo struct {
	mock.Mock
}

func (m *mockWishlistRepo) ListByUser(ctx context.Context, userID string) ([]wishlist.Entry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]wishlist.Entry), args.Error(1)
}

func (m *mockWishlistRepo) Insert(ctx context.Context, userID, productID string) (*wishlist.Entry, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wishlist.Entry), args.Error(1)
}

func (m *mockWishlistRepo) Delete(ctx context.Context, userID, productID string) error {
	return m.Called(ctx, userID, productID).Error(0)
}

func (m *mockWishlistRepo) DeleteAll(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type mockRoles struct {
	mock.Mock
}

func (m *mockRoles) Resolve(ctx context.Context, userID string) (auth.Role, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(auth.Role), args.Error(1)
}

func (m *mockRoles) Forget(userID string) {
	m.Called(userID)
}

func newManager(repo *mockWishlistRepo, roles *mockRoles) *Manager {
	return NewManager(Options{
		Wishlists: repo,
		Roles:     roles,
		Changes:   realtime.NewHub[realtime.Change](),
		Metrics:   metrics.NewRegistry(),
		TTL:       time.Hour,
	})
}

func TestManager_GetOrCreate(t *testing.T) {
	m := newManager(new(mockWishlistRepo), new(mockRoles))

	s, created := m.GetOrCreate("")
	require.True(t, created)
	assert.NotEmpty(t, s.ID)

	again, created := m.GetOrCreate(s.ID)
	assert.False(t, created)
	assert.Same(t, s, again)

	_, created = m.GetOrCreate("unknown")
	assert.True(t, created)
	assert.Equal(t, 2, m.Len())
}

func TestManager_BindAndLogout(t *testing.T) {
	ctx := context.Background()
	repo := new(mockWishlistRepo)
	roles := new(mockRoles)
	m := newManager(repo, roles)
	s := m.Create()

	roles.On("Resolve", mock.Anything, "u1").Return(auth.RoleAdmin, nil).Once()
	repo.On("ListByUser", mock.Anything, "u1").
		Return([]wishlist.Entry{{UserID: "u1", ProductID: "p1"}}, nil).Once()

	require.NoError(t, m.Bind(ctx, s, auth.Identity{UserID: "u1"}))
	id, role := s.Identity()
	assert.Equal(t, "u1", id.UserID)
	assert.Equal(t, auth.RoleAdmin, role)
	assert.True(t, s.Wishlist.Contains("p1"))

	// same user: no new lookups
	require.NoError(t, m.Bind(ctx, s, auth.Identity{UserID: "u1", Email: "a@b.c"}))

	require.NoError(t, s.Cart.AddToCart(product.Product{ID: "A", Price: decimal.NewFromInt(1), StockQuantity: 3}, 1))

	roles.On("Forget", "u1").Once()
	m.Logout(ctx, s)

	id, role = s.Identity()
	assert.False(t, id.Authenticated())
	assert.Equal(t, auth.RoleCustomer, role)
	assert.False(t, s.Wishlist.Contains("p1"))
	assert.Equal(t, 1, s.Cart.Count())

	repo.AssertExpectations(t)
	roles.AssertExpectations(t)
}

func TestManager_BindRoleFailureStillLoadsWishlist(t *testing.T) {
	repo := new(mockWishlistRepo)
	roles := new(mockRoles)
	m := newManager(repo, roles)
	s := m.Create()

	roles.On("Resolve", mock.Anything, "u1").Return(auth.RoleCustomer, errors.New("db down")).Once()
	repo.On("ListByUser", mock.Anything, "u1").Return([]wishlist.Entry{}, nil).Once()

	assert.NoError(t, m.Bind(context.Background(), s, auth.Identity{UserID: "u1"}))
	_, role := s.Identity()
	assert.Equal(t, auth.RoleCustomer, role)
}

func TestManager_BindRetriesFailedRoleLookup(t *testing.T) {
	ctx := context.Background()
	repo := new(mockWishlistRepo)
	roles := new(mockRoles)
	m := newManager(repo, roles)
	s := m.Create()

	roles.On("Resolve", mock.Anything, "u1").Return(auth.RoleCustomer, errors.New("db down")).Once()
	roles.On("Resolve", mock.Anything, "u1").Return(auth.RoleAdmin, nil).Once()
	repo.On("ListByUser", mock.Anything, "u1").Return([]wishlist.Entry{}, nil).Once()

	require.NoError(t, m.Bind(ctx, s, auth.Identity{UserID: "u1"}))
	_, role := s.Identity()
	assert.Equal(t, auth.RoleCustomer, role)

	for i := 0; i < 3; i++ {
		require.NoError(t, m.Bind(ctx, s, auth.Identity{UserID: "u1"}))
	}
	_, role = s.Identity()
	assert.Equal(t, auth.RoleAdmin, role)

	roles.AssertNumberOfCalls(t, "Resolve", 2)
	repo.AssertNumberOfCalls(t, "ListByUser", 1)
}

func TestManager_BindRetriesFailedWishlistLoad(t *testing.T) {
	ctx := context.Background()
	repo := new(mockWishlistRepo)
	roles := new(mockRoles)
	m := newManager(repo, roles)
	s := m.Create()

	roles.On("Resolve", mock.Anything, "u1").Return(auth.RoleCustomer, nil).Once()
	repo.On("ListByUser", mock.Anything, "u1").Return(nil, errors.New("connection reset")).Once()
	repo.On("ListByUser", mock.Anything, "u1").
		Return([]wishlist.Entry{{UserID: "u1", ProductID: "p1"}}, nil).Once()

	assert.Error(t, m.Bind(ctx, s, auth.Identity{UserID: "u1"}))
	assert.False(t, s.Wishlist.Loaded())
	assert.False(t, s.Wishlist.Contains("p1"))

	for i := 0; i < 3; i++ {
		require.NoError(t, m.Bind(ctx, s, auth.Identity{UserID: "u1"}))
	}

	assert.True(t, s.Wishlist.Loaded())
	assert.True(t, s.Wishlist.Contains("p1"))
	assert.Equal(t, 1, s.Wishlist.Count())
	repo.AssertNumberOfCalls(t, "ListByUser", 2)
	roles.AssertNumberOfCalls(t, "Resolve", 1)
}

func TestMiddleware(t *testing.T) {
	repo := new(mockWishlistRepo)
	m := newManager(repo, new(mockRoles))

	var seen *Session
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := FromContext(r.Context())
		require.True(t, ok)
		seen = s
	}))

	t.Run("Issues cookie for new session", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cart", nil))

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, CookieName, cookies[0].Name)
		assert.Equal(t, seen.ID, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("Reuses existing session", func(t *testing.T) {
		first := seen
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: first.ID})
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Same(t, first, seen)
		assert.Empty(t, w.Result().Cookies())
	})
}
