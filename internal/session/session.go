// Package session ties one browser session's cart, promo and wishlist
// together and keeps them in step with the authenticated identity.
package session

import (
	"context"
	"sync"
	"time"

	"snackstore-be/internal/auth"
	"snackstore-be/internal/cart"
	"snackstore-be/internal/logger"
	"snackstore-be/internal/metrics"
	"snackstore-be/internal/promo"
	"snackstore-be/internal/realtime"
	"snackstore-be/internal/wishlist"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

type Session struct {
	ID       string
	Cart     *cart.Store
	Promo    *promo.Calculator
	Wishlist *wishlist.Store

	mu       sync.Mutex
	identity auth.Identity
	role     auth.Role

	// roleResolved is false while the role is a fallback after a failed lookup.
	roleResolved bool
	unwatch      realtime.Unsubscribe
}

// Identity returns who the session is bound to and their role.
func (s *Session) Identity() (auth.Identity, auth.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity, s.role
}

// RoleResolver is satisfied by *auth.RoleResolver.
type RoleResolver interface {
	Resolve(ctx context.Context, userID string) (auth.Role, error)
	Forget(userID string)
}

type Options struct {
	Wishlists   wishlist.Repository
	Roles       RoleResolver
	PromoCodes  *promo.Table
	Changes     realtime.Subscribable[realtime.Change]
	Metrics     *metrics.Registry
	MaxSessions int
	TTL         time.Duration
}

// Manager owns every live session. Idle sessions expire after TTL.
type Manager struct {
	opts     Options
	sessions *expirable.LRU[string, *Session]
	created  *metrics.Counter
}

func NewManager(opts Options) *Manager {
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = 10000
	}
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if opts.PromoCodes == nil {
		opts.PromoCodes = promo.NewTable(promo.DefaultCodes)
	}

	m := &Manager{
		opts:    opts,
		created: opts.Metrics.Counter("sessions_created"),
	}
	m.sessions = expirable.NewLRU[string, *Session](opts.MaxSessions, onEvict, opts.TTL)
	return m
}

func onEvict(_ string, s *Session) {
	if s.unwatch != nil {
		s.unwatch()
	}
}

// Get returns a live session and refreshes its recency.
func (m *Manager) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	return m.sessions.Get(id)
}

// Create registers a new anonymous session.
func (m *Manager) Create() *Session {
	s := &Session{
		ID:       uuid.NewString(),
		Cart:     cart.NewStore(m.opts.Metrics),
		Promo:    promo.NewCalculator(m.opts.PromoCodes),
		Wishlist: wishlist.NewStore(m.opts.Wishlists, m.opts.Metrics),
	}
	if m.opts.Changes != nil {
		s.unwatch = s.Wishlist.Watch(m.opts.Changes)
	}

	m.sessions.Add(s.ID, s)
	m.created.Inc()
	return s
}

// GetOrCreate returns the session for id, creating one when it is unknown or
// expired. created reports whether a new id was issued.
func (m *Manager) GetOrCreate(id string) (s *Session, created bool) {
	if s, ok := m.Get(id); ok {
		return s, false
	}
	return m.Create(), true
}

func (m *Manager) Len() int {
	return m.sessions.Len()
}

// Bind moves the session to id. A change of user resolves the role and
// reloads the wishlist; an anonymous id empties the wishlist at once. For the
// same user, a role lookup or wishlist load that failed earlier is retried.
// Wishlist load failures are logged and returned for information only.
func (m *Manager) Bind(ctx context.Context, s *Session, id auth.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity.UserID == id.UserID {
		s.identity = id
		if !id.Authenticated() {
			return nil
		}
		return m.retryLocked(ctx, s)
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "session"),
		zap.String("from_user", s.identity.UserID),
		zap.String("to_user", id.UserID),
	)

	s.identity = id
	s.role = auth.RoleCustomer
	s.roleResolved = !id.Authenticated()
	if id.Authenticated() {
		m.resolveRoleLocked(ctx, s, log)
	}

	if err := s.Wishlist.SetUser(ctx, id.UserID); err != nil {
		log.Warn("wishlist not loaded after identity change", zap.Error(err))
		return err
	}
	log.Info("session identity changed", zap.String("role", s.role.String()))
	return nil
}

// retryLocked repeats whatever a previous Bind for the same user could not
// finish.
func (m *Manager) retryLocked(ctx context.Context, s *Session) error {
	if s.roleResolved && s.Wishlist.Loaded() {
		return nil
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "session"),
		zap.String("user_id", s.identity.UserID),
	)

	if !s.roleResolved {
		m.resolveRoleLocked(ctx, s, log)
	}
	if s.Wishlist.Loaded() {
		return nil
	}
	if err := s.Wishlist.Load(ctx); err != nil {
		log.Warn("wishlist still not loaded", zap.Error(err))
		return err
	}
	log.Info("wishlist loaded on retry")
	return nil
}

func (m *Manager) resolveRoleLocked(ctx context.Context, s *Session, log *zap.Logger) {
	if m.opts.Roles == nil {
		s.role, s.roleResolved = auth.RoleCustomer, true
		return
	}

	role, err := m.opts.Roles.Resolve(ctx, s.identity.UserID)
	if err != nil {
		log.Warn("role resolution failed, defaulting to customer until retried", zap.Error(err))
		s.role, s.roleResolved = auth.RoleCustomer, false
		return
	}
	s.role, s.roleResolved = role, true
}

// Logout unbinds the user. The cart stays with the browser session.
func (m *Manager) Logout(ctx context.Context, s *Session) {
	prev, _ := s.Identity()
	_ = m.Bind(ctx, s, auth.Identity{})
	if prev.Authenticated() && m.opts.Roles != nil {
		m.opts.Roles.Forget(prev.UserID)
	}
}
