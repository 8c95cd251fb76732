package wishlist

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"snackstore-be/internal/logger"
	"snackstore-be/internal/metrics"
	"snackstore-be/internal/realtime"

	"go.uber.org/zap"
)

// Store mirrors the signed-in user's wishlist. The ordered item slice and the
// id set always change together under mu, so readers never see one without
// the other.
//
// Adds are confirmed by the remote store before the cache changes; removes
// update the cache as soon as the delete succeeds.
type Store struct {
	repo Repository
	hub  *realtime.Hub[Event]

	mu     sync.RWMutex
	userID string
	// gen advances on every identity change; results of remote calls started
	// under an older generation are discarded.
	gen   uint64
	items []Entry
	ids   map[string]struct{}

	// loaded is set once a Load for the current user has succeeded.
	loaded bool

	reloadMu sync.Mutex
	resyncs  *metrics.Counter
	failures *metrics.Counter
}

func NewStore(repo Repository, reg *metrics.Registry) *Store {
	return &Store{
		repo:     repo,
		hub:      realtime.NewHub[Event](),
		ids:      make(map[string]struct{}),
		resyncs:  reg.Counter("wishlist_resync"),
		failures: reg.Counter("wishlist_remote_failure"),
	}
}

func (s *Store) Subscribe(filter func(Event) bool, handler func(Event)) realtime.Unsubscribe {
	return s.hub.Subscribe(filter, handler)
}

// SetUser switches the store to userID. The cache is emptied immediately;
// for a signed-in user it is then reloaded. An empty userID means logout and
// never touches the network.
func (s *Store) SetUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	if s.userID == userID {
		s.mu.Unlock()
		return nil
	}
	s.userID = userID
	s.gen++
	s.loaded = false
	s.items = nil
	s.ids = make(map[string]struct{})
	s.mu.Unlock()

	s.hub.Publish(Event{Type: EventReset, UserID: userID})

	if userID == "" {
		return nil
	}
	return s.Load(ctx)
}

// Load replaces the cache with the remote rows. On failure the previous cache
// is kept and the error is only informational.
func (s *Store) Load(ctx context.Context) error {
	userID, gen := s.identity()
	if userID == "" {
		return nil
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "store"),
		zap.String("method", "LoadWishlist"),
		zap.String("user_id", userID),
	)

	entries, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.failures.Inc()
		log.Warn("keeping cached wishlist after load failure", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrWishlistLoadFailed, err)
	}

	ids := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		ids[e.ProductID] = struct{}{}
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		log.Debug("discarding wishlist load for previous user")
		return nil
	}
	s.items = entries
	s.ids = ids
	s.loaded = true
	count := len(entries)
	s.mu.Unlock()

	s.hub.Publish(Event{Type: EventLoaded, UserID: userID, Count: count})
	return nil
}

func (s *Store) Add(ctx context.Context, productID string) error {
	userID, gen := s.identity()
	if userID == "" {
		return ErrNotAuthenticated
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "store"),
		zap.String("method", "AddToWishlist"),
		zap.String("user_id", userID),
		zap.String("product_id", productID),
	)

	entry, err := s.repo.Insert(ctx, userID, productID)
	if errors.Is(err, ErrDuplicateIgnored) {
		// Row exists remotely; pull it in if another client created it.
		if !s.Contains(productID) {
			s.resync(ctx)
		}
		return nil
	}
	if err != nil {
		s.failures.Inc()
		log.Error("add to wishlist failed", zap.Error(err))
		s.resync(ctx)
		return fmt.Errorf("%w: %v", ErrWishlistAddFailed, err)
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return nil
	}
	if _, ok := s.ids[productID]; !ok {
		s.items = append(s.items, *entry)
		s.ids[productID] = struct{}{}
	}
	count := len(s.items)
	s.mu.Unlock()

	s.hub.Publish(Event{Type: EventAdded, UserID: userID, ProductID: productID, Count: count})
	return nil
}

func (s *Store) Remove(ctx context.Context, productID string) error {
	userID, gen := s.identity()
	if userID == "" {
		return ErrNotAuthenticated
	}

	if err := s.repo.Delete(ctx, userID, productID); err != nil {
		s.failures.Inc()
		logger.FromCtx(ctx).Error("remove from wishlist failed",
			zap.String("layer", "store"),
			zap.String("user_id", userID),
			zap.String("product_id", productID),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrWishlistRemoveFailed, err)
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return nil
	}
	delete(s.ids, productID)
	kept := s.items[:0:0]
	for _, e := range s.items {
		if e.ProductID != productID {
			kept = append(kept, e)
		}
	}
	s.items = kept
	count := len(kept)
	s.mu.Unlock()

	s.hub.Publish(Event{Type: EventRemoved, UserID: userID, ProductID: productID, Count: count})
	return nil
}

// Toggle removes productID when saved, adds it otherwise.
func (s *Store) Toggle(ctx context.Context, productID string) error {
	if s.Contains(productID) {
		return s.Remove(ctx, productID)
	}
	return s.Add(ctx, productID)
}

func (s *Store) Clear(ctx context.Context) error {
	userID, gen := s.identity()
	if userID == "" {
		return ErrNotAuthenticated
	}

	if err := s.repo.DeleteAll(ctx, userID); err != nil {
		s.failures.Inc()
		logger.FromCtx(ctx).Error("clear wishlist failed",
			zap.String("layer", "store"),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrWishlistClearFailed, err)
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return nil
	}
	s.items = nil
	s.ids = make(map[string]struct{})
	s.mu.Unlock()

	s.hub.Publish(Event{Type: EventCleared, UserID: userID})
	return nil
}

// Contains checks the local cache only.
func (s *Store) Contains(productID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[productID]
	return ok
}

func (s *Store) Items() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Loaded reports whether the cache reflects at least one successful load for
// the current user.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *Store) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Watch reloads the cache when the remote table changes for the current user
// in a way the cache does not already reflect. Reloads run on their own
// goroutine so the publisher is never held up by a slow query.
func (s *Store) Watch(changes realtime.Subscribable[realtime.Change]) realtime.Unsubscribe {
	return changes.Subscribe(
		func(c realtime.Change) bool {
			user := s.UserID()
			return user != "" && realtime.ForUser(user)(c)
		},
		func(c realtime.Change) {
			switch c.Op {
			case realtime.OpInsert:
				if s.Contains(c.ProductID) {
					return
				}
			case realtime.OpDelete:
				if !s.Contains(c.ProductID) {
					return
				}
			}
			go s.backgroundResync()
		},
	)
}

// backgroundResync serialises reloads so a slower, older load cannot land
// after a newer one.
func (s *Store) backgroundResync() {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.resync(ctx)
}

func (s *Store) resync(ctx context.Context) {
	s.resyncs.Inc()
	_ = s.Load(ctx)
}

func (s *Store) identity() (string, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID, s.gen
}
