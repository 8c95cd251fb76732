package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"snackstore-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const WishlistChannel = "wishlist_changes"

// Change operations carried by wishlist NOTIFY payloads.
const (
	OpInsert = "INSERT"
	OpDelete = "DELETE"
	// OpResync is emitted after the listener reconnects, when notifications may
	// have been missed.
	OpResync = "RESYNC"
)

// Change is one row-level change on the wishlists table.
type Change struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
	Op        string `json:"op"`
}

// ForUser filters changes down to a single user. Resync changes match everyone.
func ForUser(userID string) func(Change) bool {
	return func(c Change) bool {
		return c.Op == OpResync || c.UserID == userID
	}
}

// Relay forwards postgres notifications into a hub.
type Relay struct {
	notify   <-chan *pq.Notification
	ping     func() error
	close    func() error
	hub      *Hub[Change]
	interval time.Duration
}

// NewPGRelay starts listening on channel with a pq.Listener.
func NewPGRelay(dsn, channel string, hub *Hub[Change]) (*Relay, error) {
	log := logger.L().With(zap.String("layer", "realtime"), zap.String("channel", channel))

	listener := pq.NewListener(dsn, 10*time.Second, time.Minute,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				log.Warn("listener event", zap.Int("event", int(ev)), zap.Error(err))
			}
		})

	if err := listener.Listen(channel); err != nil {
		listener.Close()
		return nil, fmt.Errorf("listen %s: %w", channel, err)
	}

	return &Relay{
		notify:   listener.Notify,
		ping:     listener.Ping,
		close:    listener.Close,
		hub:      hub,
		interval: 90 * time.Second,
	}, nil
}

// Run blocks until ctx is cancelled or the notification channel closes.
func (r *Relay) Run(ctx context.Context) error {
	log := logger.FromCtx(ctx).With(zap.String("layer", "realtime"))

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if r.close != nil {
				_ = r.close()
			}
			return ctx.Err()

		case n, ok := <-r.notify:
			if !ok {
				return nil
			}
			// pq sends nil after re-establishing a lost connection
			if n == nil {
				log.Info("listener reconnected, requesting resync")
				r.hub.Publish(Change{Op: OpResync})
				continue
			}

			change, err := DecodeChange(n.Extra)
			if err != nil {
				log.Warn("dropping malformed notification",
					zap.String("payload", n.Extra), zap.Error(err))
				continue
			}
			r.hub.Publish(change)

		case <-ticker.C:
			if r.ping == nil {
				continue
			}
			if err := r.ping(); err != nil {
				log.Warn("listener ping failed", zap.Error(err))
			}
		}
	}
}

// DecodeChange parses a NOTIFY payload produced by the wishlist trigger.
func DecodeChange(payload string) (Change, error) {
	var c Change
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return Change{}, err
	}
	if c.UserID == "" {
		return Change{}, fmt.Errorf("payload missing user_id")
	}
	return c, nil
}
