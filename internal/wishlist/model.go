package wishlist

import (
	"time"

	"snackstore-be/internal/product"
)

// Entry is one saved product. At most one entry exists per (user, product).
type Entry struct {
	UserID    string          `json:"user_id"`
	ProductID string          `json:"product_id"`
	CreatedAt time.Time       `json:"created_at"`
	Product   product.Product `json:"product"`
}

type EventType string

const (
	EventLoaded  EventType = "loaded"
	EventAdded   EventType = "added"
	EventRemoved EventType = "removed"
	EventCleared EventType = "cleared"
	// EventReset fires when the signed-in user changes and the cache is dropped.
	EventReset EventType = "reset"
)

type Event struct {
	Type      EventType
	UserID    string
	ProductID string
	Count     int
}
