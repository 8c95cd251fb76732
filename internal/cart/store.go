package cart

import (
	"sync"

	"snackstore-be/internal/metrics"
	"snackstore-be/internal/product"
	"snackstore-be/internal/realtime"

	"github.com/shopspring/decimal"
)

// Store holds the line items of one shopping session. Count and Total are
// always derived from the items, so they cannot drift.
type Store struct {
	mu    sync.Mutex
	items []LineItem
	hub   *realtime.Hub[Event]

	clamped *metrics.Counter
}

func NewStore(reg *metrics.Registry) *Store {
	return &Store{
		hub:     realtime.NewHub[Event](),
		clamped: reg.Counter("cart_quantity_clamped"),
	}
}

// Subscribe registers handler for cart events.
func (s *Store) Subscribe(filter func(Event) bool, handler func(Event)) realtime.Unsubscribe {
	return s.hub.Subscribe(filter, handler)
}

// AddToCart increments an existing line by qty or appends a new one. The
// resulting quantity is silently clamped to the product's stock.
func (s *Store) AddToCart(p product.Product, qty int) error {
	if p.ID == "" {
		return ErrInvalidProduct
	}
	if qty < 1 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	idx := s.indexOf(p.ID)
	if idx >= 0 {
		line := &s.items[idx]
		line.StockQuantity = p.StockQuantity
		line.Quantity = s.clamp(line.Quantity+qty, line.StockQuantity)
		evType := EventItemUpdated
		if line.Quantity < 1 {
			s.items = append(s.items[:idx], s.items[idx+1:]...)
			evType = EventItemRemoved
		}
		ev := s.eventLocked(evType, p.ID)
		s.mu.Unlock()
		s.hub.Publish(ev)
		return nil
	}

	if p.StockQuantity < 1 {
		s.mu.Unlock()
		return ErrOutOfStock
	}
	s.items = append(s.items, newLineItem(p, s.clamp(qty, p.StockQuantity)))
	ev := s.eventLocked(EventItemAdded, p.ID)
	s.mu.Unlock()

	s.hub.Publish(ev)
	return nil
}

// UpdateQuantity sets a line's quantity. Anything below one removes the line,
// anything above stock is clamped. Unknown ids are ignored.
func (s *Store) UpdateQuantity(id string, qty int) {
	if qty < 1 {
		s.RemoveFromCart(id)
		return
	}

	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	line := &s.items[idx]
	line.Quantity = s.clamp(qty, line.StockQuantity)
	if line.Quantity < 1 {
		s.items = append(s.items[:idx], s.items[idx+1:]...)
		ev := s.eventLocked(EventItemRemoved, id)
		s.mu.Unlock()
		s.hub.Publish(ev)
		return
	}
	ev := s.eventLocked(EventItemUpdated, id)
	s.mu.Unlock()

	s.hub.Publish(ev)
}

// RemoveFromCart deletes the line if present.
func (s *Store) RemoveFromCart(id string) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	ev := s.eventLocked(EventItemRemoved, id)
	s.mu.Unlock()

	s.hub.Publish(ev)
}

func (s *Store) ClearCart() {
	s.mu.Lock()
	s.items = nil
	ev := s.eventLocked(EventCleared, "")
	s.mu.Unlock()

	s.hub.Publish(ev)
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Snapshot returns the lines with the count and total they add up to, read
// under a single lock.
func (s *Store) Snapshot() ([]LineItem, int, decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]LineItem, len(s.items))
	copy(items, s.items)
	return items, s.countLocked(), s.totalLocked()
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countLocked()
}

func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalLocked()
}

func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) clamp(qty, stock int) int {
	if qty > stock {
		s.clamped.Inc()
		return stock
	}
	return qty
}

func (s *Store) countLocked() int {
	n := 0
	for _, l := range s.items {
		n += l.Quantity
	}
	return n
}

func (s *Store) totalLocked() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.items {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (s *Store) eventLocked(t EventType, id string) Event {
	return Event{Type: t, ItemID: id, Count: s.countLocked(), Total: s.totalLocked()}
}
