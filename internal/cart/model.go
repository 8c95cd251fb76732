package cart

import (
	"snackstore-be/internal/product"

	"github.com/shopspring/decimal"
)

// LineItem is one product in the cart. ID is the product id and is unique
// within a cart.
type LineItem struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	ImageURL      string          `json:"image_url"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	Quantity      int             `json:"quantity"`
}

func (l LineItem) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func newLineItem(p product.Product, qty int) LineItem {
	return LineItem{
		ID:            p.ID,
		Name:          p.Name,
		ImageURL:      p.ImageURL,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		Quantity:      qty,
	}
}

type EventType string

const (
	EventItemAdded   EventType = "item_added"
	EventItemUpdated EventType = "item_updated"
	EventItemRemoved EventType = "item_removed"
	EventCleared     EventType = "cleared"
)

// Event is published after every cart mutation with the derived totals at
// that moment.
type Event struct {
	Type   EventType
	ItemID string
	Count  int
	Total  decimal.Decimal
}
