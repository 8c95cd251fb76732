package product

import "github.com/shopspring/decimal"

const (
	StatusActive  = "active"
	StatusDisable = "disable"
)

type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Slug          string          `json:"slug"`
	ImageURL      string          `json:"image_url"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	Status        string          `json:"status"`
}

type GetProductOptions struct {
	ProductID  string
	OnlyActive bool
}
