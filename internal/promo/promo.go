// Package promo computes discounts and payable totals for the cart.
package promo

import (
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// DefaultCodes is the storefront's fixed promo table. Keys are uppercase.
var DefaultCodes = map[string]decimal.Decimal{
	"WELCOME10": decimal.RequireFromString("0.10"),
	"SNACK15":   decimal.RequireFromString("0.15"),
	"SAVE20":    decimal.RequireFromString("0.20"),
}

// Code is one entry of the promo table.
type Code struct {
	Code     string          `json:"code"`
	Discount decimal.Decimal `json:"discount"`
}

// Table is an immutable code lookup.
type Table struct {
	codes map[string]decimal.Decimal
}

// NewTable copies codes, uppercasing keys and dropping fractions outside (0, 1).
func NewTable(codes map[string]decimal.Decimal) *Table {
	t := &Table{codes: make(map[string]decimal.Decimal, len(codes))}
	for code, f := range codes {
		if !f.IsPositive() || f.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			continue
		}
		t.codes[normalize(code)] = f
	}
	return t
}

// Lookup returns the discount fraction for code.
func (t *Table) Lookup(code string) (decimal.Decimal, bool) {
	f, ok := t.codes[normalize(code)]
	return f, ok
}

// Codes lists the table sorted by code.
func (t *Table) Codes() []Code {
	out := make([]Code, 0, len(t.codes))
	for c, f := range t.codes {
		out = append(out, Code{Code: c, Discount: f})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Calculator holds the code currently applied to one cart.
type Calculator struct {
	table *Table

	mu       sync.RWMutex
	code     string
	fraction decimal.Decimal
}

func NewCalculator(table *Table) *Calculator {
	return &Calculator{table: table, fraction: decimal.Zero}
}

// Apply looks up code. An unknown code resets the discount to zero so a
// previously applied code never lingers.
func (c *Calculator) Apply(code string) bool {
	f, ok := c.table.Lookup(code)

	c.mu.Lock()
	defer c.mu.Unlock()

	if !ok {
		c.code = ""
		c.fraction = decimal.Zero
		return false
	}
	c.code = normalize(code)
	c.fraction = f
	return true
}

// Reset drops any applied code.
func (c *Calculator) Reset() {
	c.mu.Lock()
	c.code = ""
	c.fraction = decimal.Zero
	c.mu.Unlock()
}

// Applied returns the active code and its fraction. The code is empty when
// no discount applies.
func (c *Calculator) Applied() (string, decimal.Decimal) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.code, c.fraction
}
