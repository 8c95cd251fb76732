package promo

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var storeShipping = Shipping{FreeThreshold: d("500"), Fee: d("50")}

func TestTable(t *testing.T) {
	table := NewTable(map[string]decimal.Decimal{
		"lower5": d("0.05"),
		"FREE":   d("1"),
		"NEG":    d("-0.1"),
	})

	f, ok := table.Lookup("  Lower5 ")
	require.True(t, ok)
	assert.True(t, d("0.05").Equal(f))

	_, ok = table.Lookup("FREE")
	assert.False(t, ok)
	_, ok = table.Lookup("NEG")
	assert.False(t, ok)

	assert.Equal(t, []Code{{Code: "LOWER5", Discount: d("0.05")}}, table.Codes())
}

func TestCalculator_Apply(t *testing.T) {
	c := NewCalculator(NewTable(DefaultCodes))

	t.Run("Case insensitive", func(t *testing.T) {
		assert.True(t, c.Apply("welcome10"))
		code, f := c.Applied()
		assert.Equal(t, "WELCOME10", code)
		assert.True(t, d("0.10").Equal(f))
	})

	t.Run("Unknown code resets the discount", func(t *testing.T) {
		require.True(t, c.Apply("WELCOME10"))
		_, f := c.Applied()
		assert.True(t, d("540").Equal(ComputeTotals(d("600"), f, storeShipping).Payable))

		assert.False(t, c.Apply("BOGUS"))
		code, f := c.Applied()
		assert.Empty(t, code)
		assert.True(t, f.IsZero())
		assert.True(t, d("600").Equal(ComputeTotals(d("600"), f, storeShipping).Payable))
	})

	t.Run("Reset", func(t *testing.T) {
		require.True(t, c.Apply("SAVE20"))
		c.Reset()
		_, f := c.Applied()
		assert.True(t, f.IsZero())
	})
}

func TestComputeTotals(t *testing.T) {
	t.Run("Free shipping boundary", func(t *testing.T) {
		at := ComputeTotals(d("500"), decimal.Zero, storeShipping)
		assert.True(t, at.ShippingCharged.IsZero())
		assert.True(t, at.FreeShipping)

		below := ComputeTotals(d("499.99"), decimal.Zero, storeShipping)
		assert.True(t, d("50").Equal(below.ShippingCharged))
		assert.False(t, below.FreeShipping)
		assert.True(t, d("549.99").Equal(below.GrandTotal))
	})

	t.Run("Single item with SAVE20", func(t *testing.T) {
		totals := ComputeTotals(d("249"), DefaultCodes["SAVE20"], storeShipping)

		assert.True(t, d("49.8").Equal(totals.DiscountAmount))
		assert.True(t, d("199.2").Equal(totals.Payable))
		assert.True(t, d("50").Equal(totals.ShippingCharged))
		assert.True(t, d("249.2").Equal(totals.GrandTotal))
	})

	t.Run("Rounding only at display", func(t *testing.T) {
		totals := ComputeTotals(d("33.335"), d("0.15"), storeShipping)

		assert.True(t, d("5.00025").Equal(totals.DiscountAmount))
		assert.True(t, d("28.33475").Equal(totals.Payable))

		r := totals.Rounded()
		assert.Equal(t, "5", r.DiscountAmount.String())
		assert.Equal(t, "28.33", r.Payable.String())
		assert.Equal(t, "78.33", r.GrandTotal.String())
	})
}

func TestAmountToFreeShipping(t *testing.T) {
	assert.True(t, d("0.01").Equal(storeShipping.AmountToFreeShipping(d("499.99"))))
	assert.True(t, storeShipping.AmountToFreeShipping(d("800")).IsZero())
}
