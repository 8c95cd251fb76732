package promo

import "github.com/shopspring/decimal"

// Shipping is the free-shipping policy.
type Shipping struct {
	FreeThreshold decimal.Decimal
	Fee           decimal.Decimal
}

type Totals struct {
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountRate    decimal.Decimal `json:"discount_rate"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	Payable         decimal.Decimal `json:"payable"`
	ShippingCharged decimal.Decimal `json:"shipping_charged"`
	FreeShipping    bool            `json:"free_shipping"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
}

// ComputeTotals keeps full precision; round with Rounded only for display.
// Free shipping is decided on the pre-discount subtotal.
func ComputeTotals(subtotal, fraction decimal.Decimal, shipping Shipping) Totals {
	discount := subtotal.Mul(fraction)
	payable := subtotal.Sub(discount)

	charged := shipping.Fee
	free := subtotal.GreaterThanOrEqual(shipping.FreeThreshold)
	if free {
		charged = decimal.Zero
	}

	return Totals{
		Subtotal:        subtotal,
		DiscountRate:    fraction,
		DiscountAmount:  discount,
		Payable:         payable,
		ShippingCharged: charged,
		FreeShipping:    free,
		GrandTotal:      payable.Add(charged),
	}
}

// Rounded returns a copy with monetary fields rounded to 2 decimal places.
func (t Totals) Rounded() Totals {
	t.Subtotal = t.Subtotal.Round(2)
	t.DiscountAmount = t.DiscountAmount.Round(2)
	t.Payable = t.Payable.Round(2)
	t.ShippingCharged = t.ShippingCharged.Round(2)
	t.GrandTotal = t.GrandTotal.Round(2)
	return t
}

// AmountToFreeShipping is how much more the customer must spend before
// shipping becomes free. Zero once the threshold is met.
func (s Shipping) AmountToFreeShipping(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(s.FreeThreshold) {
		return decimal.Zero
	}
	return s.FreeThreshold.Sub(subtotal)
}
