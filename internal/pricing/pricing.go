// Package pricing derives checkout totals from cart or order lines.
//
// Every place that shows or submits totals goes through ComputeTotals so the
// cart summary, the checkout summary and the persisted order always agree.
package pricing

import "math"

// TaxRate is applied to the subtotal. It is not configurable per region or item.
const TaxRate = 0.15

// epsilon is added to the scaled value before rounding to absorb binary
// representation error on results that should land exactly on a half cent.
const epsilon = 2.220446049250313e-16

// Line is anything with a unit price and a quantity.
type Line interface {
	LinePrice() float64
	LineQuantity() int
}

// Totals holds the priced figures of a checkout.
type Totals struct {
	Subtotal float64 `json:"itemsPrice"`
	Tax      float64 `json:"taxPrice"`
	Total    float64 `json:"totalPrice"`
}

// Round2 rounds x to currency precision.
func Round2(x float64) float64 {
	return math.Round(x*100+epsilon) / 100
}

// ComputeTotals prices the given lines. An empty input yields all zeros.
// Total is derived from the already rounded subtotal and tax.
func ComputeTotals[L Line](lines []L) Totals {
	var sum float64
	for _, l := range lines {
		sum += float64(l.LineQuantity()) * l.LinePrice()
	}
	subtotal := Round2(sum)
	tax := Round2(subtotal * TaxRate)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    Round2(subtotal + tax),
	}
}

// ItemCount sums the quantities of lines.
func ItemCount[L Line](lines []L) int {
	n := 0
	for _, l := range lines {
		n += l.LineQuantity()
	}
	return n
}

// Cents converts a rounded amount to integer minor units.
func Cents(x float64) int64 {
	return int64(math.Round(x * 100))
}

// SameCents reports whether a and b are equal to the cent.
func SameCents(a, b float64) bool {
	return Cents(a) == Cents(b)
}
