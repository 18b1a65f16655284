package pricing

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// DefaultWeightKg is assumed per unit when a product carries no
	// parseable weight descriptor.
	DefaultWeightKg = 0.2

	baseShippingFee = 350
	perExtraKgFee   = 80
	freeWeightKg    = 1.0
)

// Line is one priced row of a cart or order request.
type Line struct {
	UnitPrice float64
	Quantity  int
	Weight    string
}

// Quote is the full server-side price breakdown for a set of lines.
type Quote struct {
	ItemsPrice    float64
	ShippingPrice float64
	TotalPrice    float64
	TotalWeightKg float64
}

// ParseWeight resolves a weight descriptor such as "340g", "1.5kg" or
// "500g jar" to kilograms per unit. The leading numeric magnitude is taken;
// trailing words after the unit are ignored. Descriptors are matched
// case-insensitively; "kg" is checked first since it also contains the gram
// marker. Missing or unparseable descriptors fall back to DefaultWeightKg.
func ParseWeight(descriptor string) float64 {
	w := strings.ToLower(strings.TrimSpace(descriptor))

	v, ok := leadingNumber(w)
	if !ok || v <= 0 {
		return DefaultWeightKg
	}

	switch {
	case strings.Contains(w, "kg"):
		return v
	case strings.Contains(w, "g"):
		return v / 1000
	}

	return DefaultWeightKg
}

// leadingNumber parses the numeric prefix of s, skipping leading spaces.
func leadingNumber(s string) (float64, bool) {
	s = strings.TrimLeft(s, " ")
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || s[end] == '.') {
		end++
	}
	if end == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ItemsTotal sums unit price times quantity over all lines.
func ItemsTotal(lines []Line) float64 {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(
			decimal.NewFromFloat(l.UnitPrice).Mul(decimal.NewFromInt(int64(l.Quantity))),
		)
	}
	return total.InexactFloat64()
}

// TotalWeight accumulates the resolved per-unit mass of every line.
func TotalWeight(lines []Line) float64 {
	var kg float64
	for _, l := range lines {
		kg += ParseWeight(l.Weight) * float64(l.Quantity)
	}
	return kg
}

// ShippingFee applies the flat-plus-tiered delivery policy: the first
// kilogram rides on the base fee, every started kilogram above it adds a
// full extra-weight tier.
func ShippingFee(totalWeightKg float64) float64 {
	if totalWeightKg <= freeWeightKg {
		return baseShippingFee
	}
	extra := math.Ceil(totalWeightKg - freeWeightKg)
	return baseShippingFee + extra*perExtraKgFee
}

// Calculate prices a set of lines. Every price-sensitive path (cart
// display, checkout preview, order creation) goes through here so displayed
// and persisted totals cannot diverge.
func Calculate(lines []Line) Quote {
	items := ItemsTotal(lines)
	weight := TotalWeight(lines)
	shipping := ShippingFee(weight)

	return Quote{
		ItemsPrice:    items,
		ShippingPrice: shipping,
		TotalPrice: decimal.NewFromFloat(items).
			Add(decimal.NewFromFloat(shipping)).
			InexactFloat64(),
		TotalWeightKg: weight,
	}
}
