// Package round applies the report's fixed-precision rules.
// Half-way values round to even, so 0.125 -> 0.12 and 2.5 -> 2.
package round

import "github.com/shopspring/decimal"

// To rounds x to places decimals (banker's rounding)
func To(x float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(x).RoundBank(places).Float64()
	return f
}

// Money rounds to whole currency units
func Money(x float64) float64 { return To(x, 0) }

// Pct rounds percentages, IV, yields and scores (1 decimal)
func Pct(x float64) float64 { return To(x, 1) }

// Price rounds prices, bid, ask and mid (2 decimals)
func Price(x float64) float64 { return To(x, 2) }

// Delta rounds greeks (3 decimals)
func Delta(x float64) float64 { return To(x, 3) }

// PtrDelta rounds an optional delta
func PtrDelta(x *float64) *float64 {
	if x == nil {
		return nil
	}
	v := Delta(*x)
	return &v
}

// PtrPct rounds an optional percentage
func PtrPct(x *float64) *float64 {
	if x == nil {
		return nil
	}
	v := Pct(*x)
	return &v
}
