package selection

import "math"

// liquidityScore = min(1, log10(max(oi,1))/3), +0.2 when the contract traded
func liquidityScore(oi, volume int) float64 {
	if oi < 1 {
		oi = 1
	}
	s := math.Min(1.0, math.Log10(float64(oi))/3)
	if volume > 0 {
		s = math.Min(1.0, s+0.2)
	}
	return s
}

// safetyScore rewards 5~10% OTM
func safetyScore(otmPct float64) float64 {
	switch {
	case otmPct < 2:
		return 0.3
	case otmPct < 5:
		return 0.7
	case otmPct <= 10:
		return 1.0
	case otmPct <= 15:
		return 0.7
	default:
		return 0.4
	}
}

// deltaScore prefers |delta| in [0.20, 0.35]; missing delta is neutral
func deltaScore(delta *float64) float64 {
	if delta == nil {
		return 0.5
	}
	d := math.Abs(*delta)
	switch {
	case d >= 0.20 && d <= 0.35:
		return 1.0
	case d >= 0.15 && d <= 0.40:
		return 0.7
	case d > 0.45:
		return 0.3
	default:
		return 0.5
	}
}

// annualized returns premium/base × 365/dte × 100
func annualized(premium, base float64, dte int) float64 {
	return premium / base * (365 / float64(dte)) * 100
}
