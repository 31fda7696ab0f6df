package orbit

import "math"

// dataRate implements the link budget from spec section 4.2: zero at or
// below the mask, otherwise max_rate scaled by sin(elevation) raised to
// alpha, clamped to [0, 1] before the exponent so a negative sine (which
// cannot occur above the mask for masks in [0, 90)) never produces NaN.
func dataRate(elevDeg, maxRate, alpha, mask float64) float64 {
	if elevDeg <= mask {
		return 0
	}
	s := clamp(math.Sin(elevDeg*math.Pi/180), 0, 1)
	return maxRate * math.Pow(s, alpha)
}
