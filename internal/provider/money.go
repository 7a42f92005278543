package provider

import "math"

// ToMinorUnits converts a decimal price to integer cents, rounding half away from zero.
func ToMinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}

// FromMinorUnits converts an integer amount with the given divisor back to a
// decimal price. A divisor of zero is treated as 100.
func FromMinorUnits(amount int64, divisor int64) float64 {
	if divisor == 0 {
		divisor = 100
	}
	return float64(amount) / float64(divisor)
}
