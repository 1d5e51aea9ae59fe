package model

// Pow10 returns 10^n as a float64, for converting between an asset's smallest
// units and whole-unit amounts.
func Pow10(n int) float64 {
	p := 1.0
	for i := 0; i < n; i++ {
		p *= 10
	}
	return p
}
