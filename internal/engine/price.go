package engine

import (
	"github.com/donaldgifford/automerch/internal/provider"
)

// CharmPrice returns the smallest price ending in .99 that is not below p.
// Negative prices are clamped to 0.99.
func CharmPrice(p float64) float64 {
	cents := provider.ToMinorUnits(p)
	if cents < 0 {
		cents = 0
	}
	return provider.FromMinorUnits(cents/100*100+99, 100)
}
