// ColorPool hands out display colors for sites and businesses.
// Allocator state is explicit and passed to whoever needs it — there is
// no process-wide used-colors list.
package world

import (
	"fmt"
	"math/rand"
)

// ColorPool allocates distinct display colors from a fixed palette,
// falling back to random colors once the palette is exhausted.
type ColorPool struct {
	rng     *rand.Rand
	palette []string
	used    map[string]bool
}

// NewColorPool creates a pool seeded for reproducible allocation order.
func NewColorPool(rng *rand.Rand) *ColorPool {
	return &ColorPool{
		rng: rng,
		palette: []string{
			"#c0392b", "#2980b9", "#27ae60", "#8e44ad", "#d35400",
			"#16a085", "#f39c12", "#7f8c8d", "#2c3e50", "#e74c3c",
		},
		used: make(map[string]bool),
	}
}

// Next returns a color not handed out before.
func (p *ColorPool) Next() string {
	for _, c := range p.palette {
		if !p.used[c] {
			p.used[c] = true
			return c
		}
	}
	for {
		c := fmt.Sprintf("#%06x", p.rng.Intn(0x1000000))
		if !p.used[c] {
			p.used[c] = true
			return c
		}
	}
}
