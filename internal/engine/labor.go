// Labor reallocation — each site's floating pool is auctioned to its
// buildings by wage, highest first, every reallocation quarter.
package engine

import (
	"log/slog"

	"github.com/talgdenn/burgage/internal/econ"
	"github.com/talgdenn/burgage/internal/world"
)

// Employees refuse to work for nothing.
const wageFloor = 1

// maxAuctionRounds bounds the outer auction loop. Hitting it means
// pathological input, not normal operation; the partial allocation is
// kept and retried next quarter.
const maxAuctionRounds = 1000

// ReallocateLabor redistributes a site's employee pool among its
// buildings, maximizing aggregate wage paid subject to each building's
// labor cap. Labor is conserved: every employee ends the pass either
// assigned or back in the pool.
func ReallocateLabor(site *world.Site) {
	// Reclaim everyone first. Buildings with a zero cap never take part.
	var avail []*econ.Building
	for _, lot := range site.Lots {
		b := lot.Building
		if b == nil || b.LaborCap <= 0 {
			continue
		}
		site.Employees += b.Employees
		b.Employees = 0
		avail = append(avail, b)
	}
	site.ClampPool()

	rounds := 0
	for site.Employees > 0 && len(avail) > 0 {
		rounds++
		if rounds > maxAuctionRounds {
			slog.Warn("labor auction hit safety bound",
				"site", site.Name, "pool", site.Employees, "buildings", len(avail))
			break
		}

		best := 0
		for _, b := range avail {
			if b.Wage > best {
				best = b.Wage
			}
		}
		if best < wageFloor {
			break
		}

		var tied []*econ.Building
		for _, b := range avail {
			if b.Wage == best {
				tied = append(tied, b)
			}
		}

		if len(tied) == 1 {
			b := tied[0]
			take := b.LaborCap - b.Employees
			if take > site.Employees {
				take = site.Employees
			}
			b.Employees += take
			site.Employees -= take
			avail = removeBuilding(avail, b)
			continue
		}

		// Wage tie: hand out employees one at a time, round-robin,
		// dropping buildings from the tie as they fill.
		i := 0
		for site.Employees > 0 && len(tied) > 0 {
			if i >= len(tied) {
				i = 0
			}
			b := tied[i]
			if b.Employees >= b.LaborCap {
				tied = append(tied[:i], tied[i+1:]...)
				avail = removeBuilding(avail, b)
				continue
			}
			b.Employees++
			site.Employees--
			i++
		}

		// Pool ran dry with several still tied: the first remaining is
		// treated as satisfied and leaves the auction.
		if len(tied) > 1 {
			avail = removeBuilding(avail, tied[0])
		}
	}
}

func removeBuilding(list []*econ.Building, b *econ.Building) []*econ.Building {
	for i, x := range list {
		if x == b {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
