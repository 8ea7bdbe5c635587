// World generation — lays resource veins across site lot grids with
// layered simplex noise and wires up the site neighbor topology.
package world

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgdenn/burgage/internal/econ"
)

// GenConfig holds world generation parameters.
type GenConfig struct {
	Sites           int     // Number of sites
	Rows            int     // Lot grid rows per site
	Cols            int     // Lot grid columns per site
	Seed            int64   // Random seed (0 = random)
	EmployeesMin    int     // Lower bound for a site's starting pool
	EmployeesMax    int     // Upper bound for a site's starting pool
	ResourceDensity float64 // Share of lots endowed with a resource (0–1)
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Sites:           5,
		Rows:            4,
		Cols:            5,
		Seed:            0,
		EmployeesMin:    40,
		EmployeesMax:    120,
		ResourceDensity: 0.45,
	}
}

// Generate creates a complete world: sites, lots, resource endowment,
// labor pools, colors, and neighbor links.
func Generate(cfg GenConfig) *World {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed))

	// Two noise layers: one decides whether a lot carries a resource,
	// the other which raw resource the vein holds.
	veinNoise := opensimplex.NewNormalized(seed)
	typeNoise := opensimplex.NewNormalized(seed + 1)

	w := NewWorld()
	pool := NewColorPool(rng)
	names := generateNames(rng, cfg.Sites)
	raw := econ.RawResources()

	var nextLot uint64 = 1
	for i := 0; i < cfg.Sites; i++ {
		siteID := uint64(i + 1)
		site := &Site{
			ID:        siteID,
			Name:      names[i],
			Color:     pool.Next(),
			Rows:      cfg.Rows,
			Cols:      cfg.Cols,
			Employees: cfg.EmployeesMin + rng.Intn(cfg.EmployeesMax-cfg.EmployeesMin+1),
		}

		// Offset each site into its own region of noise space so veins
		// differ between sites generated from the same seed.
		ox := float64(i) * 31.7
		for r := 0; r < cfg.Rows; r++ {
			for c := 0; c < cfg.Cols; c++ {
				lot := &Lot{
					ID:     nextLot,
					SiteID: siteID,
					Owner:  Unowned,
				}
				nextLot++

				x := ox + float64(c)*0.9
				y := float64(r) * 0.9
				if veinNoise.Eval2(x, y) < cfg.ResourceDensity {
					band := typeNoise.Eval2(x*0.5, y*0.5)
					idx := int(band * float64(len(raw)))
					if idx >= len(raw) {
						idx = len(raw) - 1
					}
					lot.Resource = raw[idx]
					lot.HasResource = true
				}
				site.Lots = append(site.Lots, lot)
			}
		}
		w.AddSite(site)
	}

	linkNeighbors(w, rng)
	return w
}

// linkNeighbors wires each site to its ring neighbors plus one random
// extra link. Topology only — sites have no coordinates.
func linkNeighbors(w *World, rng *rand.Rand) {
	n := len(w.Sites)
	if n < 2 {
		return
	}
	for i, s := range w.Sites {
		prev := w.Sites[(i+n-1)%n]
		next := w.Sites[(i+1)%n]
		addNeighbor(s, prev.ID)
		addNeighbor(s, next.ID)
	}
	for _, s := range w.Sites {
		other := w.Sites[rng.Intn(n)]
		if other.ID != s.ID {
			addNeighbor(s, other.ID)
			addNeighbor(other, s.ID)
		}
	}
}

func addNeighbor(s *Site, id uint64) {
	for _, existing := range s.Neighbors {
		if existing == id {
			return
		}
	}
	s.Neighbors = append(s.Neighbors, id)
}

// generateNames produces procedural site names by combining syllables.
func generateNames(rng *rand.Rand, count int) []string {
	prefixes := []string{
		"Kiln", "Quarry", "Ore", "Timber", "Sand", "Brick", "Mill",
		"Forge", "Stone", "Clay", "Iron", "Glass", "Ash", "Cross",
		"High", "Low", "Old", "New", "Gold", "Copper", "River", "Elm",
	}
	suffixes := []string{
		"holt", "ford", "wick", "bridge", "gate", "stead", "field",
		"dale", "vale", "port", "town", "bury", "well", "brook",
		"ridge", "march", "haven", "fall", "reach", "mark",
	}

	used := make(map[string]bool)
	names := make([]string, 0, count)
	for len(names) < count {
		name := prefixes[rng.Intn(len(prefixes))] + suffixes[rng.Intn(len(suffixes))]
		if !used[name] {
			used[name] = true
			names = append(names, name)
		}
	}
	return names
}
