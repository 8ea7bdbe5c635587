// Package world provides the site/lot registry: ownership, labor pools,
// and the geometry-free neighbor topology between sites.
package world

import (
	"fmt"

	"github.com/talgdenn/burgage/internal/econ"
)

// Unowned is the sentinel owner ID for lots no business has leased.
const Unowned = "unowned"

// Lot is a leasable unit of land within a site. It may be endowed with a
// raw resource at generation and improved with at most one building.
type Lot struct {
	ID          uint64         `json:"id"`
	SiteID      uint64         `json:"site_id"`
	Owner       string         `json:"owner"` // Business ID, Unowned by default
	Resource    econ.Resource  `json:"resource"`
	HasResource bool           `json:"has_resource"`
	Building    *econ.Building `json:"building,omitempty"`
}

// Site is a named cluster of lots sharing one floating labor pool.
// Sites are created at generation and never destroyed.
type Site struct {
	ID        uint64   `json:"id"`
	Name      string   `json:"name"`
	Color     string   `json:"color"`
	Rows      int      `json:"rows"`
	Cols      int      `json:"cols"`
	Lots      []*Lot   `json:"lots"`
	Employees int      `json:"employees"` // Floating pool, clamped >= 0
	Neighbors []uint64 `json:"neighbors"` // Site IDs, topology only
}

// ClampPool floors the employee pool at zero. Pool arithmetic during
// reallocation must never leave a negative count behind.
func (s *Site) ClampPool() {
	if s.Employees < 0 {
		s.Employees = 0
	}
}

// String returns a summary of the site.
func (s *Site) String() string {
	return fmt.Sprintf("Site(%s, %dx%d lots, pool=%d)", s.Name, s.Rows, s.Cols, s.Employees)
}

// World owns the ordered site collection and the global lot registry.
type World struct {
	Sites     []*Site          `json:"sites"`
	SiteIndex map[uint64]*Site `json:"-"`
	Lots      map[uint64]*Lot  `json:"-"` // Lot ID → lot, spanning all sites
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{
		SiteIndex: make(map[uint64]*Site),
		Lots:      make(map[uint64]*Lot),
	}
}

// AddSite registers a site and its lots. Sites keep registration order;
// tick passes iterate them in that order for reproducibility.
func (w *World) AddSite(s *Site) {
	w.Sites = append(w.Sites, s)
	w.SiteIndex[s.ID] = s
	for _, lot := range s.Lots {
		w.Lots[lot.ID] = lot
	}
}

// Site returns the site with the given ID, or nil.
func (w *World) Site(id uint64) *Site {
	return w.SiteIndex[id]
}

// Lot returns the lot with the given ID, or nil.
func (w *World) Lot(id uint64) *Lot {
	return w.Lots[id]
}

// LotCount returns the total number of lots across all sites.
func (w *World) LotCount() int {
	return len(w.Lots)
}
