// Simulation ties the registry, businesses, and market together and runs
// the tick passes in a fixed order.
package engine

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/talgdenn/burgage/internal/business"
	"github.com/talgdenn/burgage/internal/econ"
	"github.com/talgdenn/burgage/internal/world"
)

// Simulation holds the complete world state and wires the passes together.
// All mutation happens on the tick goroutine; readers (the API) take the
// lock via Lock/Unlock.
type Simulation struct {
	World         *world.World
	Businesses    []*business.Business // Registration order
	BusinessIndex map[string]*business.Business
	Market        *econ.Market
	Rand          *rand.Rand // Seeded; all stochastic choices draw from it
	Events        []Event
	LastTick      uint64
	Stats         SimStats

	// ReallocateEvery controls how many quarters pass between labor
	// reallocations. Default 1.
	ReallocateEvery uint64

	mu sync.Mutex
}

// Event is a notable occurrence in the world.
type Event struct {
	Tick        uint64 `json:"tick"`
	Description string `json:"description"`
	Category    string `json:"category"` // "lease", "build", "sell", "panic", "anomaly"
}

// SimStats tracks aggregate world statistics, refreshed daily.
type SimStats struct {
	TotalCurrency int64 `json:"total_currency"`
	LeasedLots    int   `json:"leased_lots"`
	Buildings     int   `json:"buildings"`
	Employed      int   `json:"employed"`
	Pooled        int   `json:"pooled"`
}

// NewSimulation creates a simulation over a generated world.
func NewSimulation(w *world.World, businesses []*business.Business, seed int64) *Simulation {
	index := make(map[string]*business.Business, len(businesses))
	for _, b := range businesses {
		index[b.ID] = b
	}
	s := &Simulation{
		World:           w,
		Businesses:      businesses,
		BusinessIndex:   index,
		Market:          econ.NewMarket(),
		Rand:            rand.New(rand.NewSource(seed)),
		ReallocateEvery: 1,
	}
	s.updateStats()
	return s
}

// Lock serializes API access against the tick goroutine.
func (s *Simulation) Lock() { s.mu.Lock() }

// Unlock releases the simulation lock.
func (s *Simulation) Unlock() { s.mu.Unlock() }

// CurrentTick returns the most recently processed quarter.
func (s *Simulation) CurrentTick() uint64 {
	return s.LastTick
}

// TickQuarter runs one quarter: labor reallocation for every site in
// registry order, then production and payroll, then one decision pass
// per AI business in registration order. Strictly sequential — no pass
// overlaps another.
func (s *Simulation) TickQuarter(tick uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.LastTick = tick

	if s.ReallocateEvery > 0 && tick%s.ReallocateEvery == 0 {
		for _, site := range s.World.Sites {
			ReallocateLabor(site)
		}
	}

	s.runProduction()
	s.Market.Decay()

	for _, b := range s.Businesses {
		if b.Kind == business.KindAI {
			s.DecideAI(b, tick)
		}
	}
}

// TickDay refreshes statistics and emits the daily report.
func (s *Simulation) TickDay(tick uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.updateStats()

	slog.Info("daily report",
		"tick", tick,
		"day", tick/QuartersPerDay,
		"currency", humanize.Comma(s.Stats.TotalCurrency),
		"leased", s.Stats.LeasedLots,
		"buildings", s.Stats.Buildings,
		"employed", s.Stats.Employed,
		"pooled", s.Stats.Pooled,
	)

	// Keep the event ring bounded.
	if len(s.Events) > 1000 {
		s.Events = s.Events[len(s.Events)-1000:]
	}
}

// record appends an event and logs it.
func (s *Simulation) record(tick uint64, category, format string, args ...any) {
	desc := fmt.Sprintf(format, args...)
	s.Events = append(s.Events, Event{Tick: tick, Description: desc, Category: category})
	slog.Info("event", "tick", tick, "category", category, "description", desc)
}

func (s *Simulation) updateStats() {
	stats := SimStats{}
	for _, b := range s.Businesses {
		stats.TotalCurrency += b.Ledger.Currency
	}
	for _, site := range s.World.Sites {
		stats.Pooled += site.Employees
		for _, lot := range site.Lots {
			if lot.Owner != world.Unowned {
				stats.LeasedLots++
			}
			if lot.Building != nil {
				stats.Buildings++
				stats.Employed += lot.Building.Employees
			}
		}
	}
	s.Stats = stats
}
