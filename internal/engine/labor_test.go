package engine

import (
	"math/rand"
	"testing"

	"github.com/talgdenn/burgage/internal/econ"
	"github.com/talgdenn/burgage/internal/world"
)

// newTestSite builds a site with one lot per supplied building.
func newTestSite(pool int, buildings ...*econ.Building) *world.Site {
	site := &world.Site{ID: 1, Name: "Kilnford", Rows: 1, Cols: len(buildings), Employees: pool}
	for i, b := range buildings {
		site.Lots = append(site.Lots, &world.Lot{
			ID:       uint64(i + 1),
			SiteID:   1,
			Owner:    world.Unowned,
			Building: b,
		})
	}
	return site
}

func totalEmployees(s *world.Site) int {
	total := s.Employees
	for _, lot := range s.Lots {
		if lot.Building != nil {
			total += lot.Building.Employees
		}
	}
	return total
}

func TestReallocateConservesLabor(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 50; trial++ {
		var buildings []*econ.Building
		for i := 0; i < 1+rng.Intn(6); i++ {
			buildings = append(buildings, &econ.Building{
				Kind:      econ.KindClayPit,
				LaborCap:  rng.Intn(20),
				Employees: 0,
				Wage:      rng.Intn(10),
			})
		}
		site := newTestSite(rng.Intn(60), buildings...)
		before := totalEmployees(site)

		ReallocateLabor(site)

		if got := totalEmployees(site); got != before {
			t.Fatalf("trial %d: labor not conserved: %d -> %d", trial, before, got)
		}
		if site.Employees < 0 {
			t.Fatalf("trial %d: pool went negative: %d", trial, site.Employees)
		}
		for _, lot := range site.Lots {
			b := lot.Building
			if b.Employees < 0 || b.Employees > b.LaborCap {
				t.Fatalf("trial %d: employees %d outside [0, %d]", trial, b.Employees, b.LaborCap)
			}
		}
	}
}

func TestReallocateRoundRobinTie(t *testing.T) {
	// Pool of 10 split round-robin between two buildings tied at wage 5:
	// A caps out at 4, B absorbs the remaining 6.
	a := &econ.Building{Kind: econ.KindClayPit, LaborCap: 4, Wage: 5}
	b := &econ.Building{Kind: econ.KindStoneQuarry, LaborCap: 10, Wage: 5}
	site := newTestSite(10, a, b)

	ReallocateLabor(site)

	if a.Employees != 4 || b.Employees != 6 {
		t.Fatalf("employees A=%d B=%d, want A=4 B=6", a.Employees, b.Employees)
	}
	if site.Employees != 0 {
		t.Fatalf("pool = %d, want 0", site.Employees)
	}
}

func TestReallocateTieBreakDeterministic(t *testing.T) {
	// Identical wage and cap, pool of 1: the single employee must land on
	// the same building every run.
	for run := 0; run < 20; run++ {
		a := &econ.Building{Kind: econ.KindClayPit, LaborCap: 5, Wage: 3}
		b := &econ.Building{Kind: econ.KindStoneQuarry, LaborCap: 5, Wage: 3}
		site := newTestSite(1, a, b)

		ReallocateLabor(site)

		if a.Employees != 1 || b.Employees != 0 {
			t.Fatalf("run %d: employee landed on B (A=%d B=%d)", run, a.Employees, b.Employees)
		}
	}
}

func TestReallocateWagePriority(t *testing.T) {
	high := &econ.Building{Kind: econ.KindClayPit, LaborCap: 3, Wage: 8}
	low := &econ.Building{Kind: econ.KindStoneQuarry, LaborCap: 10, Wage: 2}
	site := newTestSite(5, high, low)

	ReallocateLabor(site)

	if high.Employees != 3 {
		t.Errorf("high-wage employees = %d, want 3 (filled first)", high.Employees)
	}
	if low.Employees != 2 {
		t.Errorf("low-wage employees = %d, want 2 (remainder)", low.Employees)
	}
}

func TestReallocateZeroWageRefused(t *testing.T) {
	free := &econ.Building{Kind: econ.KindClayPit, LaborCap: 10, Wage: 0}
	site := newTestSite(8, free)

	ReallocateLabor(site)

	if free.Employees != 0 {
		t.Errorf("zero-wage building got %d employees", free.Employees)
	}
	if site.Employees != 8 {
		t.Errorf("pool = %d, want 8", site.Employees)
	}
}

func TestReallocateEmptyPoolNoop(t *testing.T) {
	a := &econ.Building{Kind: econ.KindClayPit, LaborCap: 4, Wage: 5}
	site := newTestSite(0, a)

	ReallocateLabor(site)

	if a.Employees != 0 || site.Employees != 0 {
		t.Fatalf("empty-pool pass mutated state: employees=%d pool=%d", a.Employees, site.Employees)
	}
}

func TestReallocateNoBuildingsNoop(t *testing.T) {
	site := &world.Site{ID: 1, Name: "Bare", Employees: 12}
	ReallocateLabor(site)
	if site.Employees != 12 {
		t.Fatalf("pool = %d, want 12", site.Employees)
	}
}

func TestReallocateSkipsZeroCapBuildings(t *testing.T) {
	capped := &econ.Building{Kind: econ.KindClayPit, LaborCap: 0, Employees: 0, Wage: 9}
	open := &econ.Building{Kind: econ.KindStoneQuarry, LaborCap: 5, Wage: 1}
	site := newTestSite(5, capped, open)

	ReallocateLabor(site)

	if capped.Employees != 0 {
		t.Errorf("zero-cap building got %d employees", capped.Employees)
	}
	if open.Employees != 5 {
		t.Errorf("open building employees = %d, want 5", open.Employees)
	}
}
