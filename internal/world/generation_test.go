package world

import (
	"math/rand"
	"testing"

	"github.com/talgdenn/burgage/internal/econ"
)

func TestGenerateShape(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Seed = 42
	w := Generate(cfg)

	if len(w.Sites) != cfg.Sites {
		t.Fatalf("sites = %d, want %d", len(w.Sites), cfg.Sites)
	}
	if w.LotCount() != cfg.Sites*cfg.Rows*cfg.Cols {
		t.Fatalf("lots = %d, want %d", w.LotCount(), cfg.Sites*cfg.Rows*cfg.Cols)
	}

	for _, s := range w.Sites {
		if s.Employees < cfg.EmployeesMin || s.Employees > cfg.EmployeesMax {
			t.Errorf("site %s pool %d outside [%d, %d]", s.Name, s.Employees, cfg.EmployeesMin, cfg.EmployeesMax)
		}
		if len(s.Neighbors) < 2 {
			t.Errorf("site %s has %d neighbors, want >= 2", s.Name, len(s.Neighbors))
		}
		for _, lot := range s.Lots {
			if lot.Owner != Unowned {
				t.Errorf("fresh lot %d owned by %q", lot.ID, lot.Owner)
			}
			if lot.HasResource && !econ.IsRaw(lot.Resource) {
				t.Errorf("lot %d endowed with refined resource %s", lot.ID, econ.ResourceName(lot.Resource))
			}
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Seed = 7

	a := Generate(cfg)
	b := Generate(cfg)

	for i, sa := range a.Sites {
		sb := b.Sites[i]
		if sa.Name != sb.Name || sa.Employees != sb.Employees || sa.Color != sb.Color {
			t.Fatalf("site %d differs between runs: %v vs %v", i, sa, sb)
		}
		for j, la := range sa.Lots {
			lb := sb.Lots[j]
			if la.HasResource != lb.HasResource || la.Resource != lb.Resource {
				t.Fatalf("lot %d differs between runs", la.ID)
			}
		}
	}
}

func TestGenerateEndowsSomeResources(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Seed = 3
	w := Generate(cfg)

	endowed := 0
	for _, lot := range w.Lots {
		if lot.HasResource {
			endowed++
		}
	}
	if endowed == 0 {
		t.Fatal("no lots endowed with resources")
	}
	if endowed == w.LotCount() {
		t.Fatal("every lot endowed — density has no effect")
	}
}

func TestColorPoolDistinct(t *testing.T) {
	p := NewColorPool(rand.New(rand.NewSource(1)))
	seen := make(map[string]bool)
	for i := 0; i < 25; i++ {
		c := p.Next()
		if seen[c] {
			t.Fatalf("color %s handed out twice", c)
		}
		seen[c] = true
	}
}
