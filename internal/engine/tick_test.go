package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/talgdenn/burgage/internal/business"
	"github.com/talgdenn/burgage/internal/world"
)

func newSeededWorld() *world.World {
	cfg := world.DefaultGenConfig()
	cfg.Seed = 5
	return world.Generate(cfg)
}

func newSeededBusinesses() []*business.Business {
	return []*business.Business{
		business.NewAI("Kilnford Clayworks", business.StanceAggressive, 8000),
		business.NewAI("Dalewick Traders", business.StanceNeutral, 8000),
		business.NewAI("Stonewell & Co", business.StancePassive, 8000),
	}
}

func TestEngineStepFiresCallbacks(t *testing.T) {
	e := NewEngine()
	quarters := 0
	days := 0
	e.OnQuarter = func(uint64) { quarters++ }
	e.OnDay = func(uint64) { days++ }

	for i := 0; i < QuartersPerDay*3; i++ {
		e.Step()
	}

	if quarters != QuartersPerDay*3 {
		t.Errorf("quarters = %d, want %d", quarters, QuartersPerDay*3)
	}
	if days != 3 {
		t.Errorf("days = %d, want 3", days)
	}
	if e.Tick != uint64(QuartersPerDay*3) {
		t.Errorf("tick = %d, want %d", e.Tick, QuartersPerDay*3)
	}
}

func TestEngineSpeedSafeAcrossGoroutines(t *testing.T) {
	// Speed is written by the admin API while the tick loop reads it.
	e := NewEngine()
	var wg sync.WaitGroup
	for i := 1; i <= 4; i++ {
		wg.Add(1)
		go func(v float64) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				e.SetSpeed(v)
				if got := e.Speed(); got < 1 || got > 4 {
					t.Errorf("Speed() = %v, want one of the written values", got)
					return
				}
			}
		}(float64(i))
	}
	wg.Wait()
}

func TestEngineStopHaltsRun(t *testing.T) {
	e := NewEngine()
	e.Interval = time.Millisecond
	e.OnQuarter = func(tick uint64) {
		if tick >= 3 {
			e.Stop()
		}
	}

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not halt after Stop")
	}
	if e.Running() {
		t.Error("Running() = true after Run returned")
	}
}

func TestSimulationTickOrderDeterministic(t *testing.T) {
	// Two simulations from the same seed must evolve identically.
	run := func() *Simulation {
		b := newSeededBusinesses()
		w := newSeededWorld()
		s := NewSimulation(w, b, 99)
		for tick := uint64(1); tick <= 40; tick++ {
			s.TickQuarter(tick)
		}
		return s
	}

	a := run()
	b := run()

	for i, ba := range a.Businesses {
		bb := b.Businesses[i]
		if ba.Ledger.Currency != bb.Ledger.Currency {
			t.Fatalf("business %d currency diverged: %d vs %d", i, ba.Ledger.Currency, bb.Ledger.Currency)
		}
		if len(ba.Lots) != len(bb.Lots) {
			t.Fatalf("business %d lot count diverged", i)
		}
	}
	for i, sa := range a.World.Sites {
		if sa.Employees != b.World.Sites[i].Employees {
			t.Fatalf("site %d pool diverged", i)
		}
	}
}
