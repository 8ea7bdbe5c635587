package econ

import "testing"

func TestMarketPressureLowersPrice(t *testing.T) {
	m := NewMarket()
	before := m.UnitPrice(ResourceBricks)

	m.Sell(ResourceBricks, 50)
	after := m.UnitPrice(ResourceBricks)
	if after >= before {
		t.Fatalf("price after dump = %.2f, want below %.2f", after, before)
	}

	// Price never drops below the floor no matter the volume.
	m.Sell(ResourceBricks, 100000)
	floor := m.Entries[ResourceBricks].BasePrice * priceFloorRatio
	if got := m.UnitPrice(ResourceBricks); got < floor {
		t.Fatalf("price %.2f below floor %.2f", got, floor)
	}
}

func TestMarketDecayRestoresPrice(t *testing.T) {
	m := NewMarket()
	base := m.UnitPrice(ResourceClay)
	m.Sell(ResourceClay, 200)

	for i := 0; i < 200; i++ {
		m.Decay()
	}
	if got := m.UnitPrice(ResourceClay); got != base {
		t.Fatalf("price after decay = %.2f, want %.2f", got, base)
	}
}

func TestSellProceeds(t *testing.T) {
	m := NewMarket()
	if got := m.Sell(ResourceClay, 0); got != 0 {
		t.Errorf("Sell(0) = %d, want 0", got)
	}
	// 10 clay at base price 2 before any pressure accrues.
	if got := m.Sell(ResourceClay, 10); got != 20 {
		t.Errorf("Sell(10 clay) = %d, want 20", got)
	}
}
