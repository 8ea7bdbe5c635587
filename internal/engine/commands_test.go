package engine

import (
	"errors"
	"testing"

	"github.com/talgdenn/burgage/internal/business"
	"github.com/talgdenn/burgage/internal/econ"
	"github.com/talgdenn/burgage/internal/world"
)

func TestLeaseLotCommand(t *testing.T) {
	p := business.NewPlayer("Player", 1000)
	lot := bareLot(1)
	s := newTestSim(t, []*world.Lot{lot}, p)

	if err := s.LeaseLot(p, 1); err != nil {
		t.Fatalf("LeaseLot: %v", err)
	}
	if lot.Owner != p.ID || !p.OwnsLot(1) {
		t.Fatal("lease not recorded")
	}
	if p.Ledger.Currency != 1000-econ.LeaseCost {
		t.Errorf("currency = %d, want %d", p.Ledger.Currency, 1000-econ.LeaseCost)
	}

	// Leasing an already-leased lot fails without mutation.
	other := business.NewPlayer("Rival", 1000)
	s.BusinessIndex[other.ID] = other
	if err := s.LeaseLot(other, 1); !errors.Is(err, ErrAlreadyLeased) {
		t.Fatalf("err = %v, want ErrAlreadyLeased", err)
	}
	if other.Ledger.Currency != 1000 {
		t.Error("failed lease charged the caller")
	}
}

func TestLeaseLotInsufficientFunds(t *testing.T) {
	p := business.NewPlayer("Broke", econ.LeaseCost-1)
	lot := bareLot(1)
	s := newTestSim(t, []*world.Lot{lot}, p)

	if err := s.LeaseLot(p, 1); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	if lot.Owner != world.Unowned {
		t.Error("failed lease mutated ownership")
	}
}

func TestInstallBuildingPreconditions(t *testing.T) {
	p := business.NewPlayer("Player", 100000)
	clay := resourceLot(1, econ.ResourceClay)
	bare := bareLot(2)
	s := newTestSim(t, []*world.Lot{clay, bare}, p)

	// Not owned yet.
	if err := s.InstallBuilding(p, econ.KindClayPit, 1); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("err = %v, want ErrNotOwner", err)
	}

	own(p, clay, bare)

	// Wrong quarry for the endowment.
	if err := s.InstallBuilding(p, econ.KindIronMine, 1); !errors.Is(err, ErrWrongResource) {
		t.Fatalf("err = %v, want ErrWrongResource", err)
	}
	// Quarry on a bare lot.
	if err := s.InstallBuilding(p, econ.KindClayPit, 2); !errors.Is(err, ErrWrongResource) {
		t.Fatalf("err = %v, want ErrWrongResource", err)
	}

	// Matching quarry succeeds; a second building on the lot fails.
	if err := s.InstallBuilding(p, econ.KindClayPit, 1); err != nil {
		t.Fatalf("InstallBuilding: %v", err)
	}
	if err := s.InstallBuilding(p, econ.KindBrickworks, 1); !errors.Is(err, ErrLotOccupied) {
		t.Fatalf("err = %v, want ErrLotOccupied", err)
	}

	// Workshops go anywhere owned and empty.
	if err := s.InstallBuilding(p, econ.KindBrickworks, 2); err != nil {
		t.Fatalf("InstallBuilding workshop: %v", err)
	}
}

func TestSellBuildingReleasesWorkers(t *testing.T) {
	p := business.NewPlayer("Player", 100000)
	lot := resourceLot(1, econ.ResourceStone)
	lot.Building = &econ.Building{Kind: econ.KindStoneQuarry, LaborCap: 6, Employees: 4, Wage: 3}
	s := newTestSim(t, []*world.Lot{lot}, p)
	own(p, lot)

	site := s.World.Site(1)
	poolBefore := site.Employees
	cashBefore := p.Ledger.Currency

	if err := s.SellBuilding(p, 1); err != nil {
		t.Fatalf("SellBuilding: %v", err)
	}
	if lot.Building != nil {
		t.Fatal("building still present")
	}
	if site.Employees != poolBefore+4 {
		t.Errorf("pool = %d, want %d", site.Employees, poolBefore+4)
	}
	if p.Ledger.Currency != cashBefore+econ.QuarryCost/2 {
		t.Errorf("currency = %d, want half refund", p.Ledger.Currency)
	}

	if err := s.SellBuilding(p, 1); !errors.Is(err, ErrNoBuilding) {
		t.Fatalf("err = %v, want ErrNoBuilding", err)
	}
}

func TestSellLeaseRequiresEmptyLot(t *testing.T) {
	p := business.NewPlayer("Player", 100000)
	lot := resourceLot(1, econ.ResourceClay)
	lot.Building = &econ.Building{Kind: econ.KindClayPit, LaborCap: 5, Wage: 2}
	s := newTestSim(t, []*world.Lot{lot}, p)
	own(p, lot)

	if err := s.SellLease(p, 1); !errors.Is(err, ErrLotOccupied) {
		t.Fatalf("err = %v, want ErrLotOccupied", err)
	}

	lot.Building = nil
	if err := s.SellLease(p, 1); err != nil {
		t.Fatalf("SellLease: %v", err)
	}
	if lot.Owner != world.Unowned || p.OwnsLot(1) {
		t.Fatal("lease not released")
	}
}

func TestSellResourceCommand(t *testing.T) {
	p := business.NewPlayer("Player", 0)
	s := newTestSim(t, []*world.Lot{bareLot(1)}, p)
	p.Ledger.Deposit(1, econ.ResourceBricks, 8)

	if err := s.SellResource(p, econ.ResourceBricks, 10); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}
	if got := p.Ledger.TotalOf(econ.ResourceBricks); got != 8 {
		t.Errorf("failed sale mutated stock: %d", got)
	}

	if err := s.SellResource(p, econ.ResourceBricks, 8); err != nil {
		t.Fatalf("SellResource: %v", err)
	}
	if got := p.Ledger.TotalOf(econ.ResourceBricks); got != 0 {
		t.Errorf("bricks = %d, want 0", got)
	}
	if p.Ledger.Currency <= 0 {
		t.Error("no proceeds credited")
	}
}
