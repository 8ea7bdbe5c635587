// Player command surface. Every command validates its preconditions and
// returns an error on violation — no mutation happens on a failed check,
// and nothing here can crash the simulation.
package engine

import (
	"errors"
	"fmt"

	"github.com/talgdenn/burgage/internal/business"
	"github.com/talgdenn/burgage/internal/econ"
	"github.com/talgdenn/burgage/internal/world"
)

var (
	ErrNoSuchLot         = errors.New("no such lot")
	ErrNotOwner          = errors.New("lot not owned by business")
	ErrAlreadyLeased     = errors.New("lot already leased")
	ErrLotOccupied       = errors.New("lot already has a building")
	ErrNoBuilding        = errors.New("lot has no building")
	ErrWrongResource     = errors.New("building kind does not match lot resource")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// LeaseLot leases an unowned lot to the business.
func (s *Simulation) LeaseLot(b *business.Business, lotID uint64) error {
	lot := s.World.Lot(lotID)
	if lot == nil {
		return fmt.Errorf("%w: %d", ErrNoSuchLot, lotID)
	}
	if lot.Owner != world.Unowned {
		return fmt.Errorf("%w: %d", ErrAlreadyLeased, lotID)
	}
	if b.Ledger.Currency < econ.LeaseCost {
		return fmt.Errorf("%w: lease costs %d", ErrInsufficientFunds, econ.LeaseCost)
	}

	b.Ledger.Debit(econ.LeaseCost)
	lot.Owner = b.ID
	b.AddLot(lotID)
	s.record(s.LastTick, "lease", "%s leases lot %d", b.Name, lotID)
	return nil
}

// InstallBuilding constructs a building of the given kind on an owned,
// empty lot. Quarries must match the lot's resource endowment.
func (s *Simulation) InstallBuilding(b *business.Business, kind econ.BuildingKind, lotID uint64) error {
	lot := s.World.Lot(lotID)
	if lot == nil {
		return fmt.Errorf("%w: %d", ErrNoSuchLot, lotID)
	}
	if lot.Owner != b.ID {
		return fmt.Errorf("%w: %d", ErrNotOwner, lotID)
	}
	if lot.Building != nil {
		return fmt.Errorf("%w: %d", ErrLotOccupied, lotID)
	}
	if econ.IsQuarry(kind) {
		if !lot.HasResource {
			return fmt.Errorf("%w: lot %d has no resource", ErrWrongResource, lotID)
		}
		want, err := econ.QuarryFor(lot.Resource)
		if err != nil {
			return err
		}
		if want != kind {
			return fmt.Errorf("%w: lot %d holds %s", ErrWrongResource, lotID, econ.ResourceName(lot.Resource))
		}
	}
	cost := econ.BuildCost(kind)
	if b.Ledger.Currency < cost {
		return fmt.Errorf("%w: %s costs %d", ErrInsufficientFunds, econ.KindName(kind), cost)
	}

	b.Ledger.Debit(cost)
	lot.Building = &econ.Building{Kind: kind, Wage: wageFloor}
	s.record(s.LastTick, "build", "%s builds a %s on lot %d", b.Name, econ.KindName(kind), lotID)
	return nil
}

// SellBuilding demolishes an owned building for half its build cost.
// Its employees return to the site pool.
func (s *Simulation) SellBuilding(b *business.Business, lotID uint64) error {
	lot := s.World.Lot(lotID)
	if lot == nil {
		return fmt.Errorf("%w: %d", ErrNoSuchLot, lotID)
	}
	if lot.Owner != b.ID {
		return fmt.Errorf("%w: %d", ErrNotOwner, lotID)
	}
	if lot.Building == nil {
		return fmt.Errorf("%w: %d", ErrNoBuilding, lotID)
	}

	site := s.World.Site(lot.SiteID)
	site.Employees += lot.Building.Employees
	b.Ledger.Credit(econ.BuildCost(lot.Building.Kind) / 2)
	lot.Building = nil
	s.record(s.LastTick, "sell", "%s demolishes the building on lot %d", b.Name, lotID)
	return nil
}

// SellLease returns an owned, building-less lot to the unowned pool for
// half the lease cost. Buildings must be sold first.
func (s *Simulation) SellLease(b *business.Business, lotID uint64) error {
	lot := s.World.Lot(lotID)
	if lot == nil {
		return fmt.Errorf("%w: %d", ErrNoSuchLot, lotID)
	}
	if lot.Owner != b.ID {
		return fmt.Errorf("%w: %d", ErrNotOwner, lotID)
	}
	if lot.Building != nil {
		return fmt.Errorf("%w: sell the building first", ErrLotOccupied)
	}

	lot.Owner = world.Unowned
	b.RemoveLot(lotID)
	b.Ledger.Credit(econ.LeaseCost / 2)
	s.record(s.LastTick, "sell", "%s gives up the lease on lot %d", b.Name, lotID)
	return nil
}

// SellResource sells qty units from the business's stores at market
// price, drawing from stores in sorted site order.
func (s *Simulation) SellResource(b *business.Business, r econ.Resource, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: quantity %d", ErrInsufficientStock, qty)
	}
	if b.Ledger.TotalOf(r) < qty {
		return fmt.Errorf("%w: %d %s on hand", ErrInsufficientStock, b.Ledger.TotalOf(r), econ.ResourceName(r))
	}

	remaining := qty
	for _, siteID := range b.Ledger.StoreIDs() {
		if remaining == 0 {
			break
		}
		remaining -= b.Ledger.Withdraw(siteID, r, remaining)
	}
	proceeds := s.Market.Sell(r, qty)
	b.Ledger.Credit(proceeds)
	s.record(s.LastTick, "sell", "%s sells %d %s for %d", b.Name, qty, econ.ResourceName(r), proceeds)
	return nil
}
