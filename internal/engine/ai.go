// AI decision pass — one major action per business per quarter, evaluated
// in fixed priority order: capital deployment, wage policy, selling, panic.
package engine

import (
	"log/slog"

	"github.com/talgdenn/burgage/internal/business"
	"github.com/talgdenn/burgage/internal/econ"
	"github.com/talgdenn/burgage/internal/world"
)

// DecideAI evaluates one AI business for one quarter. If capital
// deployment commits, the pass returns immediately; otherwise the wage,
// selling, and panic tiers all run as standing bookkeeping.
func (s *Simulation) DecideAI(b *business.Business, tick uint64) {
	if b.Ledger.Currency >= b.Policy.MinBuyMoney {
		if s.deployCapital(b, tick) {
			return
		}
	}

	s.adjustWages(b)
	s.sellExcess(b, tick)
	s.checkPanic(b, tick)
}

// deployCapital tries, in order: build a workshop next to a co-owned
// quarry, build a quarry on an endowed lot, lease a new lot. Returns
// true if an action committed. A catalog gap is a configuration error:
// it is logged and the whole category is skipped for this quarter.
func (s *Simulation) deployCapital(b *business.Business, tick uint64) bool {
	for _, lotID := range b.Lots {
		lot := s.World.Lot(lotID)
		if lot == nil || lot.Building != nil {
			continue
		}
		site := s.World.Site(lot.SiteID)

		// A co-owned quarry at this site without a matching workshop
		// makes this lot a workshop candidate.
		if quarry := s.coOwnedQuarryNeedingWorkshop(b, site); quarry != nil {
			kind, err := econ.WorkshopFor(econ.Produces(quarry.Kind))
			if err != nil {
				slog.Warn("capital deployment skipped", "business", b.Name, "error", err)
				return false
			}
			s.construct(b, lot, kind, tick)
			return true
		}

		if lot.HasResource {
			kind, err := econ.QuarryFor(lot.Resource)
			if err != nil {
				slog.Warn("capital deployment skipped", "business", b.Name, "error", err)
				return false
			}
			s.construct(b, lot, kind, tick)
			return true
		}
	}

	return s.leaseNewLot(b, tick)
}

// coOwnedQuarryNeedingWorkshop finds a quarry the business runs at the
// site whose output no co-owned workshop there consumes yet.
func (s *Simulation) coOwnedQuarryNeedingWorkshop(b *business.Business, site *world.Site) *econ.Building {
	if site == nil {
		return nil
	}
	for _, lot := range site.Lots {
		q := lot.Building
		if lot.Owner != b.ID || q == nil || !econ.IsQuarry(q.Kind) {
			continue
		}
		if !s.hasMatchingWorkshop(b, site, econ.Produces(q.Kind)) {
			return q
		}
	}
	return nil
}

func (s *Simulation) hasMatchingWorkshop(b *business.Business, site *world.Site, produced econ.Resource) bool {
	for _, lot := range site.Lots {
		w := lot.Building
		if lot.Owner != b.ID || w == nil || !econ.IsWorkshop(w.Kind) {
			continue
		}
		if used, ok := econ.Consumes(w.Kind); ok && used == produced {
			return true
		}
	}
	return false
}

// construct pays for and places a building on an owned, empty lot.
func (s *Simulation) construct(b *business.Business, lot *world.Lot, kind econ.BuildingKind, tick uint64) {
	b.Ledger.Debit(econ.BuildCost(kind))
	lot.Building = &econ.Building{Kind: kind, Wage: b.Policy.BaseWage}
	site := s.World.Site(lot.SiteID)
	s.record(tick, "build", "%s builds a %s at %s", b.Name, econ.KindName(kind), site.Name)
}

// leaseNewLot picks an unowned lot: resource-bearing lots beat bare ones,
// and within each class, sites where the business already operates beat
// the rest. Scan order is shuffled with the simulation RNG so competing
// AIs with identical policies don't always race for the same lot.
func (s *Simulation) leaseNewLot(b *business.Business, tick uint64) bool {
	ownedSites := make(map[uint64]bool)
	for _, lotID := range b.Lots {
		if lot := s.World.Lot(lotID); lot != nil {
			ownedSites[lot.SiteID] = true
		}
	}

	var candidates []*world.Lot
	for _, site := range s.World.Sites {
		for _, lot := range site.Lots {
			if lot.Owner == world.Unowned {
				candidates = append(candidates, lot)
			}
		}
	}
	if len(candidates) == 0 {
		return false
	}

	s.Rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	pick := func(wantResource, wantOwnedSite bool) *world.Lot {
		for _, lot := range candidates {
			if lot.HasResource != wantResource {
				continue
			}
			if wantOwnedSite && !ownedSites[lot.SiteID] {
				continue
			}
			return lot
		}
		return nil
	}

	lot := pick(true, true)
	if lot == nil {
		lot = pick(true, false)
	}
	if lot == nil {
		lot = pick(false, true)
	}
	if lot == nil {
		lot = pick(false, false)
	}
	if lot == nil {
		return false
	}

	b.Ledger.Debit(econ.LeaseCost)
	lot.Owner = b.ID
	b.AddLot(lot.ID)
	site := s.World.Site(lot.SiteID)
	s.record(tick, "lease", "%s leases a lot at %s", b.Name, site.Name)
	return true
}

// adjustWages retargets labor caps from the site pool and raises wages
// on under-staffed buildings.
func (s *Simulation) adjustWages(b *business.Business) {
	for _, lotID := range b.Lots {
		lot := s.World.Lot(lotID)
		if lot == nil || lot.Building == nil {
			continue
		}
		site := s.World.Site(lot.SiteID)
		bld := lot.Building

		bld.LaborCap = int(float64(site.Employees) * b.Policy.LaborCapPercent)

		if bld.Wage < b.Policy.BaseWage {
			bld.Wage = b.Policy.BaseWage
		} else if !b.InPanic && float64(bld.Employees) < float64(bld.LaborCap)*b.Policy.WageUpPercent {
			// Under-staffed against the target: bid labor away from the
			// neighbors. Suppressed during panic, which walks wages the
			// other way.
			bld.Wage += b.Policy.WageChange
		}
	}
}

// sellExcess dumps every store entry above the stance's hold threshold.
// Stores and resources are walked in sorted order for reproducibility.
func (s *Simulation) sellExcess(b *business.Business, tick uint64) {
	for _, siteID := range b.Ledger.StoreIDs() {
		stock := b.Ledger.Stores[siteID]
		for r := econ.Resource(0); r < econ.NumResources; r++ {
			qty := stock[r]
			if qty <= b.Policy.SellNow {
				continue
			}
			excess := qty - b.Policy.SellNow
			taken := b.Ledger.Withdraw(siteID, r, excess)
			proceeds := s.Market.Sell(r, taken)
			b.Ledger.Credit(proceeds)
			s.record(tick, "sell", "%s sells %d %s for %d", b.Name, taken, econ.ResourceName(r), proceeds)
		}
	}
}

// checkPanic engages austerity when liquidity drops below the stance
// threshold, liquidates at a third of it, and restores the original
// policy once the balance recovers.
func (s *Simulation) checkPanic(b *business.Business, tick uint64) {
	if b.Ledger.Currency >= b.Policy.PanicMoney {
		if b.InPanic {
			b.ExitPanic()
			s.record(tick, "panic", "%s recovers from panic", b.Name)
		}
		return
	}

	if !b.InPanic {
		b.EnterPanic()
		s.record(tick, "panic", "%s enters panic mode", b.Name)
	}

	// Walk wages down toward the panic floor, one step per quarter.
	for _, lotID := range b.Lots {
		lot := s.World.Lot(lotID)
		if lot == nil || lot.Building == nil {
			continue
		}
		bld := lot.Building
		if bld.Wage > b.Policy.BaseWage {
			bld.Wage -= b.Policy.WageChange
			if bld.Wage < b.Policy.BaseWage {
				bld.Wage = b.Policy.BaseWage
			}
		}
	}

	if b.Ledger.Currency < b.Policy.PanicMoney/3 {
		s.liquidate(b, tick)
	}
}

// liquidate sells the first building-bearing lot (building and lease),
// or failing that the first lease, as the business's major action.
func (s *Simulation) liquidate(b *business.Business, tick uint64) {
	if len(b.Lots) == 0 {
		return
	}

	target := b.Lots[0]
	for _, lotID := range b.Lots {
		if lot := s.World.Lot(lotID); lot != nil && lot.Building != nil {
			target = lotID
			break
		}
	}

	lot := s.World.Lot(target)
	if lot == nil {
		return
	}
	site := s.World.Site(lot.SiteID)

	if lot.Building != nil {
		refund := econ.BuildCost(lot.Building.Kind) / 2
		site.Employees += lot.Building.Employees
		lot.Building = nil
		b.Ledger.Credit(refund)
	}
	lot.Owner = world.Unowned
	b.RemoveLot(target)
	b.Ledger.Credit(econ.LeaseCost / 2)
	s.record(tick, "panic", "%s liquidates its lot at %s", b.Name, site.Name)
}
