// Production and payroll — quarries extract, workshops refine, and every
// staffed building pays wages out of its owner's ledger.
package engine

import (
	"github.com/talgdenn/burgage/internal/econ"
	"github.com/talgdenn/burgage/internal/world"
)

// runProduction walks every building once per quarter. Wages are paid
// whether or not production lands; an owner's balance going negative is
// exactly what trips AI panic mode, so no floor applies here.
func (s *Simulation) runProduction() {
	for _, site := range s.World.Sites {
		for _, lot := range site.Lots {
			b := lot.Building
			if b == nil {
				continue
			}
			owner := s.BusinessIndex[lot.Owner]
			if owner == nil {
				continue
			}

			if b.Employees == 0 {
				continue
			}
			owner.Ledger.Debit(int64(b.Employees * b.Wage))

			if econ.IsQuarry(b.Kind) {
				s.produceQuarry(owner.Ledger, site, lot, b)
			} else {
				s.produceWorkshop(owner.Ledger, site, b)
			}
		}
	}
}

// produceQuarry extracts one unit per employee from the lot's endowment.
func (s *Simulation) produceQuarry(l *econ.Ledger, site *world.Site, lot *world.Lot, b *econ.Building) {
	if !lot.HasResource {
		return
	}
	l.Deposit(site.ID, econ.Produces(b.Kind), b.Employees)
}

// produceWorkshop converts up to one input unit per employee from the
// owner's store at the same site.
func (s *Simulation) produceWorkshop(l *econ.Ledger, site *world.Site, b *econ.Building) {
	input, ok := econ.Consumes(b.Kind)
	if !ok {
		return
	}
	got := l.Withdraw(site.ID, input, b.Employees)
	if got > 0 {
		l.Deposit(site.ID, econ.Produces(b.Kind), got)
	}
}
