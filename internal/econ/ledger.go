// Business ledger — base currency plus per-site resource stores.
package econ

import "sort"

// Stock maps resource type to on-hand quantity at one storage location.
type Stock map[Resource]int

// Ledger tracks a business's liquid currency and warehoused resources.
// Currency is signed and may go negative; a negative balance is what
// pushes AI businesses into panic mode, so no floor is enforced.
type Ledger struct {
	Currency int64            `json:"currency"`
	Stores   map[uint64]Stock `json:"stores"` // Keyed by site ID
}

// NewLedger creates a ledger with the given starting currency.
func NewLedger(currency int64) *Ledger {
	return &Ledger{
		Currency: currency,
		Stores:   make(map[uint64]Stock),
	}
}

// Credit adds currency.
func (l *Ledger) Credit(amount int64) {
	l.Currency += amount
}

// Debit removes currency. The balance may go negative.
func (l *Ledger) Debit(amount int64) {
	l.Currency -= amount
}

// Store returns the stock at a site, creating it on first use.
func (l *Ledger) Store(siteID uint64) Stock {
	s, ok := l.Stores[siteID]
	if !ok {
		s = make(Stock)
		l.Stores[siteID] = s
	}
	return s
}

// Deposit adds qty of a resource to the store at a site.
func (l *Ledger) Deposit(siteID uint64, r Resource, qty int) {
	if qty <= 0 {
		return
	}
	l.Store(siteID)[r] += qty
}

// Withdraw removes up to qty of a resource from the store at a site and
// returns how many were actually taken.
func (l *Ledger) Withdraw(siteID uint64, r Resource, qty int) int {
	if qty <= 0 {
		return 0
	}
	s, ok := l.Stores[siteID]
	if !ok {
		return 0
	}
	have := s[r]
	if have <= 0 {
		return 0
	}
	if qty > have {
		qty = have
	}
	s[r] -= qty
	if s[r] == 0 {
		delete(s, r)
	}
	return qty
}

// TotalOf returns the quantity of a resource held across all stores.
func (l *Ledger) TotalOf(r Resource) int {
	total := 0
	for _, s := range l.Stores {
		total += s[r]
	}
	return total
}

// StoreIDs returns the site IDs with stores, in ascending order.
// Passes that walk stores use this so runs with the same seed replay
// identically.
func (l *Ledger) StoreIDs() []uint64 {
	ids := make([]uint64, 0, len(l.Stores))
	for id := range l.Stores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
