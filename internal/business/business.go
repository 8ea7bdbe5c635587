// Package business provides the economic actors: player- and AI-controlled
// businesses owning lots, buildings, and a ledger.
package business

import (
	"github.com/google/uuid"

	"github.com/talgdenn/burgage/internal/econ"
)

// Kind tags who controls a business. Control is dispatched explicitly in
// the tick driver, not through subclassing.
type Kind uint8

const (
	KindPlayer Kind = 0
	KindAI     Kind = 1
)

// Business is an economic actor owning lots and a ledger.
type Business struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Kind   Kind         `json:"kind"`
	Ledger *econ.Ledger `json:"ledger"`
	Lots   []uint64     `json:"lots"` // Owned lot IDs, lease order

	// AI-only policy state. Fixed at construction from the stance; only
	// panic bookkeeping touches it afterwards.
	Stance  Stance `json:"stance"`
	Policy  Policy `json:"policy"`
	InPanic bool   `json:"in_panic"`

	// Pre-panic values, restored exactly when the balance recovers.
	SavedBaseWage        int     `json:"saved_base_wage,omitempty"`
	SavedLaborCapPercent float64 `json:"saved_labor_cap_percent,omitempty"`
}

// NewPlayer creates the player-controlled business.
func NewPlayer(name string, funds int64) *Business {
	return &Business{
		ID:     uuid.New().String(),
		Name:   name,
		Kind:   KindPlayer,
		Ledger: econ.NewLedger(funds),
	}
}

// NewAI creates an AI business with policy parameters derived from its stance.
func NewAI(name string, stance Stance, funds int64) *Business {
	return &Business{
		ID:     uuid.New().String(),
		Name:   name,
		Kind:   KindAI,
		Ledger: econ.NewLedger(funds),
		Stance: stance,
		Policy: PolicyFor(stance),
	}
}

// OwnsLot reports whether the business holds the lease on a lot.
func (b *Business) OwnsLot(lotID uint64) bool {
	for _, id := range b.Lots {
		if id == lotID {
			return true
		}
	}
	return false
}

// AddLot records a newly leased lot.
func (b *Business) AddLot(lotID uint64) {
	b.Lots = append(b.Lots, lotID)
}

// RemoveLot drops a lot from the owned list, preserving lease order.
func (b *Business) RemoveLot(lotID uint64) {
	for i, id := range b.Lots {
		if id == lotID {
			b.Lots = append(b.Lots[:i], b.Lots[i+1:]...)
			return
		}
	}
}

// EnterPanic applies austerity: wage floor drops to 1 and the labor-cap
// share is halved. The originals are saved for an exact restore.
func (b *Business) EnterPanic() {
	if b.InPanic {
		return
	}
	b.InPanic = true
	b.SavedBaseWage = b.Policy.BaseWage
	b.SavedLaborCapPercent = b.Policy.LaborCapPercent
	b.Policy.BaseWage = 1
	b.Policy.LaborCapPercent /= 2
}

// ExitPanic restores the pre-panic policy values exactly.
func (b *Business) ExitPanic() {
	if !b.InPanic {
		return
	}
	b.InPanic = false
	b.Policy.BaseWage = b.SavedBaseWage
	b.Policy.LaborCapPercent = b.SavedLaborCapPercent
	b.SavedBaseWage = 0
	b.SavedLaborCapPercent = 0
}
