// World market — per-resource pricing with sale pressure.
// Each sale pushes the unit price down; pressure decays every quarter,
// so prices recover when nobody is dumping stock.
package econ

import "math"

// PriceEntry holds the pricing state for one resource.
type PriceEntry struct {
	Resource  Resource `json:"resource"`
	BasePrice float64  `json:"base_price"`
	Pressure  float64  `json:"pressure"` // Accumulated recent sale volume
}

// Market resolves sale proceeds for every resource.
type Market struct {
	Entries map[Resource]*PriceEntry `json:"entries"`
}

// Price bounds and drift, as ratios of base price.
const (
	priceFloorRatio   = 0.25
	priceCeilingRatio = 4.0
	pressureWeight    = 0.05 // Price divisor grows this much per unit sold
	pressureDecay     = 0.9  // Retained pressure per quarter
)

// NewMarket creates a market with base prices for all resources.
func NewMarket() *Market {
	basePrices := map[Resource]float64{
		ResourceClay:    2,
		ResourceStone:   3,
		ResourceIronOre: 4,
		ResourceTimber:  3,
		ResourceSand:    2,
		ResourceBricks:  8,
		ResourceBlocks:  9,
		ResourceIron:    12,
		ResourcePlanks:  7,
		ResourceGlass:   14,
	}

	entries := make(map[Resource]*PriceEntry, len(basePrices))
	for r, base := range basePrices {
		entries[r] = &PriceEntry{Resource: r, BasePrice: base}
	}
	return &Market{Entries: entries}
}

// UnitPrice returns the current price for one unit of a resource,
// bounded by the floor and ceiling ratios.
func (m *Market) UnitPrice(r Resource) float64 {
	e, ok := m.Entries[r]
	if !ok {
		return 0
	}
	price := e.BasePrice / (1 + e.Pressure*pressureWeight)
	if floor := e.BasePrice * priceFloorRatio; price < floor {
		price = floor
	}
	if ceiling := e.BasePrice * priceCeilingRatio; price > ceiling {
		price = ceiling
	}
	return price
}

// Sell records a sale of qty units and returns the proceeds.
func (m *Market) Sell(r Resource, qty int) int64 {
	if qty <= 0 {
		return 0
	}
	e, ok := m.Entries[r]
	if !ok {
		return 0
	}
	proceeds := int64(math.Round(float64(qty) * m.UnitPrice(r)))
	e.Pressure += float64(qty)
	return proceeds
}

// Decay relaxes sale pressure. Called once per quarter.
func (m *Market) Decay() {
	for _, e := range m.Entries {
		e.Pressure *= pressureDecay
		if e.Pressure < 0.01 {
			e.Pressure = 0
		}
	}
}
