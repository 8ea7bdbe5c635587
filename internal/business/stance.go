// Stance parameterization — the discrete personality archetypes that fix
// an AI business's policy at construction.
package business

// Stance is an AI personality archetype.
type Stance uint8

const (
	StanceNeutral    Stance = 0
	StanceAggressive Stance = 1
	StancePassive    Stance = 2
)

// NumStances is the number of stance archetypes.
const NumStances = 3

// StanceName returns the display name for a stance.
func StanceName(s Stance) string {
	switch s {
	case StanceAggressive:
		return "aggressive"
	case StancePassive:
		return "passive"
	default:
		return "neutral"
	}
}

// Policy holds the decision parameters an AI business runs on.
type Policy struct {
	LaborCapPercent float64 `json:"labor_cap_percent"` // Share of site pool targeted per building
	BaseWage        int     `json:"base_wage"`         // Wage floor
	WageChange      int     `json:"wage_change"`       // Wage step per adjustment
	WageUpPercent   float64 `json:"wage_up_percent"`   // Staffing share below which wage rises
	SellNow         int     `json:"sell_now"`          // Inventory held back before selling
	MinBuyMoney     int64   `json:"min_buy_money"`     // Balance required before deploying capital
	PanicMoney      int64   `json:"panic_money"`       // Balance below which panic mode engages
}

// Capital-deployment threshold base; stances offset it.
const minBuyBase = 5000

// policies maps each stance to its fixed parameter set. Aggressive runs
// hot: full labor cap, rock-bottom wage floor, fast escalation, sells
// everything, tolerates a thin cushion. Passive is the opposite pole and
// Neutral sits at the midpoints.
var policies = [NumStances]Policy{
	StanceNeutral: {
		LaborCapPercent: 0.65,
		BaseWage:        5,
		WageChange:      2,
		WageUpPercent:   0.6,
		SellNow:         50,
		MinBuyMoney:     minBuyBase + 1000,
		PanicMoney:      1000,
	},
	StanceAggressive: {
		LaborCapPercent: 1.0,
		BaseWage:        1,
		WageChange:      3,
		WageUpPercent:   0.2,
		SellNow:         0,
		MinBuyMoney:     minBuyBase + 0,
		PanicMoney:      500,
	},
	StancePassive: {
		LaborCapPercent: 0.3,
		BaseWage:        10,
		WageChange:      1,
		WageUpPercent:   1.0,
		SellNow:         100,
		MinBuyMoney:     minBuyBase + 2000,
		PanicMoney:      1500,
	},
}

// PolicyFor returns the parameter set for a stance.
func PolicyFor(s Stance) Policy {
	if int(s) < len(policies) {
		return policies[s]
	}
	return policies[StanceNeutral]
}
