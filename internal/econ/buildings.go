// Building catalog — quarry and workshop kinds with their resource
// compatibility tables. Kinds are explicit tags; nothing in the engine
// inspects concrete types to tell buildings apart.
package econ

import (
	"errors"
	"fmt"
)

// BuildingKind enumerates every constructible building variant.
type BuildingKind uint8

const (
	KindClayPit     BuildingKind = iota // Quarry — clay
	KindStoneQuarry                     // Quarry — stone
	KindIronMine                        // Quarry — iron ore
	KindLumberCamp                      // Quarry — timber
	KindSandPit                         // Quarry — sand
	KindBrickworks                      // Workshop — clay → bricks
	KindStonecutter                     // Workshop — stone → blocks
	KindSmelter                         // Workshop — iron ore → iron
	KindSawmill                         // Workshop — timber → planks
	KindGlassworks                      // Workshop — sand → glass
)

// NumKinds is the total number of building kinds.
const NumKinds = 10

// ErrNoMapping is returned when a resource has no registered building
// variant. Callers must treat it as recoverable.
var ErrNoMapping = errors.New("no building mapping for resource")

// Building is a workplace on a lot. At most one exists per lot.
type Building struct {
	Kind      BuildingKind `json:"kind"`
	LaborCap  int          `json:"labor_cap"` // Max employees
	Employees int          `json:"employees"` // Current, always <= LaborCap
	Wage      int          `json:"wage"`      // Per employee per quarter
}

var kindNames = [NumKinds]string{
	"clay pit", "stone quarry", "iron mine", "lumber camp", "sand pit",
	"brickworks", "stonecutter", "smelter", "sawmill", "glassworks",
}

// KindName returns the display name for a building kind.
func KindName(k BuildingKind) string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind resolves a display name back to a kind, for the command API.
func ParseKind(name string) (BuildingKind, error) {
	for i, n := range kindNames {
		if n == name {
			return BuildingKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown building kind %q", name)
}

// IsQuarry reports whether a kind extracts a raw resource from its lot.
func IsQuarry(k BuildingKind) bool {
	return k <= KindSandPit
}

// IsWorkshop reports whether a kind refines a raw resource.
func IsWorkshop(k BuildingKind) bool {
	return k >= KindBrickworks && k < NumKinds
}

// kindOutputs maps each kind to the resource it deposits.
var kindOutputs = [NumKinds]Resource{
	ResourceClay, ResourceStone, ResourceIronOre, ResourceTimber, ResourceSand,
	ResourceBricks, ResourceBlocks, ResourceIron, ResourcePlanks, ResourceGlass,
}

// kindInputs maps workshop kinds to the raw resource they consume.
var kindInputs = map[BuildingKind]Resource{
	KindBrickworks:  ResourceClay,
	KindStonecutter: ResourceStone,
	KindSmelter:     ResourceIronOre,
	KindSawmill:     ResourceTimber,
	KindGlassworks:  ResourceSand,
}

// Produces returns the resource a kind outputs.
func Produces(k BuildingKind) Resource {
	return kindOutputs[k]
}

// Consumes returns the input resource for workshop kinds.
// The second return is false for quarries.
func Consumes(k BuildingKind) (Resource, bool) {
	r, ok := kindInputs[k]
	return r, ok
}

var quarryFor = map[Resource]BuildingKind{
	ResourceClay:    KindClayPit,
	ResourceStone:   KindStoneQuarry,
	ResourceIronOre: KindIronMine,
	ResourceTimber:  KindLumberCamp,
	ResourceSand:    KindSandPit,
}

var workshopFor = map[Resource]BuildingKind{
	ResourceClay:    KindBrickworks,
	ResourceStone:   KindStonecutter,
	ResourceIronOre: KindSmelter,
	ResourceTimber:  KindSawmill,
	ResourceSand:    KindGlassworks,
}

// QuarryFor returns the quarry variant that extracts the given resource.
func QuarryFor(r Resource) (BuildingKind, error) {
	k, ok := quarryFor[r]
	if !ok {
		return 0, fmt.Errorf("%w: quarry for %s", ErrNoMapping, ResourceName(r))
	}
	return k, nil
}

// WorkshopFor returns the workshop variant that consumes the given resource.
func WorkshopFor(r Resource) (BuildingKind, error) {
	k, ok := workshopFor[r]
	if !ok {
		return 0, fmt.Errorf("%w: workshop for %s", ErrNoMapping, ResourceName(r))
	}
	return k, nil
}

// Construction and leasing costs in base currency.
const (
	LeaseCost    = 500
	QuarryCost   = 2000
	WorkshopCost = 3000
)

// BuildCost returns the construction cost for a kind.
func BuildCost(k BuildingKind) int64 {
	if IsQuarry(k) {
		return QuarryCost
	}
	return WorkshopCost
}
