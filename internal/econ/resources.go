// Package econ provides the resource catalog, building catalog, business
// ledgers, and the world market.
package econ

// Resource enumerates raw and refined resource types.
type Resource uint8

const (
	ResourceClay    Resource = iota // Raw — brickmaking
	ResourceStone                   // Raw — masonry
	ResourceIronOre                 // Raw — smelting
	ResourceTimber                  // Raw — sawmilling
	ResourceSand                    // Raw — glassmaking
	ResourceBricks                  // Refined from clay
	ResourceBlocks                  // Refined from stone
	ResourceIron                    // Refined from iron ore
	ResourcePlanks                  // Refined from timber
	ResourceGlass                   // Refined from sand
)

// NumResources is the total number of resource types.
const NumResources = 10

// resourceNames maps each resource to its display name.
var resourceNames = [NumResources]string{
	"clay", "stone", "iron ore", "timber", "sand",
	"bricks", "blocks", "iron", "planks", "glass",
}

// ResourceName returns the display name for a resource.
func ResourceName(r Resource) string {
	if int(r) < len(resourceNames) {
		return resourceNames[r]
	}
	return "unknown"
}

// IsRaw reports whether a resource can be endowed on a lot and extracted
// by a quarry. Refined resources only ever exist in ledgers.
func IsRaw(r Resource) bool {
	return r <= ResourceSand
}

// RawResources lists the lot-assignable resources in catalog order.
func RawResources() []Resource {
	return []Resource{ResourceClay, ResourceStone, ResourceIronOre, ResourceTimber, ResourceSand}
}
