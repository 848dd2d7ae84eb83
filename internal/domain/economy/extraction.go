package economy

import "strings"

// ExtractionBuilding describes one of the three fixed resource extraction
// buildings.
type ExtractionBuilding struct {
	Name           string
	ResourceType   string
	BaseMultiplier float64
	Workforce      map[string]int
	Area           int
	Expertise      string
}

// ExtractionBuildings holds the fixed extraction building specifications.
var ExtractionBuildings = map[string]ExtractionBuilding{
	"EXT": {
		Name:           "Extractor",
		ResourceType:   "MINERAL",
		BaseMultiplier: 0.7,
		Workforce:      map[string]int{"Pioneers": 60},
		Area:           25,
		Expertise:      "RESOURCE_EXTRACTION",
	},
	"RIG": {
		Name:           "Rig",
		ResourceType:   "GASEOUS",
		BaseMultiplier: 0.7,
		Workforce:      map[string]int{"Pioneers": 30},
		Area:           10,
		Expertise:      "RESOURCE_EXTRACTION",
	},
	"COL": {
		Name:           "Collector",
		ResourceType:   "LIQUID",
		BaseMultiplier: 0.6,
		Workforce:      map[string]int{"Pioneers": 50},
		Area:           15,
		Expertise:      "RESOURCE_EXTRACTION",
	},
}

// resourceTypeToBuilding maps FIO resource types to the extraction building
// that works them. FIO uses ATMOSPHERIC for gases.
var resourceTypeToBuilding = map[string]string{
	"MINERAL":     "EXT",
	"GASEOUS":     "RIG",
	"ATMOSPHERIC": "RIG",
	"LIQUID":      "COL",
}

// IsExtractionBuilding reports whether ticker names one of the fixed
// extraction buildings.
func IsExtractionBuilding(ticker string) bool {
	_, ok := ExtractionBuildings[strings.ToUpper(ticker)]
	return ok
}

// BuildingForResourceType returns the extraction building ticker for a FIO
// resource type, or false for an unknown type.
func BuildingForResourceType(resourceType string) (string, bool) {
	ticker, ok := resourceTypeToBuilding[strings.ToUpper(resourceType)]
	return ticker, ok
}

// ExtractionOutput computes daily extraction output:
//
//	daily = (factor * 100) * baseMultiplier * efficiency * count
//
// Returns 0 for an unknown resource type. Extraction has no input side;
// the output is pure yield.
func ExtractionOutput(factor, efficiency float64, count int, resourceType string) float64 {
	buildingTicker, ok := BuildingForResourceType(resourceType)
	if !ok {
		return 0
	}
	spec := ExtractionBuildings[buildingTicker]
	return factor * 100 * spec.BaseMultiplier * efficiency * float64(count)
}
