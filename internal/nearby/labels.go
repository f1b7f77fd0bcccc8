package nearby

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const fallbackLabel = "Accessible Place"

// categoryKeys is the priority order for both labels and the type list.
var categoryKeys = []string{"amenity", "highway", "leisure", "shop"}

var addressKeys = []string{"addr:street", "addr:full", "addr:place"}

var labels = map[string]string{
	"bench":         "Seating / Rest Spot",
	"toilets":       "Public Washroom",
	"shelter":       "Shelter / Rest Area",
	"hospital":      "Hospital (Has Washrooms)",
	"clinic":        "Clinic (Has Washrooms)",
	"pharmacy":      "Pharmacy",
	"doctors":       "Doctor",
	"health_centre": "Health Centre",
	"park":          "Park",
	"elevator":      "Elevator",
	"cafe":          "Café (Has Washrooms)",
	"restaurant":    "Restaurant (Has Washrooms)",
	"mall":          "Shopping Mall (Has Washrooms)",
}

// displayName prefers the element's own name, title-cased, then a label
// for the first recognised category tag.
func displayName(tags map[string]string) string {
	if name := tags["name"]; name != "" {
		// Casers keep state and must not be shared across goroutines.
		return cases.Title(language.Und).String(name)
	}
	for _, key := range categoryKeys {
		if label, ok := labels[tags[key]]; ok {
			return label
		}
	}
	return fallbackLabel
}

func address(tags map[string]string) string {
	for _, key := range addressKeys {
		if v := tags[key]; v != "" {
			return v
		}
	}
	return ""
}

func categoryTypes(tags map[string]string) []string {
	types := []string{}
	for _, key := range categoryKeys {
		if v := tags[key]; v != "" {
			types = append(types, v)
		}
	}
	return types
}
