package maps

import (
	"fmt"
	"strconv"
	"strings"
)

// SearchRadiusMeters bounds every nearby query.
const SearchRadiusMeters = 2000

// MaxElements caps how many raw elements Overpass returns per query.
const MaxElements = 30

// QueryTimeoutSeconds is the server-side timeout sent with every query.
const QueryTimeoutSeconds = 20

type clause struct {
	kind  ElementType
	key   string
	op    string
	value string
}

func node(key, value string) clause {
	return clause{kind: ElementNode, key: key, op: "=", value: value}
}

func way(key, value string) clause {
	return clause{kind: ElementWay, key: key, op: "=", value: value}
}

var clauseSets = map[Filter][]clause{
	FilterElevator: {
		node("highway", "elevator"),
		node("amenity", "elevator"),
		node("building", "elevator"),
		node("amenity", "hospital"),
		way("amenity", "hospital"),
		node("amenity", "clinic"),
		node("amenity", "mall"),
		way("shop", "mall"),
	},
	FilterRest: {
		node("amenity", "bench"),
		node("leisure", "park"),
		way("leisure", "park"),
		node("amenity", "shelter"),
		node("tourism", "picnic_site"),
		node("amenity", "cafe"),
		node("amenity", "restaurant"),
	},
	FilterWashroom: {
		node("amenity", "toilets"),
		way("amenity", "toilets"),
		node("amenity", "hospital"),
		way("amenity", "hospital"),
		node("amenity", "clinic"),
		node("amenity", "pharmacy"),
		node("shop", "mall"),
		way("shop", "mall"),
		node("amenity", "cafe"),
		node("amenity", "restaurant"),
	},
	FilterHospital: {
		node("amenity", "hospital"),
		way("amenity", "hospital"),
		node("amenity", "clinic"),
		node("amenity", "pharmacy"),
		node("amenity", "doctors"),
		node("amenity", "health_centre"),
	},
	FilterAll: {
		{kind: ElementNode, key: "amenity", op: "~", value: "hospital|clinic|pharmacy|toilets|bench|shelter|cafe|restaurant|doctors"},
		{kind: ElementWay, key: "amenity", op: "~", value: "hospital|clinic"},
		node("leisure", "park"),
		way("leisure", "park"),
		node("highway", "elevator"),
	},
}

// BuildQuery assembles the Overpass QL for filter around (lat, lon).
// Unknown filters use the FilterAll clause set.
func BuildQuery(lat, lon float64, filter Filter) string {
	clauses, ok := clauseSets[filter]
	if !ok {
		clauses = clauseSets[FilterAll]
	}

	around := fmt.Sprintf("(around:%d,%s,%s);", SearchRadiusMeters, formatCoord(lat), formatCoord(lon))
	lines := make([]string, 0, len(clauses))
	for _, c := range clauses {
		lines = append(lines, fmt.Sprintf(`%s["%s"%s"%s"]%s`, c.kind, c.key, c.op, c.value, around))
	}

	return fmt.Sprintf("[out:json][timeout:%d];\n(\n%s\n);\nout center %d;",
		QueryTimeoutSeconds, strings.Join(lines, "\n"), MaxElements)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
