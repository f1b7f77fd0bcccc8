package maps

import "context"

type Filter string

const (
	FilterElevator Filter = "elevator"
	FilterRest     Filter = "rest"
	FilterWashroom Filter = "washroom"
	FilterHospital Filter = "hospital"
	FilterAll      Filter = "all"
)

// ParseFilter maps a raw filter value to a known Filter, falling back to FilterAll.
func ParseFilter(value string) Filter {
	f := Filter(value)
	if _, ok := clauseSets[f]; ok {
		return f
	}
	return FilterAll
}

type ElementType string

const (
	ElementNode     ElementType = "node"
	ElementWay      ElementType = "way"
	ElementRelation ElementType = "relation"
)

// Center is the computed centroid Overpass attaches to area elements
// when queried with "out center". Either component may be absent.
type Center struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

func (c *Center) empty() bool {
	return c == nil || (c.Lat == nil && c.Lon == nil)
}

type Element struct {
	Type   ElementType       `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat"`
	Lon    *float64          `json:"lon"`
	Center *Center           `json:"center"`
	Tags   map[string]string `json:"tags"`
}

// Position returns where the element sits. Nodes report their own
// coordinates; other elements report their center, with a missing center
// component taken from fallback. ok is false when an area has no center.
func (e Element) Position(fallbackLat, fallbackLon float64) (lat, lon float64, ok bool) {
	if e.Type == ElementNode {
		if e.Lat == nil || e.Lon == nil {
			return 0, 0, false
		}
		return *e.Lat, *e.Lon, true
	}
	if e.Center.empty() {
		return 0, 0, false
	}
	lat, lon = fallbackLat, fallbackLon
	if e.Center.Lat != nil {
		lat = *e.Center.Lat
	}
	if e.Center.Lon != nil {
		lon = *e.Center.Lon
	}
	return lat, lon, true
}

// API runs a raw Overpass QL query and returns the decoded elements.
type API interface {
	Query(ctx context.Context, query string) ([]Element, error)
}
