package nearby

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection renders a Result as GeoJSON points. A failed result
// becomes an empty collection with an "error" foreign member.
func (r Result) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, p := range r.Places {
		f := geojson.NewFeature(orb.Point{p.Lng, p.Lat})
		f.Properties["name"] = p.Name
		f.Properties["address"] = p.Address
		f.Properties["distance_m"] = p.DistanceM
		f.Properties["types"] = p.Types
		f.Properties["wheelchair"] = p.Wheelchair
		f.Properties["geohash"] = p.Geohash
		fc.Append(f)
	}
	if r.Failed() {
		fc.ExtraMembers = geojson.Properties{"error": r.Error}
	}
	return fc
}
