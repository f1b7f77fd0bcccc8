package nearby

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"arogyapath/internal/geo"
	"arogyapath/internal/maps"
)

// MaxResults caps how many places a lookup returns.
const MaxResults = 15

var ErrInvalidCoordinates = errors.New("invalid coordinates")

type Request struct {
	Lat    float64
	Lng    float64
	Filter maps.Filter
}

// ParseRequest validates raw lat/lng/filter input. A missing or unknown
// filter becomes maps.FilterAll.
func ParseRequest(latValue, lngValue, filterValue string) (Request, error) {
	lat, err := parseCoordinate("lat", latValue)
	if err != nil {
		return Request{}, err
	}
	lng, err := parseCoordinate("lng", lngValue)
	if err != nil {
		return Request{}, err
	}
	req := Request{Lat: lat, Lng: lng, Filter: maps.ParseFilter(strings.TrimSpace(filterValue))}
	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}

func parseCoordinate(name, value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidCoordinates, name)
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidCoordinates, name)
	}
	return v, nil
}

func (r Request) Validate() error {
	if !r.origin().Valid() {
		return fmt.Errorf("%w: lat must be within [-90, 90] and lng within [-180, 180]", ErrInvalidCoordinates)
	}
	return nil
}

func (r Request) origin() geo.Point {
	return geo.Point{Lat: r.Lat, Lon: r.Lng}
}

type Place struct {
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Lat        float64  `json:"lat"`
	Lng        float64  `json:"lng"`
	DistanceM  int      `json:"distance_m"`
	Types      []string `json:"types"`
	Wheelchair string   `json:"wheelchair"`
	Geohash    string   `json:"geohash"`
}

// Result is either a ranked list of places or an empty list with Error set.
// An upstream failure is a valid Result, not a Go error.
type Result struct {
	Places []Place `json:"places"`
	Error  string  `json:"error,omitempty"`
}

func (r Result) Failed() bool {
	return r.Error != ""
}

func failed(err error) Result {
	return Result{Places: []Place{}, Error: err.Error()}
}

type Resolver struct {
	Maps maps.API
}

func (r *Resolver) Resolve(ctx context.Context, req Request) Result {
	if err := req.Validate(); err != nil {
		return failed(err)
	}
	if r.Maps == nil {
		return failed(errors.New("map data service not configured"))
	}

	query := maps.BuildQuery(req.Lat, req.Lng, req.Filter)
	elements, err := r.Maps.Query(ctx, query)
	if err != nil {
		log.Printf("nearby: filter=%s lat=%f lng=%f: %v", req.Filter, req.Lat, req.Lng, err)
		return failed(err)
	}

	return Result{Places: Rank(req.origin(), elements)}
}

// Rank turns raw elements into places: it drops areas without a center,
// keeps the first element per ~11m cell, sorts by distance from origin
// and keeps the closest MaxResults.
func Rank(origin geo.Point, elements []maps.Element) []Place {
	places := make([]Place, 0, len(elements))
	seen := make(map[geo.Key]struct{}, len(elements))

	for _, el := range elements {
		lat, lon, ok := el.Position(origin.Lat, origin.Lon)
		if !ok {
			continue
		}
		pos := geo.Point{Lat: lat, Lon: lon}

		key := geo.KeyOf(pos)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		places = append(places, Place{
			Name:       displayName(el.Tags),
			Address:    address(el.Tags),
			Lat:        lat,
			Lng:        lon,
			DistanceM:  geo.DistanceMeters(origin, pos),
			Types:      categoryTypes(el.Tags),
			Wheelchair: el.Tags["wheelchair"],
			Geohash:    geo.Geohash(pos),
		})
	}

	sort.SliceStable(places, func(i, j int) bool {
		return places[i].DistanceM < places[j].DistanceM
	})
	if len(places) > MaxResults {
		places = places[:MaxResults]
	}
	return places
}
