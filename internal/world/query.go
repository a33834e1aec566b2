package world

import (
	"fmt"
	"sort"
	"time"
)

// Status is a read-only summary of the world.
type Status struct {
	GameTime                time.Time    `json:"gameTime"`
	Period                  Period       `json:"timeOfDay"`
	IsNight                 bool         `json:"isNight"`
	LightLevel              float64      `json:"lightLevel"`
	Weather                 WeatherState `json:"weather"`
	DistrictCount           int          `json:"districtCount"`
	LocationCount           int          `json:"locationCount"`
	DiscoveredLocationCount int          `json:"discoveredLocationCount"`
	MapCount                int          `json:"mapCount"`
}

// Status returns a snapshot of the clock, weather and registry sizes.
func (w *WorldState) Status() Status {
	w.mu.RLock()
	defer w.mu.RUnlock()

	tod := w.timeOfDay()
	s := Status{
		GameTime:      w.clock.now,
		Period:        tod.Period,
		IsNight:       tod.IsNight,
		LightLevel:    tod.LightLevel,
		Weather:       WeatherState{Kind: w.weather, WeatherEffects: w.weather.Effects()},
		DistrictCount: len(w.districts),
		LocationCount: len(w.locations),
		MapCount:      len(w.maps),
	}
	for _, l := range w.locations {
		if l.IsDiscovered {
			s.DiscoveredLocationCount++
		}
	}
	return s
}

// Coordinates are a latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

const defaultNearbyRadiusKm = 1.0

// NearbyQuery selects locations in exactly one of three modes: around Origin
// within RadiusKm, inside DistrictID, or connected from FromLocationID.
type NearbyQuery struct {
	Origin         *Coordinates
	RadiusKm       float64
	DistrictID     string
	FromLocationID string
	DiscoveredOnly bool
}

func (q NearbyQuery) modes() int {
	n := 0
	if q.Origin != nil {
		n++
	}
	if q.DistrictID != "" {
		n++
	}
	if q.FromLocationID != "" {
		n++
	}
	return n
}

// NearbyLocation pairs a location with its distance from the query origin.
// District queries report a zero distance.
type NearbyLocation struct {
	Location
	DistanceKm float64 `json:"distanceKm"`
}

// NearbyLocations answers a NearbyQuery.
func (w *WorldState) NearbyLocations(q NearbyQuery) ([]NearbyLocation, error) {
	if q.modes() != 1 {
		return nil, ErrInvalidQuery
	}

	w.mu.RLock()
	defer w.mu.RUnlock()

	switch {
	case q.FromLocationID != "":
		return w.connectedLocations(q.FromLocationID, q.DiscoveredOnly)
	case q.DistrictID != "":
		return w.districtLocations(q.DistrictID, q.DiscoveredOnly)
	default:
		return w.locationsWithin(*q.Origin, q.RadiusKm, q.DiscoveredOnly), nil
	}
}

func (w *WorldState) connectedLocations(fromID string, discoveredOnly bool) ([]NearbyLocation, error) {
	from, ok := w.locations[fromID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocationNotFound, fromID)
	}

	out := []NearbyLocation{}
	for _, c := range from.Connections {
		l, ok := w.locations[c.TargetID]
		if !ok || (discoveredOnly && !l.IsDiscovered) {
			continue
		}
		out = append(out, NearbyLocation{Location: l.clone(), DistanceKm: c.DistanceKm})
	}
	return out, nil
}

func (w *WorldState) districtLocations(districtID string, discoveredOnly bool) ([]NearbyLocation, error) {
	d, ok := w.districts[districtID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDistrictNotFound, districtID)
	}

	out := []NearbyLocation{}
	for _, id := range d.Locations {
		l, ok := w.locations[id]
		if !ok || (discoveredOnly && !l.IsDiscovered) {
			continue
		}
		out = append(out, NearbyLocation{Location: l.clone()})
	}
	return out, nil
}

func (w *WorldState) locationsWithin(origin Coordinates, radiusKm float64, discoveredOnly bool) []NearbyLocation {
	if radiusKm <= 0 {
		radiusKm = defaultNearbyRadiusKm
	}

	out := []NearbyLocation{}
	for _, l := range w.locations {
		if discoveredOnly && !l.IsDiscovered {
			continue
		}
		d := flatDistanceKm(origin.Latitude, origin.Longitude, l.Latitude, l.Longitude)
		if d <= radiusKm {
			out = append(out, NearbyLocation{Location: l.clone(), DistanceKm: round2(d)})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DistanceKm != out[j].DistanceKm {
			return out[i].DistanceKm < out[j].DistanceKm
		}
		return out[i].ID < out[j].ID
	})
	return out
}
