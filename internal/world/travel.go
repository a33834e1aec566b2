package world

import (
	"fmt"
	"log/slog"
	"math"
	"time"
)

type TravelMethod int

const (
	TravelWalk TravelMethod = iota
	TravelVehicle
	TravelFastTravel
	TravelStealth
	travelMethodCount
)

var travelMethodNames = [travelMethodCount]string{
	TravelWalk:       "Walk",
	TravelVehicle:    "Vehicle",
	TravelFastTravel: "FastTravel",
	TravelStealth:    "Stealth",
}

var travelSpeedModifiers = [travelMethodCount]float64{
	TravelWalk:       1.0,
	TravelVehicle:    3.0,
	TravelFastTravel: 10.0,
	TravelStealth:    0.5,
}

func (m TravelMethod) valid() bool {
	return m >= 0 && m < travelMethodCount
}

func (m TravelMethod) String() string {
	if !m.valid() {
		return fmt.Sprintf("TravelMethod(%d)", int(m))
	}
	return travelMethodNames[m]
}

// SpeedModifier scales the base travel speed.
func (m TravelMethod) SpeedModifier() float64 {
	if !m.valid() {
		return 1.0
	}
	return travelSpeedModifiers[m]
}

// rollsEncounters reports whether trips by m can be interrupted.
func (m TravelMethod) rollsEncounters() bool {
	return m != TravelFastTravel
}

func (m TravelMethod) MarshalText() ([]byte, error) {
	if !m.valid() {
		return nil, fmt.Errorf("unknown travel method: %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *TravelMethod) UnmarshalText(text []byte) error {
	for i, name := range travelMethodNames {
		if name == string(text) {
			*m = TravelMethod(i)
			return nil
		}
	}
	return fmt.Errorf("unknown travel method: %s", text)
}

const (
	// kmPerDegree treats the map as flat: one degree in either axis is 111 km.
	kmPerDegree = 111.0
	// minTravelKm is the floor for trips without a direct connection.
	minTravelKm = 0.5
)

// flatDistanceKm approximates the distance between two coordinates.
func flatDistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := lat2 - lat1
	dLon := lon2 - lon1
	return math.Sqrt(dLat*dLat+dLon*dLon) * kmPerDegree
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type TravelRequest struct {
	FromID      string       `json:"fromLocationId"`
	ToID        string       `json:"toLocationId"`
	CharacterID string       `json:"characterId,omitempty"`
	Method      TravelMethod `json:"method"`
}

// Encounter is a random event rolled during a trip.
type Encounter struct {
	Type        string `json:"type"`
	DistrictID  string `json:"districtId"`
	Description string `json:"description"`
}

// TravelResult reports a trip. Failed preconditions set Success to false
// and describe the reason in Error.
type TravelResult struct {
	Success           bool       `json:"success"`
	Error             string     `json:"error,omitempty"`
	Err               error      `json:"-"`
	FromName          string     `json:"fromName,omitempty"`
	ToName            string     `json:"toName,omitempty"`
	DistanceKm        float64    `json:"distanceKm"`
	TravelTimeMinutes int        `json:"travelTimeMinutes"`
	ArrivalTime       time.Time  `json:"arrivalTime"`
	Encounter         *Encounter `json:"encounter"`
	WeatherName       string     `json:"weatherName,omitempty"`
}

func travelFailure(err error) TravelResult {
	return TravelResult{Success: false, Error: err.Error(), Err: err}
}

// StartTravel moves a traveller between two locations. The whole trip is
// applied atomically: distance and time are computed, an encounter may be
// rolled, the clock advances, and arrival discovers the destination and its
// district.
func (w *WorldState) StartTravel(req TravelRequest) TravelResult {
	if !req.Method.valid() {
		return travelFailure(fmt.Errorf("unknown travel method: %d", int(req.Method)))
	}

	w.lock()
	defer w.unlock()

	from, fromOk := w.locations[req.FromID]
	to, toOk := w.locations[req.ToID]
	if !fromOk || !toOk {
		return travelFailure(ErrInvalidLocation)
	}
	if !to.IsAccessible {
		return travelFailure(ErrInaccessible)
	}

	distance := w.tripDistance(from, to)
	speed := w.cfg.TravelSpeedKmPerHour * req.Method.SpeedModifier() * w.weather.Effects().Movement
	minutes := int(math.Ceil(distance / speed * 60))

	encounter := w.rollEncounter(from, to, req.Method)

	w.advance(time.Duration(minutes) * time.Minute)

	to.VisitCount++
	w.discoverLocation(to)
	if d, ok := w.districts[to.DistrictID]; ok {
		w.discoverDistrict(d)
	}

	distance = round2(distance)
	w.emit(EventTravelCompleted, map[string]any{
		"fromLocationId": from.ID,
		"toLocationId":   to.ID,
		"distance":       distance,
		"travelTime":     minutes,
		"method":         req.Method.String(),
		"encounter":      encounter,
	})

	slog.Debug("travel completed",
		"character", req.CharacterID,
		"from", from.ID,
		"to", to.ID,
		"method", req.Method,
		"minutes", minutes,
	)

	return TravelResult{
		Success:           true,
		FromName:          from.Name,
		ToName:            to.Name,
		DistanceKm:        distance,
		TravelTimeMinutes: minutes,
		ArrivalTime:       w.clock.now,
		Encounter:         encounter,
		WeatherName:       w.weather.Effects().Name,
	}
}

// tripDistance prefers a direct connection and falls back to the flat
// coordinate approximation.
func (w *WorldState) tripDistance(from, to *Location) float64 {
	if c, ok := from.connectionTo(to.ID); ok {
		return c.DistanceKm
	}
	d := flatDistanceKm(from.Latitude, from.Longitude, to.Latitude, to.Longitude)
	return math.Max(d, minTravelKm)
}

// rollEncounter draws against the encounter probability and picks an
// archetype from the origin district. Requires w.mu to be held.
func (w *WorldState) rollEncounter(from, to *Location, method TravelMethod) *Encounter {
	if !method.rollsEncounters() {
		return nil
	}
	if w.rng.Float64() >= w.cfg.RandomEncounterProbability {
		return nil
	}

	d, ok := w.districts[from.DistrictID]
	if !ok || len(d.EncounterTypes) == 0 {
		return nil
	}

	kind := d.EncounterTypes[w.rng.IntN(len(d.EncounterTypes))]
	return &Encounter{
		Type:        kind,
		DistrictID:  d.ID,
		Description: fmt.Sprintf("%s encountered en route to %s", kind, to.Name),
	}
}
