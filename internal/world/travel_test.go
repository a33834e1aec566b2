package world

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

// newTravelWorld builds two districts with a street in each, joined by a
// 10.3 km connection.
func newTravelWorld(t *testing.T, mutate func(*Config), rng Rand) (*WorldState, *recordingSink) {
	t.Helper()

	w, sink := newTestWorld(t, mutate, rng)
	_, _ = w.NewDistrict(DistrictParams{ID: "pit", Name: "The Pit", Type: DistrictSlum})
	_, _ = w.NewDistrict(DistrictParams{ID: "core", Name: "Core", Type: DistrictCorporate})
	_, _ = w.NewLocation(LocationParams{ID: "alley", Name: "Back Alley", Type: LocationStreet, DistrictID: "pit"})
	_, _ = w.NewLocation(LocationParams{ID: "plaza", Name: "Arasaka Plaza", Type: LocationStreet, DistrictID: "core", Latitude: 0.5})
	if err := w.ConnectLocations("alley", "plaza", ConnectOptions{DistanceKm: 10.3}); err != nil {
		t.Fatalf("connecting: %v", err)
	}
	sink.reset()
	return w, sink
}

func TestTravelMethod_Text(t *testing.T) {
	for m := TravelWalk; m < travelMethodCount; m++ {
		b, err := m.MarshalText()
		if err != nil {
			t.Fatalf("marshalling %d: %v", int(m), err)
		}
		var got TravelMethod
		if err := got.UnmarshalText(b); err != nil {
			t.Fatalf("unmarshalling %s: %v", b, err)
		}
		testutil.AssertEqual(t, "method", got, m)
	}

	var m TravelMethod
	testutil.AssertErrorContains(t, m.UnmarshalText([]byte("Teleport")), "unknown travel method")
}

func TestWorldState_StartTravelMethods(t *testing.T) {
	tests := map[string]struct {
		method     TravelMethod
		weather    WeatherKind
		expMinutes int
	}{
		"walk":               {method: TravelWalk, expMinutes: 21},
		"vehicle":            {method: TravelVehicle, expMinutes: 7},
		"fast travel":        {method: TravelFastTravel, expMinutes: 3},
		"stealth":            {method: TravelStealth, expMinutes: 42},
		"walk in heavy rain": {method: TravelWalk, weather: WeatherHeavyRain, expMinutes: 28},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w, _ := newTravelWorld(t, func(c *Config) { c.StartWeather = tt.weather }, nil)
			start := w.GameTime()

			res := w.StartTravel(TravelRequest{FromID: "alley", ToID: "plaza", Method: tt.method})

			testutil.AssertEqual(t, "success", res.Success, true)
			testutil.AssertEqual(t, "distance", res.DistanceKm, 10.3)
			testutil.AssertEqual(t, "minutes", res.TravelTimeMinutes, tt.expMinutes)
			testutil.AssertEqual(t, "arrival", res.ArrivalTime.Sub(start), time.Duration(tt.expMinutes)*time.Minute)
			testutil.AssertEqual(t, "clock", w.GameTime().Equal(res.ArrivalTime), true)
			testutil.AssertEqual(t, "weather", res.WeatherName, tt.weather.Effects().Name)
			testutil.AssertEqual(t, "names", res.FromName+" -> "+res.ToName, "Back Alley -> Arasaka Plaza")
		})
	}
}

func TestWorldState_StartTravelSlowerMethodsTakeLonger(t *testing.T) {
	order := []TravelMethod{TravelFastTravel, TravelVehicle, TravelWalk, TravelStealth}

	prev := 0
	for _, m := range order {
		w, _ := newTravelWorld(t, nil, nil)
		res := w.StartTravel(TravelRequest{FromID: "alley", ToID: "plaza", Method: m})
		if res.TravelTimeMinutes <= prev {
			t.Errorf("%v took %d minutes, expected more than %d", m, res.TravelTimeMinutes, prev)
		}
		prev = res.TravelTimeMinutes
	}
}

func TestWorldState_StartTravelEndToEnd(t *testing.T) {
	w, sink := newTestWorld(t, nil, nil)
	_, _ = w.NewDistrict(DistrictParams{ID: "d1", Name: "Downtown", Type: DistrictCorporate})
	_, _ = w.NewLocation(LocationParams{ID: "l1", Name: "Tower", Type: LocationShop, DistrictID: "d1"})
	_, _ = w.NewLocation(LocationParams{ID: "l2", Name: "Kiosk", Type: LocationShop, DistrictID: "d1", Longitude: 0.01})
	sink.reset()
	start := w.GameTime()

	res := w.StartTravel(TravelRequest{FromID: "l1", ToID: "l2", CharacterID: "v", Method: TravelWalk})

	testutil.AssertEqual(t, "success", res.Success, true)
	testutil.AssertEqual(t, "distance", res.DistanceKm, 1.11)
	testutil.AssertEqual(t, "minutes", res.TravelTimeMinutes, 3)
	testutil.AssertEqual(t, "arrival", res.ArrivalTime.Equal(start.Add(3*time.Minute)), true)
	testutil.AssertEqual(t, "encounter", res.Encounter == nil, true)

	exp := []string{EventLocationDiscovered, EventDistrictDiscovered, EventTravelCompleted}
	if got := sink.types(); !slices.Equal(got, exp) {
		t.Errorf("events: got %v, expected %v", got, exp)
	}

	l2, _ := w.Location("l2")
	testutil.AssertEqual(t, "discovered", l2.IsDiscovered, true)
	testutil.AssertEqual(t, "visits", l2.VisitCount, 1)
	d1, _ := w.District("d1")
	testutil.AssertEqual(t, "district discovered", d1.IsDiscovered, true)
	testutil.AssertEqual(t, "district visits", d1.VisitCount, 1)

	e, _ := sink.last(EventTravelCompleted)
	testutil.AssertEqual(t, "event distance", e.data["distance"], any(1.11))
	testutil.AssertEqual(t, "event minutes", e.data["travelTime"], any(3))
	testutil.AssertEqual(t, "event method", e.data["method"], any("Walk"))
}

func TestWorldState_StartTravelRepeatVisits(t *testing.T) {
	w, sink := newTravelWorld(t, nil, nil)

	for range 2 {
		w.StartTravel(TravelRequest{FromID: "alley", ToID: "plaza"})
	}

	plaza, _ := w.Location("plaza")
	testutil.AssertEqual(t, "visits", plaza.VisitCount, 2)
	core, _ := w.District("core")
	testutil.AssertEqual(t, "district visits", core.VisitCount, 1)
	testutil.AssertEqual(t, "location discoveries", sink.count(EventLocationDiscovered), 1)
	testutil.AssertEqual(t, "district discoveries", sink.count(EventDistrictDiscovered), 1)
	testutil.AssertEqual(t, "trips", sink.count(EventTravelCompleted), 2)
}

func TestWorldState_StartTravelDistanceFloor(t *testing.T) {
	w, _ := newTestWorld(t, nil, nil)
	_, _ = w.NewLocation(LocationParams{ID: "a", Name: "A", Type: LocationStreet})
	_, _ = w.NewLocation(LocationParams{ID: "b", Name: "B", Type: LocationStreet})

	res := w.StartTravel(TravelRequest{FromID: "a", ToID: "b"})

	testutil.AssertEqual(t, "success", res.Success, true)
	testutil.AssertEqual(t, "distance", res.DistanceKm, 0.5)
	testutil.AssertEqual(t, "minutes", res.TravelTimeMinutes, 1)
}

func TestWorldState_StartTravelFailures(t *testing.T) {
	tests := map[string]struct {
		req    TravelRequest
		expErr error
	}{
		"unknown origin":      {req: TravelRequest{FromID: "ghost", ToID: "plaza"}, expErr: ErrInvalidLocation},
		"unknown destination": {req: TravelRequest{FromID: "alley", ToID: "ghost"}, expErr: ErrInvalidLocation},
		"inaccessible":        {req: TravelRequest{FromID: "plaza", ToID: "alley"}, expErr: ErrInaccessible},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w, sink := newTravelWorld(t, nil, nil)
			if _, err := w.SetLocationAccessible("alley", false); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			start := w.GameTime()

			res := w.StartTravel(tt.req)

			testutil.AssertEqual(t, "success", res.Success, false)
			testutil.AssertEqual(t, "error kind", errors.Is(res.Err, tt.expErr), true)
			testutil.AssertEqual(t, "error text", res.Error, tt.expErr.Error())
			testutil.AssertEqual(t, "clock", w.GameTime().Equal(start), true)
			testutil.AssertEqual(t, "events", len(sink.types()), 0)
		})
	}
}

func TestWorldState_StartTravelInvalidMethod(t *testing.T) {
	w, _ := newTravelWorld(t, nil, nil)

	res := w.StartTravel(TravelRequest{FromID: "alley", ToID: "plaza", Method: TravelMethod(9)})

	testutil.AssertEqual(t, "success", res.Success, false)
	testutil.AssertErrorContains(t, res.Err, "unknown travel method")
}

func TestWorldState_StartTravelEncounters(t *testing.T) {
	tests := map[string]struct {
		method  TravelMethod
		from    string
		to      string
		rng     *scriptedRand
		expType string
	}{
		"successful roll picks archetype": {
			from:    "alley",
			to:      "plaza",
			rng:     &scriptedRand{floats: []float64{0.0}, ints: []int{1}},
			expType: "Junkie",
		},
		"failed roll": {
			from: "alley",
			to:   "plaza",
			rng:  &scriptedRand{floats: []float64{0.5}},
		},
		"fast travel never rolls": {
			method: TravelFastTravel,
			from:   "alley",
			to:     "plaza",
			rng:    &scriptedRand{floats: []float64{0.0}},
		},
		"origin outside any district": {
			from: "roof",
			to:   "plaza",
			rng:  &scriptedRand{floats: []float64{0.0}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w, sink := newTravelWorld(t, nil, tt.rng)
			_, _ = w.NewLocation(LocationParams{ID: "roof", Name: "Rooftop", Type: LocationHideout})

			res := w.StartTravel(TravelRequest{FromID: tt.from, ToID: tt.to, Method: tt.method})
			testutil.AssertEqual(t, "success", res.Success, true)

			e, _ := sink.last(EventTravelCompleted)
			if tt.expType == "" {
				testutil.AssertEqual(t, "encounter", res.Encounter == nil, true)
				testutil.AssertEqual(t, "event encounter", e.data["encounter"] == (*Encounter)(nil), true)
				return
			}
			if res.Encounter == nil {
				t.Fatal("expected an encounter")
			}
			testutil.AssertEqual(t, "type", res.Encounter.Type, tt.expType)
			testutil.AssertEqual(t, "district", res.Encounter.DistrictID, "pit")
			testutil.AssertEqual(t, "description", res.Encounter.Description, "Junkie encountered en route to Arasaka Plaza")
		})
	}

	t.Run("fast travel leaves the roll unconsumed", func(t *testing.T) {
		rng := &scriptedRand{floats: []float64{0.0}}
		w, _ := newTravelWorld(t, nil, rng)

		w.StartTravel(TravelRequest{FromID: "alley", ToID: "plaza", Method: TravelFastTravel})

		testutil.AssertEqual(t, "remaining", len(rng.floats), 1)
	})
}
