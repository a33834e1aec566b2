package messaging

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/pixil98/go-sprawl/internal/world"
	"github.com/pixil98/go-testutil"
)

type fakeTraveller struct {
	requests []world.TravelRequest
	result   world.TravelResult
}

func (f *fakeTraveller) StartTravel(req world.TravelRequest) world.TravelResult {
	f.requests = append(f.requests, req)
	return f.result
}

func arrivedResult() world.TravelResult {
	return world.TravelResult{
		Success:           true,
		FromName:          "Alley",
		ToName:            "Plaza",
		DistanceKm:        10.3,
		TravelTimeMinutes: 7,
		ArrivalTime:       time.Date(2077, 10, 23, 8, 7, 0, 0, time.UTC),
		WeatherName:       "Clear",
	}
}

func TestTravelResponder_Handle(t *testing.T) {
	tests := map[string]struct {
		body        string
		expRequests int
		expMethod   world.TravelMethod
		expText     string
		expJSON     bool
	}{
		"text report": {
			body:        `{"fromLocationId":"alley","toLocationId":"plaza","method":"Vehicle"}`,
			expRequests: 1,
			expMethod:   world.TravelVehicle,
			expText:     "Travelled from Alley to Plaza: 10.30 km in 7 minutes",
		},
		"json result": {
			body:        `{"fromLocationId":"alley","toLocationId":"plaza","format":"json"}`,
			expRequests: 1,
			expMethod:   world.TravelWalk,
			expJSON:     true,
		},
		"malformed body": {
			body:    `not json`,
			expText: "Travel failed: malformed travel request",
		},
		"unknown method": {
			body:    `{"fromLocationId":"alley","toLocationId":"plaza","method":"Teleport"}`,
			expText: "Travel failed: malformed travel request",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			traveller := &fakeTraveller{result: arrivedResult()}
			r := NewTravelResponder(newFakeResponder(), traveller, "")

			got := r.handle([]byte(tt.body))

			testutil.AssertEqual(t, "requests", len(traveller.requests), tt.expRequests)
			if tt.expRequests > 0 {
				testutil.AssertEqual(t, "from", traveller.requests[0].FromID, "alley")
				testutil.AssertEqual(t, "to", traveller.requests[0].ToID, "plaza")
				testutil.AssertEqual(t, "method", traveller.requests[0].Method, tt.expMethod)
			}

			if tt.expJSON {
				var result world.TravelResult
				if err := json.Unmarshal(got, &result); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				testutil.AssertEqual(t, "success", result.Success, true)
				testutil.AssertEqual(t, "minutes", result.TravelTimeMinutes, 7)
				return
			}

			flat := strings.Join(strings.Fields(string(got)), " ")
			if !strings.Contains(flat, tt.expText) {
				t.Errorf("expected %q in reply %q", tt.expText, flat)
			}
		})
	}
}

func TestTravelResponder_StartRegistersSubject(t *testing.T) {
	bus := newFakeResponder()
	close(bus.ready)
	r := NewTravelResponder(bus, &fakeTraveller{}, "nightcity")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Start(ctx) }()

	select {
	case <-bus.registered:
	case <-time.After(time.Second):
		t.Fatal("responder not registered")
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("responder did not stop")
	}
	testutil.AssertEqual(t, "subject", bus.subject, "nightcity.travel")
}

func TestTravelResponder_EndToEnd(t *testing.T) {
	s := startTestServer(t)

	w, err := world.New(world.DefaultConfig(), world.WithRand(world.NewRand(7)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range []world.LocationParams{
		{ID: "alley", Name: "Alley", Type: world.LocationStreet, Latitude: 35.0, Longitude: 139.0},
		{ID: "plaza", Name: "Plaza", Type: world.LocationShop, Latitude: 35.0, Longitude: 139.01},
	} {
		if _, err := w.NewLocation(p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewTravelResponder(s, w, "").Start(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	client := connectTestClient(t, s)

	body := []byte(`{"fromLocationId":"alley","toLocationId":"plaza","method":"FastTravel","format":"json"}`)
	var result world.TravelResult
	deadline := time.Now().Add(2 * time.Second)
	for {
		msg, err := client.Request("sprawl.travel", body, 200*time.Millisecond)
		if err == nil {
			if err := json.Unmarshal(msg.Data, &result); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("no travel reply: %v", err)
		}
	}

	testutil.AssertEqual(t, "success", result.Success, true)
	testutil.AssertEqual(t, "destination", result.ToName, "Plaza")
	loc, _ := w.Location("plaza")
	testutil.AssertEqual(t, "discovered", loc.IsDiscovered, true)
}
