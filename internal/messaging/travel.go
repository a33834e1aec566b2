package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pixil98/go-sprawl/internal/report"
	"github.com/pixil98/go-sprawl/internal/world"
)

// Traveller starts trips between locations.
type Traveller interface {
	StartTravel(req world.TravelRequest) world.TravelResult
}

// TravelRequest is the body of a "<prefix>.travel" request. Format "json"
// gets the raw result, anything else gets the text report.
type TravelRequest struct {
	world.TravelRequest
	Format string `json:"format,omitempty"`
}

// TravelResponder starts a trip for each "<prefix>.travel" request and
// replies with its outcome.
type TravelResponder struct {
	bus       Responder
	traveller Traveller
	subject   string
}

func NewTravelResponder(bus Responder, traveller Traveller, prefix string) *TravelResponder {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &TravelResponder{
		bus:       bus,
		traveller: traveller,
		subject:   prefix + ".travel",
	}
}

func (r *TravelResponder) Start(ctx context.Context) error {
	return serve(ctx, r.bus, r.subject, r.handle)
}

func (r *TravelResponder) handle(data []byte) []byte {
	var req TravelRequest
	var result world.TravelResult
	if err := json.Unmarshal(data, &req); err != nil {
		err = fmt.Errorf("malformed travel request: %w", err)
		result = world.TravelResult{Error: err.Error(), Err: err}
	} else {
		result = r.traveller.StartTravel(req.TravelRequest)
	}

	if req.Format == "json" {
		out, err := json.Marshal(result)
		if err != nil {
			slog.Error("marshalling travel result", "error", err)
			return []byte(`{"error":"travel result unavailable"}`)
		}
		return out
	}

	text, err := report.Travel(result)
	if err != nil {
		slog.Error("rendering travel report", "error", err)
		return []byte("travel result unavailable")
	}
	return []byte(text)
}
