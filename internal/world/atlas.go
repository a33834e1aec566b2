package world

import (
	"fmt"
	"log/slog"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-sprawl/internal/storage"
)

// DistrictDef is the on-disk definition of a district.
type DistrictDef struct {
	Name               string                 `json:"name"`
	Type               DistrictType           `json:"type"`
	Boundaries         Boundaries             `json:"boundaries"`
	ControllingFaction string                 `json:"controlling_faction,omitempty"`
	DangerLevel        int                    `json:"danger_level,omitempty"`
	Properties         storage.ExtensionState `json:"properties,omitempty"`
}

// Validate satisfies storage.ValidatingSpec.
func (d *DistrictDef) Validate() error {
	el := errors.NewErrorList()

	if d.Name == "" {
		el.Add(fmt.Errorf("district name is required"))
	}
	if !d.Type.valid() {
		el.Add(fmt.Errorf("district type is required"))
	}
	if d.Boundaries.South > d.Boundaries.North {
		el.Add(fmt.Errorf("south boundary is above north boundary"))
	}
	if d.Boundaries.West > d.Boundaries.East {
		el.Add(fmt.Errorf("west boundary is east of east boundary"))
	}

	return el.Err()
}

// ConnectionDef is an edge declared on a location definition.
type ConnectionDef struct {
	To         string       `json:"to"`
	DistanceKm float64      `json:"distance_km,omitempty"`
	Method     TravelMethod `json:"method"`
	OneWay     bool         `json:"one_way,omitempty"`
}

// LocationDef is the on-disk definition of a location.
type LocationDef struct {
	Name         string                 `json:"name"`
	Type         LocationType           `json:"type"`
	DistrictID   string                 `json:"district_id,omitempty"`
	Latitude     float64                `json:"latitude"`
	Longitude    float64                `json:"longitude"`
	OwnerID      string                 `json:"owner_id,omitempty"`
	Inaccessible bool                   `json:"inaccessible,omitempty"`
	Discovered   bool                   `json:"discovered,omitempty"`
	Connections  []ConnectionDef        `json:"connections,omitempty"`
	Properties   storage.ExtensionState `json:"properties,omitempty"`
}

// Validate satisfies storage.ValidatingSpec.
func (l *LocationDef) Validate() error {
	el := errors.NewErrorList()

	if l.Name == "" {
		el.Add(fmt.Errorf("location name is required"))
	}
	if !l.Type.valid() {
		el.Add(fmt.Errorf("location type is required"))
	}
	if l.Latitude < -90 || l.Latitude > 90 {
		el.Add(fmt.Errorf("latitude %v out of range", l.Latitude))
	}
	if l.Longitude < -180 || l.Longitude > 180 {
		el.Add(fmt.Errorf("longitude %v out of range", l.Longitude))
	}
	for i, c := range l.Connections {
		if c.To == "" {
			el.Add(fmt.Errorf("connection %d: to is required", i))
		}
		if c.DistanceKm < 0 {
			el.Add(fmt.Errorf("connection %d: distance_km must not be negative", i))
		}
	}

	return el.Err()
}

// LoadAtlas populates w from district and location definitions. Districts
// are created first, then locations, then connections, each in id order.
func LoadAtlas(w *WorldState, districts storage.Storer[*DistrictDef], locations storage.Storer[*LocationDef]) error {
	for _, id := range districts.Keys() {
		def := districts.Get(id)
		_, err := w.NewDistrict(DistrictParams{
			ID:                 id,
			Name:               def.Name,
			Type:               def.Type,
			Boundaries:         def.Boundaries,
			ControllingFaction: def.ControllingFaction,
			DangerLevel:        def.DangerLevel,
			Properties:         def.Properties,
		})
		if err != nil {
			return fmt.Errorf("creating district %q: %w", id, err)
		}
	}

	for _, id := range locations.Keys() {
		def := locations.Get(id)
		if def.DistrictID != "" && districts.Get(def.DistrictID) == nil {
			slog.Warn("location references unknown district", "location", id, "district", def.DistrictID)
		}

		_, err := w.NewLocation(LocationParams{
			ID:           id,
			Name:         def.Name,
			Type:         def.Type,
			DistrictID:   def.DistrictID,
			Latitude:     def.Latitude,
			Longitude:    def.Longitude,
			OwnerID:      def.OwnerID,
			Inaccessible: def.Inaccessible,
			Properties:   def.Properties,
		})
		if err != nil {
			return fmt.Errorf("creating location %q: %w", id, err)
		}
		if def.Discovered {
			if _, err := w.SetLocationDiscovered(id); err != nil {
				return fmt.Errorf("discovering location %q: %w", id, err)
			}
		}
	}

	for _, id := range locations.Keys() {
		for _, c := range locations.Get(id).Connections {
			err := w.ConnectLocations(id, c.To, ConnectOptions{
				DistanceKm: c.DistanceKm,
				Method:     c.Method,
				OneWay:     c.OneWay,
			})
			if err != nil {
				return fmt.Errorf("connecting %q to %q: %w", id, c.To, err)
			}
		}
	}

	slog.Info("atlas loaded", "districts", len(districts.Keys()), "locations", len(locations.Keys()))
	return nil
}
