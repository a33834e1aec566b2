package world

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"github.com/pixil98/go-sprawl/internal/storage"
)

type DistrictType int

const (
	DistrictCorporate DistrictType = iota + 1
	DistrictResidential
	DistrictIndustrial
	DistrictSlum
	DistrictEntertainment
	DistrictDocks
	districtTypeEnd
)

// DistrictProfile holds the fixed defaults every district of a type starts with.
type DistrictProfile struct {
	SecurityLevel  int      `json:"securityLevel"`
	WealthLevel    int      `json:"wealthLevel"`
	PolicePresence int      `json:"policePresence"`
	GangActivity   int      `json:"gangActivity"`
	PriceModifier  float64  `json:"priceModifier"`
	DefaultDanger  int      `json:"-"`
	EncounterTypes []string `json:"encounterTypes"`
}

var districtTypeNames = map[DistrictType]string{
	DistrictCorporate:     "Corporate",
	DistrictResidential:   "Residential",
	DistrictIndustrial:    "Industrial",
	DistrictSlum:          "Slum",
	DistrictEntertainment: "Entertainment",
	DistrictDocks:         "Docks",
}

var districtProfiles = map[DistrictType]DistrictProfile{
	DistrictCorporate: {
		SecurityLevel: 9, WealthLevel: 9, PolicePresence: 8, GangActivity: 1,
		PriceModifier: 1.5, DefaultDanger: 2,
		EncounterTypes: []string{"Corporate Security", "Executive", "Drone Patrol"},
	},
	DistrictResidential: {
		SecurityLevel: 5, WealthLevel: 5, PolicePresence: 5, GangActivity: 3,
		PriceModifier: 1.0, DefaultDanger: 3,
		EncounterTypes: []string{"Civilian", "Street Vendor", "Police Patrol"},
	},
	DistrictIndustrial: {
		SecurityLevel: 4, WealthLevel: 3, PolicePresence: 3, GangActivity: 5,
		PriceModifier: 0.9, DefaultDanger: 5,
		EncounterTypes: []string{"Factory Worker", "Scavenger", "Gang Patrol"},
	},
	DistrictSlum: {
		SecurityLevel: 1, WealthLevel: 1, PolicePresence: 1, GangActivity: 9,
		PriceModifier: 0.7, DefaultDanger: 8,
		EncounterTypes: []string{"Gang Patrol", "Junkie", "Scavenger", "Street Doc"},
	},
	DistrictEntertainment: {
		SecurityLevel: 5, WealthLevel: 7, PolicePresence: 4, GangActivity: 5,
		PriceModifier: 1.2, DefaultDanger: 4,
		EncounterTypes: []string{"Fixer", "Dancer", "Drunk", "Gang Patrol"},
	},
	DistrictDocks: {
		SecurityLevel: 3, WealthLevel: 4, PolicePresence: 2, GangActivity: 7,
		PriceModifier: 0.8, DefaultDanger: 6,
		EncounterTypes: []string{"Smuggler", "Dock Worker", "Gang Patrol"},
	},
}

func (t DistrictType) valid() bool {
	return t >= DistrictCorporate && t < districtTypeEnd
}

func (t DistrictType) String() string {
	if name, ok := districtTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("DistrictType(%d)", int(t))
}

// Profile returns a copy of the defaults for t.
func (t DistrictType) Profile() DistrictProfile {
	p := districtProfiles[t]
	p.EncounterTypes = slices.Clone(p.EncounterTypes)
	return p
}

func (t DistrictType) MarshalText() ([]byte, error) {
	if !t.valid() {
		return nil, fmt.Errorf("unknown district type: %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *DistrictType) UnmarshalText(text []byte) error {
	for k, name := range districtTypeNames {
		if name == string(text) {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("unknown district type: %s", text)
}

// Boundaries are the edges of a district in map coordinates.
type Boundaries struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

type District struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name"`
	Type               DistrictType `json:"type"`
	ControllingFaction string       `json:"controllingFaction"`
	DangerLevel        int          `json:"dangerLevel"`
	Boundaries         Boundaries   `json:"boundaries"`
	Locations          []string     `json:"locations"`
	IsDiscovered       bool         `json:"isDiscovered"`
	VisitCount         int          `json:"visitCount"`
	DistrictProfile

	Properties storage.ExtensionState `json:"properties,omitempty"`
}

func (d *District) clone() District {
	c := *d
	c.Locations = slices.Clone(d.Locations)
	c.EncounterTypes = slices.Clone(d.EncounterTypes)
	c.Properties = d.Properties.Clone()
	return c
}

// DistrictParams describes a district to create. A zero DangerLevel takes the
// type default; anything else is clamped to [1,10].
type DistrictParams struct {
	ID                 string
	Name               string
	Type               DistrictType
	Boundaries         Boundaries
	ControllingFaction string
	DangerLevel        int
	Properties         storage.ExtensionState
}

func clampDanger(level int) int {
	return min(max(level, 1), 10)
}

// NewDistrict registers a district. An existing district with the same id is
// replaced.
func (w *WorldState) NewDistrict(p DistrictParams) (District, error) {
	if p.ID == "" {
		return District{}, ErrInvalidID
	}
	if !p.Type.valid() {
		return District{}, fmt.Errorf("district %q: unknown district type %d", p.ID, int(p.Type))
	}

	profile := p.Type.Profile()
	danger := p.DangerLevel
	if danger == 0 {
		danger = profile.DefaultDanger
	}

	d := &District{
		ID:                 p.ID,
		Name:               p.Name,
		Type:               p.Type,
		ControllingFaction: p.ControllingFaction,
		DangerLevel:        clampDanger(danger),
		Boundaries:         p.Boundaries,
		Locations:          []string{},
		DistrictProfile:    profile,
		Properties:         p.Properties.Clone(),
	}

	w.lock()
	defer w.unlock()

	if _, exists := w.districts[p.ID]; exists {
		slog.Warn("overwriting existing district", "district", p.ID)
	}
	w.districts[p.ID] = d

	w.emit(EventDistrictCreated, map[string]any{
		"districtId": d.ID,
		"name":       d.Name,
		"type":       d.Type.String(),
	})
	return d.clone(), nil
}

// District returns a snapshot of the district with the given id.
func (w *WorldState) District(id string) (District, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	d, ok := w.districts[id]
	if !ok {
		return District{}, false
	}
	return d.clone(), true
}

// Districts returns snapshots of every district ordered by id.
func (w *WorldState) Districts() []District {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]District, 0, len(w.districts))
	for _, d := range w.districts {
		out = append(out, d.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SetDistrictControl hands the district to factionID. The change event is
// raised even when the faction is unchanged.
func (w *WorldState) SetDistrictControl(id, factionID string) (District, error) {
	w.lock()
	defer w.unlock()

	d, ok := w.districts[id]
	if !ok {
		slog.Warn("setting control of unknown district", "district", id)
		return District{}, fmt.Errorf("%w: %s", ErrDistrictNotFound, id)
	}

	old := d.ControllingFaction
	d.ControllingFaction = factionID

	w.emit(EventDistrictControlChanged, map[string]any{
		"districtId": id,
		"oldFaction": old,
		"newFaction": factionID,
	})
	return d.clone(), nil
}

// discoverDistrict marks a district discovered on first arrival. Requires w.mu.
func (w *WorldState) discoverDistrict(d *District) {
	if d.IsDiscovered {
		return
	}
	d.IsDiscovered = true
	d.VisitCount++

	w.emit(EventDistrictDiscovered, map[string]any{
		"districtId": d.ID,
		"name":       d.Name,
	})
}
