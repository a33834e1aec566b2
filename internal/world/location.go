package world

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"github.com/pixil98/go-sprawl/internal/storage"
)

type LocationType int

const (
	LocationSafeHouse LocationType = iota + 1
	LocationShop
	LocationBar
	LocationClinic
	LocationWorkshop
	LocationMissionSite
	LocationStreet
	LocationHideout
	locationTypeEnd
)

// Capabilities are fixed by a location's type when it is created.
type Capabilities struct {
	CanRest             bool `json:"canRest"`
	CanStore            bool `json:"canStore"`
	CanCraft            bool `json:"canCraft"`
	IsPublic            bool `json:"isPublic"`
	HasInventory        bool `json:"hasInventory,omitempty"`
	CanHeal             bool `json:"canHeal,omitempty"`
	IsDangerous         bool `json:"isDangerous,omitempty"`
	HasRandomEncounters bool `json:"hasRandomEncounters,omitempty"`
	IsHidden            bool `json:"isHidden,omitempty"`
}

var locationTypeNames = map[LocationType]string{
	LocationSafeHouse:   "SafeHouse",
	LocationShop:        "Shop",
	LocationBar:         "Bar",
	LocationClinic:      "Clinic",
	LocationWorkshop:    "Workshop",
	LocationMissionSite: "MissionSite",
	LocationStreet:      "Street",
	LocationHideout:     "Hideout",
}

var locationCapabilities = map[LocationType]Capabilities{
	LocationSafeHouse:   {CanRest: true, CanStore: true},
	LocationShop:        {IsPublic: true, HasInventory: true},
	LocationBar:         {CanRest: true, IsPublic: true},
	LocationClinic:      {IsPublic: true, CanHeal: true},
	LocationWorkshop:    {CanStore: true, CanCraft: true},
	LocationMissionSite: {IsDangerous: true, HasRandomEncounters: true},
	LocationStreet:      {IsPublic: true, HasRandomEncounters: true},
	LocationHideout:     {CanRest: true, CanStore: true, CanCraft: true, IsHidden: true},
}

func (t LocationType) valid() bool {
	return t >= LocationSafeHouse && t < locationTypeEnd
}

func (t LocationType) String() string {
	if name, ok := locationTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("LocationType(%d)", int(t))
}

// Capabilities returns the capability flags of t.
func (t LocationType) Capabilities() Capabilities {
	return locationCapabilities[t]
}

func (t LocationType) MarshalText() ([]byte, error) {
	if !t.valid() {
		return nil, fmt.Errorf("unknown location type: %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *LocationType) UnmarshalText(text []byte) error {
	for k, name := range locationTypeNames {
		if name == string(text) {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("unknown location type: %s", text)
}

// Connection is a directed travel edge.
type Connection struct {
	TargetID   string       `json:"targetId"`
	DistanceKm float64      `json:"distanceKm"`
	Method     TravelMethod `json:"travelMethod"`
}

type Location struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Type         LocationType `json:"type"`
	DistrictID   string       `json:"districtId,omitempty"`
	Latitude     float64      `json:"latitude"`
	Longitude    float64      `json:"longitude"`
	OwnerID      string       `json:"ownerId,omitempty"`
	IsDiscovered bool         `json:"isDiscovered"`
	IsAccessible bool         `json:"isAccessible"`
	VisitCount   int          `json:"visitCount"`
	Connections  []Connection `json:"connections"`
	Capabilities

	Properties storage.ExtensionState `json:"properties,omitempty"`
}

func (l *Location) clone() Location {
	c := *l
	c.Connections = slices.Clone(l.Connections)
	c.Properties = l.Properties.Clone()
	return c
}

// connectionTo returns the first direct edge to targetID.
func (l *Location) connectionTo(targetID string) (Connection, bool) {
	for _, c := range l.Connections {
		if c.TargetID == targetID {
			return c, true
		}
	}
	return Connection{}, false
}

// LocationParams describes a location to create. Locations are accessible
// unless Inaccessible is set.
type LocationParams struct {
	ID           string
	Name         string
	Type         LocationType
	DistrictID   string
	Latitude     float64
	Longitude    float64
	OwnerID      string
	Inaccessible bool
	Properties   storage.ExtensionState
}

// NewLocation registers a location and, if its district exists, lists it
// there. An existing location with the same id is replaced.
func (w *WorldState) NewLocation(p LocationParams) (Location, error) {
	if p.ID == "" {
		return Location{}, ErrInvalidID
	}
	if !p.Type.valid() {
		return Location{}, fmt.Errorf("location %q: unknown location type %d", p.ID, int(p.Type))
	}

	l := &Location{
		ID:           p.ID,
		Name:         p.Name,
		Type:         p.Type,
		DistrictID:   p.DistrictID,
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
		OwnerID:      p.OwnerID,
		IsAccessible: !p.Inaccessible,
		Connections:  []Connection{},
		Capabilities: p.Type.Capabilities(),
		Properties:   p.Properties.Clone(),
	}

	w.lock()
	defer w.unlock()

	if prev, exists := w.locations[p.ID]; exists {
		slog.Warn("overwriting existing location", "location", p.ID)
		if d, ok := w.districts[prev.DistrictID]; ok && prev.DistrictID != p.DistrictID {
			d.Locations = slices.DeleteFunc(d.Locations, func(id string) bool { return id == p.ID })
		}
	}
	w.locations[p.ID] = l

	if d, ok := w.districts[p.DistrictID]; ok && !slices.Contains(d.Locations, p.ID) {
		d.Locations = append(d.Locations, p.ID)
	}

	w.emit(EventLocationCreated, map[string]any{
		"locationId": l.ID,
		"name":       l.Name,
		"type":       l.Type.String(),
		"districtId": l.DistrictID,
	})
	return l.clone(), nil
}

// Location returns a snapshot of the location with the given id.
func (w *WorldState) Location(id string) (Location, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	l, ok := w.locations[id]
	if !ok {
		return Location{}, false
	}
	return l.clone(), true
}

// LocationFilter narrows Locations. Zero fields match everything.
type LocationFilter struct {
	DistrictID     string
	Type           LocationType
	DiscoveredOnly bool
}

func (f LocationFilter) match(l *Location) bool {
	if f.DistrictID != "" && l.DistrictID != f.DistrictID {
		return false
	}
	if f.Type != 0 && l.Type != f.Type {
		return false
	}
	if f.DiscoveredOnly && !l.IsDiscovered {
		return false
	}
	return true
}

// Locations returns snapshots of the matching locations ordered by id.
func (w *WorldState) Locations(f LocationFilter) []Location {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := []Location{}
	for _, l := range w.locations {
		if f.match(l) {
			out = append(out, l.clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SetLocationDiscovered marks a location discovered. The discovery event is
// raised only the first time.
func (w *WorldState) SetLocationDiscovered(id string) (Location, error) {
	w.lock()
	defer w.unlock()

	l, ok := w.locations[id]
	if !ok {
		slog.Warn("discovering unknown location", "location", id)
		return Location{}, fmt.Errorf("%w: %s", ErrLocationNotFound, id)
	}
	w.discoverLocation(l)
	return l.clone(), nil
}

// SetLocationAccessible opens or closes a location as a travel destination.
func (w *WorldState) SetLocationAccessible(id string, accessible bool) (Location, error) {
	w.lock()
	defer w.unlock()

	l, ok := w.locations[id]
	if !ok {
		slog.Warn("changing access of unknown location", "location", id)
		return Location{}, fmt.Errorf("%w: %s", ErrLocationNotFound, id)
	}
	l.IsAccessible = accessible
	return l.clone(), nil
}

// discoverLocation requires w.mu to be held.
func (w *WorldState) discoverLocation(l *Location) {
	if l.IsDiscovered {
		return
	}
	l.IsDiscovered = true

	w.emit(EventLocationDiscovered, map[string]any{
		"locationId": l.ID,
		"name":       l.Name,
		"type":       l.Type.String(),
	})
}

// ConnectOptions tune ConnectLocations. A zero DistanceKm means 1 km.
type ConnectOptions struct {
	DistanceKm float64
	Method     TravelMethod
	OneWay     bool
}

const defaultConnectionKm = 1.0

// ConnectLocations adds a directed edge from -> to and, unless OneWay, an
// independent edge to -> from.
func (w *WorldState) ConnectLocations(fromID, toID string, opts ConnectOptions) error {
	if !opts.Method.valid() {
		return fmt.Errorf("unknown travel method: %d", int(opts.Method))
	}
	distance := opts.DistanceKm
	if distance <= 0 {
		distance = defaultConnectionKm
	}

	w.lock()
	defer w.unlock()

	from, ok := w.locations[fromID]
	if !ok {
		slog.Warn("connecting unknown location", "location", fromID)
		return fmt.Errorf("%w: %s", ErrLocationNotFound, fromID)
	}
	to, ok := w.locations[toID]
	if !ok {
		slog.Warn("connecting unknown location", "location", toID)
		return fmt.Errorf("%w: %s", ErrLocationNotFound, toID)
	}

	from.Connections = append(from.Connections, Connection{TargetID: toID, DistanceKm: distance, Method: opts.Method})
	if !opts.OneWay {
		to.Connections = append(to.Connections, Connection{TargetID: fromID, DistanceKm: distance, Method: opts.Method})
	}
	return nil
}
