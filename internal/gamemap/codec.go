package gamemap

import (
	"encoding/json"
	"fmt"
	"maps"
	"time"

	"github.com/pixil98/go-errors"
)

type Format int

const (
	FormatJSON Format = iota
	FormatGeoJSON
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatGeoJSON:
		return "geojson"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

func (f *Format) UnmarshalText(text []byte) error {
	switch string(text) {
	case "json":
		*f = FormatJSON
	case "geojson":
		*f = FormatGeoJSON
	default:
		return fmt.Errorf("unknown map format: %s", text)
	}
	return nil
}

// Validate checks the structural integrity of a decoded map.
func (m *Map) Validate() error {
	el := errors.NewErrorList()

	if m.ID == "" {
		el.Add(fmt.Errorf("map id is required"))
	}
	for i, p := range m.Points {
		if p.Latitude < -90 || p.Latitude > 90 {
			el.Add(fmt.Errorf("point %d: latitude %v out of range", i, p.Latitude))
		}
		if p.Longitude < -180 || p.Longitude > 180 {
			el.Add(fmt.Errorf("point %d: longitude %v out of range", i, p.Longitude))
		}
	}

	return el.Err()
}

// Encode serializes m in the requested format.
func Encode(m *Map, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return json.MarshalIndent(m, "", "  ")
	case FormatGeoJSON:
		return json.MarshalIndent(toFeatureCollection(m), "", "  ")
	default:
		return nil, fmt.Errorf("unknown map format: %d", int(f))
	}
}

// Decode parses data in the requested format.
func Decode(data []byte, f Format) (*Map, error) {
	var m *Map
	switch f {
	case FormatJSON:
		m = &Map{}
		if err := json.Unmarshal(data, m); err != nil {
			return nil, fmt.Errorf("unmarshalling map: %w", err)
		}
	case FormatGeoJSON:
		var fc featureCollection
		if err := json.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("unmarshalling geojson: %w", err)
		}
		var err error
		m, err = fromFeatureCollection(&fc)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown map format: %d", int(f))
	}

	if m.ID == "" {
		m.ID = NewID("map")
	}
	if m.Layers == nil {
		m.Layers = []Layer{}
	}
	if m.Points == nil {
		m.Points = []Point{}
	}
	if m.Districts == nil {
		m.Districts = []string{}
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("validating map: %w", err)
	}
	return m, nil
}

// featureCollection carries the map's own fields as foreign members next to
// the standard GeoJSON ones.
type featureCollection struct {
	Type      string     `json:"type"`
	ID        string     `json:"id,omitempty"`
	Name      string     `json:"name,omitempty"`
	MapType   string     `json:"mapType,omitempty"`
	Layers    []Layer    `json:"layers,omitempty"`
	Districts []string   `json:"districts,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	Features  []feature  `json:"features"`
}

// Feature properties the codec owns. They map onto Point fields and never
// reach Point.Properties.
const (
	propName    = "name"
	propType    = "type"
	propLayerID = "layerId"
)

type feature struct {
	Type       string         `json:"type"`
	ID         string         `json:"id,omitempty"`
	Geometry   geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

func toFeatureCollection(m *Map) featureCollection {
	fc := featureCollection{
		Type:      "FeatureCollection",
		ID:        m.ID,
		Name:      m.Name,
		MapType:   m.Type,
		Layers:    m.Layers,
		Districts: m.Districts,
		Features:  make([]feature, 0, len(m.Points)),
	}
	if !m.CreatedAt.IsZero() {
		created := m.CreatedAt
		fc.CreatedAt = &created
	}
	for _, p := range m.Points {
		props := maps.Clone(p.Properties)
		if props == nil {
			props = map[string]any{}
		}
		props[propName] = p.Name
		props[propType] = p.Type
		if p.LayerID != "" {
			props[propLayerID] = p.LayerID
		}

		fc.Features = append(fc.Features, feature{
			Type: "Feature",
			ID:   p.ID,
			Geometry: geometry{
				Type:        "Point",
				Coordinates: []float64{p.Longitude, p.Latitude},
			},
			Properties: props,
		})
	}
	return fc
}

func fromFeatureCollection(fc *featureCollection) (*Map, error) {
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("expected FeatureCollection, got %q", fc.Type)
	}

	m := &Map{
		ID:        fc.ID,
		Name:      fc.Name,
		Type:      fc.MapType,
		Layers:    fc.Layers,
		Districts: fc.Districts,
		Points:    make([]Point, 0, len(fc.Features)),
	}
	if fc.CreatedAt != nil {
		m.CreatedAt = *fc.CreatedAt
	}

	el := errors.NewErrorList()
	for i, f := range fc.Features {
		if f.Geometry.Type != "Point" {
			el.Add(fmt.Errorf("feature %d: unsupported geometry %q", i, f.Geometry.Type))
			continue
		}
		if len(f.Geometry.Coordinates) < 2 {
			el.Add(fmt.Errorf("feature %d: point needs [lon, lat]", i))
			continue
		}

		props := maps.Clone(f.Properties)
		name, _ := props[propName].(string)
		typ, _ := props[propType].(string)
		layerID, _ := props[propLayerID].(string)
		delete(props, propName)
		delete(props, propType)
		delete(props, propLayerID)
		if len(props) == 0 {
			props = nil
		}

		id := f.ID
		if id == "" {
			id = NewID("point")
		}
		m.Points = append(m.Points, Point{
			ID:         id,
			Name:       name,
			Type:       typ,
			LayerID:    layerID,
			Longitude:  f.Geometry.Coordinates[0],
			Latitude:   f.Geometry.Coordinates[1],
			Properties: props,
		})
	}
	if err := el.Err(); err != nil {
		return nil, err
	}

	return m, nil
}
