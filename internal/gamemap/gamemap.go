// Package gamemap holds the standalone map container exchanged with external
// map tooling. It is independent of the live world registries.
package gamemap

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTooManyLayers = errors.New("map layer limit reached")
	ErrTooManyPoints = errors.New("map point limit reached")
	ErrLayerNotFound = errors.New("layer not found")
)

type Layer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Visible bool   `json:"visible"`
	ZIndex  int    `json:"zIndex"`
}

type Point struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	LayerID    string         `json:"layerId,omitempty"`
	Latitude   float64        `json:"latitude"`
	Longitude  float64        `json:"longitude"`
	Properties map[string]any `json:"properties,omitempty"`
}

type Map struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Layers    []Layer   `json:"layers"`
	Points    []Point   `json:"points"`
	Districts []string  `json:"districts"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewID returns a unique identifier with the given prefix.
func NewID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
}

// New creates an empty map. An empty id is generated.
func New(id, name, mapType string, createdAt time.Time) *Map {
	if id == "" {
		id = NewID("map")
	}
	return &Map{
		ID:        id,
		Name:      name,
		Type:      mapType,
		Layers:    []Layer{},
		Points:    []Point{},
		Districts: []string{},
		CreatedAt: createdAt,
	}
}

// AddLayer appends l unless the map already holds maxLayers layers.
func (m *Map) AddLayer(l Layer, maxLayers int) (Layer, error) {
	if len(m.Layers) >= maxLayers {
		return Layer{}, fmt.Errorf("%w: %d", ErrTooManyLayers, maxLayers)
	}
	if l.ID == "" {
		l.ID = NewID("layer")
	}
	m.Layers = append(m.Layers, l)
	return l, nil
}

// AddPoint appends p unless the map already holds maxPoints points. A point
// naming a layer must name one that exists.
func (m *Map) AddPoint(p Point, maxPoints int) (Point, error) {
	if len(m.Points) >= maxPoints {
		return Point{}, fmt.Errorf("%w: %d", ErrTooManyPoints, maxPoints)
	}
	if p.LayerID != "" && !m.hasLayer(p.LayerID) {
		return Point{}, fmt.Errorf("%w: %s", ErrLayerNotFound, p.LayerID)
	}
	if p.ID == "" {
		p.ID = NewID("point")
	}
	p.Properties = maps.Clone(p.Properties)
	m.Points = append(m.Points, p)
	return p, nil
}

func (m *Map) hasLayer(id string) bool {
	return slices.ContainsFunc(m.Layers, func(l Layer) bool { return l.ID == id })
}

// Clone returns a copy that shares nothing mutable with m.
func (m *Map) Clone() Map {
	c := *m
	c.Layers = slices.Clone(m.Layers)
	c.Districts = slices.Clone(m.Districts)
	c.Points = make([]Point, len(m.Points))
	for i, p := range m.Points {
		p.Properties = maps.Clone(p.Properties)
		c.Points[i] = p
	}
	return c
}
