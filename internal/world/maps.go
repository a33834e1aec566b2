package world

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/pixil98/go-sprawl/internal/gamemap"
)

// NewGameMap registers an empty map container referencing the current
// districts. An empty mapType takes the configured default.
func (w *WorldState) NewGameMap(name, mapType string) gamemap.Map {
	if mapType == "" {
		mapType = w.cfg.DefaultMapType
	}

	w.lock()
	defer w.unlock()

	m := gamemap.New("", name, mapType, w.clock.now)
	for id := range w.districts {
		m.Districts = append(m.Districts, id)
	}
	sort.Strings(m.Districts)

	w.maps[m.ID] = m
	return m.Clone()
}

// GameMap returns a copy of a registered map.
func (w *WorldState) GameMap(id string) (gamemap.Map, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	m, ok := w.maps[id]
	if !ok {
		return gamemap.Map{}, false
	}
	return m.Clone(), true
}

// AddMapLayer appends a layer to a registered map.
func (w *WorldState) AddMapLayer(mapID string, layer gamemap.Layer) (gamemap.Layer, error) {
	w.lock()
	defer w.unlock()

	m, ok := w.maps[mapID]
	if !ok {
		return gamemap.Layer{}, fmt.Errorf("%w: %s", ErrMapNotFound, mapID)
	}
	return m.AddLayer(layer, w.cfg.MaxLayers)
}

// AddMapPoint appends a point to a registered map.
func (w *WorldState) AddMapPoint(mapID string, point gamemap.Point) (gamemap.Point, error) {
	w.lock()
	defer w.unlock()

	m, ok := w.maps[mapID]
	if !ok {
		return gamemap.Point{}, fmt.Errorf("%w: %s", ErrMapNotFound, mapID)
	}
	return m.AddPoint(point, w.cfg.MaxMapPoints)
}

// ExportGameMap serializes a registered map.
func (w *WorldState) ExportGameMap(mapID string, format gamemap.Format) ([]byte, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	m, ok := w.maps[mapID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMapNotFound, mapID)
	}
	return gamemap.Encode(m, format)
}

// ImportGameMap parses data and registers the map under its id, replacing any
// map with the same id.
func (w *WorldState) ImportGameMap(data []byte, format gamemap.Format) (*gamemap.Map, error) {
	m, err := gamemap.Decode(data, format)
	if err != nil {
		slog.Warn("importing game map", "format", format, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	if m.Type == "" {
		m.Type = w.cfg.DefaultMapType
	}
	if len(m.Layers) > w.cfg.MaxLayers || len(m.Points) > w.cfg.MaxMapPoints {
		slog.Warn("imported game map exceeds limits", "map", m.ID, "layers", len(m.Layers), "points", len(m.Points))
	}

	w.lock()
	defer w.unlock()
	w.maps[m.ID] = m

	c := m.Clone()
	return &c, nil
}
