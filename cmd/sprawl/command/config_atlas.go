package command

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-sprawl/internal/storage"
	"github.com/pixil98/go-sprawl/internal/world"
)

// AtlasConfig points at the district and location definitions the world is
// seeded with. Both paths are optional.
type AtlasConfig struct {
	Districts AssetConfig[*world.DistrictDef] `json:"districts"`
	Locations AssetConfig[*world.LocationDef] `json:"locations"`
}

func (c *AtlasConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Districts.Validate("districts"))
	el.Add(c.Locations.Validate("locations"))
	return el.Err()
}

// Load populates w from the configured definitions.
func (c *AtlasConfig) Load(w *world.WorldState) error {
	if c.Districts.Path == "" && c.Locations.Path == "" {
		slog.Info("no atlas configured, starting with an empty city")
		return nil
	}

	districts, err := c.Districts.BuildStore()
	if err != nil {
		return fmt.Errorf("creating district store: %w", err)
	}
	locations, err := c.Locations.BuildStore()
	if err != nil {
		return fmt.Errorf("creating location store: %w", err)
	}

	return world.LoadAtlas(w, districts, locations)
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return nil
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

// BuildStore loads the assets below Path. An empty Path yields an empty store.
func (c *AssetConfig[T]) BuildStore() (storage.Storer[T], error) {
	if c.Path == "" {
		return storage.NewMemoryStore[T](), nil
	}
	return storage.NewFileStore[T](c.Path)
}
