package world

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

const (
	DefaultMapType                    = "city"
	DefaultMaxMapPoints               = 1000
	DefaultMaxLayers                  = 10
	DefaultTimeScale                  = 1.0
	DefaultDayStartHour               = 6
	DefaultNightStartHour             = 20
	DefaultWeatherChangeProbability   = 0.1
	DefaultRandomEncounterProbability = 0.15
	DefaultTravelSpeedKmPerHour       = 30.0
	DefaultStartTime                  = "2077-10-23T08:00:00Z"
)

// Config holds the tunable options of the world engine.
type Config struct {
	DefaultMapType             string      `json:"default_map_type" env:"SPRAWL_DEFAULT_MAP_TYPE"`
	MaxMapPoints               int         `json:"max_map_points" env:"SPRAWL_MAX_MAP_POINTS"`
	MaxLayers                  int         `json:"max_layers" env:"SPRAWL_MAX_LAYERS"`
	TimeScale                  float64     `json:"time_scale" env:"SPRAWL_TIME_SCALE"` // game seconds per real second
	DayStartHour               int         `json:"day_start_hour" env:"SPRAWL_DAY_START_HOUR"`
	NightStartHour             int         `json:"night_start_hour" env:"SPRAWL_NIGHT_START_HOUR"`
	WeatherChangeProbability   float64     `json:"weather_change_probability" env:"SPRAWL_WEATHER_CHANGE_PROBABILITY"`
	RandomEncounterProbability float64     `json:"random_encounter_probability" env:"SPRAWL_RANDOM_ENCOUNTER_PROBABILITY"`
	TravelSpeedKmPerHour       float64     `json:"travel_speed_km_per_hour" env:"SPRAWL_TRAVEL_SPEED_KM_PER_HOUR"`
	StartTime                  string      `json:"start_time" env:"SPRAWL_START_TIME"` // RFC3339
	StartWeather               WeatherKind `json:"start_weather" env:"SPRAWL_START_WEATHER"`
	Seed                       uint64      `json:"seed" env:"SPRAWL_SEED"` // 0 picks a random seed
}

// DefaultConfig returns a Config with every option at its default.
func DefaultConfig() Config {
	return Config{
		DefaultMapType:             DefaultMapType,
		MaxMapPoints:               DefaultMaxMapPoints,
		MaxLayers:                  DefaultMaxLayers,
		TimeScale:                  DefaultTimeScale,
		DayStartHour:               DefaultDayStartHour,
		NightStartHour:             DefaultNightStartHour,
		WeatherChangeProbability:   DefaultWeatherChangeProbability,
		RandomEncounterProbability: DefaultRandomEncounterProbability,
		TravelSpeedKmPerHour:       DefaultTravelSpeedKmPerHour,
		StartTime:                  DefaultStartTime,
		StartWeather:               WeatherClear,
	}
}

// UnmarshalJSON starts from DefaultConfig so that keys missing from the
// document keep their defaults.
func (c *Config) UnmarshalJSON(b []byte) error {
	type plain Config
	p := plain(DefaultConfig())
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*c = Config(p)
	return nil
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if c.DefaultMapType == "" {
		el.Add(fmt.Errorf("default_map_type is required"))
	}
	if c.MaxMapPoints <= 0 {
		el.Add(fmt.Errorf("max_map_points must be positive"))
	}
	if c.MaxLayers <= 0 {
		el.Add(fmt.Errorf("max_layers must be positive"))
	}
	if c.TimeScale < 0 {
		el.Add(fmt.Errorf("time_scale must not be negative"))
	}
	if c.DayStartHour < 0 || c.DayStartHour > 23 {
		el.Add(fmt.Errorf("day_start_hour must be between 0 and 23"))
	}
	if c.NightStartHour < 0 || c.NightStartHour > 23 {
		el.Add(fmt.Errorf("night_start_hour must be between 0 and 23"))
	}
	if c.DayStartHour >= c.NightStartHour {
		el.Add(fmt.Errorf("day_start_hour must be before night_start_hour"))
	}
	if c.WeatherChangeProbability < 0 || c.WeatherChangeProbability > 1 {
		el.Add(fmt.Errorf("weather_change_probability must be between 0 and 1"))
	}
	if c.RandomEncounterProbability < 0 || c.RandomEncounterProbability > 1 {
		el.Add(fmt.Errorf("random_encounter_probability must be between 0 and 1"))
	}
	if c.TravelSpeedKmPerHour <= 0 {
		el.Add(fmt.Errorf("travel_speed_km_per_hour must be positive"))
	}
	if !c.StartWeather.valid() {
		el.Add(fmt.Errorf("invalid start_weather: %d", c.StartWeather))
	}
	if _, err := c.startTime(); err != nil {
		el.Add(err)
	}

	return el.Err()
}

func (c *Config) startTime() (time.Time, error) {
	if c.StartTime == "" {
		return time.Parse(time.RFC3339, DefaultStartTime)
	}
	t, err := time.Parse(time.RFC3339, c.StartTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing start_time: %w", err)
	}
	return t, nil
}

// isNight reports whether hour falls in the configured night window.
func (c *Config) isNight(hour int) bool {
	return hour >= c.NightStartHour || hour < c.DayStartHour
}
