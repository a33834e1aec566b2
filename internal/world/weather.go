package world

import (
	"fmt"
)

type WeatherKind int

const (
	WeatherClear WeatherKind = iota
	WeatherRain
	WeatherHeavyRain
	WeatherFog
	WeatherAcidRain
	WeatherSandstorm
	weatherKindCount
)

// WeatherEffects are the fixed gameplay modifiers of a weather kind.
type WeatherEffects struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Visibility      float64 `json:"visibilityModifier"`
	Movement        float64 `json:"movementModifier"`
	Stealth         float64 `json:"stealthModifier"`
	Mood            string  `json:"mood"`
	DamagePerMinute float64 `json:"damagePerMinute,omitempty"`
}

var weatherKindNames = [weatherKindCount]string{
	WeatherClear:     "Clear",
	WeatherRain:      "Rain",
	WeatherHeavyRain: "HeavyRain",
	WeatherFog:       "Fog",
	WeatherAcidRain:  "AcidRain",
	WeatherSandstorm: "Sandstorm",
}

var weatherTable = [weatherKindCount]WeatherEffects{
	WeatherClear: {
		Name:        "Clear",
		Description: "Clear skies over the city. Neon reflects off dry streets.",
		Visibility:  1.0,
		Movement:    1.0,
		Stealth:     1.0,
		Mood:        "neutral",
	},
	WeatherRain: {
		Name:        "Rain",
		Description: "A steady rain washes the grime into the gutters.",
		Visibility:  0.8,
		Movement:    0.9,
		Stealth:     1.2,
		Mood:        "melancholic",
	},
	WeatherHeavyRain: {
		Name:        "Heavy Rain",
		Description: "Sheets of rain hammer the rooftops and flood the lower streets.",
		Visibility:  0.6,
		Movement:    0.75,
		Stealth:     1.4,
		Mood:        "oppressive",
	},
	WeatherFog: {
		Name:        "Fog",
		Description: "Thick smog swallows the skyline. Holograms glow through the haze.",
		Visibility:  0.4,
		Movement:    0.85,
		Stealth:     1.5,
		Mood:        "mysterious",
	},
	WeatherAcidRain: {
		Name:            "Acid Rain",
		Description:     "Caustic rain hisses on every exposed surface. Stay under cover.",
		Visibility:      0.7,
		Movement:        0.8,
		Stealth:         1.3,
		Mood:            "dangerous",
		DamagePerMinute: 1.0,
	},
	WeatherSandstorm: {
		Name:            "Sandstorm",
		Description:     "Wind off the wasteland drives grit through every crack.",
		Visibility:      0.3,
		Movement:        0.6,
		Stealth:         1.6,
		Mood:            "hostile",
		DamagePerMinute: 0.5,
	},
}

// weatherWeights drive random transitions; cumulative, first match wins.
var weatherWeights = []struct {
	kind   WeatherKind
	weight float64
}{
	{WeatherClear, 0.40},
	{WeatherRain, 0.25},
	{WeatherFog, 0.10},
	{WeatherHeavyRain, 0.10},
	{WeatherSandstorm, 0.10},
	{WeatherAcidRain, 0.05},
}

func (k WeatherKind) valid() bool {
	return k >= 0 && k < weatherKindCount
}

func (k WeatherKind) String() string {
	if !k.valid() {
		return fmt.Sprintf("WeatherKind(%d)", int(k))
	}
	return weatherKindNames[k]
}

// Effects returns the modifier bundle of k.
func (k WeatherKind) Effects() WeatherEffects {
	if !k.valid() {
		return weatherTable[WeatherClear]
	}
	return weatherTable[k]
}

func (k WeatherKind) MarshalText() ([]byte, error) {
	if !k.valid() {
		return nil, fmt.Errorf("unknown weather kind: %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *WeatherKind) UnmarshalText(text []byte) error {
	for i, name := range weatherKindNames {
		if name == string(text) {
			*k = WeatherKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown weather kind: %s", text)
}

// drawWeather maps a roll in [0,1) onto a weather kind.
func drawWeather(roll float64) WeatherKind {
	cumulative := 0.0
	for _, w := range weatherWeights {
		cumulative += w.weight
		if roll < cumulative {
			return w.kind
		}
	}
	return weatherWeights[len(weatherWeights)-1].kind
}

// WeatherState is the active weather kind with its modifiers.
type WeatherState struct {
	Kind WeatherKind `json:"kind"`
	WeatherEffects
}

// Weather returns the current weather.
func (w *WorldState) Weather() WeatherState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return WeatherState{Kind: w.weather, WeatherEffects: w.weather.Effects()}
}

// SetWeather switches to kind. An event is raised only if the kind changed.
func (w *WorldState) SetWeather(kind WeatherKind) (WeatherState, error) {
	if !kind.valid() {
		return WeatherState{}, fmt.Errorf("unknown weather kind: %d", int(kind))
	}

	w.lock()
	defer w.unlock()
	w.setWeather(kind)
	return WeatherState{Kind: kind, WeatherEffects: kind.Effects()}, nil
}

// SetRandomWeather draws a new weather kind from the weighted table.
func (w *WorldState) SetRandomWeather() WeatherState {
	w.lock()
	defer w.unlock()
	w.setRandomWeather()
	return WeatherState{Kind: w.weather, WeatherEffects: w.weather.Effects()}
}

// setRandomWeather requires w.mu to be held.
func (w *WorldState) setRandomWeather() {
	w.setWeather(drawWeather(w.rng.Float64()))
}

// setWeather requires w.mu to be held.
func (w *WorldState) setWeather(kind WeatherKind) {
	old := w.weather
	w.weather = kind
	if old == kind {
		return
	}

	w.emit(EventWeatherChanged, map[string]any{
		"oldWeather": old.String(),
		"newWeather": kind.String(),
		"time":       w.clock.now,
	})
}
