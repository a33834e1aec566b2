package world

import (
	"fmt"
	"log/slog"
	"math"
	"time"
)

// Period is a coarse band of the in-game day.
type Period int

const (
	PeriodLateNight Period = iota
	PeriodDawn
	PeriodMorning
	PeriodNoon
	PeriodAfternoon
	PeriodEvening
	PeriodNight
)

var periodNames = [...]string{
	PeriodLateNight: "LateNight",
	PeriodDawn:      "Dawn",
	PeriodMorning:   "Morning",
	PeriodNoon:      "Noon",
	PeriodAfternoon: "Afternoon",
	PeriodEvening:   "Evening",
	PeriodNight:     "Night",
}

var periodLabels = [...]string{
	PeriodLateNight: "late night",
	PeriodDawn:      "dawn",
	PeriodMorning:   "morning",
	PeriodNoon:      "noon",
	PeriodAfternoon: "afternoon",
	PeriodEvening:   "evening",
	PeriodNight:     "night",
}

func (p Period) String() string {
	if p < 0 || int(p) >= len(periodNames) {
		return "Unknown"
	}
	return periodNames[p]
}

// Label is the lower case, space separated form used in prose.
func (p Period) Label() string {
	if p < 0 || int(p) >= len(periodLabels) {
		return "unknown"
	}
	return periodLabels[p]
}

func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Period) UnmarshalText(text []byte) error {
	for i, name := range periodNames {
		if name == string(text) {
			*p = Period(i)
			return nil
		}
	}
	return fmt.Errorf("unknown period: %s", text)
}

// periodForHour maps an hour of day onto its fixed band.
func periodForHour(hour int) Period {
	switch {
	case hour < 5:
		return PeriodLateNight
	case hour < 7:
		return PeriodDawn
	case hour < 11:
		return PeriodMorning
	case hour < 13:
		return PeriodNoon
	case hour < 17:
		return PeriodAfternoon
	case hour < 20:
		return PeriodEvening
	default:
		return PeriodNight
	}
}

// lightLevel peaks at 1.0 at noon and never drops below 0.2.
func lightLevel(hour int) float64 {
	return math.Max(0.2, 1-math.Abs(float64(hour)-12)/12)
}

// TimeOfDay describes the current hour in gameplay terms.
type TimeOfDay struct {
	Period     Period  `json:"period"`
	Hour       int     `json:"hour"`
	IsNight    bool    `json:"isNight"`
	LightLevel float64 `json:"lightLevel"`
}

type gameClock struct {
	now time.Time

	// Driver ticked game time not yet counted towards a weather roll.
	tickedSinceRoll time.Duration
}

// GameTime returns the current in-game instant.
func (w *WorldState) GameTime() time.Time {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.clock.now
}

// SetGameTime overwrites the clock, possibly moving it backwards. Crossing the
// day/night boundary raises a time transition.
func (w *WorldState) SetGameTime(t time.Time) time.Time {
	w.lock()
	defer w.unlock()

	prev := w.clock.now
	w.clock.now = t
	w.checkTransition(prev, t)
	return t
}

// AdvanceGameTime moves the clock forward by the sum of the deltas. A total of
// at least one hour rolls once for a weather change. A negative total leaves
// the clock untouched.
func (w *WorldState) AdvanceGameTime(minutes, hours, days int) time.Time {
	d := time.Duration(minutes)*time.Minute +
		time.Duration(hours)*time.Hour +
		time.Duration(days)*24*time.Hour

	w.lock()
	defer w.unlock()
	w.advance(d)
	return w.clock.now
}

// TimeOfDay classifies the current game hour.
func (w *WorldState) TimeOfDay() TimeOfDay {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.timeOfDay()
}

func (w *WorldState) timeOfDay() TimeOfDay {
	hour := w.clock.now.Hour()
	return TimeOfDay{
		Period:     periodForHour(hour),
		Hour:       hour,
		IsNight:    w.cfg.isNight(hour),
		LightLevel: lightLevel(hour),
	}
}

// advance requires w.mu to be held.
func (w *WorldState) advance(d time.Duration) {
	if !w.moveClock(d) {
		return
	}
	if d >= time.Hour {
		w.rollWeatherChange()
	}
}

// tick requires w.mu to be held. Ticks are too short to roll on their own, so
// they accumulate and each full hour rolls once.
func (w *WorldState) tick(d time.Duration) {
	if !w.moveClock(d) {
		return
	}

	w.clock.tickedSinceRoll += d
	for w.clock.tickedSinceRoll >= time.Hour {
		w.clock.tickedSinceRoll -= time.Hour
		w.rollWeatherChange()
	}
}

// moveClock requires w.mu to be held.
func (w *WorldState) moveClock(d time.Duration) bool {
	if d < 0 {
		slog.Warn("ignoring negative time advance", "duration", d)
		return false
	}

	prev := w.clock.now
	w.clock.now = prev.Add(d)
	w.checkTransition(prev, w.clock.now)
	return true
}

// rollWeatherChange requires w.mu to be held.
func (w *WorldState) rollWeatherChange() {
	if w.rng.Float64() < w.cfg.WeatherChangeProbability {
		w.setRandomWeather()
	}
}

// checkTransition requires w.mu to be held.
func (w *WorldState) checkTransition(prev, next time.Time) {
	wasNight := w.cfg.isNight(prev.Hour())
	isNight := w.cfg.isNight(next.Hour())
	if wasNight == isNight {
		return
	}

	transition := TransitionNightFall
	if wasNight {
		transition = TransitionDawn
	}
	w.emit(EventTimeTransition, map[string]any{
		"transitionType": transition,
		"newTime":        next,
	})
}
