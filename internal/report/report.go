// Package report renders world snapshots as plain text for consoles and
// request/reply clients.
package report

import (
	"math"

	"github.com/pixil98/go-sprawl/internal/world"
)

const statusTemplate = `{{ .GameTime.Format "2006-01-02 15:04" }} | {{ title .Period.Label }}{{ if .IsNight }} (night){{ end }} | light {{ .LightPercent }}%
Weather: {{ .Weather.Name }}. {{ .Weather.Description }}{{ if gt .Weather.DamagePerMinute 0.0 }} Exposure deals {{ .Weather.DamagePerMinute }} damage per minute.{{ end }}
Districts: {{ .DistrictCount }} | Locations: {{ .DiscoveredLocationCount }}/{{ .LocationCount }} discovered | Maps: {{ .MapCount }}
`

const travelTemplate = `{{- if not .Success -}}
Travel failed: {{ .Error }}
{{ else -}}
Travelled from {{ .FromName }} to {{ .ToName }}: {{ printf "%.2f" .DistanceKm }} km in {{ .TravelTimeMinutes }} {{ ternary "minute" "minutes" (eq .TravelTimeMinutes 1) }}, arriving at {{ .ArrivalTime.Format "15:04" }}. Weather on arrival: {{ .WeatherName }}.
{{- with .Encounter }}
{{ .Description }}.
{{- end }}
{{ end -}}`

type statusView struct {
	world.Status
	LightPercent int
}

// Status renders a world status summary.
func Status(s world.Status) (string, error) {
	out, err := ExpandTemplate(statusTemplate, statusView{
		Status:       s,
		LightPercent: int(math.Round(s.LightLevel * 100)),
	})
	if err != nil {
		return "", err
	}
	return Wrap(out), nil
}

// Travel renders the outcome of a trip.
func Travel(r world.TravelResult) (string, error) {
	out, err := ExpandTemplate(travelTemplate, r)
	if err != nil {
		return "", err
	}
	return Wrap(out), nil
}
