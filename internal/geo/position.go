// internal/geo/position.go
package geo

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/lacra/agritrace-backend/internal/errs"
)

type Position struct {
	Latitude    float64  `json:"lat"`
	Longitude   float64  `json:"lng"`
	Altitude    *float64 `json:"alt,omitempty"`
	AccuracyM   float64  `json:"accuracy,omitempty"`
	HasAccuracy bool     `json:"-"`
}

// String renders "lat,lng" with six decimals, plus ",alt" with two when an
// altitude is known.
func (p Position) String() string {
	s := fmt.Sprintf("%.6f,%.6f", p.Latitude, p.Longitude)
	if p.Altitude != nil {
		s += fmt.Sprintf(",%.2f", *p.Altitude)
	}
	return s
}

// AccuracyClass buckets the reported horizontal accuracy in metres.
func (p Position) AccuracyClass() string {
	switch {
	case !p.HasAccuracy:
		return ""
	case p.AccuracyM <= 10:
		return "high"
	case p.AccuracyM <= 50:
		return "medium"
	default:
		return "low"
	}
}

// ParseCoordinates accepts "lat,lng" or "lat,lng,alt".
func ParseCoordinates(s string) (Position, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) < 2 || len(parts) > 3 {
		return Position{}, errs.Validation("gps_coordinates", "expected lat,lng or lat,lng,alt")
	}

	values := make([]float64, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Position{}, errs.Validation("gps_coordinates", fmt.Sprintf("%q is not a number", part))
		}
		values[i] = v
	}

	if values[0] < -90 || values[0] > 90 {
		return Position{}, errs.Validation("gps_coordinates", "latitude out of range")
	}
	if values[1] < -180 || values[1] > 180 {
		return Position{}, errs.Validation("gps_coordinates", "longitude out of range")
	}

	pos := Position{Latitude: values[0], Longitude: values[1]}
	if len(values) == 3 {
		alt := values[2]
		pos.Altitude = &alt
	}
	return pos, nil
}

type plotPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PlotCenter returns the first point of a plot boundary stored as a JSON
// array of {lat,lng}. The form prefill has always used the first vertex.
func PlotCenter(gpsJSON string) (Position, error) {
	if strings.TrimSpace(gpsJSON) == "" {
		return Position{}, errs.NotFound("plot has no GPS coordinates")
	}

	var points []plotPoint
	if err := json.Unmarshal([]byte(gpsJSON), &points); err != nil {
		return Position{}, errs.Validation("gps_coordinates", "plot coordinates are not a JSON array of points")
	}
	if len(points) == 0 {
		return Position{}, errs.NotFound("plot has no GPS coordinates")
	}
	return Position{Latitude: points[0].Lat, Longitude: points[0].Lng}, nil
}
