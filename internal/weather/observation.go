package weather

import (
	"encoding/json"
	"errors"
	"strconv"
)

// Reason codes for degraded observations.
const (
	ReasonNotConfigured = "not_configured"
	ReasonFetchFailed   = "fetch_failed"
	ReasonBadPayload    = "bad_payload"
)

var (
	// ErrNotConfigured is returned when no weather credential was supplied.
	ErrNotConfigured = errors.New("weather provider not configured")

	// ErrBadPayload is returned when the provider answered but its payload
	// could not be interpreted.
	ErrBadPayload = errors.New("malformed weather payload")
)

// Observation is a tagged union: either a successful reading or a failure
// marker, never both. OK selects the shape.
type Observation struct {
	OK bool

	// Set when OK.
	TemperatureC float64
	Conditions   string
	Description  string
	HumidityPct  float64
	WindSpeedMS  float64

	// Set when degraded.
	ReasonCode string
	Message    string
}

// Reading builds a successful observation.
func Reading(tempC, humidityPct, windMS float64, conditions, description string) Observation {
	return Observation{
		OK:           true,
		TemperatureC: tempC,
		HumidityPct:  humidityPct,
		WindSpeedMS:  windMS,
		Conditions:   conditions,
		Description:  description,
	}
}

// FailureFor maps a lookup error to the failure marker clients see. The
// marker carries a stable reason code plus the human-readable strings the
// frontend renders in place of a reading.
func FailureFor(err error) Observation {
	switch {
	case errors.Is(err, ErrNotConfigured):
		return Observation{
			ReasonCode:  ReasonNotConfigured,
			Message:     "Weather API key not configured",
			Conditions:  "N/A",
			Description: "Weather API key not available",
		}
	case errors.Is(err, ErrBadPayload):
		return Observation{
			ReasonCode: ReasonBadPayload,
			Message:    "Unable to process weather data",
			Conditions: "Error processing weather data",
		}
	default:
		return Observation{
			ReasonCode: ReasonFetchFailed,
			Message:    "Unable to fetch weather data",
			Conditions: "Error fetching weather data",
		}
	}
}

// MarshalJSON renders the union in the wire format: normalized units with
// suffixes on success, an error object with "N/A" placeholders on failure.
func (o Observation) MarshalJSON() ([]byte, error) {
	if !o.OK {
		return json.Marshal(struct {
			Error       string `json:"error"`
			Temperature string `json:"temperature"`
			Conditions  string `json:"conditions"`
			Description string `json:"description,omitempty"`
		}{
			Error:       o.Message,
			Temperature: "N/A",
			Conditions:  o.Conditions,
			Description: o.Description,
		})
	}

	return json.Marshal(struct {
		Temperature string `json:"temperature"`
		Conditions  string `json:"conditions"`
		Description string `json:"description"`
		Humidity    string `json:"humidity"`
		WindSpeed   string `json:"wind_speed"`
	}{
		Temperature: formatFloat(o.TemperatureC) + "°C",
		Conditions:  o.Conditions,
		Description: o.Description,
		Humidity:    formatFloat(o.HumidityPct) + "%",
		WindSpeed:   formatFloat(o.WindSpeedMS) + " m/s",
	})
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
