package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/routewx/route-weather/internal/geo"
	"github.com/routewx/route-weather/internal/upstream"
)

// OpenWeatherClient implements Lookup against the OpenWeatherMap current
// weather API, queried by coordinate.
type OpenWeatherClient struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg upstream.Config
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherClient(client *http.Client, apiKey string) *OpenWeatherClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenWeatherClient{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		httpCfg: upstream.Config{
			Client: client,
			Backoff: upstream.Backoff{
				MaxRetries:      2,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: cb,
	}
}

func (c *OpenWeatherClient) Name() string {
	return c.name
}

// Configured reports whether a credential was supplied at construction.
func (c *OpenWeatherClient) Configured() bool {
	return c.apiKey != ""
}

func (c *OpenWeatherClient) Current(ctx context.Context, pt geo.Point) (Observation, error) {
	// Fail before touching the network so a missing credential costs
	// nothing per waypoint.
	if c.apiKey == "" {
		return Observation{}, ErrNotConfigured
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", fmt.Sprintf("%f", pt.Lat))
		values.Set("lon", fmt.Sprintf("%f", pt.Lon))
		values.Set("appid", c.apiKey)
		values.Set("units", "metric")

		u := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := upstream.Do(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return Observation{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Observation{}, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	// The primary condition entry is required; without it there is nothing
	// meaningful to show.
	if len(payload.Weather) == 0 {
		return Observation{}, fmt.Errorf("%w: empty condition list", ErrBadPayload)
	}

	return Reading(
		payload.Main.Temp,
		payload.Main.Humidity,
		payload.Wind.Speed,
		payload.Weather[0].Main,
		payload.Weather[0].Description,
	), nil
}
