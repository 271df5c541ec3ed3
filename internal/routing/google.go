package routing

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

// GoogleClient implements Directions against the Google Maps Directions API.
type GoogleClient struct {
	apiKey  string
	baseURL string
	httpCfg upstream.Config
	circuit *gobreaker.CircuitBreaker
}

func NewGoogleClient(client *http.Client, apiKey string) *GoogleClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "google-directions",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &GoogleClient{
		apiKey:  apiKey,
		baseURL: "https://maps.googleapis.com/maps/api/directions/json",
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

// Configured reports whether a credential was supplied at construction.
func (g *GoogleClient) Configured() bool {
	return g.apiKey != ""
}

func (g *GoogleClient) Route(ctx context.Context, origin, destination string) (*Route, error) {
	if g.apiKey == "" {
		return nil, ErrNotConfigured
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("origin", origin)
		values.Set("destination", destination)
		values.Set("mode", "driving")
		values.Set("key", g.apiKey)

		u := fmt.Sprintf("%s?%s", g.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := upstream.Do(ctx, g.httpCfg, g.circuit, buildRequest)
	if err != nil {
		return nil, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Status       string `json:"status"`
		ErrorMessage string `json:"error_message"`
		Routes       []struct {
			Legs []struct {
				StartAddress  string     `json:"start_address"`
				EndAddress    string     `json:"end_address"`
				StartLocation googlePair `json:"start_location"`
				EndLocation   googlePair `json:"end_location"`
				Distance      googleText `json:"distance"`
				Duration      googleText `json:"duration"`
				Steps         []struct {
					HTMLInstructions string     `json:"html_instructions"`
					EndLocation      googlePair `json:"end_location"`
				} `json:"steps"`
			} `json:"legs"`
		} `json:"routes"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding directions response: %w", err)
	}

	switch payload.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, ErrNoRoute
	default:
		return nil, fmt.Errorf("directions API status %s: %s", payload.Status, payload.ErrorMessage)
	}

	if len(payload.Routes) == 0 || len(payload.Routes[0].Legs) == 0 {
		return nil, ErrNoRoute
	}

	route := &Route{Legs: make([]Leg, 0, len(payload.Routes[0].Legs))}
	for _, l := range payload.Routes[0].Legs {
		leg := Leg{
			StartAddress:  l.StartAddress,
			EndAddress:    l.EndAddress,
			StartLocation: l.StartLocation.point(),
			EndLocation:   l.EndLocation.point(),
			Distance:      l.Distance.Text,
			Duration:      l.Duration.Text,
			Steps:         make([]Step, 0, len(l.Steps)),
		}
		for _, s := range l.Steps {
			leg.Steps = append(leg.Steps, Step{
				Instruction: s.HTMLInstructions,
				EndLocation: s.EndLocation.point(),
			})
		}
		route.Legs = append(route.Legs, leg)
	}

	return route, nil
}

// googlePair is the {lat, lng} object the Directions API uses for locations.
type googlePair struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (p googlePair) point() geo.Point {
	return geo.Point{Lat: p.Lat, Lon: p.Lng}
}

// googleText is a value/text pair; only the display text is kept.
type googleText struct {
	Text string `json:"text"`
}
