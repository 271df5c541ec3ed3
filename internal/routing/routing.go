// Package routing defines the boundary to the external turn-by-turn routing
// provider and the route model the waypoint pipeline consumes.
package routing

import (
	"context"
	"errors"

	"github.com/routewx/route-weather/internal/geo"
)

var (
	// ErrNotConfigured is returned when no routing credential was supplied.
	ErrNotConfigured = errors.New("routing provider not configured")

	// ErrNoRoute is returned when the provider found no route between two
	// valid addresses.
	ErrNoRoute = errors.New("no route found")
)

// Step is one maneuver within a leg. Instruction may be empty.
type Step struct {
	Instruction string
	EndLocation geo.Point
}

// Leg is one origin-to-destination segment of a route. Distance and Duration
// are display text taken verbatim from the provider.
type Leg struct {
	StartAddress  string
	EndAddress    string
	StartLocation geo.Point
	EndLocation   geo.Point
	Distance      string
	Duration      string
	Steps         []Step
}

// Route is an ordered sequence of legs, start to end.
type Route struct {
	Legs []Leg
}

// Directions resolves two free-text addresses into a driving route.
type Directions interface {
	Route(ctx context.Context, origin, destination string) (*Route, error)
}
