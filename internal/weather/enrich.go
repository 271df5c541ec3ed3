package weather

import (
	"context"
	"log"
	"sync"

	"github.com/routewx/route-weather/internal/geo"
	"github.com/routewx/route-weather/internal/trip"
)

// Lookup abstracts the current-conditions weather source.
type Lookup interface {
	Name() string
	Current(ctx context.Context, pt geo.Point) (Observation, error)
}

// EnrichedWaypoint pairs a waypoint with its weather observation.
type EnrichedWaypoint struct {
	Waypoint trip.Waypoint
	Weather  Observation
}

// Enricher fetches weather for each waypoint of a reduced route.
type Enricher struct {
	lookup Lookup
}

func NewEnricher(lookup Lookup) *Enricher {
	return &Enricher{lookup: lookup}
}

// Enrich produces one EnrichedWaypoint per input waypoint, in input order.
// Lookups run concurrently; the fan-out is already bounded by the waypoint
// reducer's cap. A failed lookup degrades only its own waypoint to a failure
// marker, it never fails the batch.
func (e *Enricher) Enrich(ctx context.Context, wps []trip.Waypoint) []EnrichedWaypoint {
	enriched := make([]EnrichedWaypoint, len(wps))

	var wg sync.WaitGroup
	for i, wp := range wps {
		i, wp := i, wp
		wg.Add(1)
		go func() {
			defer wg.Done()

			obs, err := e.lookup.Current(ctx, wp.Location)
			if err != nil {
				log.Printf("weather lookup failed for %q (%f,%f): %v",
					wp.Label, wp.Location.Lat, wp.Location.Lon, err)
				obs = FailureFor(err)
			}
			enriched[i] = EnrichedWaypoint{Waypoint: wp, Weather: obs}
		}()
	}
	wg.Wait()

	return enriched
}
