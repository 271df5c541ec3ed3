package weather

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/routewx/route-weather/internal/geo"
)

// RateLimitedLookup wraps a Lookup with a token-bucket limiter so that the
// per-request waypoint fan-out cannot burst past the provider's quota.
type RateLimitedLookup struct {
	next    Lookup
	limiter *rate.Limiter
	name    string
}

// NewRateLimited wraps next. rps may be fractional; burst is the maximum
// number of lookups allowed to fire back to back.
func NewRateLimited(next Lookup, rps float64, burst int) *RateLimitedLookup {
	return &RateLimitedLookup{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    fmt.Sprintf("%s [rate limited]", next.Name()),
	}
}

func (r *RateLimitedLookup) Name() string {
	return r.name
}

func (r *RateLimitedLookup) Current(ctx context.Context, pt geo.Point) (Observation, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return Observation{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.next.Current(ctx, pt)
}

var _ Lookup = (*RateLimitedLookup)(nil)
