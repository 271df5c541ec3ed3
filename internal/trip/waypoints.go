// Package trip turns a raw turn-by-turn route into a small, deduplicated,
// evenly distributed set of waypoints suitable for per-point weather lookups.
package trip

import (
	"strings"

	"github.com/routewx/route-weather/internal/geo"
	"github.com/routewx/route-weather/internal/routing"
)

const (
	// maxLegSamples bounds how many step endpoints a single leg contributes.
	maxLegSamples = 5

	// maxWaypoints caps the final reduced set, and with it the number of
	// weather lookups a single request can fan out to.
	maxWaypoints = 10
)

// Waypoint is a sampled geographic point selected for a weather lookup.
type Waypoint struct {
	Label    string
	Location geo.Point
}

// Flatten walks the route's legs in order and produces the raw waypoint
// candidates: the route start (labeled with the first leg's start address),
// the sampled step endpoints of every leg, and the route end (labeled with
// the last leg's end address).
func Flatten(route *routing.Route) []Waypoint {
	if route == nil || len(route.Legs) == 0 {
		return nil
	}

	first := route.Legs[0]
	last := route.Legs[len(route.Legs)-1]

	wps := []Waypoint{{Label: first.StartAddress, Location: first.StartLocation}}

	for _, leg := range route.Legs {
		for _, step := range sampleSteps(leg.Steps) {
			label := step.Instruction
			if strings.TrimSpace(label) == "" {
				label = "Waypoint"
			}
			wps = append(wps, Waypoint{Label: label, Location: step.EndLocation})
		}
	}

	return append(wps, Waypoint{Label: last.EndAddress, Location: last.EndLocation})
}

// sampleSteps selects step endpoints from a leg. Short legs (≤ maxLegSamples
// steps) keep every step; longer legs are thinned to roughly maxLegSamples
// samples by walking the steps at a fixed index interval, always starting at
// step 0.
func sampleSteps(steps []routing.Step) []routing.Step {
	n := len(steps)
	if n == 0 {
		return nil
	}

	interval := 1
	if n > maxLegSamples {
		interval = n / maxLegSamples
		if interval < 1 {
			interval = 1
		}
	}

	sampled := make([]routing.Step, 0, maxLegSamples+1)
	for i := 0; i < n; i += interval {
		sampled = append(sampled, steps[i])
	}
	return sampled
}

// Dedupe collapses candidates that round to the same coordinate cell,
// keeping the first occurrence of each and preserving route order.
func Dedupe(wps []Waypoint) []Waypoint {
	seen := make(map[geo.Key]struct{}, len(wps))
	unique := make([]Waypoint, 0, len(wps))

	for _, wp := range wps {
		k := wp.Location.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, wp)
	}
	return unique
}

// Downsample reduces an ordered waypoint sequence to at most maxWaypoints
// elements: the first, the last, and up to maxWaypoints-2 interior elements
// spaced evenly by index. Sequences already within the cap pass through
// untouched. Spacing is index-uniform, not distance-uniform: clustered
// points near the start still dominate the interior picks.
func Downsample(wps []Waypoint) []Waypoint {
	if len(wps) <= maxWaypoints {
		return wps
	}

	step := len(wps) / (maxWaypoints - 1)
	selected := make([]Waypoint, 0, maxWaypoints)
	selected = append(selected, wps[0])

	if step > 0 {
		for i := step; i < len(wps)-1 && len(selected) < maxWaypoints-1; i += step {
			selected = append(selected, wps[i])
		}
	}

	return append(selected, wps[len(wps)-1])
}

// Reduce applies deduplication then downsampling, the full reduction from
// raw candidates to the set actually sent to the weather provider.
func Reduce(wps []Waypoint) []Waypoint {
	return Downsample(Dedupe(wps))
}
