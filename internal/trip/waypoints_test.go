package trip

import (
	"testing"

	"github.com/routewx/route-weather/internal/geo"
	"github.com/routewx/route-weather/internal/routing"
)

// mkSteps builds n steps with distinct coordinates spread along a latitude.
func mkSteps(n int, baseLat float64) []routing.Step {
	steps := make([]routing.Step, 0, n)
	for i := 0; i < n; i++ {
		steps = append(steps, routing.Step{
			Instruction: "Turn",
			EndLocation: geo.Point{Lat: baseLat + float64(i)*0.01, Lon: -74.0},
		})
	}
	return steps
}

func TestSampleStepsShortLegKeepsEveryStep(t *testing.T) {
	for n := 1; n <= 5; n++ {
		steps := mkSteps(n, 40.0)
		sampled := sampleSteps(steps)
		if len(sampled) != n {
			t.Fatalf("n=%d: expected every step kept, got %d", n, len(sampled))
		}
		for i := range sampled {
			if sampled[i] != steps[i] {
				t.Fatalf("n=%d: order not preserved at %d", n, i)
			}
		}
	}
}

func TestSampleStepsLongLeg(t *testing.T) {
	cases := []struct {
		n        int
		interval int
	}{
		{6, 1},
		{8, 1},
		{10, 2},
		{17, 3},
		{50, 10},
	}

	for _, tc := range cases {
		steps := mkSteps(tc.n, 40.0)
		sampled := sampleSteps(steps)

		want := (tc.n + tc.interval - 1) / tc.interval
		if len(sampled) != want {
			t.Fatalf("n=%d: expected %d samples, got %d", tc.n, want, len(sampled))
		}
		if sampled[0] != steps[0] {
			t.Fatalf("n=%d: step 0 must always be sampled", tc.n)
		}
		for i := range sampled {
			if sampled[i] != steps[i*tc.interval] {
				t.Fatalf("n=%d: expected step %d at position %d", tc.n, i*tc.interval, i)
			}
		}
	}
}

func TestSampleStepsEmptyLeg(t *testing.T) {
	if got := sampleSteps(nil); got != nil {
		t.Fatalf("expected no samples from empty leg, got %v", got)
	}
}

func TestFlattenOrderAndLabels(t *testing.T) {
	route := &routing.Route{
		Legs: []routing.Leg{
			{
				StartAddress:  "1 Start St",
				EndAddress:    "Midpoint Ave",
				StartLocation: geo.Point{Lat: 40.0, Lon: -74.0},
				EndLocation:   geo.Point{Lat: 40.05, Lon: -74.0},
				Steps: []routing.Step{
					{Instruction: "Head north", EndLocation: geo.Point{Lat: 40.01, Lon: -74.0}},
					{Instruction: "  ", EndLocation: geo.Point{Lat: 40.02, Lon: -74.0}},
				},
			},
			{
				StartAddress:  "Midpoint Ave",
				EndAddress:    "99 End Rd",
				StartLocation: geo.Point{Lat: 40.05, Lon: -74.0},
				EndLocation:   geo.Point{Lat: 40.10, Lon: -74.0},
				Steps: []routing.Step{
					{Instruction: "Continue", EndLocation: geo.Point{Lat: 40.07, Lon: -74.0}},
				},
			},
		},
	}

	wps := Flatten(route)

	// start + 2 sampled steps + 1 sampled step + end
	if len(wps) != 5 {
		t.Fatalf("expected 5 candidates, got %d", len(wps))
	}
	if wps[0].Label != "1 Start St" {
		t.Fatalf("first candidate should carry the start address, got %q", wps[0].Label)
	}
	if wps[1].Label != "Head north" {
		t.Fatalf("step instruction should become the label, got %q", wps[1].Label)
	}
	if wps[2].Label != "Waypoint" {
		t.Fatalf("blank instruction should fall back to Waypoint, got %q", wps[2].Label)
	}
	if wps[len(wps)-1].Label != "99 End Rd" {
		t.Fatalf("last candidate should carry the end address, got %q", wps[len(wps)-1].Label)
	}
	if wps[len(wps)-1].Location != route.Legs[1].EndLocation {
		t.Fatalf("last candidate location mismatch")
	}
}

func TestFlattenEmptyRoute(t *testing.T) {
	if got := Flatten(nil); got != nil {
		t.Fatalf("expected nil for nil route, got %v", got)
	}
	if got := Flatten(&routing.Route{}); got != nil {
		t.Fatalf("expected nil for route without legs, got %v", got)
	}
}

func TestDedupeKeepsFirstOccurrence(t *testing.T) {
	wps := []Waypoint{
		{Label: "a", Location: geo.Point{Lat: 40.7128, Lon: -74.0060}},
		{Label: "b", Location: geo.Point{Lat: 40.7228, Lon: -74.0060}},
		{Label: "a-dup", Location: geo.Point{Lat: 40.712801, Lon: -74.006001}},
		{Label: "c", Location: geo.Point{Lat: 40.7328, Lon: -74.0060}},
		{Label: "b-dup", Location: geo.Point{Lat: 40.7228, Lon: -74.0060}},
	}

	unique := Dedupe(wps)

	if len(unique) != 3 {
		t.Fatalf("expected 3 unique waypoints, got %d", len(unique))
	}
	for i, want := range []string{"a", "b", "c"} {
		if unique[i].Label != want {
			t.Fatalf("position %d: expected %q, got %q", i, want, unique[i].Label)
		}
	}

	seen := make(map[geo.Key]struct{})
	for _, wp := range unique {
		k := wp.Location.Key()
		if _, dup := seen[k]; dup {
			t.Fatalf("duplicate key %v survived dedup", k)
		}
		seen[k] = struct{}{}
	}
}

func TestDownsampleWithinCapIsNoOp(t *testing.T) {
	for _, n := range []int{0, 1, 2, 9, 10} {
		wps := make([]Waypoint, n)
		for i := range wps {
			wps[i] = Waypoint{Location: geo.Point{Lat: float64(i)}}
		}
		out := Downsample(wps)
		if len(out) != n {
			t.Fatalf("n=%d: expected no-op, got %d elements", n, len(out))
		}
		for i := range out {
			if out[i] != wps[i] {
				t.Fatalf("n=%d: element %d changed", n, i)
			}
		}
	}
}

func TestDownsampleCapsAndPreservesEndpoints(t *testing.T) {
	for _, n := range []int{11, 12, 25, 100} {
		wps := make([]Waypoint, n)
		for i := range wps {
			wps[i] = Waypoint{Location: geo.Point{Lat: float64(i)}}
		}

		out := Downsample(wps)

		if len(out) > maxWaypoints {
			t.Fatalf("n=%d: got %d elements, cap is %d", n, len(out), maxWaypoints)
		}
		if out[0] != wps[0] {
			t.Fatalf("n=%d: first element not preserved", n)
		}
		if out[len(out)-1] != wps[n-1] {
			t.Fatalf("n=%d: last element not preserved", n)
		}

		// Output must be a subsequence of the input (strictly increasing index).
		last := -1.0
		for _, wp := range out {
			if wp.Location.Lat <= last {
				t.Fatalf("n=%d: output order is not a subsequence of input", n)
			}
			last = wp.Location.Lat
		}
	}
}

func TestDownsampleIdempotent(t *testing.T) {
	wps := make([]Waypoint, 30)
	for i := range wps {
		wps[i] = Waypoint{Location: geo.Point{Lat: float64(i)}}
	}

	once := Downsample(wps)
	twice := Downsample(once)

	if len(once) != len(twice) {
		t.Fatalf("second pass changed length: %d -> %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("second pass changed element %d", i)
		}
	}
}

// TestReducePipeline runs the whole reduction on a 3-leg route with
// [3, 8, 2] steps per leg. Flattening yields 1 start + 13 sampled steps +
// 1 end = 15 candidates; the final leg's last step coincides with the route
// end, so dedup drops one; downsampling brings the remaining 14 to the cap.
func TestReducePipeline(t *testing.T) {
	end := geo.Point{Lat: 41.0, Lon: -74.0}

	legs := []routing.Leg{
		{
			StartAddress:  "Origin Plaza",
			StartLocation: geo.Point{Lat: 40.0, Lon: -74.0},
			EndLocation:   geo.Point{Lat: 40.2, Lon: -74.0},
			Steps:         mkSteps(3, 40.1),
		},
		{
			StartLocation: geo.Point{Lat: 40.2, Lon: -74.0},
			EndLocation:   geo.Point{Lat: 40.6, Lon: -74.0},
			Steps:         mkSteps(8, 40.3),
		},
		{
			EndAddress:    "Destination Sq",
			StartLocation: geo.Point{Lat: 40.6, Lon: -74.0},
			EndLocation:   end,
			Steps: []routing.Step{
				{Instruction: "Almost there", EndLocation: geo.Point{Lat: 40.9, Lon: -74.0}},
				{Instruction: "Arrive", EndLocation: end},
			},
		},
	}
	route := &routing.Route{Legs: legs}

	candidates := Flatten(route)
	if len(candidates) != 15 {
		t.Fatalf("expected 15 candidates, got %d", len(candidates))
	}

	unique := Dedupe(candidates)
	if len(unique) != 14 {
		t.Fatalf("expected 14 after dedup, got %d", len(unique))
	}

	reduced := Downsample(unique)
	if len(reduced) != maxWaypoints {
		t.Fatalf("expected %d after downsampling, got %d", maxWaypoints, len(reduced))
	}
	if reduced[0].Label != "Origin Plaza" {
		t.Fatalf("route start lost: first label %q", reduced[0].Label)
	}
	if reduced[len(reduced)-1].Location != end {
		t.Fatalf("route end lost")
	}

	if got := Reduce(candidates); len(got) != len(reduced) {
		t.Fatalf("Reduce disagrees with Dedupe+Downsample: %d vs %d", len(got), len(reduced))
	}
}
