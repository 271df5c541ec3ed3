package geo

import "testing"

func TestKeyCollapsesNearbyPoints(t *testing.T) {
	a := Point{Lat: 40.71281, Lon: -74.00602}
	b := Point{Lat: 40.712809, Lon: -74.006021} // well under 4-decimal resolution

	if a.Key() != b.Key() {
		t.Fatalf("expected equal keys for near-identical points, got %v vs %v", a.Key(), b.Key())
	}
}

func TestKeySeparatesDistinctPoints(t *testing.T) {
	a := Point{Lat: 40.7128, Lon: -74.0060}
	b := Point{Lat: 40.7138, Lon: -74.0060} // ~111m north

	if a.Key() == b.Key() {
		t.Fatalf("expected distinct keys, both were %v", a.Key())
	}
}

func TestKeyNegativeCoordinates(t *testing.T) {
	a := Point{Lat: -33.86785, Lon: 151.20732}
	b := Point{Lat: -33.86786, Lon: 151.20734}

	if a.Key() != b.Key() {
		t.Fatalf("rounding should be symmetric for negative coordinates: %v vs %v", a.Key(), b.Key())
	}

	k := a.Key()
	if k.Lat != -338679 || k.Lon != 1512073 {
		t.Fatalf("unexpected scaled key: %+v", k)
	}
}
