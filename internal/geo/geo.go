package geo

import "math"

// keyScale turns 4 decimal places (~11m of latitude) into whole integers.
const keyScale = 1e4

// Point is an immutable geographic coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Key identifies the rounded cell a Point falls into. Two points share a Key
// exactly when they round to the same 4-decimal coordinates, which makes it
// safe to use as a map key where raw float comparison would not be.
type Key struct {
	Lat int64
	Lon int64
}

// Key canonicalizes the point for deduplication.
func (p Point) Key() Key {
	return Key{
		Lat: scaled(p.Lat),
		Lon: scaled(p.Lon),
	}
}

func scaled(deg float64) int64 {
	return int64(math.Round(deg * keyScale))
}
