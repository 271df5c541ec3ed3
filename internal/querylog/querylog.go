// Package querylog persists the request/response record of every served
// route-weather query. Writes are best-effort: a failed write is logged and
// swallowed, it never surfaces to the caller.
package querylog

import (
	"context"
	"log"
	"time"
)

// Entry is one logged query. Response holds the full payload returned to the
// client; Timestamp is stamped by the recorder at write time.
type Entry struct {
	StartAddress  string      `bson:"start_address"`
	EndAddress    string      `bson:"end_address"`
	WaypointCount int         `bson:"waypoint_count"`
	Response      interface{} `bson:"response"`
	Timestamp     time.Time   `bson:"timestamp"`
}

// Recorder accepts query log entries.
type Recorder interface {
	Record(ctx context.Context, e Entry)
}

// disabledRecorder is the sentinel used when no persistence connection is
// available; it drops entries with a note instead of failing requests.
type disabledRecorder struct{}

func (disabledRecorder) Record(ctx context.Context, e Entry) {
	log.Println("querylog: persistence not available, skipping log")
}

// Disabled returns a Recorder that records nothing.
func Disabled() Recorder {
	return disabledRecorder{}
}
