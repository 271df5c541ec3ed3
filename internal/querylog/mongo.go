package querylog

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	databaseName   = "weather_route_db"
	collectionName = "query_logs"
)

// Connect establishes and ping-verifies a MongoDB connection. Callers treat
// an error as "persistence disabled", not as a startup failure.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		// Best effort; the connect context may already be expired.
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	return client, nil
}

// MongoRecorder writes entries to the query_logs collection.
type MongoRecorder struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewMongoRecorder(client *mongo.Client, timeout time.Duration) *MongoRecorder {
	return &MongoRecorder{
		coll:    client.Database(databaseName).Collection(collectionName),
		timeout: timeout,
	}
}

// Record inserts the entry with a UTC timestamp. Failures are logged and
// swallowed per the persistence contract.
func (r *MongoRecorder) Record(ctx context.Context, e Entry) {
	e.Timestamp = time.Now().UTC()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, e); err != nil {
		log.Printf("querylog: insert failed: %v", err)
		return
	}
	log.Println("querylog: query logged")
}

// PruneOlderThan deletes entries with a timestamp before cutoff and returns
// the number removed.
func (r *MongoRecorder) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{"timestamp": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("pruning query logs: %w", err)
	}
	return res.DeletedCount, nil
}

var _ Recorder = (*MongoRecorder)(nil)
