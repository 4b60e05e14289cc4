package export

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/martkit/martkit/internal/biomart"
)

// MongoSink loads results into MongoDB collections, one document per
// result row, keyed by sanitized column names.
type MongoSink struct {
	client   *mongo.Client
	database string
}

// NewMongoSink connects to the MongoDB instance named by the URI. The
// database comes from the URI path, falling back to "martkit".
func NewMongoSink(ctx context.Context, connStr string) (*MongoSink, error) {
	opts := options.Client().ApplyURI(connStr)
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("pinging MongoDB: %w", err)
	}
	return &MongoSink{
		client:   client,
		database: databaseFromURI(connStr),
	}, nil
}

func (s *MongoSink) Write(ctx context.Context, collection string, res *biomart.Result) error {
	if res.Empty() {
		return nil
	}
	cols := columnNames(res)

	docs := make([]interface{}, len(res.Rows))
	for i, row := range res.Rows {
		doc := bson.D{}
		for j, v := range row {
			doc = append(doc, bson.E{Key: cols[j], Value: v})
		}
		docs[i] = doc
	}

	_, err := s.client.Database(s.database).Collection(collection).InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("inserting into %s: %w", collection, err)
	}
	return nil
}

func (s *MongoSink) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func databaseFromURI(connStr string) string {
	rest := connStr
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if i := strings.Index(rest, "/"); i >= 0 {
		db := rest[i+1:]
		if j := strings.IndexAny(db, "?"); j >= 0 {
			db = db[:j]
		}
		if db != "" {
			return db
		}
	}
	return "martkit"
}
