// Package export delivers query results to external destinations:
// delimited files, PostgreSQL tables, or MongoDB collections.
package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/martkit/martkit/internal/biomart"
)

// Sink receives one query result.
type Sink interface {
	// Write stores the result under the given name (table, collection
	// or file stem, depending on the sink).
	Write(ctx context.Context, name string, res *biomart.Result) error

	// Close releases the sink's connection, if any.
	Close(ctx context.Context) error
}

// New creates a sink for the given destination URI. postgres:// and
// mongodb:// URIs open database sinks; anything else is treated as a
// file path ("-" means stdout).
func New(ctx context.Context, dest string) (Sink, error) {
	switch {
	case strings.HasPrefix(dest, "postgres://"), strings.HasPrefix(dest, "postgresql://"):
		return NewPostgresSink(ctx, dest)
	case strings.HasPrefix(dest, "mongodb://"), strings.HasPrefix(dest, "mongodb+srv://"):
		return NewMongoSink(ctx, dest)
	default:
		return NewFileSink(dest), nil
	}
}

// columnName turns a result column label ("Gene stable ID") into an
// identifier usable as a SQL column or BSON key.
func columnName(label string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(label) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	name := strings.Trim(b.String(), "_")
	if name == "" {
		return "column"
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "c_" + name
	}
	return name
}

// columnNames maps every result column to a unique identifier,
// suffixing duplicates.
func columnNames(res *biomart.Result) []string {
	names := make([]string, len(res.Columns))
	seen := make(map[string]int, len(res.Columns))
	for i, label := range res.Columns {
		name := columnName(label)
		if n := seen[name]; n > 0 {
			name = fmt.Sprintf("%s_%d", name, n+1)
		}
		seen[columnName(label)]++
		names[i] = name
	}
	return names
}
