package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/martkit/martkit/internal/biomart"
)

// PostgresSink loads results into PostgreSQL tables using pgx.
type PostgresSink struct {
	pool *pgxpool.Pool
}

// NewPostgresSink connects to the given PostgreSQL instance.
func NewPostgresSink(ctx context.Context, connStr string) (*PostgresSink, error) {
	cfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}
	cfg.MaxConns = 1 // one load at a time
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging PostgreSQL: %w", err)
	}
	return &PostgresSink{pool: pool}, nil
}

// Write creates the table if needed (all text columns, since mart
// results are untyped text) and bulk-copies the rows into it.
func (s *PostgresSink) Write(ctx context.Context, table string, res *biomart.Result) error {
	cols := columnNames(res)

	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = quoteIdent(c) + " text"
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		quoteIdent(table), strings.Join(defs, ", "))
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("creating table %s: %w", table, err)
	}

	rows := make([][]any, len(res.Rows))
	for i, r := range res.Rows {
		row := make([]any, len(r))
		for j, v := range r {
			row[j] = v
		}
		rows[i] = row
	}

	_, err := s.pool.CopyFrom(ctx, pgx.Identifier{table}, cols, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("copying rows into %s: %w", table, err)
	}
	return nil
}

func (s *PostgresSink) Close(ctx context.Context) error {
	s.pool.Close()
	return nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
