package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"imdb-eda/models"
	"imdb-eda/utils"
)

// PostgresReader loads the raw table from a PostgreSQL table whose column
// names match the dataset header. NULL values become missing fields.
type PostgresReader struct {
	db     *sql.DB
	table  string
	logger *utils.Logger
}

// NewPostgresReader opens a connection to PostgreSQL and verifies it.
func NewPostgresReader(ctx context.Context, dsn, table string, logger *utils.Logger) (*PostgresReader, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &PostgresReader{db: db, table: table, logger: logger}, nil
}

// selectQuery builds the SELECT over every raw column of table. Values are
// cast to text so numeric columns keep the same parsing path as CSV input,
// and rows come back in physical order so "first occurrence" is stable.
func selectQuery(table string) string {
	cols := make([]string, len(models.Columns))
	for i, c := range models.Columns {
		cols[i] = pq.QuoteIdentifier(c) + "::text"
	}
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY ctid", strings.Join(cols, ", "), quoteTable(table))
}

// quoteTable quotes a table name, keeping an optional schema qualifier.
func quoteTable(table string) string {
	parts := strings.SplitN(table, ".", 2)
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}

// Load reads every row of the table.
func (pr *PostgresReader) Load(ctx context.Context) (models.RawTable, error) {
	rows, err := pr.db.QueryContext(ctx, selectQuery(pr.table))
	if err != nil {
		return nil, fmt.Errorf("postgres: query %s: %w", pr.table, err)
	}
	defer rows.Close()

	var table models.RawTable
	for rows.Next() {
		r := &models.RawRecord{}
		if err := rows.Scan(r.ScanTargets()...); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		table = append(table, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate rows: %w", err)
	}

	pr.logger.Info("[postgres] Loaded %d raw rows from %s", len(table), pr.table)
	return table, nil
}

func (pr *PostgresReader) Close() error {
	return pr.db.Close()
}
