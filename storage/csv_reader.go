package storage

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"imdb-eda/models"
	"imdb-eda/utils"
)

// CSVReader loads the raw table from a delimited text file. Malformed lines
// are skipped rather than aborting the load.
type CSVReader struct {
	path      string
	delimiter rune
	logger    *utils.Logger
	file      *os.File

	// Skipped counts the lines dropped during the last Load.
	Skipped int
}

// NewCSVReader opens the file at path for reading.
func NewCSVReader(path string, delimiter rune, logger *utils.Logger) (*CSVReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	return &CSVReader{path: path, delimiter: delimiter, logger: logger, file: f}, nil
}

// Load reads every well-formed row in file order.
func (c *CSVReader) Load(ctx context.Context) (models.RawTable, error) {
	if _, err := c.file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("csv: rewind %q: %w", c.path, err)
	}
	table, skipped, err := ReadRawTable(ctx, c.file, c.delimiter)
	c.Skipped = skipped
	if err != nil {
		return nil, fmt.Errorf("csv: read %q: %w", c.path, err)
	}
	if skipped > 0 {
		c.logger.Warn("[csv] Skipped %d malformed lines in %s", skipped, c.path)
	}
	c.logger.Info("[csv] Loaded %d raw rows from %s", len(table), c.path)
	return table, nil
}

// Close closes the underlying file.
func (c *CSVReader) Close() error {
	return c.file.Close()
}

// ReadRawTable parses a header line naming every raw column followed by data
// rows. Extra columns are ignored; empty cells become missing values. It
// returns the table and the number of skipped malformed lines.
func ReadRawTable(ctx context.Context, r io.Reader, delimiter rune) (models.RawTable, int, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, fmt.Errorf("empty input")
		}
		return nil, 0, fmt.Errorf("header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		index[h] = i
	}
	positions := make([]int, len(models.Columns))
	var missing []string
	for i, col := range models.Columns {
		pos, ok := index[col]
		if !ok {
			missing = append(missing, col)
		}
		positions[i] = pos
	}
	if len(missing) > 0 {
		return nil, 0, fmt.Errorf("header missing columns: %s", strings.Join(missing, ", "))
	}

	// Every data line must carry exactly as many fields as the header.
	cr.FieldsPerRecord = len(header)

	var table models.RawTable
	skipped := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, skipped, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				skipped++
				continue
			}
			return nil, skipped, err
		}

		row := &models.RawRecord{}
		for i, col := range models.Columns {
			v := rec[positions[i]]
			row.Set(col, sql.NullString{String: v, Valid: strings.TrimSpace(v) != ""})
		}
		table = append(table, row)
	}
	return table, skipped, nil
}
