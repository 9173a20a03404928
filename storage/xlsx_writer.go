package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"imdb-eda/models"
)

// Sheet names of the workbook written by XLSXWriter.
const (
	SheetSummary      = "Summary"
	SheetCorrelations = "Correlations"
	SheetOutliers     = "Outliers"
	SheetGenres       = "Genres"
	SheetDirectors    = "Directors"
	SheetVotes        = "Votes"
	SheetDecades      = "Decades"
)

// XLSXWriter writes an insight report as an Excel workbook, one sheet per table.
type XLSXWriter struct {
	path string
}

func NewXLSXWriter(path string) *XLSXWriter {
	return &XLSXWriter{path: path}
}

// WriteReport creates (or truncates) the workbook, creating parent directories.
func (x *XLSXWriter) WriteReport(r *models.InsightReport) error {
	if err := os.MkdirAll(filepath.Dir(x.path), 0755); err != nil {
		return fmt.Errorf("xlsx: create output dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("xlsx: rename sheet: %w", err)
	}

	summary := [][]any{
		{"Run ID", r.RunID},
		{"Generated at", r.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Source", r.Source},
		{"Input rows", r.Cleaning.InputRows},
		{"Incomplete rows", r.Cleaning.IncompleteRows},
		{"Duplicate rows", r.Cleaning.DuplicateRows},
		{"Retained rows", r.Cleaning.RetainedRows},
		{},
		{"Column", "Count", "Mean", "Median", "Std dev", "Min", "Max"},
	}
	for _, s := range r.Summaries {
		summary = append(summary, []any{s.Column, s.Count, s.Mean, s.Median, s.StdDev, s.Min, s.Max})
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return err
	}

	corr := [][]any{{"X", "Y", "N", "r", "p-value"}}
	for _, c := range r.Correlations {
		corr = append(corr, []any{c.X, c.Y, c.N, c.R, c.PValue})
	}
	if err := writeSheet(f, SheetCorrelations, corr); err != nil {
		return err
	}

	out := [][]any{{"Column", "Q1", "Q3", "IQR", "Lower", "Upper", "Outliers"}}
	for _, o := range r.Outliers {
		out = append(out, []any{o.Column, o.Q1, o.Q3, o.IQR, o.Lower, o.Upper, o.Count})
	}
	if err := writeSheet(f, SheetOutliers, out); err != nil {
		return err
	}

	groups := []struct {
		sheet, group, value string
		rows                []models.GroupValue
	}{
		{SheetGenres, "Genre", "Mean rating", r.TopGenres},
		{SheetDirectors, "Director", "Total gross", r.TopDirectors},
		{SheetVotes, "Title", "Votes", r.TopByVotes},
		{SheetDecades, "Decade", "Mean rating", r.ByDecade},
	}
	for _, g := range groups {
		rows := [][]any{{g.group, "Titles", g.value}}
		for _, gv := range g.rows {
			rows = append(rows, []any{gv.Group, gv.Count, gv.Value})
		}
		if err := writeSheet(f, g.sheet, rows); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(SheetSummary, "A", "A", 18)
	f.SetActiveSheet(0)

	if err := f.SaveAs(x.path); err != nil {
		return fmt.Errorf("xlsx: save %q: %w", x.path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]any) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("xlsx: new sheet %s: %w", sheet, err)
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx: write %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
