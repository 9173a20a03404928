package storage

import (
	"context"

	"imdb-eda/models"
)

// RawSource is the interface any raw-table backend must satisfy.
type RawSource interface {
	Load(ctx context.Context) (models.RawTable, error)
	Close() error
}

// ReportWriter is the interface for persisting a finished insight report.
type ReportWriter interface {
	WriteReport(report *models.InsightReport) error
}
