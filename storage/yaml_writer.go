package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"imdb-eda/models"
)

// YAMLWriter writes an insight report as a YAML document.
type YAMLWriter struct {
	path string
}

func NewYAMLWriter(path string) *YAMLWriter {
	return &YAMLWriter{path: path}
}

// WriteReport creates (or truncates) the file, creating parent directories.
func (y *YAMLWriter) WriteReport(report *models.InsightReport) error {
	return writeYAML(y.path, report)
}

// WriteCleanStats writes only the cleaning counters of a run.
func (y *YAMLWriter) WriteCleanStats(stats models.CleanStats) error {
	return writeYAML(y.path, stats)
}

func writeYAML(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("yaml: create output dir: %w", err)
	}

	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("yaml: marshal: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("yaml: write %q: %w", path, err)
	}
	return nil
}

// ReadReport loads a report written by WriteReport.
func ReadReport(path string) (*models.InsightReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("yaml: read %q: %w", path, err)
	}
	var report models.InsightReport
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("yaml: parse %q: %w", path, err)
	}
	return &report, nil
}
