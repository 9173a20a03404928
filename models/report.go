package models

import "time"

// CleanStats records what the cleaning pipeline did to a table.
type CleanStats struct {
	InputRows      int            `yaml:"input_rows"`
	IncompleteRows int            `yaml:"incomplete_rows"`
	DuplicateRows  int            `yaml:"duplicate_rows"`
	RetainedRows   int            `yaml:"retained_rows"`
	Unparseable    map[string]int `yaml:"unparseable,omitempty"`
}

// NumericSummary holds descriptive statistics for one numeric column.
type NumericSummary struct {
	Column string  `yaml:"column"`
	Count  int     `yaml:"count"`
	Mean   float64 `yaml:"mean"`
	Median float64 `yaml:"median"`
	StdDev float64 `yaml:"std_dev"`
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
}

// Correlation is a Pearson coefficient with its two-sided p-value.
type Correlation struct {
	X      string  `yaml:"x"`
	Y      string  `yaml:"y"`
	N      int     `yaml:"n"`
	R      float64 `yaml:"r"`
	PValue float64 `yaml:"p_value"`
}

// OutlierSummary describes the IQR bounds of a column and what fell outside.
type OutlierSummary struct {
	Column string   `yaml:"column"`
	Q1     float64  `yaml:"q1"`
	Q3     float64  `yaml:"q3"`
	IQR    float64  `yaml:"iqr"`
	Lower  float64  `yaml:"lower"`
	Upper  float64  `yaml:"upper"`
	Count  int      `yaml:"count"`
	Titles []string `yaml:"titles,omitempty"`
}

// GroupValue is one row of a grouped aggregate.
type GroupValue struct {
	Group string  `yaml:"group"`
	Count int     `yaml:"count"`
	Value float64 `yaml:"value"`
}

// InsightReport holds the computed analytics over the cleaned dataset.
type InsightReport struct {
	RunID       string     `yaml:"run_id"`
	GeneratedAt time.Time  `yaml:"generated_at"`
	Source      string     `yaml:"source"`
	Cleaning    CleanStats `yaml:"cleaning"`
	TotalTitles int        `yaml:"total_titles"`

	Summaries    []NumericSummary `yaml:"summaries"`
	Correlations []Correlation    `yaml:"correlations"`
	Outliers     []OutlierSummary `yaml:"outliers"`

	TopGenres    []GroupValue `yaml:"top_genres"`
	TopDirectors []GroupValue `yaml:"top_directors_by_gross"`
	TopByVotes   []GroupValue `yaml:"top_titles_by_votes"`
	ByDecade     []GroupValue `yaml:"titles_by_decade"`
}
