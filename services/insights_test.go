package services

import (
	"bytes"
	"database/sql"
	"math"
	"strings"
	"testing"

	"imdb-eda/models"
)

func movie(title, director string, decade int64, rating float64, votes int64, gross float64, genres ...string) *models.Movie {
	m := &models.Movie{
		Genres:         genres,
		ReleaseDecade:  sql.NullInt64{Int64: decade, Valid: true},
		RatingNumeric:  sql.NullFloat64{Float64: rating, Valid: true},
		VotesNumeric:   sql.NullInt64{Int64: votes, Valid: true},
		RuntimeMinutes: sql.NullInt64{Int64: 120, Valid: true},
	}
	m.SeriesTitle = ns(title)
	m.Director = ns(director)
	if gross > 0 {
		m.GrossNumeric = sql.NullFloat64{Float64: gross, Valid: true}
	}
	return m
}

func sampleMovies() []*models.Movie {
	return []*models.Movie{
		movie("Alpha", "Nolan", 2000, 9.0, 2000000, 500, "Drama", "Action"),
		movie("Bravo", "Nolan", 2010, 8.6, 1500000, 300, "Action", "Sci-Fi"),
		movie("Charlie", "Coppola", 1970, 9.2, 1600000, 130, "Crime", "Drama"),
		movie("Delta", "Kubrick", 1960, 8.0, 500000, 0, "Drama"),
		movie("Echo", "Coppola", 1970, 8.5, 800000, 50, "Crime"),
	}
}

func TestInsightCounts(t *testing.T) {
	svc := NewInsightService(newTestLogger(), 3)
	stats := models.CleanStats{InputRows: 7, IncompleteRows: 1, DuplicateRows: 1, RetainedRows: 5}
	r := svc.Generate(sampleMovies(), stats)
	if r.TotalTitles != 5 {
		t.Errorf("TotalTitles: got %d, want 5", r.TotalTitles)
	}
	if r.Cleaning.InputRows != 7 || r.Cleaning.DuplicateRows != 1 || r.Cleaning.RetainedRows != 5 {
		t.Errorf("Cleaning: got %+v, want %+v", r.Cleaning, stats)
	}
	if r.RunID == "" {
		t.Error("RunID should be set")
	}
}

func TestInsightSummaries(t *testing.T) {
	svc := NewInsightService(newTestLogger(), 3)
	r := svc.Generate(sampleMovies(), models.CleanStats{})

	var rating, gross *models.NumericSummary
	for i := range r.Summaries {
		switch r.Summaries[i].Column {
		case ColumnRating:
			rating = &r.Summaries[i]
		case ColumnGross:
			gross = &r.Summaries[i]
		}
	}
	if rating == nil || gross == nil {
		t.Fatalf("missing summaries: %+v", r.Summaries)
	}
	if rating.Count != 5 {
		t.Errorf("rating count: got %d, want 5", rating.Count)
	}
	if math.Abs(rating.Mean-8.66) > 1e-9 {
		t.Errorf("rating mean: got %.4f, want 8.66", rating.Mean)
	}
	if rating.Median != 8.6 {
		t.Errorf("rating median: got %.2f, want 8.6", rating.Median)
	}
	if rating.Min != 8.0 || rating.Max != 9.2 {
		t.Errorf("rating min/max: got %.2f/%.2f", rating.Min, rating.Max)
	}
	if gross.Count != 4 {
		t.Errorf("gross count should skip missing values: got %d, want 4", gross.Count)
	}
}

func TestInsightTopGenres(t *testing.T) {
	svc := NewInsightService(newTestLogger(), 2)
	r := svc.Generate(sampleMovies(), models.CleanStats{})
	if len(r.TopGenres) != 2 {
		t.Fatalf("TopGenres len: got %d, want 2", len(r.TopGenres))
	}
	if r.TopGenres[0].Group != "Drama" || r.TopGenres[0].Count != 3 {
		t.Errorf("TopGenres[0]: got %+v", r.TopGenres[0])
	}
	// Action and Crime tie on 2 titles; ties break alphabetically.
	if r.TopGenres[1].Group != "Action" {
		t.Errorf("TopGenres[1]: got %+v", r.TopGenres[1])
	}
}

func TestInsightTopDirectorsByGross(t *testing.T) {
	svc := NewInsightService(newTestLogger(), 10)
	r := svc.Generate(sampleMovies(), models.CleanStats{})
	if len(r.TopDirectors) != 2 {
		t.Fatalf("directors without gross should be skipped, got %+v", r.TopDirectors)
	}
	if r.TopDirectors[0].Group != "Nolan" || r.TopDirectors[0].Value != 800 || r.TopDirectors[0].Count != 2 {
		t.Errorf("TopDirectors[0]: got %+v", r.TopDirectors[0])
	}
}

func TestInsightByDecade(t *testing.T) {
	svc := NewInsightService(newTestLogger(), 10)
	r := svc.Generate(sampleMovies(), models.CleanStats{})
	want := []string{"1960s", "1970s", "2000s", "2010s"}
	if len(r.ByDecade) != len(want) {
		t.Fatalf("ByDecade: got %+v", r.ByDecade)
	}
	for i, g := range want {
		if r.ByDecade[i].Group != g {
			t.Errorf("ByDecade[%d]: got %q, want %q", i, r.ByDecade[i].Group, g)
		}
	}
	if r.ByDecade[1].Count != 2 || math.Abs(r.ByDecade[1].Value-8.85) > 1e-9 {
		t.Errorf("1970s: got %+v", r.ByDecade[1])
	}
}

func TestInsightTopByVotes(t *testing.T) {
	svc := NewInsightService(newTestLogger(), 2)
	r := svc.Generate(sampleMovies(), models.CleanStats{})
	if len(r.TopByVotes) != 2 || r.TopByVotes[0].Group != "Alpha" || r.TopByVotes[1].Group != "Charlie" {
		t.Errorf("TopByVotes: got %+v", r.TopByVotes)
	}
}

func TestCorrelatePerfect(t *testing.T) {
	c, err := Correlate("x", "y", []float64{1, 2, 3, 4}, []float64{2, 4, 6, 8})
	if err != nil {
		t.Fatalf("Correlate: %v", err)
	}
	if math.Abs(c.R-1) > 1e-12 {
		t.Errorf("r: got %f, want 1", c.R)
	}
	if c.PValue > 1e-9 {
		t.Errorf("p: got %g, want 0", c.PValue)
	}
}

func TestCorrelatePValue(t *testing.T) {
	// r = 0.8 with n = 5 gives t = 2.3094 on 3 df, two-sided p ≈ 0.1041.
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{2, 1, 4, 3, 5}
	c, err := Correlate("x", "y", x, y)
	if err != nil {
		t.Fatalf("Correlate: %v", err)
	}
	if math.Abs(c.R-0.8) > 1e-12 {
		t.Errorf("r: got %f, want 0.8", c.R)
	}
	if math.Abs(c.PValue-0.1041) > 5e-4 {
		t.Errorf("p: got %f, want ≈0.1041", c.PValue)
	}
}

func TestCorrelateRejectsSmallOrConstant(t *testing.T) {
	if _, err := Correlate("x", "y", []float64{1, 2}, []float64{1, 2}); err == nil {
		t.Error("expected error for fewer than 3 pairs")
	}
	if _, err := Correlate("x", "y", []float64{1, 1, 1}, []float64{1, 2, 3}); err == nil {
		t.Error("expected error for constant column")
	}
	if _, err := Correlate("x", "y", []float64{1, 2, 3}, []float64{1, 2}); err == nil {
		t.Error("expected error for mismatched lengths")
	}
}

func TestInsightOutliers(t *testing.T) {
	movies := sampleMovies()
	movies = append(movies, movie("Foxtrot", "Cameron", 1990, 7.9, 1000000, 100000, "Romance"))

	svc := NewInsightService(newTestLogger(), 10)
	r := svc.Generate(movies, models.CleanStats{})

	var gross *models.OutlierSummary
	for i := range r.Outliers {
		if r.Outliers[i].Column == ColumnGross {
			gross = &r.Outliers[i]
		}
	}
	if gross == nil {
		t.Fatal("missing gross outlier summary")
	}
	if gross.Count != 1 || len(gross.Titles) != 1 || gross.Titles[0] != "Foxtrot" {
		t.Errorf("gross outliers: got %+v", gross)
	}
}

func TestInsightEmptyInput(t *testing.T) {
	svc := NewInsightService(newTestLogger(), 10)
	r := svc.Generate(nil, models.CleanStats{})
	if r.TotalTitles != 0 {
		t.Errorf("expected 0 total titles for empty input")
	}
	if len(r.Summaries) != 0 || len(r.Correlations) != 0 {
		t.Errorf("expected no statistics for empty input")
	}
}

func TestInsightPrint(t *testing.T) {
	svc := NewInsightService(newTestLogger(), 3)
	r := svc.Generate(sampleMovies(), models.CleanStats{RetainedRows: 5})

	var buf bytes.Buffer
	svc.Print(&buf, r)
	out := buf.String()
	for _, want := range []string{"IMDB TOP TITLES INSIGHTS", "Nolan", "1970s", ColumnRating} {
		if !strings.Contains(out, want) {
			t.Errorf("printed report missing %q", want)
		}
	}
}
