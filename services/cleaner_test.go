package services

import (
	"database/sql"
	"errors"
	"testing"

	"imdb-eda/models"
	"imdb-eda/utils"
)

func newTestLogger() *utils.Logger { return utils.Discard() }

func ns(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }

func fullRecord(title string) *models.RawRecord {
	return &models.RawRecord{
		PosterLink:   ns("https://m.media-amazon.com/images/" + title + ".jpg"),
		SeriesTitle:  ns(title),
		ReleasedYear: ns("1994"),
		Certificate:  ns("A"),
		Runtime:      ns("142 min"),
		Genre:        ns("Drama"),
		IMDBRating:   ns("9.3"),
		Overview:     ns("Two imprisoned men bond over a number of years."),
		MetaScore:    ns("80"),
		Director:     ns("Frank Darabont"),
		Star1:        ns("Tim Robbins"),
		Star2:        ns("Morgan Freeman"),
		Star3:        ns("Bob Gunton"),
		Star4:        ns("William Sadler"),
		NoOfVotes:    ns("2,343,110"),
		Gross:        ns("28,341,469"),
	}
}

func TestCleanerParseRuntime(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"142 min", 142, false},
		{"142min", 142, false},
		{"  95 min  ", 95, false},
		{"0 min", 0, false},
		{"-5 min", -5, false},
		{"min", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"1h 20min", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseRuntime(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRuntime(%q) err = %v; wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrFieldUnparseable) {
			t.Errorf("ParseRuntime(%q) err = %v; want ErrFieldUnparseable", tt.raw, err)
		}
		if got != tt.want {
			t.Errorf("ParseRuntime(%q) = %d; want %d", tt.raw, got, tt.want)
		}
	}
}

func TestCleanerDeriveDecade(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"1994", 1990, false},
		{"2000", 2000, false},
		{"2019", 2010, false},
		{" 1957 ", 1950, false},
		{"PG", 0, true},
		{"", 0, true},
		{"19x4", 0, true},
	}

	for _, tt := range tests {
		got, err := DeriveDecade(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("DeriveDecade(%q) err = %v; wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("DeriveDecade(%q) = %d; want %d", tt.raw, got, tt.want)
		}
	}
}

func TestCleanerNormalizeActorList(t *testing.T) {
	tests := []struct {
		names []string
		want  string
	}{
		{[]string{"Tom Hanks", "", "", "Gary Sinise"}, "Tom Hanks, Gary Sinise"},
		{[]string{"A", "", "C", ""}, "A, C"},
		{[]string{"", "", "", "D"}, "D"},
		{[]string{"", "B", "", ""}, "B"},
		{[]string{"", "", "", ""}, ""},
		{[]string{"A", "B", "C", "D"}, "A, B, C, D"},
		{[]string{" A ", "  ", "C", ""}, "A, C"},
	}

	for _, tt := range tests {
		got := NormalizeActorList(tt.names...)
		if got != tt.want {
			t.Errorf("NormalizeActorList(%q) = %q; want %q", tt.names, got, tt.want)
		}
	}
}

func TestCleanerParseCurrencyNumber(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{"28,341,469", 28341469, false},
		{"$1,200.50", 1200.50, false},
		{"€ 3,500", 3500, false},
		{"USD 99", 99, false},
		{"", 0, true},
		{"n/a", 0, true},
		{"NaN", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseCurrencyNumber(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCurrencyNumber(%q) err = %v; wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCurrencyNumber(%q) = %.2f; want %.2f", tt.raw, got, tt.want)
		}
	}
}

func TestCleanerParseGroupedInteger(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"2,343,110", 2343110, false},
		{"25088", 25088, false},
		{"1.5", 0, true},
		{"many", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseGroupedInteger(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseGroupedInteger(%q) err = %v; wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseGroupedInteger(%q) = %d; want %d", tt.raw, got, tt.want)
		}
	}
}

func TestFieldErrorUnwrap(t *testing.T) {
	_, err := ParseRuntime("abc")
	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FieldError, got %T", err)
	}
	if fe.Field != "runtime" || fe.Value != "abc" {
		t.Errorf("unexpected field error %+v", fe)
	}
	if !errors.Is(err, ErrFieldUnparseable) {
		t.Error("FieldError should unwrap to ErrFieldUnparseable")
	}
}

func TestCleanerFilterComplete(t *testing.T) {
	c := NewCleaner(newTestLogger(), VotesMissing)

	missing := fullRecord("Missing Gross")
	missing.Gross = sql.NullString{}
	blank := fullRecord("Blank Star")
	blank.Star4 = ns("   ")

	raw := models.RawTable{fullRecord("A"), missing, fullRecord("B"), blank}
	kept, rejected := c.FilterComplete(raw)

	if len(kept) != 2 {
		t.Fatalf("expected 2 complete rows, got %d", len(kept))
	}
	if kept[0].SeriesTitle.String != "A" || kept[1].SeriesTitle.String != "B" {
		t.Errorf("order not preserved: %q, %q", kept[0].SeriesTitle.String, kept[1].SeriesTitle.String)
	}
	for _, r := range kept {
		for _, col := range models.CriticalColumns {
			if v := r.Field(col); !v.Valid || v.String == "" {
				t.Errorf("kept row %q has empty critical field %s", r.SeriesTitle.String, col)
			}
		}
	}

	if len(rejected) != 2 {
		t.Fatalf("expected 2 rejections, got %d", len(rejected))
	}
	if rejected[0].Index != 1 || rejected[0].Column != models.ColGross {
		t.Errorf("unexpected rejection %+v", rejected[0])
	}
	if !errors.Is(rejected[1], ErrRowRejected) {
		t.Error("RowError should unwrap to ErrRowRejected")
	}
}

func TestCleanerDeduplicatesExactRows(t *testing.T) {
	c := NewCleaner(newTestLogger(), VotesMissing)

	almost := fullRecord("A")
	almost.Overview = ns("A different synopsis.")

	raw := models.RawTable{fullRecord("A"), fullRecord("A"), almost, fullRecord("B"), fullRecord("A")}
	once, removed := c.Deduplicate(raw)
	if removed != 2 {
		t.Errorf("removed: got %d, want 2", removed)
	}
	if len(once) != 3 {
		t.Fatalf("expected 3 rows after deduplication, got %d", len(once))
	}
	if once[1] != almost {
		t.Error("row differing in one column should be kept in place")
	}

	twice, removedAgain := c.Deduplicate(once)
	if removedAgain != 0 || len(twice) != len(once) {
		t.Errorf("Deduplicate is not idempotent: removed %d, len %d", removedAgain, len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("row %d changed on second pass", i)
		}
	}
}

func TestCleanerEndToEnd(t *testing.T) {
	c := NewCleaner(newTestLogger(), VotesMissing)

	incomplete := fullRecord("Incomplete")
	incomplete.MetaScore = sql.NullString{}

	raw := models.RawTable{
		fullRecord("The Shawshank Redemption"),
		fullRecord("The Godfather"),
		fullRecord("The Shawshank Redemption"),
		incomplete,
		fullRecord("The Dark Knight"),
	}

	movies, stats := c.Clean(raw)
	if len(movies) != 3 {
		t.Fatalf("expected 3 clean rows, got %d", len(movies))
	}
	if stats.InputRows != 5 || stats.IncompleteRows != 1 || stats.DuplicateRows != 1 || stats.RetainedRows != 3 {
		t.Errorf("unexpected stats %+v", stats)
	}

	m := movies[0]
	if m.Title() != "The Shawshank Redemption" {
		t.Errorf("first title: got %q", m.Title())
	}
	if !m.RuntimeMinutes.Valid || m.RuntimeMinutes.Int64 != 142 {
		t.Errorf("runtime: got %+v", m.RuntimeMinutes)
	}
	if m.DecadeLabel() != "1990s" {
		t.Errorf("decade label: got %q", m.DecadeLabel())
	}
	if m.LeadActors != "Tim Robbins, Morgan Freeman, Bob Gunton, William Sadler" {
		t.Errorf("lead actors: got %q", m.LeadActors)
	}
	if !m.VotesNumeric.Valid || m.VotesNumeric.Int64 != 2343110 {
		t.Errorf("votes: got %+v", m.VotesNumeric)
	}
	if !m.GrossNumeric.Valid || m.GrossNumeric.Float64 != 28341469 {
		t.Errorf("gross: got %+v", m.GrossNumeric)
	}
	if !m.RatingNumeric.Valid || m.RatingNumeric.Float64 != 9.3 {
		t.Errorf("rating: got %+v", m.RatingNumeric)
	}
}

func TestCleanerUnparseableFieldsStayNull(t *testing.T) {
	r := fullRecord("Apollo 13")
	r.ReleasedYear = ns("PG")
	r.Runtime = ns("long")
	r.NoOfVotes = ns("lots")

	movies, stats := NewCleaner(newTestLogger(), VotesMissing).Clean(models.RawTable{r})
	if len(movies) != 1 {
		t.Fatalf("unparseable fields must not drop the row, got %d rows", len(movies))
	}
	m := movies[0]
	if m.ReleaseDecade.Valid || m.ReleaseYear.Valid {
		t.Errorf("decade should be undefined, got %+v", m.ReleaseDecade)
	}
	if m.DecadeLabel() != "" {
		t.Errorf("decade label should be empty, got %q", m.DecadeLabel())
	}
	if m.RuntimeMinutes.Valid {
		t.Errorf("runtime should be undefined, got %+v", m.RuntimeMinutes)
	}
	if m.VotesNumeric.Valid {
		t.Errorf("votes should be undefined under VotesMissing, got %+v", m.VotesNumeric)
	}
	for _, f := range []string{FieldDecade, FieldRuntime, FieldVotes} {
		if stats.Unparseable[f] != 1 {
			t.Errorf("unparseable[%s]: got %d, want 1", f, stats.Unparseable[f])
		}
	}
}

func TestCleanerVotesZeroPolicy(t *testing.T) {
	r := fullRecord("Zero Votes")
	r.NoOfVotes = ns("lots")

	movies, _ := NewCleaner(newTestLogger(), VotesZero).Clean(models.RawTable{r})
	if len(movies) != 1 {
		t.Fatalf("expected 1 row, got %d", len(movies))
	}
	if !movies[0].VotesNumeric.Valid || movies[0].VotesNumeric.Int64 != 0 {
		t.Errorf("votes should default to 0 under VotesZero, got %+v", movies[0].VotesNumeric)
	}
}

func TestParseVotesPolicy(t *testing.T) {
	tests := []struct {
		raw    string
		want   VotesPolicy
		wantOK bool
	}{
		{"", VotesMissing, true},
		{"missing", VotesMissing, true},
		{"ZERO", VotesZero, true},
		{"drop", VotesMissing, false},
	}
	for _, tt := range tests {
		got, ok := ParseVotesPolicy(tt.raw)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseVotesPolicy(%q) = %v, %v; want %v, %v", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}
