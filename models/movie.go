package models

import (
	"database/sql"
	"strconv"
	"strings"
)

// Column names as they appear in the dataset header.
const (
	ColPosterLink   = "Poster_Link"
	ColSeriesTitle  = "Series_Title"
	ColReleasedYear = "Released_Year"
	ColCertificate  = "Certificate"
	ColRuntime      = "Runtime"
	ColGenre        = "Genre"
	ColIMDBRating   = "IMDB_Rating"
	ColOverview     = "Overview"
	ColMetaScore    = "Meta_score"
	ColDirector     = "Director"
	ColStar1        = "Star1"
	ColStar2        = "Star2"
	ColStar3        = "Star3"
	ColStar4        = "Star4"
	ColNoOfVotes    = "No_of_Votes"
	ColGross        = "Gross"
)

// Columns lists every raw column in header order.
var Columns = []string{
	ColPosterLink, ColSeriesTitle, ColReleasedYear, ColCertificate,
	ColRuntime, ColGenre, ColIMDBRating, ColOverview, ColMetaScore,
	ColDirector, ColStar1, ColStar2, ColStar3, ColStar4,
	ColNoOfVotes, ColGross,
}

// CriticalColumns are the columns that must all be present for a row to
// survive cleaning. Every raw column is critical.
var CriticalColumns = Columns

// RawRecord holds one unprocessed row exactly as it was read from the
// source table. A field that is absent (empty CSV cell, SQL NULL) is not Valid.
type RawRecord struct {
	PosterLink   sql.NullString
	SeriesTitle  sql.NullString
	ReleasedYear sql.NullString
	Certificate  sql.NullString
	Runtime      sql.NullString
	Genre        sql.NullString
	IMDBRating   sql.NullString
	Overview     sql.NullString
	MetaScore    sql.NullString
	Director     sql.NullString
	Star1        sql.NullString
	Star2        sql.NullString
	Star3        sql.NullString
	Star4        sql.NullString
	NoOfVotes    sql.NullString
	Gross        sql.NullString
}

// RawTable is an ordered sequence of raw rows.
type RawTable []*RawRecord

// fields returns pointers to every column in header order.
func (r *RawRecord) fields() []*sql.NullString {
	return []*sql.NullString{
		&r.PosterLink, &r.SeriesTitle, &r.ReleasedYear, &r.Certificate,
		&r.Runtime, &r.Genre, &r.IMDBRating, &r.Overview, &r.MetaScore,
		&r.Director, &r.Star1, &r.Star2, &r.Star3, &r.Star4,
		&r.NoOfVotes, &r.Gross,
	}
}

// Field returns the value of the named column. Unknown names are never valid.
func (r *RawRecord) Field(column string) sql.NullString {
	for i, name := range Columns {
		if name == column {
			return *r.fields()[i]
		}
	}
	return sql.NullString{}
}

// Set assigns the named column. It reports false for unknown names.
func (r *RawRecord) Set(column string, v sql.NullString) bool {
	for i, name := range Columns {
		if name == column {
			*r.fields()[i] = v
			return true
		}
	}
	return false
}

// ScanTargets returns scan destinations in header order, for database/sql.
func (r *RawRecord) ScanTargets() []any {
	fs := r.fields()
	out := make([]any, len(fs))
	for i, f := range fs {
		out[i] = f
	}
	return out
}

// Key encodes every column, including validity, into a string that is equal
// for two records exactly when all their columns are equal.
func (r *RawRecord) Key() string {
	var b strings.Builder
	for _, f := range r.fields() {
		if !f.Valid {
			b.WriteString("-|")
			continue
		}
		b.WriteString(strconv.Quote(f.String))
		b.WriteByte('|')
	}
	return b.String()
}

// Stars returns the four actor fields in billing order.
func (r *RawRecord) Stars() [4]sql.NullString {
	return [4]sql.NullString{r.Star1, r.Star2, r.Star3, r.Star4}
}

// Movie is a cleaned, validated record with derived columns.
type Movie struct {
	RawRecord

	Genres         []string
	LeadActors     string
	RuntimeMinutes sql.NullInt64
	ReleaseYear    sql.NullInt64
	ReleaseDecade  sql.NullInt64
	RatingNumeric  sql.NullFloat64
	MetaNumeric    sql.NullFloat64
	VotesNumeric   sql.NullInt64
	GrossNumeric   sql.NullFloat64
}

// Title returns the series title.
func (m *Movie) Title() string { return m.SeriesTitle.String }

// DirectorName returns the trimmed director name.
func (m *Movie) DirectorName() string { return strings.TrimSpace(m.Director.String) }

// DecadeLabel renders the decade bucket, e.g. "1990s". It is empty when
// the release year did not parse.
func (m *Movie) DecadeLabel() string {
	if !m.ReleaseDecade.Valid {
		return ""
	}
	return DecadeLabel(m.ReleaseDecade.Int64)
}

// DecadeLabel formats a decade start year as "1990s".
func DecadeLabel(decade int64) string {
	return strconv.FormatInt(decade, 10) + "s"
}
