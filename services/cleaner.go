package services

import (
	"database/sql"
	"errors"
	"strings"

	"imdb-eda/models"
	"imdb-eda/utils"
)

// VotesPolicy decides what an unparseable vote count becomes.
type VotesPolicy int

const (
	// VotesMissing leaves the vote count null, like runtime and year.
	VotesMissing VotesPolicy = iota
	// VotesZero records an unparseable vote count as zero.
	VotesZero
)

// ParseVotesPolicy maps "missing" or "zero" to a VotesPolicy.
func ParseVotesPolicy(s string) (VotesPolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "missing", "null":
		return VotesMissing, true
	case "zero":
		return VotesZero, true
	}
	return VotesMissing, false
}

func (p VotesPolicy) String() string {
	if p == VotesZero {
		return "zero"
	}
	return "missing"
}

// Derived field names used in CleanStats.Unparseable.
const (
	FieldRuntime = "runtime_minutes"
	FieldDecade  = "release_decade"
	FieldRating  = "imdb_rating"
	FieldMeta    = "meta_score"
	FieldVotes   = "votes_numeric"
	FieldGross   = "gross_numeric"
)

// Cleaner transforms a raw table into validated, de-duplicated Movies.
type Cleaner struct {
	logger   *utils.Logger
	votes    VotesPolicy
	critical []string
}

// NewCleaner creates a Cleaner over the fixed critical column set.
func NewCleaner(logger *utils.Logger, votes VotesPolicy) *Cleaner {
	return &Cleaner{logger: logger, votes: votes, critical: models.CriticalColumns}
}

// Clean runs FilterComplete, Deduplicate and Derive in order.
func (c *Cleaner) Clean(raw models.RawTable) ([]*models.Movie, models.CleanStats) {
	stats := models.CleanStats{InputRows: len(raw), Unparseable: make(map[string]int)}

	complete, _ := c.FilterComplete(raw)
	stats.IncompleteRows = len(raw) - len(complete)

	unique, removed := c.Deduplicate(complete)
	stats.DuplicateRows = removed

	movies := c.Derive(unique, stats.Unparseable)
	stats.RetainedRows = len(movies)

	c.logger.Info("[cleaner] Cleaned %d → %d rows (incomplete %d, duplicates %d)",
		stats.InputRows, stats.RetainedRows, stats.IncompleteRows, stats.DuplicateRows)
	for field, n := range stats.Unparseable {
		c.logger.Warn("[cleaner] %d rows with unparseable %s", n, field)
	}
	return movies, stats
}

// FilterComplete keeps rows whose critical fields are all present and
// non-blank, preserving order. The rejections are returned for inspection.
func (c *Cleaner) FilterComplete(raw models.RawTable) (models.RawTable, []*RowError) {
	out := make(models.RawTable, 0, len(raw))
	var rejected []*RowError
	for i, r := range raw {
		if col, ok := c.missingCritical(r); ok {
			rejected = append(rejected, &RowError{Index: i, Reason: RejectIncomplete, Column: col})
			continue
		}
		out = append(out, r)
	}
	if len(rejected) > 0 {
		c.logger.Debug("[cleaner] Dropped %d incomplete rows", len(rejected))
	}
	return out, rejected
}

func (c *Cleaner) missingCritical(r *models.RawRecord) (string, bool) {
	if r == nil {
		return "row", true
	}
	for _, col := range c.critical {
		v := r.Field(col)
		if !v.Valid || strings.TrimSpace(v.String) == "" {
			return col, true
		}
	}
	return "", false
}

// Deduplicate keeps the first occurrence of each distinct row and reports
// how many later exact repeats were removed.
func (c *Cleaner) Deduplicate(rows models.RawTable) (models.RawTable, int) {
	seen := utils.NewKeySet()
	out := make(models.RawTable, 0, len(rows))
	for _, r := range rows {
		if !seen.Add(r.Key()) {
			continue
		}
		out = append(out, r)
	}
	removed := len(rows) - len(out)
	if removed > 0 {
		c.logger.Debug("[cleaner] Removed %d duplicate rows", removed)
	}
	return out, removed
}

// Derive computes the auxiliary columns for each row. Fields that cannot be
// parsed are left null and counted in unparseable, which may be nil.
func (c *Cleaner) Derive(rows models.RawTable, unparseable map[string]int) []*models.Movie {
	note := func(field string, err error) {
		if err == nil {
			return
		}
		if unparseable != nil {
			unparseable[field]++
		}
		var fe *FieldError
		if errors.As(err, &fe) {
			c.logger.Debug("[cleaner] %s", fe.Error())
		}
	}

	movies := make([]*models.Movie, 0, len(rows))
	for _, r := range rows {
		m := &models.Movie{RawRecord: *r}

		stars := r.Stars()
		m.LeadActors = NormalizeActorList(stars[0].String, stars[1].String, stars[2].String, stars[3].String)
		m.Genres = SplitGenres(r.Genre.String)

		if n, err := ParseRuntime(r.Runtime.String); err == nil {
			m.RuntimeMinutes = sql.NullInt64{Int64: int64(n), Valid: true}
		} else {
			note(FieldRuntime, err)
		}

		if y, err := ParseYear(r.ReleasedYear.String); err == nil {
			d, _ := DeriveDecade(r.ReleasedYear.String)
			m.ReleaseYear = sql.NullInt64{Int64: int64(y), Valid: true}
			m.ReleaseDecade = sql.NullInt64{Int64: int64(d), Valid: true}
		} else {
			note(FieldDecade, err)
		}

		if f, err := ParseScore(r.IMDBRating.String); err == nil {
			m.RatingNumeric = sql.NullFloat64{Float64: f, Valid: true}
		} else {
			note(FieldRating, err)
		}

		if f, err := ParseScore(r.MetaScore.String); err == nil {
			m.MetaNumeric = sql.NullFloat64{Float64: f, Valid: true}
		} else {
			note(FieldMeta, err)
		}

		if n, err := ParseGroupedInteger(r.NoOfVotes.String); err == nil {
			m.VotesNumeric = sql.NullInt64{Int64: n, Valid: true}
		} else {
			note(FieldVotes, err)
			if c.votes == VotesZero {
				m.VotesNumeric = sql.NullInt64{Int64: 0, Valid: true}
			}
		}

		if f, err := ParseCurrencyNumber(r.Gross.String); err == nil {
			m.GrossNumeric = sql.NullFloat64{Float64: f, Valid: true}
		} else {
			note(FieldGross, err)
		}

		movies = append(movies, m)
	}
	return movies
}
