package services

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"imdb-eda/models"
	"imdb-eda/utils"
)

// DefaultTopN is the length of each ranked aggregate.
const DefaultTopN = 10

// Numeric column names used in the report.
const (
	ColumnRating  = "IMDB_Rating"
	ColumnMeta    = "Meta_score"
	ColumnRuntime = "runtime_minutes"
	ColumnVotes   = "votes_numeric"
	ColumnGross   = "gross_numeric"
)

type column struct {
	name  string
	value func(*models.Movie) (float64, bool)
}

var numericColumns = []column{
	{ColumnRating, func(m *models.Movie) (float64, bool) { return m.RatingNumeric.Float64, m.RatingNumeric.Valid }},
	{ColumnMeta, func(m *models.Movie) (float64, bool) { return m.MetaNumeric.Float64, m.MetaNumeric.Valid }},
	{ColumnRuntime, func(m *models.Movie) (float64, bool) {
		return float64(m.RuntimeMinutes.Int64), m.RuntimeMinutes.Valid
	}},
	{ColumnVotes, func(m *models.Movie) (float64, bool) { return float64(m.VotesNumeric.Int64), m.VotesNumeric.Valid }},
	{ColumnGross, func(m *models.Movie) (float64, bool) { return m.GrossNumeric.Float64, m.GrossNumeric.Valid }},
}

var correlationPairs = [][2]string{
	{ColumnRating, ColumnVotes},
	{ColumnRating, ColumnMeta},
	{ColumnVotes, ColumnGross},
	{ColumnRuntime, ColumnRating},
}

var outlierColumns = []string{ColumnGross, ColumnVotes, ColumnRuntime}

func lookupColumn(name string) column {
	for _, c := range numericColumns {
		if c.name == name {
			return c
		}
	}
	panic("services: unknown column " + name)
}

type InsightService struct {
	logger *utils.Logger
	topN   int
	now    func() time.Time
}

func NewInsightService(logger *utils.Logger, topN int) *InsightService {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &InsightService{logger: logger, topN: topN, now: time.Now}
}

// Generate computes the report over movies. cleaning is copied into the report as-is.
func (s *InsightService) Generate(movies []*models.Movie, cleaning models.CleanStats) *models.InsightReport {
	report := &models.InsightReport{
		RunID:       uuid.NewString(),
		GeneratedAt: s.now().UTC(),
		Cleaning:    cleaning,
		TotalTitles: len(movies),
	}
	if len(movies) == 0 {
		s.logger.Warn("[insights] No movies to analyse")
		return report
	}

	for _, c := range numericColumns {
		if sum, ok := Summarize(c.name, columnValues(movies, c)); ok {
			report.Summaries = append(report.Summaries, sum)
		}
	}

	for _, pair := range correlationPairs {
		x, y := pairedValues(movies, lookupColumn(pair[0]), lookupColumn(pair[1]))
		corr, err := Correlate(pair[0], pair[1], x, y)
		if err != nil {
			s.logger.Warn("[insights] Skipping correlation %s × %s: %v", pair[0], pair[1], err)
			continue
		}
		report.Correlations = append(report.Correlations, corr)
	}

	for _, name := range outlierColumns {
		if out, ok := s.outliers(movies, lookupColumn(name)); ok {
			report.Outliers = append(report.Outliers, out)
		}
	}

	report.TopGenres = s.topGenres(movies)
	report.TopDirectors = s.topDirectors(movies)
	report.TopByVotes = s.topByVotes(movies)
	report.ByDecade = byDecade(movies)

	s.logger.Info("[insights] Report %s: %d titles, %d correlations, %d outlier columns",
		report.RunID, report.TotalTitles, len(report.Correlations), len(report.Outliers))
	return report
}

func columnValues(movies []*models.Movie, c column) []float64 {
	out := make([]float64, 0, len(movies))
	for _, m := range movies {
		if v, ok := c.value(m); ok {
			out = append(out, v)
		}
	}
	return out
}

func pairedValues(movies []*models.Movie, cx, cy column) ([]float64, []float64) {
	var xs, ys []float64
	for _, m := range movies {
		x, okx := cx.value(m)
		y, oky := cy.value(m)
		if okx && oky {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	return xs, ys
}

// Summarize returns count, mean, median, sample standard deviation, min and max.
func Summarize(name string, values []float64) (models.NumericSummary, bool) {
	if len(values) == 0 {
		return models.NumericSummary{Column: name}, false
	}
	median, _ := Quantile(values, 0.5)
	sum := models.NumericSummary{
		Column: name,
		Count:  len(values),
		Mean:   stat.Mean(values, nil),
		Median: median,
		Min:    floats.Min(values),
		Max:    floats.Max(values),
	}
	if len(values) > 1 {
		sum.StdDev = stat.StdDev(values, nil)
	}
	return sum, true
}

// Correlate computes Pearson's r and the two-sided p-value of the t-test
// with n-2 degrees of freedom.
func Correlate(xName, yName string, x, y []float64) (models.Correlation, error) {
	n := len(x)
	if n != len(y) {
		return models.Correlation{}, fmt.Errorf("length mismatch %d != %d", n, len(y))
	}
	if n < 3 {
		return models.Correlation{}, fmt.Errorf("need at least 3 pairs, have %d", n)
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return models.Correlation{}, fmt.Errorf("constant column")
	}
	return models.Correlation{X: xName, Y: yName, N: n, R: r, PValue: correlationPValue(r, n)}, nil
}

func correlationPValue(r float64, n int) float64 {
	if math.Abs(r) >= 1 {
		return 0
	}
	df := float64(n - 2)
	t := r * math.Sqrt(df/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * (1 - dist.CDF(math.Abs(t)))
}

func (s *InsightService) outliers(movies []*models.Movie, c column) (models.OutlierSummary, bool) {
	var values []float64
	var titles []string
	for _, m := range movies {
		if v, ok := c.value(m); ok {
			values = append(values, v)
			titles = append(titles, m.Title())
		}
	}
	b, idx, err := DetectOutliers(values)
	if err != nil {
		return models.OutlierSummary{}, false
	}
	out := models.OutlierSummary{
		Column: c.name,
		Q1:     b.Q1,
		Q3:     b.Q3,
		IQR:    b.IQR,
		Lower:  b.Lower,
		Upper:  b.Upper,
		Count:  len(idx),
	}
	for _, i := range idx {
		out.Titles = append(out.Titles, titles[i])
	}
	s.logger.Debug("[insights] %s: %d outliers outside [%.2f, %.2f]", c.name, out.Count, b.Lower, b.Upper)
	return out, true
}

func (s *InsightService) topGenres(movies []*models.Movie) []models.GroupValue {
	counts := make(map[string]int)
	ratingSum := make(map[string]float64)
	rated := make(map[string]int)
	for _, m := range movies {
		for _, g := range m.Genres {
			counts[g]++
			if m.RatingNumeric.Valid {
				ratingSum[g] += m.RatingNumeric.Float64
				rated[g]++
			}
		}
	}
	out := make([]models.GroupValue, 0, len(counts))
	for g, n := range counts {
		gv := models.GroupValue{Group: g, Count: n}
		if rated[g] > 0 {
			gv.Value = ratingSum[g] / float64(rated[g])
		}
		out = append(out, gv)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Group < out[j].Group
	})
	return limit(out, s.topN)
}

func (s *InsightService) topDirectors(movies []*models.Movie) []models.GroupValue {
	totals := make(map[string]*models.GroupValue)
	for _, m := range movies {
		name := m.DirectorName()
		if name == "" || !m.GrossNumeric.Valid {
			continue
		}
		gv, ok := totals[name]
		if !ok {
			gv = &models.GroupValue{Group: name}
			totals[name] = gv
		}
		gv.Count++
		gv.Value += m.GrossNumeric.Float64
	}
	out := make([]models.GroupValue, 0, len(totals))
	for _, gv := range totals {
		out = append(out, *gv)
	}
	sortByValue(out)
	return limit(out, s.topN)
}

func (s *InsightService) topByVotes(movies []*models.Movie) []models.GroupValue {
	var out []models.GroupValue
	for _, m := range movies {
		if m.VotesNumeric.Valid {
			out = append(out, models.GroupValue{Group: m.Title(), Count: 1, Value: float64(m.VotesNumeric.Int64)})
		}
	}
	sortByValue(out)
	return limit(out, s.topN)
}

// byDecade counts titles per decade, chronologically, with the mean rating as Value.
func byDecade(movies []*models.Movie) []models.GroupValue {
	type acc struct {
		count  int
		sum    float64
		rated  int
		decade int64
	}
	groups := make(map[int64]*acc)
	for _, m := range movies {
		if !m.ReleaseDecade.Valid {
			continue
		}
		a, ok := groups[m.ReleaseDecade.Int64]
		if !ok {
			a = &acc{decade: m.ReleaseDecade.Int64}
			groups[m.ReleaseDecade.Int64] = a
		}
		a.count++
		if m.RatingNumeric.Valid {
			a.sum += m.RatingNumeric.Float64
			a.rated++
		}
	}
	accs := make([]*acc, 0, len(groups))
	for _, a := range groups {
		accs = append(accs, a)
	}
	sort.Slice(accs, func(i, j int) bool { return accs[i].decade < accs[j].decade })

	out := make([]models.GroupValue, 0, len(accs))
	for _, a := range accs {
		gv := models.GroupValue{Group: models.DecadeLabel(a.decade), Count: a.count}
		if a.rated > 0 {
			gv.Value = a.sum / float64(a.rated)
		}
		out = append(out, gv)
	}
	return out
}

func sortByValue(gvs []models.GroupValue) {
	sort.Slice(gvs, func(i, j int) bool {
		if gvs[i].Value != gvs[j].Value {
			return gvs[i].Value > gvs[j].Value
		}
		return gvs[i].Group < gvs[j].Group
	})
}

func limit(gvs []models.GroupValue, n int) []models.GroupValue {
	if len(gvs) > n {
		return gvs[:n]
	}
	return gvs
}

func (s *InsightService) Print(w io.Writer, r *models.InsightReport) {
	sep := strings.Repeat("═", 60)
	thin := strings.Repeat("─", 60)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  🎬 IMDB TOP TITLES INSIGHTS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Cleaning\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Input rows       : \033[1m%d\033[0m\n", r.Cleaning.InputRows)
	fmt.Fprintf(w, "  Incomplete rows  : \033[1m%d\033[0m\n", r.Cleaning.IncompleteRows)
	fmt.Fprintf(w, "  Duplicate rows   : \033[1m%d\033[0m\n", r.Cleaning.DuplicateRows)
	fmt.Fprintf(w, "  Retained rows    : \033[1m%d\033[0m\n", r.Cleaning.RetainedRows)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Descriptive Statistics\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.Summaries) == 0 {
		fmt.Fprintf(w, "  No numeric data available\n")
	}
	for _, sm := range r.Summaries {
		fmt.Fprintf(w, "  %-16s n=%-5d mean=%-14.2f median=%-14.2f sd=%.2f\n",
			sm.Column, sm.Count, sm.Mean, sm.Median, sm.StdDev)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Correlations (Pearson)\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, c := range r.Correlations {
		fmt.Fprintf(w, "  %-16s × %-16s r=\033[1;32m%+.3f\033[0m  p=%.3g  (n=%d)\n",
			c.X, c.Y, c.R, c.PValue, c.N)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Outliers (1.5 × IQR)\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, o := range r.Outliers {
		fmt.Fprintf(w, "  %-16s [%.2f, %.2f]  \033[1;31m%d outliers\033[0m\n", o.Column, o.Lower, o.Upper, o.Count)
	}
	fmt.Fprintln(w)

	printGroups(w, thin, fmt.Sprintf("Top %d Genres (titles, mean rating)", s.topN), r.TopGenres, "%.2f ★")
	printGroups(w, thin, fmt.Sprintf("Top %d Directors by Gross", s.topN), r.TopDirectors, "$%.0f")
	printGroups(w, thin, fmt.Sprintf("Top %d Titles by Votes", s.topN), r.TopByVotes, "%.0f votes")

	fmt.Fprintf(w, "\033[1;33m  Titles by Decade\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, d := range r.ByDecade {
		bar := strings.Repeat("█", (d.Count+9)/10)
		fmt.Fprintf(w, "  %-8s %s (%d, %.2f ★)\n", d.Group, bar, d.Count, d.Value)
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func printGroups(w io.Writer, thin, title string, groups []models.GroupValue, valueFormat string) {
	fmt.Fprintf(w, "\033[1;33m  %s\033[0m\n", title)
	fmt.Fprintf(w, "  %s\n", thin)
	if len(groups) == 0 {
		fmt.Fprintf(w, "  No data\n")
	}
	for i, g := range groups {
		fmt.Fprintf(w, "  \033[1m%2d.\033[0m %-40s %4d  "+valueFormat+"\n", i+1, truncate(g.Group, 38), g.Count, g.Value)
	}
	fmt.Fprintln(w)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
