package charts

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"imdb-eda/models"
	"imdb-eda/utils"
)

// ErrNoData is returned when a chart has nothing to draw.
var ErrNoData = errors.New("charts: no data")

const (
	width  = 8 * vg.Inch
	height = 5 * vg.Inch
)

var (
	barColor     = color.RGBA{R: 0x4c, G: 0x72, B: 0xb0, A: 0xff}
	scatterColor = color.RGBA{R: 0xdd, G: 0x84, B: 0x52, A: 0xc0}
)

// Chart is one rendered image.
type Chart struct {
	Title string
	Path  string
}

// Renderer draws the standard set of charts for a clean table.
type Renderer struct {
	dir    string
	logger *utils.Logger
}

func NewRenderer(dir string, logger *utils.Logger) *Renderer {
	return &Renderer{dir: dir, logger: logger}
}

// RenderAll draws every chart it has data for. A chart without data is
// logged and skipped; any other failure aborts.
func (r *Renderer) RenderAll(movies []*models.Movie, byDecade []models.GroupValue) ([]Chart, error) {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return nil, fmt.Errorf("charts: create output dir: %w", err)
	}

	jobs := []struct {
		title, file string
		build       func() (*plot.Plot, error)
	}{
		{"IMDB rating distribution", "rating_hist.png", func() (*plot.Plot, error) { return RatingHistogram(movies) }},
		{"Titles per decade", "titles_by_decade.png", func() (*plot.Plot, error) { return DecadeBars(byDecade) }},
		{"Votes vs gross", "votes_vs_gross.png", func() (*plot.Plot, error) { return VotesGrossScatter(movies) }},
		{"Runtime box plot", "runtime_box.png", func() (*plot.Plot, error) { return RuntimeBox(movies) }},
	}

	var out []Chart
	for _, j := range jobs {
		p, err := j.build()
		if errors.Is(err, ErrNoData) {
			r.logger.Warn("[charts] Skipping %q: no data", j.title)
			continue
		}
		if err != nil {
			return out, fmt.Errorf("charts: build %s: %w", j.file, err)
		}
		path := filepath.Join(r.dir, j.file)
		if err := p.Save(width, height, path); err != nil {
			return out, fmt.Errorf("charts: save %s: %w", path, err)
		}
		r.logger.Info("[charts] Wrote %s", path)
		out = append(out, Chart{Title: j.title, Path: path})
	}
	return out, nil
}

// RatingHistogram bins the IMDB ratings.
func RatingHistogram(movies []*models.Movie) (*plot.Plot, error) {
	var vs plotter.Values
	for _, m := range movies {
		if m.RatingNumeric.Valid {
			vs = append(vs, m.RatingNumeric.Float64)
		}
	}
	if len(vs) == 0 {
		return nil, ErrNoData
	}

	p := plot.New()
	p.Title.Text = "IMDB rating distribution"
	p.X.Label.Text = "IMDB rating"
	p.Y.Label.Text = "Titles"

	h, err := plotter.NewHist(vs, 16)
	if err != nil {
		return nil, err
	}
	h.FillColor = barColor
	p.Add(h)
	return p, nil
}

// DecadeBars draws the title count per decade bucket.
func DecadeBars(byDecade []models.GroupValue) (*plot.Plot, error) {
	if len(byDecade) == 0 {
		return nil, ErrNoData
	}
	vs := make(plotter.Values, len(byDecade))
	names := make([]string, len(byDecade))
	for i, d := range byDecade {
		vs[i] = float64(d.Count)
		names[i] = d.Group
	}

	p := plot.New()
	p.Title.Text = "Titles per decade"
	p.Y.Label.Text = "Titles"

	bars, err := plotter.NewBarChart(vs, vg.Points(24))
	if err != nil {
		return nil, err
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(names...)
	return p, nil
}

// VotesGrossScatter plots vote count against gross for titles that have both.
func VotesGrossScatter(movies []*models.Movie) (*plot.Plot, error) {
	var xys plotter.XYs
	for _, m := range movies {
		if m.VotesNumeric.Valid && m.GrossNumeric.Valid {
			xys = append(xys, plotter.XY{X: float64(m.VotesNumeric.Int64), Y: m.GrossNumeric.Float64 / 1e6})
		}
	}
	if len(xys) == 0 {
		return nil, ErrNoData
	}

	p := plot.New()
	p.Title.Text = "Votes vs gross"
	p.X.Label.Text = "Votes"
	p.Y.Label.Text = "Gross (millions)"

	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	s.GlyphStyle.Color = scatterColor
	s.GlyphStyle.Radius = vg.Points(2)
	p.Add(s)
	return p, nil
}

// RuntimeBox draws a box plot of runtimes; its whiskers follow the 1.5×IQR rule.
func RuntimeBox(movies []*models.Movie) (*plot.Plot, error) {
	var vs plotter.Values
	for _, m := range movies {
		if m.RuntimeMinutes.Valid {
			vs = append(vs, float64(m.RuntimeMinutes.Int64))
		}
	}
	if len(vs) == 0 {
		return nil, ErrNoData
	}

	p := plot.New()
	p.Title.Text = "Runtime"
	p.Y.Label.Text = "Minutes"

	box, err := plotter.NewBoxPlot(vg.Points(40), 0, vs)
	if err != nil {
		return nil, err
	}
	box.FillColor = barColor
	p.Add(box)
	p.NominalX("runtime")
	return p, nil
}
