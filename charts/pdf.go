package charts

import (
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"imdb-eda/models"
	"imdb-eda/utils"
)

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"f2": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"f3": func(v float64) string { return fmt.Sprintf("%.3g", v) },
}).Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>IMDB top titles report</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
table { border-collapse: collapse; margin-bottom: 1.5em; }
th, td { border: 1px solid #ccc; padding: 4px 10px; text-align: right; }
th:first-child, td:first-child { text-align: left; }
img { width: 100%; max-width: 720px; page-break-inside: avoid; }
</style></head><body>
<h1>IMDB top titles report</h1>
<p>Run {{.Report.RunID}} · {{.Report.GeneratedAt.Format "2006-01-02 15:04"}} · {{.Report.Source}}</p>
<h2>Cleaning</h2>
<table>
<tr><td>Input rows</td><td>{{.Report.Cleaning.InputRows}}</td></tr>
<tr><td>Incomplete rows</td><td>{{.Report.Cleaning.IncompleteRows}}</td></tr>
<tr><td>Duplicate rows</td><td>{{.Report.Cleaning.DuplicateRows}}</td></tr>
<tr><td>Retained rows</td><td>{{.Report.Cleaning.RetainedRows}}</td></tr>
</table>
<h2>Descriptive statistics</h2>
<table><tr><th>Column</th><th>n</th><th>Mean</th><th>Median</th><th>Std dev</th><th>Min</th><th>Max</th></tr>
{{range .Report.Summaries}}<tr><td>{{.Column}}</td><td>{{.Count}}</td><td>{{f2 .Mean}}</td><td>{{f2 .Median}}</td><td>{{f2 .StdDev}}</td><td>{{f2 .Min}}</td><td>{{f2 .Max}}</td></tr>
{{end}}</table>
<h2>Correlations</h2>
<table><tr><th>X</th><th>Y</th><th>n</th><th>r</th><th>p</th></tr>
{{range .Report.Correlations}}<tr><td>{{.X}}</td><td>{{.Y}}</td><td>{{.N}}</td><td>{{f3 .R}}</td><td>{{f3 .PValue}}</td></tr>
{{end}}</table>
<h2>Outliers (1.5 × IQR)</h2>
<table><tr><th>Column</th><th>Lower</th><th>Upper</th><th>Count</th></tr>
{{range .Report.Outliers}}<tr><td>{{.Column}}</td><td>{{f2 .Lower}}</td><td>{{f2 .Upper}}</td><td>{{.Count}}</td></tr>
{{end}}</table>
{{range .Charts}}<h2>{{.Title}}</h2><img src="{{.Src}}" alt="{{.Title}}">
{{end}}</body></html>
`))

type chartView struct {
	Title string
	Src   template.URL
}

// WriteHTML renders the report page with every chart inlined as a data URI.
func WriteHTML(w io.Writer, report *models.InsightReport, charts []Chart) error {
	views := make([]chartView, 0, len(charts))
	for _, c := range charts {
		data, err := os.ReadFile(c.Path)
		if err != nil {
			return fmt.Errorf("charts: read %s: %w", c.Path, err)
		}
		src := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
		views = append(views, chartView{Title: c.Title, Src: template.URL(src)})
	}
	return reportTemplate.Execute(w, struct {
		Report *models.InsightReport
		Charts []chartView
	}{report, views})
}

// PDFPrinter prints the HTML report to PDF with headless Chrome.
type PDFPrinter struct {
	chromeBin string
	timeout   time.Duration
	logger    *utils.Logger
}

func NewPDFPrinter(chromeBin string, logger *utils.Logger) *PDFPrinter {
	return &PDFPrinter{chromeBin: chromeBin, timeout: 60 * time.Second, logger: logger}
}

// Print writes the report as an HTML page next to dest and prints it to dest.
func (p *PDFPrinter) Print(ctx context.Context, report *models.InsightReport, charts []Chart, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("pdf: create output dir: %w", err)
	}

	htmlPath := dest[:len(dest)-len(filepath.Ext(dest))] + ".html"
	f, err := os.Create(htmlPath)
	if err != nil {
		return fmt.Errorf("pdf: create %s: %w", htmlPath, err)
	}
	if err := WriteHTML(f, report, charts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("pdf: close %s: %w", htmlPath, err)
	}
	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return fmt.Errorf("pdf: %w", err)
	}

	chromeBin := p.chromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	p.logger.Info("[pdf] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	runCtx, cancelTimeout := context.WithTimeout(browserCtx, p.timeout)
	defer cancelTimeout()

	var pdf []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("file://"+filepath.ToSlash(abs)),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("pdf: chromedp print: %w", err)
	}

	if err := os.WriteFile(dest, pdf, 0644); err != nil {
		return fmt.Errorf("pdf: write %s: %w", dest, err)
	}
	p.logger.Info("[pdf] Wrote %s (%d bytes)", dest, len(pdf))
	return nil
}

// findChromeBinary locates a Chrome/Chromium binary; empty means let chromedp search.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
