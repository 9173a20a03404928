package cmd

import (
	"github.com/spf13/cobra"

	"imdb-eda/charts"
	"imdb-eda/services"
	"imdb-eda/storage"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var src sourceFlags
	var reportPath string
	var xlsxPath string
	var chartDir string
	var pdf bool
	var topN int

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Clean the dataset and produce the insight report",
		Long: `Run the cleaning pipeline, compute descriptive statistics, correlations,
IQR outliers and top-N rankings, print them and write the YAML report, the
XLSX workbook and the PNG charts. An empty output path disables that output.

With --pdf the report is also printed to PDF through headless Chrome.`,
		Example: `  # Analyse a local copy
  imdb-eda analyze --input ./imdb_top_1000.csv

  # Read from PostgreSQL and print a PDF
  imdb-eda analyze --source postgres --pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := src.apply(cmd, a); err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("report") {
				a.cfg.ReportPath = reportPath
			}
			if flags.Changed("xlsx") {
				a.cfg.XLSXPath = xlsxPath
			}
			if flags.Changed("charts") {
				a.cfg.ChartDir = chartDir
			}
			if flags.Changed("pdf") {
				a.cfg.ReportPDF = pdf
			}
			if flags.Changed("top") {
				a.cfg.TopN = topN
			}

			ctx := cmd.Context()
			logger := a.logger
			logger.Info("=== IMDB EDA starting ===")

			movies, stats, label, err := a.cleanTable(ctx)
			if err != nil {
				return err
			}
			if len(movies) == 0 {
				return errNothingRetained
			}
			logger.Info("Cleaned dataset: %d titles", len(movies))

			svc := services.NewInsightService(logger, a.cfg.TopN)
			report := svc.Generate(movies, stats)
			report.Source = label
			svc.Print(cmd.OutOrStdout(), report)

			var writers []storage.ReportWriter
			if a.cfg.ReportPath != "" {
				writers = append(writers, storage.NewYAMLWriter(a.cfg.ReportPath))
			}
			if a.cfg.XLSXPath != "" {
				writers = append(writers, storage.NewXLSXWriter(a.cfg.XLSXPath))
			}
			for _, w := range writers {
				if err := w.WriteReport(report); err != nil {
					return err
				}
			}
			logger.Info("Report written (yaml: %q, xlsx: %q)", a.cfg.ReportPath, a.cfg.XLSXPath)

			var rendered []charts.Chart
			if a.cfg.ChartDir != "" {
				rendered, err = charts.NewRenderer(a.cfg.ChartDir, logger).RenderAll(movies, report.ByDecade)
				if err != nil {
					return err
				}
			}

			if a.cfg.ReportPDF {
				printer := charts.NewPDFPrinter(a.cfg.ChromeBin, logger)
				if err := printer.Print(ctx, report, rendered, a.cfg.PDFPath); err != nil {
					return err
				}
			}

			logger.Info("=== IMDB EDA complete ===")
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().StringVar(&reportPath, "report", "", "YAML report path (default from REPORT_PATH)")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "XLSX workbook path (default from XLSX_PATH)")
	cmd.Flags().StringVar(&chartDir, "charts", "", "Chart output directory (default from CHART_DIR)")
	cmd.Flags().BoolVar(&pdf, "pdf", false, "Also print the report to PDF with headless Chrome")
	cmd.Flags().IntVar(&topN, "top", services.DefaultTopN, "Length of each top-N ranking")

	return cmd
}
