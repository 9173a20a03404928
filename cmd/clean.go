package cmd

import (
	"github.com/spf13/cobra"

	"imdb-eda/storage"
)

func newCleanCmd(a *app) *cobra.Command {
	var src sourceFlags
	var statsPath string

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Run the cleaning pipeline and report what it dropped",
		Long: `Load the raw table, drop incomplete rows and exact duplicates, derive the
numeric fields and log the cleaning counters. Nothing is persisted except the
optional counters file.`,
		Example: `  imdb-eda clean --input ./imdb_top_1000.csv --stats-out ./output/clean.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := src.apply(cmd, a); err != nil {
				return err
			}

			movies, stats, label, err := a.cleanTable(cmd.Context())
			if err != nil {
				return err
			}

			a.logger.Info("Cleaned %s: %d of %d rows retained (%d incomplete, %d duplicate)",
				label, len(movies), stats.InputRows, stats.IncompleteRows, stats.DuplicateRows)
			for field, n := range stats.Unparseable {
				a.logger.Info("  %s: %d unparseable values left missing", field, n)
			}
			if len(movies) == 0 {
				return errNothingRetained
			}

			if statsPath != "" {
				if err := storage.NewYAMLWriter(statsPath).WriteCleanStats(stats); err != nil {
					return err
				}
				a.logger.Info("Cleaning counters saved to %s", statsPath)
			}
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().StringVar(&statsPath, "stats-out", "", "Write the cleaning counters as YAML to this path")

	return cmd
}
