package cmd

import (
	"github.com/spf13/cobra"

	"imdb-eda/config"
	"imdb-eda/utils"
)

// app carries the configuration and logger shared by every subcommand.
type app struct {
	cfg    *config.Config
	logger *utils.Logger
}

func NewRootCmd() *cobra.Command {
	a := &app{}
	var verbose bool

	cmd := &cobra.Command{
		Use:   "imdb-eda",
		Short: "Clean and analyse the IMDB top 1000 titles dataset",
		Long: `imdb-eda acquires the IMDB top 1000 movies and TV shows table, cleans it
and reports descriptive statistics, correlations, outliers and top-N rankings.

Configuration comes from the environment (and a .env file if present);
command-line flags override it.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.cfg = config.Load()
			level := utils.ParseLevel(a.cfg.LogLevel)
			if verbose {
				level = utils.LevelDebug
			}
			a.logger = utils.NewLoggerWithWriters(cmd.OutOrStdout(), cmd.ErrOrStderr(), level)
		},
	}

	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose logging")

	cmd.AddCommand(newFetchCmd(a))
	cmd.AddCommand(newCleanCmd(a))
	cmd.AddCommand(newAnalyzeCmd(a))

	return cmd
}
