package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFetchCmd(a *app) *cobra.Command {
	var id string
	var file string
	var force bool

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the dataset into the local cache",
		Long: `Download the Kaggle dataset archive, extract it into the kagglehub style
cache directory and print the path of the raw CSV.

Credentials are read from KAGGLE_USERNAME and KAGGLE_KEY when set.`,
		Example: `  # Fetch the default dataset
  imdb-eda fetch

  # Re-download even if cached
  imdb-eda fetch --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("dataset") {
				a.cfg.DatasetID = id
			}
			if cmd.Flags().Changed("file") {
				a.cfg.DatasetFile = file
			}

			path, err := a.downloader(force).Resolve(cmd.Context(), a.cfg.DatasetID, a.cfg.DatasetFile)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "dataset", "", "Kaggle dataset id (owner/slug)")
	cmd.Flags().StringVar(&file, "file", "", "File inside the dataset archive")
	cmd.Flags().BoolVar(&force, "force", false, "Download even if the file is cached")

	return cmd
}
