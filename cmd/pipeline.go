package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"imdb-eda/dataset"
	"imdb-eda/models"
	"imdb-eda/services"
	"imdb-eda/storage"
)

var errNothingRetained = errors.New("all rows were dropped during cleaning")

// sourceFlags are the input options shared by clean and analyze.
type sourceFlags struct {
	source    string
	input     string
	delimiter string
	votes     string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.source, "source", "csv", "Raw table source (csv or postgres)")
	cmd.Flags().StringVar(&f.input, "input", "", "Path to the raw CSV (default: download the Kaggle dataset)")
	cmd.Flags().StringVar(&f.delimiter, "delimiter", ";", "CSV field delimiter")
	cmd.Flags().StringVar(&f.votes, "votes-on-parse-failure", "missing", "Vote count for unparseable values (missing or zero)")
}

// apply copies every flag the user set over the loaded configuration.
func (f *sourceFlags) apply(cmd *cobra.Command, a *app) error {
	flags := cmd.Flags()
	if flags.Changed("source") {
		a.cfg.Source = f.source
	}
	if flags.Changed("input") {
		a.cfg.InputPath = f.input
	}
	if flags.Changed("delimiter") {
		r := []rune(f.delimiter)
		if len(r) != 1 {
			return fmt.Errorf("--delimiter must be a single character, got %q", f.delimiter)
		}
		a.cfg.CSVDelimiter = r[0]
	}
	if flags.Changed("votes-on-parse-failure") {
		a.cfg.VotesPolicy = f.votes
	}
	return nil
}

func (a *app) downloader(force bool) *dataset.Downloader {
	return dataset.NewDownloader(dataset.DownloadConfig{
		CacheDir:      a.cfg.DatasetCacheDir,
		ForceDownload: force,
		Username:      a.cfg.KaggleUsername,
		Key:           a.cfg.KaggleKey,
	}, a.logger)
}

// openSource returns the configured raw table backend and a label naming it.
func (a *app) openSource(ctx context.Context) (storage.RawSource, string, error) {
	switch a.cfg.Source {
	case "postgres":
		pr, err := storage.NewPostgresReader(ctx, a.cfg.DSN(), a.cfg.PostgresTable, a.logger)
		if err != nil {
			a.logger.Error("Make sure PostgreSQL is reachable at %s:%s", a.cfg.PostgresHost, a.cfg.PostgresPort)
			return nil, "", err
		}
		return pr, "postgres:" + a.cfg.PostgresTable, nil
	case "csv", "":
		path := a.cfg.InputPath
		if path == "" {
			resolved, err := a.downloader(false).Resolve(ctx, a.cfg.DatasetID, a.cfg.DatasetFile)
			if err != nil {
				return nil, "", err
			}
			path = resolved
		}
		cr, err := storage.NewCSVReader(path, a.cfg.CSVDelimiter, a.logger)
		if err != nil {
			return nil, "", err
		}
		return cr, path, nil
	}
	return nil, "", fmt.Errorf("unknown source %q (want csv or postgres)", a.cfg.Source)
}

// cleanTable loads the raw table and runs the cleaning pipeline over it.
func (a *app) cleanTable(ctx context.Context) ([]*models.Movie, models.CleanStats, string, error) {
	policy, ok := services.ParseVotesPolicy(a.cfg.VotesPolicy)
	if !ok {
		return nil, models.CleanStats{}, "", fmt.Errorf("invalid votes policy %q (want missing or zero)", a.cfg.VotesPolicy)
	}

	src, label, err := a.openSource(ctx)
	if err != nil {
		return nil, models.CleanStats{}, "", err
	}
	defer src.Close()

	raw, err := src.Load(ctx)
	if err != nil {
		return nil, models.CleanStats{}, "", err
	}

	movies, stats := services.NewCleaner(a.logger, policy).Clean(raw)
	return movies, stats, label, nil
}
