package dataset

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"imdb-eda/utils"
)

const (
	// KaggleDownloadURL serves a dataset's files as one zip archive.
	KaggleDownloadURL = "https://www.kaggle.com/api/v1/datasets/download/%s"

	// DefaultCacheDir mirrors the kagglehub cache layout.
	DefaultCacheDir = "~/.cache/kagglehub/datasets"
)

// DownloadConfig configures dataset downloading.
type DownloadConfig struct {
	CacheDir      string
	ForceDownload bool
	Username      string
	Key           string
	// BaseURL overrides KaggleDownloadURL; it must contain one %s for the id.
	BaseURL string
	Client  *http.Client
}

// Downloader resolves a Kaggle dataset id to files in a local cache.
type Downloader struct {
	config DownloadConfig
	logger *utils.Logger
}

// NewDownloader creates a new dataset downloader.
func NewDownloader(config DownloadConfig, logger *utils.Logger) *Downloader {
	if config.CacheDir == "" {
		config.CacheDir = DefaultCacheDir
	}
	if strings.HasPrefix(config.CacheDir, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			config.CacheDir = filepath.Join(home, config.CacheDir[1:])
		}
	}
	if config.BaseURL == "" {
		config.BaseURL = KaggleDownloadURL
	}
	if config.Client == nil {
		config.Client = http.DefaultClient
	}
	return &Downloader{config: config, logger: logger}
}

// DatasetDir returns the directory holding the extracted files of id.
func (d *Downloader) DatasetDir(id string) string {
	return filepath.Join(d.config.CacheDir, filepath.FromSlash(id))
}

// Resolve returns the local path of filename inside dataset id, downloading
// and extracting the archive when it is not cached yet.
func (d *Downloader) Resolve(ctx context.Context, id, filename string) (string, error) {
	if err := validateID(id); err != nil {
		return "", err
	}
	dir := d.DatasetDir(id)
	target := filepath.Join(dir, filename)

	if !d.config.ForceDownload {
		if _, err := os.Stat(target); err == nil {
			d.logger.Info("[dataset] Using cached dataset: %s", target)
			return target, nil
		}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("dataset: create cache dir: %w", err)
	}

	archive := filepath.Join(dir, "archive.zip")
	d.logger.Info("[dataset] Downloading %s", id)
	if err := d.download(ctx, fmt.Sprintf(d.config.BaseURL, id), archive); err != nil {
		return "", err
	}
	defer os.Remove(archive)

	files, err := extract(archive, dir)
	if err != nil {
		return "", err
	}
	d.logger.Info("[dataset] Extracted %d files into %s", len(files), dir)

	if _, err := os.Stat(target); err != nil {
		return "", fmt.Errorf("dataset: %s not found in %s (have %s)", filename, id, strings.Join(files, ", "))
	}
	return target, nil
}

func validateID(id string) error {
	parts := strings.Split(id, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" || strings.Contains(id, "..") {
		return fmt.Errorf("dataset: invalid id %q, want owner/slug", id)
	}
	return nil
}

func (d *Downloader) download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("dataset: create request: %w", err)
	}
	if d.config.Username != "" && d.config.Key != "" {
		req.SetBasicAuth(d.config.Username, d.config.Key)
	}

	resp, err := d.config.Client.Do(req)
	if err != nil {
		return fmt.Errorf("dataset: download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("dataset: download failed with status: %d", resp.StatusCode)
	}

	tmp := dest + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("dataset: create file: %w", err)
	}
	n, err := io.Copy(out, resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("dataset: write archive: %w", err)
	}
	d.logger.Debug("[dataset] Downloaded %d bytes", n)

	if err := os.Rename(tmp, dest); err != nil {
		return fmt.Errorf("dataset: finalize archive: %w", err)
	}
	return nil
}

// extract unpacks every regular file of the zip at src into dir and
// returns their relative names. Entries escaping dir are rejected.
func extract(src, dir string) ([]string, error) {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("dataset: open archive: %w", err)
	}
	defer zr.Close()

	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}

	var names []string
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		dest := filepath.Join(root, filepath.FromSlash(f.Name))
		if !strings.HasPrefix(dest, root+string(os.PathSeparator)) {
			return nil, fmt.Errorf("dataset: archive entry %q escapes cache dir", f.Name)
		}
		if err := extractFile(f, dest); err != nil {
			return nil, err
		}
		names = append(names, f.Name)
	}
	return names, nil
}

func extractFile(f *zip.File, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("dataset: create dir for %s: %w", f.Name, err)
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("dataset: open %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("dataset: create %s: %w", dest, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("dataset: extract %s: %w", f.Name, err)
	}
	return out.Close()
}
