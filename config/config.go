package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DatasetID       string
	DatasetFile     string
	DatasetCacheDir string
	KaggleUsername  string
	KaggleKey       string

	Source       string
	InputPath    string
	CSVDelimiter rune

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	PostgresTable    string

	VotesPolicy string
	TopN        int
	LogLevel    string

	ReportPath string
	XLSXPath   string
	ChartDir   string
	ReportPDF  bool
	PDFPath    string
	ChromeBin  string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		DatasetID:       getEnv("DATASET_ID", "harshitshankhdhar/imdb-dataset-of-top-1000-movies-and-tv-shows"),
		DatasetFile:     getEnv("DATASET_FILE", "imdb_top_1000.csv"),
		DatasetCacheDir: getEnv("DATASET_CACHE_DIR", "~/.cache/kagglehub/datasets"),
		KaggleUsername:  getEnv("KAGGLE_USERNAME", ""),
		KaggleKey:       getEnv("KAGGLE_KEY", ""),

		Source:       strings.ToLower(getEnv("SOURCE", "csv")),
		InputPath:    getEnv("INPUT_PATH", ""),
		CSVDelimiter: getEnvRune("CSV_DELIMITER", ';'),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "eda"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "eda"),
		PostgresDB:       getEnv("POSTGRES_DB", "imdb"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTable:    getEnv("POSTGRES_TABLE", "imdb_top_1000"),

		VotesPolicy: getEnv("VOTES_ON_PARSE_FAILURE", "missing"),
		TopN:        getEnvInt("TOP_N", 10),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		ReportPath: getEnv("REPORT_PATH", "./output/report.yaml"),
		XLSXPath:   getEnv("XLSX_PATH", "./output/report.xlsx"),
		ChartDir:   getEnv("CHART_DIR", "./output/charts"),
		ReportPDF:  getEnvBool("REPORT_PDF", false),
		PDFPath:    getEnv("PDF_PATH", "./output/report.pdf"),
		ChromeBin:  getEnv("CHROME_BIN", ""),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

// getEnvRune reads a single-character value; "\t" and "tab" mean a tab.
func getEnvRune(key string, fallback rune) rune {
	val := os.Getenv(key)
	switch val {
	case "":
		return fallback
	case `\t`, "tab":
		return '\t'
	}
	r := []rune(val)
	if len(r) != 1 {
		return fallback
	}
	return r[0]
}
