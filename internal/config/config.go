package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	AliasSourceAuto     = "auto"
	AliasSourceEmbedded = "embedded"
	AliasSourceFile     = "file"
	AliasSourceDB       = "db"
)

type Config struct {
	AliasSource string
	AliasFile   string
	AliasDBPath string

	TableSelector       string
	TableParagraphIndex int
	ParseWorkers        int

	ScorePrecision  int
	WatchDir        string
	WatchDebounceMs int

	FetchTimeoutMs    int
	FetchRateLimitRPS float64

	LogJSON bool
	Verbose bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AliasSource: strings.ToLower(strings.TrimSpace(getEnv("ALIAS_SOURCE", AliasSourceAuto))),
		AliasFile:   getEnv("ALIAS_FILE", ""),
		AliasDBPath: getEnv("ALIAS_DB_PATH", filepath.Join(cwd, "data", "aliases.db")),

		TableSelector:       getEnv("TABLE_SELECTOR", ""),
		TableParagraphIndex: getEnvInt("TABLE_PARAGRAPH_INDEX", 2),
		ParseWorkers:        getEnvInt("PARSE_WORKERS", runtime.NumCPU()),

		ScorePrecision:  getEnvInt("SCORE_PRECISION", 2),
		WatchDir:        getEnv("WATCH_DIR", cwd),
		WatchDebounceMs: getEnvInt("WATCH_DEBOUNCE_MS", 300),

		FetchTimeoutMs:    getEnvInt("FETCH_TIMEOUT_MS", 30000),
		FetchRateLimitRPS: getEnvFloat("FETCH_RATE_LIMIT_RPS", 2),

		LogJSON: getEnvBool("LOG_JSON", false),
		Verbose: getEnvBool("VERBOSE", false),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.AliasSource {
	case AliasSourceAuto, AliasSourceEmbedded, AliasSourceFile, AliasSourceDB:
	default:
		return fmt.Errorf("ALIAS_SOURCE must be auto|embedded|file|db, got %q", c.AliasSource)
	}
	if c.AliasSource == AliasSourceFile {
		if err := c.Require("ALIAS_FILE", c.AliasFile); err != nil {
			return err
		}
	}
	if c.TableParagraphIndex < 0 {
		return fmt.Errorf("TABLE_PARAGRAPH_INDEX must be >= 0, got %d", c.TableParagraphIndex)
	}
	if c.ScorePrecision < 0 || c.ScorePrecision > 6 {
		return fmt.Errorf("SCORE_PRECISION must be within 0..6, got %d", c.ScorePrecision)
	}
	if c.WatchDebounceMs <= 0 {
		return fmt.Errorf("WATCH_DEBOUNCE_MS must be > 0, got %d", c.WatchDebounceMs)
	}
	if c.FetchTimeoutMs <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT_MS must be > 0, got %d", c.FetchTimeoutMs)
	}
	if c.FetchRateLimitRPS <= 0 {
		return fmt.Errorf("FETCH_RATE_LIMIT_RPS must be > 0, got %v", c.FetchRateLimitRPS)
	}
	return nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
