package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"garmin-dashboard/internal/analysis"
)

// EnvPrefix prefixes environment overrides, e.g. GARMIN_DASHBOARD_API_BASE_URL
const EnvPrefix = "GARMIN_DASHBOARD"

const dirName = ".garmin-dashboard"

// Config represents the application configuration
type Config struct {
	API     APIConfig     `json:"api" mapstructure:"api"`
	Storage StorageConfig `json:"storage" mapstructure:"storage"`
	Display DisplayConfig `json:"display" mapstructure:"display"`
	Log     LogConfig     `json:"log" mapstructure:"log"`
}

// APIConfig points the dashboard at the activity backend
type APIConfig struct {
	BaseURL            string `json:"base_url" mapstructure:"base_url"`
	TimeoutSeconds     int    `json:"timeout_seconds" mapstructure:"timeout_seconds"`
	GPSCacheMB         int    `json:"gps_cache_mb" mapstructure:"gps_cache_mb"`
	GPSCacheTTLSeconds int    `json:"gps_cache_ttl_seconds" mapstructure:"gps_cache_ttl_seconds"`
	RateLimit          int    `json:"rate_limit" mapstructure:"rate_limit"`
	MinIntervalMillis  int    `json:"min_interval_ms" mapstructure:"min_interval_ms"`
}

// Timeout returns the request timeout as a duration
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GPSCacheTTL returns how long fetched tracks stay cached
func (c APIConfig) GPSCacheTTL() time.Duration {
	return time.Duration(c.GPSCacheTTLSeconds) * time.Second
}

// MinInterval returns the minimum spacing between requests
func (c APIConfig) MinInterval() time.Duration {
	return time.Duration(c.MinIntervalMillis) * time.Millisecond
}

// StorageConfig holds the local database location. Empty means the default.
type StorageConfig struct {
	DBPath string `json:"db_path" mapstructure:"db_path"`
}

// DisplayConfig holds display preferences
type DisplayConfig struct {
	ActivitiesPerPage int    `json:"activities_per_page" mapstructure:"activities_per_page"`
	DefaultSort       string `json:"default_sort" mapstructure:"default_sort"`
	DefaultPeriod     string `json:"default_period" mapstructure:"default_period"`
}

// LogConfig controls where logs go. The terminal belongs to the TUI, so
// logs default to a rotated file.
type LogConfig struct {
	Level string `json:"level" mapstructure:"level"`
	File  string `json:"file" mapstructure:"file"`
	JSON  bool   `json:"json" mapstructure:"json"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

var logLevels = []string{"trace", "debug", "info", "warn", "error", "fatal"}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:            "http://localhost:5000",
			TimeoutSeconds:     30,
			GPSCacheMB:         8,
			GPSCacheTTLSeconds: 600,
		},
		Display: DisplayConfig{
			ActivitiesPerPage: analysis.ActivitiesPerPage,
			DefaultSort:       analysis.SortByDate.String(),
			DefaultPeriod:     analysis.PeriodWeek.String(),
		},
		Log: LogConfig{
			Level: "info",
			File:  "logs/dashboard.log",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout_seconds", d.API.TimeoutSeconds)
	v.SetDefault("api.gps_cache_mb", d.API.GPSCacheMB)
	v.SetDefault("api.gps_cache_ttl_seconds", d.API.GPSCacheTTLSeconds)
	v.SetDefault("api.rate_limit", d.API.RateLimit)
	v.SetDefault("api.min_interval_ms", d.API.MinIntervalMillis)

	v.SetDefault("storage.db_path", d.Storage.DBPath)

	v.SetDefault("display.activities_per_page", d.Display.ActivitiesPerPage)
	v.SetDefault("display.default_sort", d.Display.DefaultSort)
	v.SetDefault("display.default_period", d.Display.DefaultPeriod)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.json", d.Log.JSON)
}

// Load reads the configuration from path, or ~/.garmin-dashboard/config.json
// when path is empty. Missing keys take their defaults and every key can be
// overridden from the environment.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		if path, err = getConfigPath(); err != nil {
			return nil, err
		}
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoConfig
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("json")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.Log.File = resolvePath(path, cfg.Log.File)
	cfg.Storage.DBPath = resolvePath(path, cfg.Storage.DBPath)

	return &cfg, nil
}

// resolvePath makes a relative path relative to the config file's directory
func resolvePath(configPath, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(configPath), p)
}

// Save writes the configuration to path, or the default location when empty
func Save(path string, cfg *Config) error {
	if path == "" {
		var err error
		if path, err = getConfigPath(); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample writes the default config to path unless a file is already there
func CreateExample(path string) error {
	if path == "" {
		var err error
		if path, err = getConfigPath(); err != nil {
			return err
		}
	}

	if _, err := os.Stat(path); err == nil {
		return nil // don't overwrite
	}

	example := DefaultConfig()
	return Save(path, &example)
}

// Validate checks the config for values the dashboard can't work with
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url must be an http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("api.timeout_seconds must be positive, got %d", c.API.TimeoutSeconds)
	}
	if c.API.GPSCacheMB < 0 || c.API.GPSCacheTTLSeconds < 0 {
		return errors.New("api.gps_cache_mb and api.gps_cache_ttl_seconds can't be negative")
	}
	if c.API.RateLimit < 0 || c.API.MinIntervalMillis < 0 {
		return errors.New("api.rate_limit and api.min_interval_ms can't be negative")
	}

	if c.Display.ActivitiesPerPage <= 0 {
		return fmt.Errorf("display.activities_per_page must be positive, got %d", c.Display.ActivitiesPerPage)
	}
	if _, err := analysis.ParseSortOption(c.Display.DefaultSort); err != nil {
		return fmt.Errorf("display.default_sort: %w", err)
	}
	if _, err := analysis.ParsePeriod(c.Display.DefaultPeriod); err != nil {
		return fmt.Errorf("display.default_period: %w", err)
	}

	if !validLevel(c.Log.Level) {
		return fmt.Errorf("log.level must be one of %s, got %q", strings.Join(logLevels, ", "), c.Log.Level)
	}

	return nil
}

func validLevel(level string) bool {
	level = strings.ToLower(level)
	for _, l := range logLevels {
		if l == level {
			return true
		}
	}
	return false
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, dirName), nil
}
