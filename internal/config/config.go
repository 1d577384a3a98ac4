package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FetchMode selects how the planning page is retrieved.
const (
	FetchModeHTTP    = "http"
	FetchModeBrowser = "browser"
)

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API.
	Listen string `yaml:"listen" json:"listen"`

	// PlanningURL is the planning-site page to fetch and extract.
	PlanningURL string `yaml:"planning_url" json:"planning_url"`

	// SessionCookie is the raw Cookie header value forwarded to the
	// planning site (the site has no API; we ride an operator's session).
	SessionCookie string `yaml:"session_cookie" json:"session_cookie"`

	// UserAgent is sent on every planning-site request. The site serves a
	// degraded table to unknown agents, so a browser string is the default.
	UserAgent string `yaml:"user_agent" json:"user_agent"`

	// FetchMode is "http" (plain GET) or "browser" (headless Chromium,
	// for deployments where the table is only materialized by script).
	FetchMode string `yaml:"fetch_mode" json:"fetch_mode"`

	// RefreshCron is a cron-style schedule string (e.g. "*/15 * * * *")
	// for the periodic refetch that warms the cache and logs the period
	// consistency report.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// CacheDir is the base directory for the fetch cache.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	// Timezone is the IANA timezone used for ICS export timestamps.
	Timezone string `yaml:"timezone" json:"timezone"`

	// LogLevel is "debug", "info", "warn" or "error".
	LogLevel string `yaml:"log_level" json:"log_level"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all
	// endpoints except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:      "127.0.0.1:8080",
		PlanningURL: "",
		UserAgent:   "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0",
		FetchMode:   FetchModeHTTP,
		RefreshCron: "*/30 * * * *",
		CacheDir:    "/var/lib/planboard/cache",
		Timezone:    "Europe/Paris",
		LogLevel:    "info",
		BasicAuth:   nil,
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs (e.g., older versions) still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultConfig().UserAgent
	}
	switch c.FetchMode {
	case FetchModeHTTP, FetchModeBrowser:
		// ok
	default:
		c.FetchMode = FetchModeHTTP
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "*/30 * * * *"
	}
	if c.CacheDir == "" {
		c.CacheDir = "/var/lib/planboard/cache"
	}
	if c.Timezone == "" {
		c.Timezone = "Europe/Paris"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// The config can hold a live session cookie, so the file is written with
// 0600 permissions, atomically via a temp file + rename.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// Atomic write: write to temp file in same directory then rename.
	tmp, err := os.CreateTemp(dir, ".planboard-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}

	// Flush and close before chmod/rename.
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	return nil
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
