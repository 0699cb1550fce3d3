package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	DefaultAPIURL      = "http://localhost:8000/api"
	DefaultExportDir   = "."
	DefaultHTTPTimeout = 30 * time.Second
	DefaultLogLevel    = "info"
	DefaultScanner     = "zbarcam"
	DefaultToastTTL    = 5 * time.Second
)

// Config holds the runtime settings shared by every binary
type Config struct {
	APIURL      string
	PublicURL   string
	DataDir     string
	ExportDir   string
	HTTPTimeout time.Duration
	LogLevel    string
	Scanner     string
	ToastTTL    time.Duration
}

// Load reads MYLIBRARY_* env vars, falling back to the defaults
func Load() (Config, error) {
	cfg := Config{
		APIURL:    strings.TrimRight(envOr("MYLIBRARY_API_URL", DefaultAPIURL), "/"),
		DataDir:   ExpandHome(envOr("MYLIBRARY_DATA_DIR", defaultDataDir())),
		ExportDir: ExpandHome(envOr("MYLIBRARY_EXPORT_DIR", DefaultExportDir)),
		LogLevel:  envOr("MYLIBRARY_LOG_LEVEL", DefaultLogLevel),
		Scanner:   envOr("MYLIBRARY_SCANNER", DefaultScanner),
	}

	var err error
	if cfg.HTTPTimeout, err = envDuration("MYLIBRARY_HTTP_TIMEOUT", DefaultHTTPTimeout); err != nil {
		return Config{}, err
	}
	if cfg.ToastTTL, err = envDuration("MYLIBRARY_TOAST_TTL", DefaultToastTTL); err != nil {
		return Config{}, err
	}
	if err := cfg.SetAPIURL(cfg.APIURL); err != nil {
		return Config{}, err
	}
	if public := os.Getenv("MYLIBRARY_PUBLIC_URL"); public != "" {
		cfg.PublicURL = strings.TrimRight(public, "/")
	}
	return cfg, nil
}

// SetAPIURL validates and applies an API base URL. The public URL follows
// the API origin unless it was set explicitly.
func (c *Config) SetAPIURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API URL %q: must be an absolute http(s) URL", raw)
	}
	origin := u.Scheme + "://" + u.Host
	if c.PublicURL == "" || c.PublicURL == originOf(c.APIURL) {
		c.PublicURL = origin
	}
	c.APIURL = strings.TrimRight(u.String(), "/")
	return nil
}

// LogPath is where the binaries write their log file
func (c Config) LogPath() string {
	return filepath.Join(c.DataDir, "mylibrary.log")
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "mylibrary")
	}
	return "~/.local/share/mylibrary"
}

func originOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: expected a positive duration like 30s", key, v)
	}
	return d, nil
}
