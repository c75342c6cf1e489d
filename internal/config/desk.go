package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DeskConfig holds settings for the deskctl terminal client.
type DeskConfig struct {
	APIURL         string        `toml:"api_url"`
	RequestTimeout time.Duration `toml:"-"`
	Timeout        string        `toml:"request_timeout"`
	TokenFile      string        `toml:"token_file"`
	Env            string        `toml:"env"`
}

// DefaultDeskPath returns the profile location under the user config dir.
func DefaultDeskPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "nivesh", "deskctl.toml")
}

// LoadDesk reads the TOML profiles in order (later files override earlier,
// missing files are skipped) and then applies NIVESH_* environment overrides.
func LoadDesk(paths ...string) (*DeskConfig, error) {
	cfg := &DeskConfig{
		APIURL:  "http://localhost:8000/api",
		Timeout: "30s",
		Env:     "desk",
	}
	if dir, err := os.UserConfigDir(); err == nil {
		cfg.TokenFile = filepath.Join(dir, "nivesh", "token")
	}

	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if v := os.Getenv("NIVESH_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("NIVESH_REQUEST_TIMEOUT"); v != "" {
		cfg.Timeout = v
	}
	if v := os.Getenv("NIVESH_TOKEN_FILE"); v != "" {
		cfg.TokenFile = v
	}
	if v := os.Getenv("NIVESH_ENV"); v != "" {
		cfg.Env = v
	}

	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("api_url is required")
	}

	timeout, err := parseTimeout(cfg.Timeout)
	if err != nil {
		return nil, err
	}
	cfg.RequestTimeout = timeout

	return cfg, nil
}

func parseTimeout(s string) (time.Duration, error) {
	if s == "" {
		return 30 * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid request_timeout %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("request_timeout must be positive, got %v", d)
	}
	return d, nil
}
