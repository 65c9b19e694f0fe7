package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	configFileName = "config.json"

	DefaultAPIURL = "http://localhost:3000"
)

// Duration reads "300ms", "10s" or a bare number of seconds, from JSON or the environment.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) SetValue(s string) error {
	v, err := parseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*d = Duration(time.Duration(n * float64(time.Second)))
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string or a number of seconds")
	}
	return d.SetValue(s)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func parseDuration(s string) (time.Duration, error) {
	s = strings.Trim(strings.TrimSpace(s), `"'`)
	if s == "" {
		return 0, errors.New("empty duration")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("duration must be like 300ms, 10s or a number of seconds: %w", err)
	}
	return d, nil
}

type Config struct {
	APIURL         string   `json:"apiUrl,omitempty" env:"FOLIO_API_URL"`
	PageSize       int      `json:"pageSize,omitempty" env:"FOLIO_PAGE_SIZE"`
	SearchDebounce Duration `json:"searchDebounce,omitempty" env:"FOLIO_SEARCH_DEBOUNCE"`
	// Timeout bounds each HTTP request. Zero means no client timeout.
	Timeout Duration `json:"timeout,omitempty" env:"FOLIO_TIMEOUT"`

	// Email is the last address used to sign in; the login form is prefilled with it.
	Email string `json:"email,omitempty"`

	TUI TUIConfig `json:"tui"`
}

type TUIConfig struct {
	// Profile is the appearance profile id (e.g. "default", "mono").
	Profile string `json:"profile,omitempty" env:"FOLIO_TUI_PROFILE"`
}

func (c Config) API() string {
	if v := strings.TrimSpace(c.APIURL); v != "" {
		return v
	}
	return DefaultAPIURL
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.folio).
	if v := strings.TrimSpace(os.Getenv("FOLIO_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".folio"), nil
}

// LoadConfig reads config.json (if present) and overlays FOLIO_* environment variables.
func (s Store) LoadConfig() (*Config, error) {
	path := s.path(configFileName)
	var cfg Config
	var err error
	if _, statErr := os.Stat(path); statErr == nil {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if cfg.PageSize < 0 {
		return nil, fmt.Errorf("read config: pageSize must not be negative")
	}
	return &cfg, nil
}

// LoadFileConfig reads config.json only, without the environment overlay. Use it for
// read-modify-write so env values never end up persisted.
func (s Store) LoadFileConfig() (*Config, error) {
	path := s.path(configFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func (s Store) SaveConfig(cfg *Config) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(s.Dir, "config.json.*.tmp", s.path(configFileName), b, 0o600)
}
