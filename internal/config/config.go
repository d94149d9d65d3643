// Package config loads the two user-facing tunables plus the fetch timeout
// from an optional YAML file, with environment overrides for scripted use.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// MaxResultsChoices are the listing caps the site supports. 50 is allowed
// but can run into the fetch timeout on slow connections.
var MaxResultsChoices = []int{20, 25, 50}

const (
	DefaultMaxResults = 20
	DefaultTimeout    = 30 * time.Second
)

// Environment override keys; each one beats the file value when set.
const (
	EnvMaxResults  = "KITAPYURDU_MAX_RESULTS"
	EnvAppendExtra = "KITAPYURDU_APPEND_EXTRA"
	EnvTimeout     = "KITAPYURDU_TIMEOUT_SECONDS"
)

type Config struct {
	// MaxResults caps the search listing, one of MaxResultsChoices.
	MaxResults int `yaml:"max_results"`
	// AppendExtra appends editor/translator/original-title/page-count to
	// the description as HTML.
	AppendExtra bool `yaml:"append_extra"`
	// TimeoutSeconds bounds each network fetch.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

func Default() Config {
	return Config{
		MaxResults:     DefaultMaxResults,
		TimeoutSeconds: int(DefaultTimeout / time.Second),
	}
}

// Load reads path (optional, "" or a missing file yields defaults), applies
// environment overrides, and validates.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// optional file
		case err != nil:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvMaxResults); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxResults, err)
		}
		cfg.MaxResults = n
	}
	if v := os.Getenv(EnvAppendExtra); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvAppendExtra, err)
		}
		cfg.AppendExtra = b
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		cfg.TimeoutSeconds = n
	}
	return nil
}

func (c Config) Validate() error {
	valid := false
	for _, n := range MaxResultsChoices {
		if c.MaxResults == n {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("max_results must be one of %v, got %d", MaxResultsChoices, c.MaxResults)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive, got %d", c.TimeoutSeconds)
	}
	return nil
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
