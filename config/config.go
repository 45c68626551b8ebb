// Package config loads service configuration from defaults, an optional
// YAML file, and MEDFLOW_-prefixed environment variables, in that order
// of increasing precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to field names for environment lookups.
const EnvPrefix = "MEDFLOW_"

// Duration wraps time.Duration so YAML values like "20s" parse.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the standard library representation.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// Config holds the full service configuration.
type Config struct {
	// ListenAddr is the HTTP listen address for the API server.
	ListenAddr string `yaml:"listen_addr"`

	// Gemini completion backend.
	GeminiAPIKey  string `yaml:"gemini_api_key"`
	GeminiModel   string `yaml:"gemini_model"`
	GeminiBaseURL string `yaml:"gemini_base_url"`

	// PubMed retrieval.
	PubMedBaseURL    string `yaml:"pubmed_base_url"`
	PubMedAPIKey     string `yaml:"pubmed_api_key"`
	PubMedMaxResults int    `yaml:"pubmed_max_results"`

	// ClinicalTrials.gov lookup.
	TrialsBaseURL  string   `yaml:"trials_base_url"`
	TrialsTimeout  Duration `yaml:"trials_timeout"`
	TrialsCacheTTL Duration `yaml:"trials_cache_ttl"`
	TrialsLimit    int      `yaml:"trials_limit"`

	// Pipeline behavior.
	MaxRefines int `yaml:"max_refines"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		ListenAddr:       ":8000",
		GeminiModel:      "gemini-2.0-flash",
		PubMedMaxResults: 20,
		TrialsTimeout:    Duration(20 * time.Second),
		TrialsCacheTTL:   Duration(10 * time.Minute),
		TrialsLimit:      5,
		MaxRefines:       2,
		LogLevel:         "info",
	}
}

// Load builds the configuration: defaults, then the YAML file at path
// (skipped when path is empty or the file does not exist), then
// environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(&cfg, path); err != nil {
			return cfg, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks invariants that would otherwise surface as confusing
// runtime behavior.
func (c Config) Validate() error {
	if c.MaxRefines < 0 {
		return fmt.Errorf("max_refines must be >= 0, got %d", c.MaxRefines)
	}
	if c.PubMedMaxResults <= 0 {
		return fmt.Errorf("pubmed_max_results must be > 0, got %d", c.PubMedMaxResults)
	}
	if c.TrialsTimeout <= 0 {
		return fmt.Errorf("trials_timeout must be > 0, got %s", c.TrialsTimeout)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// loadFile merges a YAML file into cfg. A missing file is not an error;
// an unreadable or malformed one is.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// applyEnv overlays MEDFLOW_-prefixed environment variables.
func applyEnv(cfg *Config) error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		v, ok := os.LookupEnv(EnvPrefix + key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = n
		return nil
	}
	setDuration := func(key string, dst *Duration) error {
		v, ok := os.LookupEnv(EnvPrefix + key)
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = Duration(d)
		return nil
	}

	setString("LISTEN_ADDR", &cfg.ListenAddr)
	setString("GEMINI_API_KEY", &cfg.GeminiAPIKey)
	setString("GEMINI_MODEL", &cfg.GeminiModel)
	setString("GEMINI_BASE_URL", &cfg.GeminiBaseURL)
	setString("PUBMED_BASE_URL", &cfg.PubMedBaseURL)
	setString("PUBMED_API_KEY", &cfg.PubMedAPIKey)
	setString("TRIALS_BASE_URL", &cfg.TrialsBaseURL)
	setString("LOG_LEVEL", &cfg.LogLevel)

	if err := setInt("PUBMED_MAX_RESULTS", &cfg.PubMedMaxResults); err != nil {
		return err
	}
	if err := setInt("TRIALS_LIMIT", &cfg.TrialsLimit); err != nil {
		return err
	}
	if err := setInt("MAX_REFINES", &cfg.MaxRefines); err != nil {
		return err
	}
	if err := setDuration("TRIALS_TIMEOUT", &cfg.TrialsTimeout); err != nil {
		return err
	}
	if err := setDuration("TRIALS_CACHE_TTL", &cfg.TrialsCacheTTL); err != nil {
		return err
	}

	return nil
}
