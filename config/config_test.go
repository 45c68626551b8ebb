package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.ListenAddr != ":8000" {
		t.Errorf("ListenAddr = %q, want :8000", cfg.ListenAddr)
	}
	if cfg.GeminiModel != "gemini-2.0-flash" {
		t.Errorf("GeminiModel = %q", cfg.GeminiModel)
	}
	if cfg.MaxRefines != 2 {
		t.Errorf("MaxRefines = %d, want 2", cfg.MaxRefines)
	}
	if cfg.TrialsTimeout.Std() != 20*time.Second {
		t.Errorf("TrialsTimeout = %s, want 20s", cfg.TrialsTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults failed validation: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
listen_addr: ":9000"
gemini_model: custom-model
max_refines: 1
trials_timeout: 5s
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ListenAddr != ":9000" {
		t.Errorf("ListenAddr = %q, want :9000", cfg.ListenAddr)
	}
	if cfg.GeminiModel != "custom-model" {
		t.Errorf("GeminiModel = %q", cfg.GeminiModel)
	}
	if cfg.MaxRefines != 1 {
		t.Errorf("MaxRefines = %d, want 1", cfg.MaxRefines)
	}
	if cfg.TrialsTimeout.Std() != 5*time.Second {
		t.Errorf("TrialsTimeout = %s, want 5s", cfg.TrialsTimeout)
	}
	// Untouched fields keep defaults.
	if cfg.PubMedMaxResults != 20 {
		t.Errorf("PubMedMaxResults = %d, want default 20", cfg.PubMedMaxResults)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v, want nil for missing file", err)
	}
	if cfg.ListenAddr != ":8000" {
		t.Errorf("ListenAddr = %q, want defaults", cfg.ListenAddr)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("listen_addr: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() error = nil, want parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MEDFLOW_LISTEN_ADDR", ":7777")
	t.Setenv("MEDFLOW_GEMINI_API_KEY", "secret")
	t.Setenv("MEDFLOW_MAX_REFINES", "3")
	t.Setenv("MEDFLOW_TRIALS_TIMEOUT", "45s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ListenAddr != ":7777" {
		t.Errorf("ListenAddr = %q, want env override", cfg.ListenAddr)
	}
	if cfg.GeminiAPIKey != "secret" {
		t.Errorf("GeminiAPIKey = %q, want env override", cfg.GeminiAPIKey)
	}
	if cfg.MaxRefines != 3 {
		t.Errorf("MaxRefines = %d, want 3", cfg.MaxRefines)
	}
	if cfg.TrialsTimeout.Std() != 45*time.Second {
		t.Errorf("TrialsTimeout = %s, want 45s", cfg.TrialsTimeout)
	}
}

func TestEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(`listen_addr: ":9000"`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MEDFLOW_LISTEN_ADDR", ":7777")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ListenAddr != ":7777" {
		t.Errorf("ListenAddr = %q, env should beat file", cfg.ListenAddr)
	}
}

func TestEnvBadInt(t *testing.T) {
	t.Setenv("MEDFLOW_MAX_REFINES", "lots")

	if _, err := Load(""); err == nil {
		t.Error("Load() error = nil, want parse error for bad int")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		wantOK bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"zero refines allowed", func(c *Config) { c.MaxRefines = 0 }, true},
		{"negative refines", func(c *Config) { c.MaxRefines = -1 }, false},
		{"zero pubmed results", func(c *Config) { c.PubMedMaxResults = 0 }, false},
		{"zero trials timeout", func(c *Config) { c.TrialsTimeout = 0 }, false},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err == nil) != tt.wantOK {
				t.Errorf("Validate() error = %v, wantOK %v", err, tt.wantOK)
			}
		})
	}
}
