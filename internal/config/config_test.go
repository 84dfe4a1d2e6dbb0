package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	v := New()
	v.Set(KeyDataDir, dir)

	cfg, err := Load(v, "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server != "http://localhost:8080/api" {
		t.Errorf("unexpected server %q", cfg.Server)
	}
	if cfg.Retries != 1 || cfg.PollInterval != 30*time.Second || cfg.Debounce != 300*time.Millisecond {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Output != "table" || cfg.StrictEnvelope {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	content := "server: https://hms.example.org/api\npoll_interval: 10s\noutput: json\n"
	if err := os.WriteFile(file, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HMS_OUTPUT", "yaml")
	t.Setenv("HMS_STRICT_ENVELOPE", "true")

	v := New()
	v.Set(KeyDataDir, dir)
	cfg, err := Load(v, "")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server != "https://hms.example.org/api" {
		t.Errorf("expected server from file, got %q", cfg.Server)
	}
	if cfg.PollInterval != 10*time.Second {
		t.Errorf("expected poll interval from file, got %v", cfg.PollInterval)
	}
	if cfg.Output != "yaml" {
		t.Errorf("expected env to override file, got %q", cfg.Output)
	}
	if !cfg.StrictEnvelope {
		t.Error("expected strict envelope from env")
	}

	cc := cfg.ClientConfig()
	if cc.BaseURL != cfg.Server || !cc.StrictEnvelope || cc.MaxRetries != 1 {
		t.Errorf("unexpected client config: %+v", cc)
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	if _, err := Load(New(), filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Console)
		wantErr bool
	}{
		{"defaults", func(*Console) {}, false},
		{"bad output", func(c *Console) { c.Output = "xml" }, true},
		{"negative retries", func(c *Console) { c.Retries = -1 }, true},
		{"empty server", func(c *Console) { c.Server = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConsoleConfig()
			tt.mutate(&c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
