package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "martkit.yaml")

	content := `version: 1
endpoint:
  host: http://www.ensembl.org
  port: 80
cache:
  disabled: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Version != 1 {
		t.Errorf("expected version 1, got %d", cfg.Version)
	}
	if cfg.Endpoint.Host != "http://www.ensembl.org" {
		t.Errorf("expected ensembl host, got %s", cfg.Endpoint.Host)
	}
	if !cfg.Cache.Disabled {
		t.Error("expected cache disabled")
	}
	if cfg.Endpoint.VirtualSchema != "default" {
		t.Errorf("expected default virtual schema, got %s", cfg.Endpoint.VirtualSchema)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Logging.Level)
	}
	if cfg.Cache.Directory == "" {
		t.Error("expected default cache directory")
	}
}

func TestLoadInvalidVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "martkit.yaml")

	content := `version: 99
endpoint:
  host: http://www.ensembl.org
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid version")
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if cfg.Endpoint.Host != "http://www.ensembl.org" {
		t.Errorf("expected ensembl host, got %s", cfg.Endpoint.Host)
	}
	if cfg.Cache.Disabled {
		t.Error("expected caching enabled by default")
	}

	s := cfg.Settings()
	if s.Host != cfg.Endpoint.Host {
		t.Errorf("settings host = %s, want %s", s.Host, cfg.Endpoint.Host)
	}
	if s.DisableCache {
		t.Error("settings should keep caching enabled")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "martkit.yaml")

	cfg := Default()
	cfg.Endpoint.Host = "http://grch37.ensembl.org"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Endpoint.Host != "http://grch37.ensembl.org" {
		t.Errorf("host = %s after round trip", loaded.Endpoint.Host)
	}
}

func TestResolveEnvValue(t *testing.T) {
	t.Setenv("TEST_MART_HOST", "http://martdb.example.org")
	val, err := ResolveValue("${ENV:TEST_MART_HOST}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != "http://martdb.example.org" {
		t.Errorf("expected resolved host, got %s", val)
	}
}

func TestResolveEnvUnset(t *testing.T) {
	if _, err := ResolveValue("${ENV:MARTKIT_DEFINITELY_UNSET}"); err == nil {
		t.Fatal("expected error for unset variable")
	}
}

func TestResolvePlainValue(t *testing.T) {
	val, err := ResolveValue("plaintext")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != "plaintext" {
		t.Errorf("expected plaintext, got %s", val)
	}
}
