package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 3001 {
		t.Fatalf("port = %d", cfg.Port)
	}
	if !cfg.IsDev() {
		t.Fatal("expected development default")
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Fatalf("redis url = %q", cfg.RedisURL)
	}
	if cfg.DSN == "" {
		t.Fatal("expected DSN built from database defaults")
	}
	if cfg.Generation.MaxUnitTokens != 4096 || cfg.Generation.UnitTimeoutSec != 180 {
		t.Fatalf("generation defaults = %+v", cfg.Generation)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	yaml := `
port: 8080
env: production
public_base_url: https://inkwell.example.com
s3:
  bucket: inkwell-files
  endpoint: https://minio.internal:9000
ai:
  target_language: German
  providers:
    - id: main
      type: OpenAI
      api_key: sk-abc
      default_model: gpt-4o
      enabled: true
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 8080 || cfg.IsDev() {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.S3.Bucket != "inkwell-files" {
		t.Fatalf("s3 = %+v", cfg.S3)
	}
	if cfg.AI.TargetLanguage != "German" || len(cfg.AI.Providers) != 1 {
		t.Fatalf("ai = %+v", cfg.AI)
	}
	if p := cfg.AI.Providers[0]; p.ID != "main" || !p.Enabled {
		t.Fatalf("provider = %+v", p)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("ALLOWED_ORIGINS", "app.example.com, *.example.org")
	t.Setenv("S3_BUCKET", "env-bucket")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 9000 || cfg.IsDev() {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.RedisURL != "redis://cache:6379/1" {
		t.Fatalf("redis url = %q", cfg.RedisURL)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "*.example.org" {
		t.Fatalf("origins = %#v", cfg.AllowedOrigins)
	}
	if cfg.S3.Bucket != "env-bucket" {
		t.Fatalf("s3 bucket = %q", cfg.S3.Bucket)
	}
}

func TestProviderShortcutFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatal(err)
	}
	var found *AIProvider
	for i := range cfg.AI.Providers {
		if cfg.AI.Providers[i].ID == "openai" {
			found = &cfg.AI.Providers[i]
		}
	}
	if found == nil || !found.Enabled || found.APIKey != "sk-env" {
		t.Fatalf("providers = %+v", cfg.AI.Providers)
	}
}

func TestYAMLProviderWinsOverEnvShortcut(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	path := filepath.Join(t.TempDir(), "config.yml")
	yaml := `
ai:
  providers:
    - id: openai
      type: OpenAI
      api_key: sk-yaml
      enabled: true
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.AI.Providers) != 1 || cfg.AI.Providers[0].APIKey != "sk-yaml" {
		t.Fatalf("providers = %+v", cfg.AI.Providers)
	}
}
