package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort       = 3001
	defaultEnv        = "development"
	defaultDBHost     = "127.0.0.1"
	defaultDBPort     = 3306
	defaultDBUser     = "root"
	defaultDBPassword = "password"
	defaultDBName     = "inkwell"
	defaultDBCharset  = "utf8mb4"
	defaultDBLoc      = "Local"
	defaultRedisURL   = "redis://localhost:6379/0"

	defaultMaxUnitTokens    = 4096
	defaultMaxOutlineTokens = 1024
	defaultUnitTimeoutSec   = 180
)

// Load reads the YAML config at path (if present), applies environment
// variable overrides, and fills defaults. A missing file is not an error;
// the whole config can come from the environment.
func Load(path string) (*AppConfig, error) {
	// Best-effort: a .env in the working directory feeds the env overrides.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	if path == "" {
		path = DefaultConfigPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// fall through to env + defaults
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if cfg.DSN == "" {
		cfg.DSN = buildMySQLDSN(cfg.Database)
	}
	return cfg, nil
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "development") || c.Env == ""
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := envInt("PORT"); v > 0 {
		cfg.Port = v
	}
	if v := envStr("DSN", "DATABASE_URL"); v != "" {
		cfg.DSN = v
	}
	if v := envStr("REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := envStr("ENV", "APP_ENV"); v != "" {
		cfg.Env = v
	}
	if v := envStr("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := envStr("PUBLIC_BASE_URL"); v != "" {
		cfg.PublicBaseURL = v
	}
	if v := envStr("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}

	if v := envStr("S3_ENDPOINT"); v != "" {
		cfg.S3.Endpoint = v
	}
	if v := envStr("S3_REGION"); v != "" {
		cfg.S3.Region = v
	}
	if v := envStr("S3_BUCKET"); v != "" {
		cfg.S3.Bucket = v
	}
	if v := envStr("S3_ACCESS_KEY_ID"); v != "" {
		cfg.S3.AccessKeyID = v
	}
	if v := envStr("S3_SECRET_ACCESS_KEY"); v != "" {
		cfg.S3.SecretAccessKey = v
	}
	if v := envStr("S3_CUSTOM_DOMAIN"); v != "" {
		cfg.S3.CustomDomain = v
	}

	// Single-key provider shortcuts. A key in the environment enables the
	// matching provider without any YAML at all.
	if v := envStr("OPENAI_API_KEY"); v != "" {
		ensureProvider(cfg, AIProvider{
			ID: "openai", Name: "OpenAI", Type: "OpenAI",
			APIKey: v, DefaultModel: "gpt-4o-mini", Enabled: true,
		})
	}
	if v := envStr("ANTHROPIC_API_KEY"); v != "" {
		ensureProvider(cfg, AIProvider{
			ID: "anthropic", Name: "Anthropic", Type: "Anthropic",
			APIKey: v, DefaultModel: "claude-haiku-4-5-20251001", Enabled: true,
		})
	}
	if v := envStr("GEMINI_API_KEY"); v != "" {
		ensureProvider(cfg, AIProvider{
			ID: "gemini", Name: "Gemini", Type: "OpenAI-Compatible",
			APIKey:       v,
			Endpoint:     "https://generativelanguage.googleapis.com/v1beta/openai",
			DefaultModel: "gemini-2.0-flash", Enabled: true,
		})
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = defaultRedisURL
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = defaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = defaultDBPort
	}
	if cfg.Database.User == "" {
		cfg.Database.User = defaultDBUser
	}
	if cfg.Database.Password == "" {
		cfg.Database.Password = defaultDBPassword
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = defaultDBName
	}
	if cfg.Database.Charset == "" {
		cfg.Database.Charset = defaultDBCharset
	}
	if cfg.Database.Loc == "" {
		cfg.Database.Loc = defaultDBLoc
	}
	if cfg.Generation.MaxUnitTokens <= 0 {
		cfg.Generation.MaxUnitTokens = defaultMaxUnitTokens
	}
	if cfg.Generation.MaxOutlineTokens <= 0 {
		cfg.Generation.MaxOutlineTokens = defaultMaxOutlineTokens
	}
	if cfg.Generation.UnitTimeoutSec <= 0 {
		cfg.Generation.UnitTimeoutSec = defaultUnitTimeoutSec
	}
}

// ensureProvider appends p unless a provider with the same ID is already
// configured (YAML wins over the env shortcut).
func ensureProvider(cfg *AppConfig, p AIProvider) {
	for _, existing := range cfg.AI.Providers {
		if strings.EqualFold(existing.ID, p.ID) {
			return
		}
	}
	cfg.AI.Providers = append(cfg.AI.Providers, p)
}

func envStr(names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	return ""
}

func envInt(name string) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(name)))
	if err != nil {
		return 0
	}
	return v
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
