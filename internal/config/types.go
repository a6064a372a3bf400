package config

// AppConfig holds runtime startup configuration loaded from YAML, with
// environment variable overrides applied on top.
type AppConfig struct {
	Port           int                   `yaml:"port"`
	DSN            string                `yaml:"dsn"` // MySQL DSN
	Database       DatabaseRuntimeConfig `yaml:"database"`
	RedisURL       string                `yaml:"redis_url"`
	Env            string                `yaml:"env"` // "development" | "production"
	JWTSecret      string                `yaml:"jwt_secret"`
	AllowedOrigins []string              `yaml:"allowed_origins"`
	PublicBaseURL  string                `yaml:"public_base_url"` // base for share links
	Timezone       string                `yaml:"timezone"`
	S3             S3Options             `yaml:"s3"`
	AI             AIConfig              `yaml:"ai"`
	Generation     GenerationOptions     `yaml:"generation"`
}

type DatabaseRuntimeConfig struct {
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Charset  string `yaml:"charset"`
	Loc      string `yaml:"loc"`
}

// S3Options configures the object store holding rendered files.
type S3Options struct {
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	CustomDomain    string `yaml:"custom_domain"` // public URL base, optional
	PathStyleAccess bool   `yaml:"path_style_access"`
}

// AIConfig lists the configured text-generation providers.
type AIConfig struct {
	Providers      []AIProvider       `yaml:"providers"`
	GenerateModel  *AIModelAssignment `yaml:"generate_model,omitempty"`
	TargetLanguage string             `yaml:"target_language"`
}

type AIModelAssignment struct {
	ProviderID string `yaml:"provider_id"`
	Model      string `yaml:"model"`
}

type AIProvider struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Type         string `yaml:"type"` // OpenAI | OpenAI-Compatible | Anthropic
	APIKey       string `yaml:"api_key"`
	Endpoint     string `yaml:"endpoint,omitempty"`
	DefaultModel string `yaml:"default_model"`
	Enabled      bool   `yaml:"enabled"`
}

// GenerationOptions tunes the generation pipeline.
type GenerationOptions struct {
	MaxUnitTokens    int `yaml:"max_unit_tokens"`    // LLM output budget per chapter/section
	MaxOutlineTokens int `yaml:"max_outline_tokens"` // LLM output budget for the outline call
	UnitTimeoutSec   int `yaml:"unit_timeout_sec"`   // per-LLM-call timeout
}
