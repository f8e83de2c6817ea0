package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth" validate:"required"`
	LLM       LLMConfig       `mapstructure:"llm" validate:"required"`
	Study     StudyConfig     `mapstructure:"study" validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
// Driver selects the storage backend: postgres for deployments, sqlite for
// single-user and local setups (URL is then a file path or file: DSN).
type DatabaseConfig struct {
	Driver                 string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	URL                    string `mapstructure:"url" validate:"required"`
	MaxOpenConns           int    `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gte=0"`
	AutoMigrate            bool   `mapstructure:"auto_migrate"`
}

// AuthConfig contains the settings for validating tokens issued by the
// external identity provider.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
	// Issuer, when set, must match the iss claim of every token.
	Issuer string `mapstructure:"issuer"`
	// TokenLifetimeMinutes is used only when minting development tokens.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	Provider          string  `mapstructure:"provider" validate:"oneof=none gemini openrouter"`
	GeminiAPIKey      string  `mapstructure:"gemini_api_key" validate:"required_if=Provider gemini"`
	OpenRouterAPIKey  string  `mapstructure:"openrouter_api_key" validate:"required_if=Provider openrouter"`
	OpenRouterBaseURL string  `mapstructure:"openrouter_base_url" validate:"omitempty,url"`
	Model             string  `mapstructure:"model"`
	Temperature       float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxTokens         int     `mapstructure:"max_tokens" validate:"gt=0"`
	MaxRetries        int     `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds int     `mapstructure:"retry_delay_seconds" validate:"gte=1"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"gt=0"`
}

// StudyConfig tunes the study weight model and session selection.
type StudyConfig struct {
	// Timezone is the calendar used to group reviews into days for streaks.
	Timezone            string  `mapstructure:"timezone" validate:"required,timezone"`
	MinWeight           float64 `mapstructure:"min_weight" validate:"gte=0.5,lt=5"`
	MaxWeight           float64 `mapstructure:"max_weight" validate:"lte=5,gtfield=MinWeight"`
	CorrectMultiplier   float64 `mapstructure:"correct_multiplier" validate:"gt=0,lt=1"`
	IncorrectMultiplier float64 `mapstructure:"incorrect_multiplier" validate:"gt=1"`
	SkippedMultiplier   float64 `mapstructure:"skipped_multiplier" validate:"gte=1"`
	// RandomSeed makes session sampling reproducible when non-zero.
	RandomSeed uint64 `mapstructure:"random_seed"`
}

// RateLimitConfig sets per-user request budgets for the AI endpoints.
type RateLimitConfig struct {
	GeneratePerHour      int `mapstructure:"generate_per_hour" validate:"gt=0"`
	AcceptPerHour        int `mapstructure:"accept_per_hour" validate:"gt=0"`
	IdleTTLMinutes       int `mapstructure:"idle_ttl_minutes" validate:"gt=0"`
	SweepIntervalMinutes int `mapstructure:"sweep_interval_minutes" validate:"gt=0"`
}
