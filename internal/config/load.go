package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load,
// e.g. LINGO_DATABASE_URL or LINGO_AUTH_JWT_SECRET.
const EnvPrefix = "LINGO"

// Load configuration from environment variables and an optional config.yaml
// in the working directory. Environment variables take precedence over
// values from config files. Returns a populated Config struct or an error if
// loading/validation fails.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom behaves like Load but reads the given config file instead of
// searching for config.yaml. An empty path falls back to the search.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate runs the struct validation rules on cfg.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// setDefaults registers every key so AutomaticEnv can override keys that are
// absent from the config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout_seconds", 10)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime_minutes", 5)
	v.SetDefault("database.auto_migrate", false)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.token_lifetime_minutes", 60)

	v.SetDefault("llm.provider", "none")
	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.openrouter_api_key", "")
	v.SetDefault("llm.openrouter_base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 2000)
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)
	v.SetDefault("llm.timeout_seconds", 60)

	v.SetDefault("study.timezone", "UTC")
	v.SetDefault("study.min_weight", 0.5)
	v.SetDefault("study.max_weight", 5.0)
	v.SetDefault("study.correct_multiplier", 0.8)
	v.SetDefault("study.incorrect_multiplier", 1.5)
	v.SetDefault("study.skipped_multiplier", 1.1)
	v.SetDefault("study.random_seed", 0)

	v.SetDefault("rate_limit.generate_per_hour", 10)
	v.SetDefault("rate_limit.accept_per_hour", 30)
	v.SetDefault("rate_limit.idle_ttl_minutes", 120)
	v.SetDefault("rate_limit.sweep_interval_minutes", 10)
}
