package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "NEWSDESK"

// DefaultTagRules is the keyword table used when none is configured.
var DefaultTagRules = []TagRule{
	{Keyword: "solar", Tag: "solar"},
	{Keyword: "malaysia", Tag: "malaysia"},
	{Keyword: "energy", Tag: "energy"},
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys without defaults are invisible to Unmarshal unless bound.
	for _, key := range []string{"database.url", "llm.base_url", "llm.gemini_api_key", "events.kafka_brokers"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if len(cfg.Pipeline.TagRules) == 0 {
		cfg.Pipeline.TagRules = append([]TagRule(nil), DefaultTagRules...)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate runs struct-tag validation over cfg.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if cfg.LLM.Backend == BackendProxy && cfg.LLM.BaseURL == "" {
		return fmt.Errorf("config validation failed: llm.base_url is required for the %s backend", BackendProxy)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("llm.backend", BackendProxy)
	v.SetDefault("llm.timeout_seconds", 120)
	v.SetDefault("llm.model_name", "gemini-2.0-flash")

	v.SetDefault("queue.delay_ms", 3000)

	v.SetDefault("pipeline.default_profile_ref", "https://gemini.google.com/gem/c9d02eab1195")
	v.SetDefault("pipeline.rewrite_profile_ref", "https://gemini.google.com/gem/ba97012d9ebf")
	v.SetDefault("pipeline.process_limit", 5)
	v.SetDefault("pipeline.manual_run_limit", 10)
	v.SetDefault("pipeline.default_tag", "news")
	v.SetDefault("pipeline.prompt_template_path", "")
	v.SetDefault("pipeline.stuck_after_minutes", 30)
	v.SetDefault("pipeline.sweep_interval_minutes", 5)
	v.SetDefault("pipeline.scheduler_enabled", false)

	v.SetDefault("events.kafka_topic", "newsdesk.pipeline")
}
