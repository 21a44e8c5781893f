package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Queue    QueueConfig    `mapstructure:"queue" validate:"required"`
	Pipeline PipelineConfig `mapstructure:"pipeline" validate:"required"`
	Events   EventsConfig   `mapstructure:"events"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// LLM backends understood by the bootstrap wiring.
const (
	BackendProxy  = "proxy"
	BackendGemini = "gemini"
)

// LLMConfig selects and configures the generation backend.
//
// The proxy backend talks to an HTTP chat gateway at BaseURL. The gemini
// backend calls the Gemini API directly and resolves profile references to
// system instructions through Profiles.
type LLMConfig struct {
	Backend        string            `mapstructure:"backend" validate:"required,oneof=proxy gemini"`
	BaseURL        string            `mapstructure:"base_url" validate:"omitempty,url"`
	TimeoutSeconds int               `mapstructure:"timeout_seconds" validate:"gte=1"`
	GeminiAPIKey   string            `mapstructure:"gemini_api_key" validate:"required_if=Backend gemini"`
	ModelName      string            `mapstructure:"model_name" validate:"required_if=Backend gemini"`
	Profiles       map[string]string `mapstructure:"profiles"`
}

// QueueConfig controls the spacing of outbound generation calls.
type QueueConfig struct {
	DelayMS int `mapstructure:"delay_ms" validate:"gte=0"`
}

// TagRule maps a case-insensitive keyword found in a headline to a tag.
type TagRule struct {
	Keyword string `mapstructure:"keyword" validate:"required"`
	Tag     string `mapstructure:"tag" validate:"required"`
}

// PipelineConfig holds the ingestion and rewrite settings.
type PipelineConfig struct {
	DefaultProfileRef    string    `mapstructure:"default_profile_ref" validate:"required"`
	RewriteProfileRef    string    `mapstructure:"rewrite_profile_ref" validate:"required"`
	ProcessLimit         int       `mapstructure:"process_limit" validate:"gte=1,lte=100"`
	ManualRunLimit       int       `mapstructure:"manual_run_limit" validate:"gte=1,lte=100"`
	TagRules             []TagRule `mapstructure:"tag_rules" validate:"dive"`
	DefaultTag           string    `mapstructure:"default_tag" validate:"required"`
	PromptTemplatePath   string    `mapstructure:"prompt_template_path"`
	StuckAfterMinutes    int       `mapstructure:"stuck_after_minutes" validate:"gte=1"`
	SweepIntervalMinutes int       `mapstructure:"sweep_interval_minutes" validate:"gte=1"`
	SchedulerEnabled     bool      `mapstructure:"scheduler_enabled"`
}

// EventsConfig configures publication of pipeline events. Publishing is
// disabled when no brokers are configured.
type EventsConfig struct {
	KafkaBrokers []string `mapstructure:"kafka_brokers"`
	KafkaTopic   string   `mapstructure:"kafka_topic" validate:"required_with=KafkaBrokers"`
}
