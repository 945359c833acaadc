package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	Queue  QueueConfig  `mapstructure:"queue"  validate:"required"`
	LLM    LLMConfig    `mapstructure:"llm"    validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// ShutdownTimeoutSeconds bounds how long a graceful shutdown waits for
	// in-flight requests before forcing the listener closed.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"required,gt=0"`
}

// QueueConfig contains settings for the upload queue.
type QueueConfig struct {
	// MaxUploadBytes caps the size of a single uploaded image.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes" validate:"required,gt=0"`

	// ThumbnailMaxEdge is the longest edge, in pixels, of generated
	// thumbnail previews.
	ThumbnailMaxEdge int `mapstructure:"thumbnail_max_edge" validate:"required,gt=0"`
}

// LLMConfig contains all settings for the upstream image model.
type LLMConfig struct {
	// GeminiAPIKey may be empty at boot; a key supplied later through the
	// credential endpoint takes its place.
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	ModelName    string `mapstructure:"model_name" validate:"required"`
}
