package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Ollama   OllamaConfig
	Whisper  WhisperConfig
	Pipeline PipelineConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string `envconfig:"PORT" default:"8080"`
	Host            string `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"*"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"postgres"`
	Password    string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name        string `envconfig:"DB_NAME" default:"meeting_steward"`
	SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns    int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns    int    `envconfig:"DB_MIN_CONNS" default:"5"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
	// MeetingTTL bounds how long a persisted meeting stays in the
	// read-through cache.
	MeetingTTL time.Duration `envconfig:"REDIS_MEETING_TTL" default:"30m"`
}

// StorageConfig holds object storage configuration for uploaded audio
type StorageConfig struct {
	Endpoint        string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"STORAGE_BUCKET" default:"meeting-steward"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
}

// OllamaConfig holds text-generation backend configuration
type OllamaConfig struct {
	Host        string        `envconfig:"OLLAMA_HOST" default:"http://localhost:11434"`
	Model       string        `envconfig:"MODEL_NAME" default:"llama3.2"`
	Temperature float64       `envconfig:"DEFAULT_TEMPERATURE" default:"0.1"`
	MaxAttempts int           `envconfig:"MAX_RETRIES" default:"3"`
	Timeout     time.Duration `envconfig:"OLLAMA_TIMEOUT" default:"120s"`
	BaseDelay   time.Duration `envconfig:"OLLAMA_RETRY_BASE_DELAY" default:"1s"`
}

// WhisperConfig holds speech-understanding backend configuration
type WhisperConfig struct {
	Host       string        `envconfig:"WHISPER_HOST" default:"http://localhost:9300"`
	Timeout    time.Duration `envconfig:"WHISPER_TIMEOUT" default:"300s"`
	SampleRate int           `envconfig:"AUDIO_SAMPLE_RATE" default:"16000"`
	WorkDir    string        `envconfig:"AUDIO_WORK_DIR" default:"data/uploads"`
}

// PipelineConfig holds orchestration defaults
type PipelineConfig struct {
	DefaultSpeaker string `envconfig:"DEFAULT_SPEAKER_LABEL" default:"SPEAKER_00"`
	ListLimit      int    `envconfig:"MEETING_LIST_LIMIT" default:"50"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Ollama.MaxAttempts < 1 {
		return fmt.Errorf("MAX_RETRIES must be at least 1")
	}
	if c.Ollama.Temperature < 0 || c.Ollama.Temperature > 2 {
		return fmt.Errorf("DEFAULT_TEMPERATURE must be between 0 and 2")
	}
	if c.Whisper.SampleRate <= 0 {
		return fmt.Errorf("AUDIO_SAMPLE_RATE must be positive")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
