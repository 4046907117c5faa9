package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig
	Gemini GeminiConfig
	Upload UploadConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Addr returns the host:port the server listens on
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float32       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"` // 0 disables the per-request limit
	KeepUploads bool          `mapstructure:"keep_uploads"`
}

// UploadConfig holds settings for incoming label images
type UploadConfig struct {
	TempDir  string `mapstructure:"temp_dir"` // empty means the OS temp dir
	MaxBytes int64  `mapstructure:"max_bytes"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/labellens/")

	// Environment variable settings: gemini.api_key -> LABELLENS_GEMINI_API_KEY
	v.SetEnvPrefix("LABELLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env into the process environment if present.
// Variables that are already set are not overridden.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values.
// Every key needs a default so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-1.5-flash-latest")
	v.SetDefault("gemini.temperature", 0)
	v.SetDefault("gemini.timeout", "0s")
	v.SetDefault("gemini.keep_uploads", false)

	// Upload defaults
	v.SetDefault("upload.temp_dir", "")
	v.SetDefault("upload.max_bytes", 10<<20) // 10 MiB
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Gemini.APIKey == "" {
		return fmt.Errorf("Gemini API key is required (set LABELLENS_GEMINI_API_KEY)")
	}

	if config.Gemini.Model == "" {
		return fmt.Errorf("Gemini model is required")
	}

	if config.Gemini.Temperature < 0 || config.Gemini.Temperature > 2 {
		return fmt.Errorf("Gemini temperature must be between 0 and 2, got: %v", config.Gemini.Temperature)
	}

	if config.Gemini.Timeout < 0 {
		return fmt.Errorf("Gemini timeout must not be negative, got: %s", config.Gemini.Timeout)
	}

	if config.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if config.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload max_bytes must be positive, got: %d", config.Upload.MaxBytes)
	}

	return nil
}
