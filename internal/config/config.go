// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	JWTSecret      string `mapstructure:"JWT_SECRET"`
	Port           string `mapstructure:"PORT"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	DBSSLMode      string `mapstructure:"DB_SSLMODE"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	FeatureFlags   string `mapstructure:"FEATURE_FLAGS"`
	Env            string `mapstructure:"APP_ENV"`

	// EmbedOrigin is the origin passed to the YouTube iframe API.
	EmbedOrigin string `mapstructure:"EMBED_ORIGIN"`

	// Poll cadences for the viewer surface. Config values so tests can use
	// near-zero intervals.
	ConfigPollSeconds int `mapstructure:"CONFIG_POLL_SECONDS"`
	ChatPollSeconds   int `mapstructure:"CHAT_POLL_SECONDS"`

	// Idle cutoff for server-side viewer sessions. Zero derives it from the
	// config poll cadence.
	SessionIdleSeconds int `mapstructure:"SESSION_IDLE_SECONDS"`

	TracingEnabled  bool   `mapstructure:"TRACING_ENABLED"`
	TracingExporter string `mapstructure:"TRACING_EXPORTER"` // "stdout" or "otlp"
	OTLPEndpoint    string `mapstructure:"OTLP_ENDPOINT"`

	// Development-only operator account bootstrap. The console has no
	// self-service admin signup, so the first admin comes from here or
	// from the promote command.
	DevBootstrapAdmin        bool   `mapstructure:"DEV_BOOTSTRAP_ADMIN"`
	DevAdminUsername         string `mapstructure:"DEV_ADMIN_USERNAME"`
	DevAdminEmail            string `mapstructure:"DEV_ADMIN_EMAIL"`
	DevAdminPassword         string `mapstructure:"DEV_ADMIN_PASSWORD"`
	DevAdminForceCredentials bool   `mapstructure:"DEV_ADMIN_FORCE_CREDENTIALS"`

	SeedDemoData bool `mapstructure:"SEED_DEMO_DATA"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// Initial read to get APP_ENV if set in base config
	// We intentionally ignore this error as the config file may not exist yet
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to merge profile config 'config.%s.yml': %w", env, err)
			}
		} else {
			log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
		}
	}

	// Set default values for development
	viper.SetDefault("PORT", "8460")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "chapel")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("JWT_SECRET", "your-secret-key-change-in-production")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173")
	viper.SetDefault("FEATURE_FLAGS", "")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("EMBED_ORIGIN", "http://localhost:5173")
	viper.SetDefault("CONFIG_POLL_SECONDS", 30)
	viper.SetDefault("CHAT_POLL_SECONDS", 10)
	viper.SetDefault("SESSION_IDLE_SECONDS", 0)
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("DEV_BOOTSTRAP_ADMIN", false)
	viper.SetDefault("DEV_ADMIN_FORCE_CREDENTIALS", false)
	viper.SetDefault("SEED_DEMO_DATA", false)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// ConfigPollInterval returns the viewer config poll cadence as a duration.
func (c *Config) ConfigPollInterval() time.Duration {
	if c.ConfigPollSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.ConfigPollSeconds) * time.Second
}

// ChatPollInterval returns the chat poll cadence as a duration.
func (c *Config) ChatPollInterval() time.Duration {
	if c.ChatPollSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.ChatPollSeconds) * time.Second
}

// SessionIdleTimeout returns how long a viewer session may go without any
// client traffic before the reaper closes it. A closed tab never sends the
// session DELETE, so abandonment is detected by silence: five missed config
// polls by default.
func (c *Config) SessionIdleTimeout() time.Duration {
	if c.SessionIdleSeconds > 0 {
		return time.Duration(c.SessionIdleSeconds) * time.Second
	}
	return 5 * c.ConfigPollInterval()
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	isProduction := c.Env == "production" || c.Env == "prod"

	// Strict checks for production
	if isProduction {
		if c.JWTSecret == "your-secret-key-change-in-production" {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	} else {
		// Development/Test warnings
		if len(c.JWTSecret) < 32 {
			log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
		}
	}

	return nil
}
