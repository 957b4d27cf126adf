package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	Database    DatabaseConfig
	Gateway     GatewayConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	Admin       AdminConfig
	LogLevel    string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// GatewayConfig configures the external payment gateway
type GatewayConfig struct {
	BaseURL   string
	KeyID     string
	KeySecret string
}

type RedisConfig struct {
	URL string
}

// KafkaConfig configures order event publishing. Empty Brokers disables it.
type KafkaConfig struct {
	Brokers string
}

type AdminConfig struct {
	APIKeyHash string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "orderapi"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Gateway: GatewayConfig{
			BaseURL:   getEnvOrViper("GATEWAY_BASE_URL", ""),
			KeyID:     getEnvOrViper("GATEWAY_KEY_ID", ""),
			KeySecret: getEnvOrViper("GATEWAY_KEY_SECRET", ""),
		},
		Redis: RedisConfig{
			URL: getEnvOrViper("REDIS_URL", ""),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvOrViper("KAFKA_BROKERS", ""),
		},
		Admin: AdminConfig{
			APIKeyHash: getEnvOrViper("ADMIN_API_KEY_HASH", ""),
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.Gateway.BaseURL == "" {
		return nil, fmt.Errorf("GATEWAY_BASE_URL is required")
	}
	if cfg.Gateway.KeyID == "" {
		return nil, fmt.Errorf("GATEWAY_KEY_ID is required")
	}
	if cfg.Gateway.KeySecret == "" {
		return nil, fmt.Errorf("GATEWAY_KEY_SECRET is required")
	}
	if cfg.Admin.APIKeyHash == "" {
		return nil, fmt.Errorf("ADMIN_API_KEY_HASH is required")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
