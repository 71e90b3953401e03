package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Worker   WorkerConfig
	Logging  LoggingConfig
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig represents MongoDB configuration
type DatabaseConfig struct {
	URI    string
	DBName string
}

// AuthConfig holds token signing settings
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// WorkerConfig holds background worker settings
type WorkerConfig struct {
	LeaderboardCron string
}

// LoggingConfig
type LoggingConfig struct {
	Level string
}

// Load builds the configuration from defaults overridden by environment
// variables.
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			URI:    "mongodb://localhost:27017",
			DBName: "carbon_tracker",
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Worker: WorkerConfig{
			LeaderboardCron: "@every 5m",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}

	overrideWithEnv(config)

	if config.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}
	return config, nil
}

func overrideWithEnv(config *Config) {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		config.Database.URI = uri
	}
	if name := os.Getenv("MONGODB_DBNAME"); name != "" {
		config.Database.DBName = name
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.Auth.JWTSecret = secret
	}
	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			config.Auth.TokenTTL = d
		}
	}
	if spec := os.Getenv("LEADERBOARD_CRON"); spec != "" {
		config.Worker.LeaderboardCron = spec
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
