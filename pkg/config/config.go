package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	SMTP     SMTPConfig
	Admin    AdminConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	DataDir string
}

type JWTConfig struct {
	Key             string
	Issuer          string
	Audience        string
	TokenMinutes    int
	RefreshDays     int
	ResetTokenHours int
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type AdminConfig struct {
	Email    string
	Password string
}

// Load reads an optional .env file, then environment variables with defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			DataDir: getEnv("DATABASE_DIR", "./data"),
		},
		JWT: JWTConfig{
			Key:             getEnv("JWT_KEY", ""),
			Issuer:          getEnv("JWT_ISSUER", ""),
			Audience:        getEnv("JWT_AUDIENCE", ""),
			TokenMinutes:    getEnvAsInt("JWT_TOKEN_MINUTES", 120),
			RefreshDays:     getEnvAsInt("JWT_REFRESH_TOKEN_DAYS", 7),
			ResetTokenHours: getEnvAsInt("JWT_RESET_TOKEN_HOURS", 1),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
			FromName: getEnv("SMTP_FROM_NAME", "Task Management"),
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
	}

	if !filepath.IsAbs(config.Database.DataDir) {
		config.Database.DataDir, _ = filepath.Abs(config.Database.DataDir)
	}

	return config, nil
}

// Validate reports configuration errors that must stop startup.
func (c *Config) Validate() error {
	if c.JWT.Key == "" {
		return fmt.Errorf("JWT_KEY is not configured")
	}
	if c.JWT.Issuer == "" {
		return fmt.Errorf("JWT_ISSUER is not configured")
	}
	if c.JWT.Audience == "" {
		return fmt.Errorf("JWT_AUDIENCE is not configured")
	}
	return nil
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.TokenMinutes) * time.Minute
}

func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.JWT.RefreshDays) * 24 * time.Hour
}

func (c *Config) ResetTokenTTL() time.Duration {
	return time.Duration(c.JWT.ResetTokenHours) * time.Hour
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
