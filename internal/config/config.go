package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Port               string  `mapstructure:"PORT"`
	Mode               string  `mapstructure:"SERVER_MODE"`
	DatabaseURL        string  `mapstructure:"DATABASE_URL"`
	JWTSecret          string  `mapstructure:"JWT_SECRET"`
	TokenLifetimeHours int     `mapstructure:"TOKEN_LIFETIME_HOURS"`
	AllowedOrigins     string  `mapstructure:"ALLOWED_ORIGINS"`
	RateLimitRPS       float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst     int     `mapstructure:"RATE_LIMIT_BURST"`
	LogPath            string  `mapstructure:"LOG_PATH"`
}

var AppConfig *Config

// LoadConfig loads the configuration from a .env file and environment variables.
func LoadConfig() {
	viper.AddConfigPath(".")
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	viper.SetDefault("PORT", "7000")
	viper.SetDefault("SERVER_MODE", "debug")
	viper.SetDefault("TOKEN_LIFETIME_HOURS", 168)
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("RATE_LIMIT_RPS", 20)
	viper.SetDefault("RATE_LIMIT_BURST", 40)
	viper.SetDefault("LOG_PATH", "logs/app.log")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("Warning: .env file not found, loading from environment variables")
	}

	err := viper.Unmarshal(&AppConfig)
	if err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	if AppConfig.Mode == "release" && len(AppConfig.JWTSecret) < 32 {
		log.Fatalf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(AppConfig.JWTSecret))
	}
}

// TokenLifetime returns the configured token validity window.
func (c *Config) TokenLifetime() time.Duration {
	return time.Duration(c.TokenLifetimeHours) * time.Hour
}

// Origins returns the CORS allow-list.
func (c *Config) Origins() []string {
	parts := strings.Split(c.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
