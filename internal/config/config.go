package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds application settings for both the order engine (API base URL,
// timeouts, debounce) and the sandbox backend (port, origin, JWT secret).
type Config struct {
	ServerPort   string `mapstructure:"SERVER_PORT"`
	ClientOrigin string `mapstructure:"CLIENT_ORIGIN"`
	JWTSecret    string `mapstructure:"JWT_SECRET"`

	APIBaseURL     string        `mapstructure:"API_BASE_URL"`
	HTTPTimeout    time.Duration `mapstructure:"HTTP_TIMEOUT"`
	SearchDebounce time.Duration `mapstructure:"SEARCH_DEBOUNCE"`
	TokenTTL       time.Duration `mapstructure:"TOKEN_TTL"`
}

// LoadConfig reads configuration from a .env file in the given path and from
// the environment; environment variables win.
func LoadConfig(path string) (Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("CLIENT_ORIGIN", "http://localhost:5173")
	viper.SetDefault("JWT_SECRET", "dev-only-secret")
	viper.SetDefault("API_BASE_URL", "http://localhost:8080")
	viper.SetDefault("HTTP_TIMEOUT", 15*time.Second)
	viper.SetDefault("SEARCH_DEBOUNCE", 500*time.Millisecond)
	viper.SetDefault("TOKEN_TTL", 24*time.Hour)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
		// No .env file is fine; defaults and the environment apply.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
