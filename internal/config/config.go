// Package config provides configuration loading for the lostfound CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. LOSTFOUND_API_BASE_URL.
const EnvPrefix = "LOSTFOUND"

// Config holds all configuration for the application.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Log     LogConfig     `mapstructure:"log"`
	Server  ServerConfig  `mapstructure:"server"`
}

// APIConfig holds the remote API settings.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SessionConfig holds where the session token is persisted.
type SessionConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text, json
}

// ServerConfig holds settings for the local mock API server.
type ServerConfig struct {
	Addr          string        `mapstructure:"addr"`
	JWTSecret     string        `mapstructure:"jwt_secret"`
	TokenLifetime time.Duration `mapstructure:"token_lifetime"`
}

// Load reads configuration from an optional file, the environment and the
// given overrides, in increasing order of precedence. An empty configFile
// searches the default locations; a missing default file is not an error.
func Load(configFile string, overrides map[string]interface{}) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir := defaultDir(); dir != "" {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath("/etc/lostfound")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all settings.
func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://webprog2.f-host.site/")
	v.SetDefault("api.timeout", "30s")

	v.SetDefault("session.path", filepath.Join(defaultDir(), "session.yaml"))

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")

	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.jwt_secret", "lostfound-dev-secret")
	v.SetDefault("server.token_lifetime", "720h") // 30 days
}

// defaultDir is $HOME/.lostfound, or empty when the home directory is unknown.
func defaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".lostfound")
}
