package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	EnvConfigPath   = "CONFIG_PATH"
	EnvDBConnection = "DB_CONNECTION"
	EnvServerIP     = "SERVER_IP"
)

// DefaultDSN is the file-backed SQLite store used when nothing is configured.
const DefaultDSN = "file:panel.db"

// defaultServerIP is the loopback fallback for the host allow-list.
const defaultServerIP = "127.0.0.1"

// AppConfig holds resolved application configuration values.
type AppConfig struct {
	ConfigPath string
}

// LoadFromEnv loads app config from environment variables.
func LoadFromEnv() (AppConfig, error) {
	return AppConfig{ConfigPath: ResolveConfigPath(os.Getenv(EnvConfigPath))}, nil
}

// ResolveConfigPath normalizes the config path and applies defaults.
func ResolveConfigPath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		trimmed = "./config.yaml"
	}
	if abs, err := filepath.Abs(trimmed); err == nil {
		return abs
	}
	return trimmed
}

// RateLimitConfig holds panel API rate limit settings.
type RateLimitConfig struct {
	RequestsPerSecond int    `yaml:"requests-per-second"`
	RedisEnabled      bool   `yaml:"redis-enabled"`
	RedisAddr         string `yaml:"redis-addr"`
	RedisPassword     string `yaml:"redis-password"`
	RedisDB           int    `yaml:"redis-db"`
	RedisPrefix       string `yaml:"redis-prefix"`
}

// ServerConfig holds HTTP server and panel settings from the config file.
type ServerConfig struct {
	Host                string          `yaml:"host"`
	Port                int             `yaml:"port"`
	ServerIP            string          `yaml:"server-ip"`
	SubscriptionBaseURL string          `yaml:"subscription-base-url"`
	AllowedOrigins      []string        `yaml:"allowed-origins"`
	RateLimit           RateLimitConfig `yaml:"rate-limit"`
}

// LoadDatabaseDSN reads the database DSN, preferring the environment over the
// YAML config file and falling back to the local SQLite store.
func LoadDatabaseDSN(configPath string) (string, error) {
	if dsn := strings.TrimSpace(os.Getenv(EnvDBConnection)); dsn != "" {
		return dsn, nil
	}

	// fileConfig maps the YAML fields needed for DSN resolution.
	type fileConfig struct {
		DatabaseDSN string `yaml:"database-dsn"`
		Database    struct {
			DSN string `yaml:"dsn"`
		} `yaml:"database"`
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return DefaultDSN, nil
	}

	var cfg fileConfig
	if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
		return "", errUnmarshal
	}

	if dsn := strings.TrimSpace(cfg.DatabaseDSN); dsn != "" {
		return dsn, nil
	}
	if dsn := strings.TrimSpace(cfg.Database.DSN); dsn != "" {
		return dsn, nil
	}
	return DefaultDSN, nil
}

// LoadServerConfig loads server settings from the YAML config file with
// environment overrides and defaults applied.
func LoadServerConfig(configPath string) (ServerConfig, error) {
	result := ServerConfig{}

	data, errRead := os.ReadFile(configPath)
	if errRead == nil {
		if errUnmarshal := yaml.Unmarshal(data, &result); errUnmarshal != nil {
			return ServerConfig{}, errUnmarshal
		}
	}

	if ip := strings.TrimSpace(os.Getenv(EnvServerIP)); ip != "" {
		result.ServerIP = ip
	}
	result.ServerIP = strings.TrimSpace(result.ServerIP)
	if result.ServerIP == "" {
		result.ServerIP = defaultServerIP
	}
	result.SubscriptionBaseURL = strings.TrimSpace(result.SubscriptionBaseURL)
	if result.SubscriptionBaseURL == "" {
		result.SubscriptionBaseURL = "http://" + result.ServerIP + "/settings/subscription/"
	}
	if result.RateLimit.RequestsPerSecond < 0 {
		result.RateLimit.RequestsPerSecond = 0
	}
	return result, nil
}

// AllowedHosts returns the host allow-list: loopback plus the server IP.
func (c ServerConfig) AllowedHosts() []string {
	hosts := []string{"localhost", "127.0.0.1"}
	if c.ServerIP != "" && c.ServerIP != "127.0.0.1" {
		hosts = append(hosts, c.ServerIP)
	}
	return hosts
}
