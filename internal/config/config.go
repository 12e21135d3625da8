package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Identity  IdentityConfig  `yaml:"identity"`
	Chat      ChatConfig      `yaml:"chat"`
	Sentry    SentryConfig    `yaml:"sentry"`
	SystemLog SystemLogConfig `yaml:"system_log"`
}

// ServerConfig controls the HTTP listener. AllowedOrigins limits CORS; an
// empty list allows any origin without credentials.
type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           string   `yaml:"port"`
	Mode           string   `yaml:"mode"` // debug, release, test
	LogLevel       string   `yaml:"log_level"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	Driver       string `yaml:"driver"` // sqlite, mysql, postgres
	DSN          string `yaml:"dsn"`
	TablePrefix  string `yaml:"table_prefix"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	LogSQL       bool   `yaml:"log_sql"`
}

// JWTConfig verifies session tokens issued for identity-provider users.
// ExpireHour is the lifetime of tokens minted by cmd/token.
type JWTConfig struct {
	Secret     string `yaml:"secret"`
	ExpireHour int    `yaml:"expire_hour"`
	AdminRole  string `yaml:"admin_role"`
}

// IdentityConfig points at the hosted identity provider's backend API.
// RatePerSecond and Burst limit /api/users/info per client IP.
type IdentityConfig struct {
	BaseURL       string  `yaml:"base_url"`
	SecretKey     string  `yaml:"secret_key"`
	BatchSize     int     `yaml:"batch_size"`
	RatePerSecond float64 `yaml:"rate_per_second"`
	Burst         int     `yaml:"burst"`
}

type ChatConfig struct {
	RatePerSecond float64 `yaml:"rate_per_second"`
	Burst         int     `yaml:"burst"`
}

type SentryConfig struct {
	DSN         string `yaml:"dsn"`
	Environment string `yaml:"environment"`
}

type SystemLogConfig struct {
	RetentionDays int    `yaml:"retention_days"`
	CleanupSpec   string `yaml:"cleanup_spec"` // cron spec
}

// Load reads configPath (default config.yaml), falling back to defaults when
// the file is missing, then applies environment overrides. A .env file in the
// working directory is loaded into the environment first if present.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	cfg.overrideFromEnv()
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:     "0.0.0.0",
			Port:     "8080",
			Mode:     "debug",
			LogLevel: "info",
		},
		Database: DatabaseConfig{
			Driver:       "sqlite",
			DSN:          "volunteer-hub.db",
			TablePrefix:  "hack2025_",
			MaxOpenConns: 20,
		},
		JWT: JWTConfig{
			Secret:     "volunteer-hub-secret-key-change-in-production",
			ExpireHour: 24,
			AdminRole:  "org:admin",
		},
		Identity: IdentityConfig{
			BaseURL:       "https://api.clerk.com/v1",
			BatchSize:     100,
			RatePerSecond: 5,
			Burst:         10,
		},
		Chat: ChatConfig{
			RatePerSecond: 2,
			Burst:         5,
		},
		SystemLog: SystemLogConfig{
			RetentionDays: 30,
			CleanupSpec:   "@daily",
		},
	}
}

func (c *Config) overrideFromEnv() {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Server.LogLevel = level
	}
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	// DATABASE_URL is what most hosting platforms export for postgres
	if url := os.Getenv("DATABASE_URL"); url != "" && os.Getenv("DB_DSN") == "" {
		c.Database.Driver = "postgres"
		c.Database.DSN = url
	}
	if prefix, ok := os.LookupEnv("DB_TABLE_PREFIX"); ok {
		c.Database.TablePrefix = prefix
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWT.Secret = secret
	}
	if role := os.Getenv("JWT_ADMIN_ROLE"); role != "" {
		c.JWT.AdminRole = role
	}
	if baseURL := os.Getenv("IDENTITY_BASE_URL"); baseURL != "" {
		c.Identity.BaseURL = baseURL
	}
	if key := os.Getenv("IDENTITY_SECRET_KEY"); key != "" {
		c.Identity.SecretKey = key
	}
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		c.Sentry.DSN = dsn
	}
	if env := os.Getenv("APP_ENV"); env != "" {
		c.Sentry.Environment = env
	}
	if days := os.Getenv("LOG_RETENTION_DAYS"); days != "" {
		if n, err := strconv.Atoi(days); err == nil {
			c.SystemLog.RetentionDays = n
		}
	}
}

func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
