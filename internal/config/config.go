package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const defaultJWTSecret = "change-me-in-production"

// Driver defaults applied by DSN when Port or Params are left empty.
const (
	defaultMySQLPort      = 3306
	defaultPostgresPort   = 5432
	defaultMySQLParams    = "parseTime=true&loc=UTC&charset=utf8mb4"
	defaultPostgresParams = "sslmode=disable"
)

type Config struct {
	App      AppConfig      `toml:"app"`
	Auth     AuthConfig     `toml:"auth"`
	Database DatabaseConfig `toml:"database"`
	Redis    RedisConfig    `toml:"redis"`
	RabbitMQ RabbitMQConfig `toml:"rabbitmq"`
	Log      LogConfig      `toml:"log"`
}

type AppConfig struct {
	Name    string `toml:"name" env:"APP_NAME"`
	Env     string `toml:"env" env:"APP_ENV"`
	Host    string `toml:"host" env:"APP_HOST"`
	Port    int    `toml:"port" env:"PORT"`
	GinMode string `toml:"gin_mode" env:"GIN_MODE"`
}

// DatabaseConfig selects the gorm dialector. URL, when set, is used verbatim as the DSN.
type DatabaseConfig struct {
	Driver   string `toml:"driver" env:"DB_DRIVER"`
	URL      string `toml:"url" env:"DATABASE_URL"`
	Host     string `toml:"host" env:"DB_HOST"`
	Port     int    `toml:"port" env:"DB_PORT"`
	User     string `toml:"user" env:"DB_USER"`
	Password string `toml:"password" env:"DB_PASSWORD"`
	Name     string `toml:"name" env:"DB_NAME"`
	Params   string `toml:"params" env:"DB_PARAMS"`

	MaxIdleConns int  `toml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
	MaxOpenConns int  `toml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
	AutoMigrate  bool `toml:"auto_migrate" env:"DB_AUTO_MIGRATE"`
}

// RedisConfig is optional; an empty Addr disables login throttling.
type RedisConfig struct {
	Addr               string `toml:"addr" env:"REDIS_ADDR"`
	Password           string `toml:"password" env:"REDIS_PASSWORD"`
	DB                 int    `toml:"db" env:"REDIS_DB"`
	LoginMaxFailures   int    `toml:"login_max_failures" env:"REDIS_LOGIN_MAX_FAILURES"`
	LoginWindowSeconds int    `toml:"login_window_seconds" env:"REDIS_LOGIN_WINDOW_SECONDS"`
}

// RabbitMQConfig is optional; an empty URL disables audit events.
type RabbitMQConfig struct {
	URL        string `toml:"url" env:"RABBITMQ_URL"`
	AuditQueue string `toml:"audit_queue" env:"RABBITMQ_AUDIT_QUEUE"`
}

type AuthConfig struct {
	JWTSecret       string `toml:"jwt_secret" env:"JWT_SECRET_KEY"`
	JWTExpireMinute int    `toml:"jwt_expire_minute" env:"JWT_EXPIRE_MINUTE"`
	BcryptCost      int    `toml:"bcrypt_cost" env:"BCRYPT_COST"`
}

type LogConfig struct {
	Level  string `toml:"level" env:"LOG_LEVEL"`
	Format string `toml:"format" env:"LOG_FORMAT"`
}

func Load() (*Config, error) {
	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file failed: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env failed: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("auth.jwt_secret must not be empty")
	}
	if c.IsProduction() && c.Auth.JWTSecret == defaultJWTSecret {
		return errors.New("auth.jwt_secret must be changed in production")
	}
	if c.Auth.JWTExpireMinute <= 0 {
		return errors.New("auth.jwt_expire_minute must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "prod") || strings.EqualFold(c.App.Env, "production")
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func (c *Config) JWTExpiration() time.Duration {
	return time.Duration(c.Auth.JWTExpireMinute) * time.Minute
}

func (c *Config) LoginWindow() time.Duration {
	return time.Duration(c.Redis.LoginWindowSeconds) * time.Second
}

// DSN builds the driver-specific connection string unless URL is set.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	params := c.driverParams()
	switch c.Driver {
	case "postgres":
		parts := []string{
			"host=" + pgValue(c.Host),
			fmt.Sprintf("port=%d", c.driverPort()),
		}
		if c.User != "" {
			parts = append(parts, "user="+pgValue(c.User))
		}
		if c.Password != "" {
			parts = append(parts, "password="+pgValue(c.Password))
		}
		if c.Name != "" {
			parts = append(parts, "dbname="+pgValue(c.Name))
		}
		if params != "" {
			parts = append(parts, params)
		}
		return strings.Join(parts, " ")
	case "sqlite":
		if params != "" {
			return c.Name + "?" + params
		}
		return c.Name
	default:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
			c.User,
			c.Password,
			c.Host,
			c.driverPort(),
			c.Name,
		)
		if params != "" {
			dsn += "?" + params
		}
		return dsn
	}
}

func (c *DatabaseConfig) driverPort() int {
	if c.Port != 0 {
		return c.Port
	}
	if c.Driver == "postgres" {
		return defaultPostgresPort
	}
	return defaultMySQLPort
}

func (c *DatabaseConfig) driverParams() string {
	if c.Params != "" {
		return c.Params
	}
	switch c.Driver {
	case "mysql":
		return defaultMySQLParams
	case "postgres":
		return defaultPostgresParams
	default:
		return ""
	}
}

// pgValue quotes a keyword/value connection parameter when it is empty or contains spaces,
// quotes or backslashes.
func pgValue(v string) string {
	if v != "" && !strings.ContainsAny(v, " '\\\t") {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:    "cronicas-api",
			Env:     "dev",
			Host:    "0.0.0.0",
			Port:    5050,
			GinMode: "debug",
		},
		Auth: AuthConfig{
			JWTSecret:       defaultJWTSecret,
			JWTExpireMinute: 60,
			BcryptCost:      10,
		},
		Database: DatabaseConfig{
			Driver:       "mysql",
			Host:         "127.0.0.1",
			User:         "root",
			Password:     "",
			Name:         "cronicas",
			MaxIdleConns: 10,
			MaxOpenConns: 50,
			AutoMigrate:  true,
		},
		Redis: RedisConfig{
			LoginMaxFailures:   5,
			LoginWindowSeconds: 900,
		},
		RabbitMQ: RabbitMQConfig{
			AuditQueue: "cronicas.audit.events",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "pretty",
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
