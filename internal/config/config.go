package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/yigit/cvportal/internal/pkg/helpers"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port            string `yaml:"port" env:"SERVER_PORT"`
		Mode            string `yaml:"mode" env:"SERVER_MODE"`
		BasePath        string `yaml:"base_path" env:"SERVER_BASE_PATH"`
		MaxUploadBytes  int64  `yaml:"max_upload_bytes" env:"SERVER_MAX_UPLOAD_BYTES"`
		ShutdownTimeout string `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MinConns        int    `yaml:"min_conns" env:"DB_MIN_CONNS"`
		MaxConns        int    `yaml:"max_conns" env:"DB_MAX_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	JWT struct {
		Secret                      string `yaml:"secret" env:"JWT_SECRET"`
		Issuer                      string `yaml:"issuer" env:"JWT_ISSUER"`
		AccessTokenExpiration       string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		VerificationTokenExpiration string `yaml:"verification_token_expiration" env:"JWT_VERIFICATION_TOKEN_EXPIRATION"`
	} `yaml:"jwt"`

	Mail struct {
		Host      string `yaml:"host" env:"MAIL_HOST"`
		Port      int    `yaml:"port" env:"MAIL_PORT"`
		Username  string `yaml:"username" env:"EMAIL_USER"`
		Password  string `yaml:"password" env:"EMAIL_PASS"`
		FromName  string `yaml:"from_name" env:"MAIL_FROM_NAME"`
		FromEmail string `yaml:"from_email" env:"MAIL_FROM_EMAIL"`
		UseTLS    bool   `yaml:"use_tls" env:"MAIL_USE_TLS"`
	} `yaml:"mail"`

	App struct {
		Name                    string `yaml:"name" env:"APP_NAME"`
		BaseURL                 string `yaml:"base_url" env:"FRONTEND_URL"`
		PasswordResetExpiration string `yaml:"password_reset_expiration" env:"PASSWORD_RESET_EXPIRATION"`
	} `yaml:"app"`

	TOTP struct {
		Issuer string `yaml:"issuer" env:"TOTP_ISSUER"`
	} `yaml:"totp"`

	Storage struct {
		UploadDir string `yaml:"upload_dir" env:"STORAGE_UPLOAD_DIR"`
		TempDir   string `yaml:"temp_dir" env:"STORAGE_TEMP_DIR"`
	} `yaml:"storage"`

	CV struct {
		FontPath     string `yaml:"font_path" env:"CV_FONT_PATH"`
		BoldFontPath string `yaml:"bold_font_path" env:"CV_BOLD_FONT_PATH"`
	} `yaml:"cv"`

	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
		CacheTTL string `yaml:"cache_ttl" env:"REDIS_CACHE_TTL"`
	} `yaml:"redis"`

	Seed struct {
		Enabled bool `yaml:"enabled" env:"SEED_ENABLED"`
	} `yaml:"seed"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a YAML file, a .env file and environment variables,
// in increasing order of precedence. Missing files are skipped.
func LoadConfig(configPath, envPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "5000"
	config.Server.Mode = "development"
	config.Server.BasePath = ""
	config.Server.MaxUploadBytes = 5 << 20
	config.Server.ShutdownTimeout = "10s"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "cvportal"
	config.Database.SSLMode = "disable"
	config.Database.MinConns = 2
	config.Database.MaxConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	config.JWT.Issuer = "cvportal"
	config.JWT.AccessTokenExpiration = "30m"
	config.JWT.VerificationTokenExpiration = "24h"

	config.Mail.Port = 587
	config.Mail.FromName = "Student CV System"

	config.App.Name = "Student CV System"
	config.App.BaseURL = "http://localhost:3000"
	config.App.PasswordResetExpiration = "1h"

	config.TOTP.Issuer = "Student CV System"

	config.Storage.UploadDir = "uploads"
	config.Storage.TempDir = "temp"

	config.Redis.CacheTTL = "10m"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if config.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server max_upload_bytes must be positive")
	}

	durations := map[string]string{
		"JWT access token expiration":       config.JWT.AccessTokenExpiration,
		"JWT verification token expiration": config.JWT.VerificationTokenExpiration,
		"password reset expiration":         config.App.PasswordResetExpiration,
		"redis cache ttl":                   config.Redis.CacheTTL,
		"server shutdown timeout":           config.Server.ShutdownTimeout,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// AccessTokenTTL is the lifetime of bearer tokens
func (c *Config) AccessTokenTTL() time.Duration {
	return helpers.ParseDuration(c.JWT.AccessTokenExpiration, 30*time.Minute)
}

// VerificationTokenTTL is the lifetime of email verification links
func (c *Config) VerificationTokenTTL() time.Duration {
	return helpers.ParseDuration(c.JWT.VerificationTokenExpiration, 24*time.Hour)
}

// PasswordResetTTL is the lifetime of password reset links
func (c *Config) PasswordResetTTL() time.Duration {
	return helpers.ParseDuration(c.App.PasswordResetExpiration, time.Hour)
}

// CacheTTL is how long lookup lists stay cached
func (c *Config) CacheTTL() time.Duration {
	return helpers.ParseDuration(c.Redis.CacheTTL, 10*time.Minute)
}

// ShutdownTimeout bounds graceful shutdown
func (c *Config) ShutdownTimeout() time.Duration {
	return helpers.ParseDuration(c.Server.ShutdownTimeout, 10*time.Second)
}

// CacheEnabled reports whether a Redis address was configured
func (c *Config) CacheEnabled() bool {
	return c.Redis.Addr != ""
}
