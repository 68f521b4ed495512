package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	sharedConfig "srdashboard/internal/shared/config"
)

type Config struct {
	Server       sharedConfig.ServerConfig       `mapstructure:"server"`
	Database     sharedConfig.DatabaseConfig     `mapstructure:"database"`
	Logger       sharedConfig.LoggerConfig       `mapstructure:"logger"`
	Auth         sharedConfig.AuthConfig         `mapstructure:"auth"`
	Email        sharedConfig.EmailConfig        `mapstructure:"email"`
	Notification sharedConfig.NotificationConfig `mapstructure:"notification"`
	Redis        sharedConfig.RedisConfig        `mapstructure:"redis"`
	RateLimit    sharedConfig.RateLimitConfig    `mapstructure:"rate_limit"`
	Storage      sharedConfig.StorageConfig      `mapstructure:"storage"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load reads ./configs/config.yaml, overlaid by SRD_* environment variables.
// Variables in a local .env file are exported first and never override the
// real environment. A missing config file is not an error.
func Load(env string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")

	v.SetEnvPrefix("SRD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Allow env parameter to override server mode if provided
	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.Notification.Recipients = splitList(config.Notification.Recipients)
	config.Server.AllowedOrigins = splitList(config.Server.AllowedOrigins)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}
	switch c.Storage.Driver {
	case "local", "minio":
	default:
		return fmt.Errorf("unsupported storage driver: %q", c.Storage.Driver)
	}
	if c.Auth.JWT.Secret == "" {
		return fmt.Errorf("auth.jwt.secret must be set")
	}
	if c.Storage.MaxSizeMB <= 0 {
		return fmt.Errorf("storage.max_size_mb must be positive")
	}
	return nil
}

// splitList accepts both YAML lists and a single comma-separated env value.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.base_url", "http://localhost:5173")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.timezone", "Asia/Colombo")

	// Database defaults
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "sr_dashboard")
	v.SetDefault("database.path", "./data/sr_dashboard.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	// Auth defaults
	v.SetDefault("auth.jwt.secret", "change-me-in-production")
	v.SetDefault("auth.jwt.access_exp_minutes", 24*60)
	v.SetDefault("auth.jwt.issuer", "srdashboard")

	// Email defaults
	v.SetDefault("email.smtp_host", "smtp-relay.brevo.com")
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("email.smtp_user", "")
	v.SetDefault("email.smtp_password", "")
	v.SetDefault("email.from_address", "")
	v.SetDefault("email.from_name", "SR Dashboard")

	// Notification defaults
	v.SetDefault("notification.enabled", false)
	v.SetDefault("notification.recipients", []string{})
	v.SetDefault("notification.queue_size", 256)

	// Redis defaults
	v.SetDefault("redis.host", "") // empty selects the in-process rate limiter
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Rate limit defaults
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.limit", 100)
	v.SetDefault("rate_limit.window", 15*time.Minute)

	// Storage defaults
	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.upload_dir", "./uploads")
	v.SetDefault("storage.max_size_mb", 10)
	v.SetDefault("storage.minio.endpoint", "localhost:9000")
	v.SetDefault("storage.minio.access_key", "minioadmin")
	v.SetDefault("storage.minio.secret_key", "minioadmin")
	v.SetDefault("storage.minio.bucket", "sr-attachments")
	v.SetDefault("storage.minio.use_ssl", false)
}
