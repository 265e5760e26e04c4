package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Logger   LoggerConfig
	Security SecurityConfig
	Cache    CacheConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type DataConfig struct {
	CSVFile     string
	LoadTimeout time.Duration
}

type LoggerConfig struct {
	Level  string
	Format string
}

type SecurityConfig struct {
	EnableRateLimit bool
	RateLimitRPS    int
	RateLimitBurst  int
	AllowedOrigins  []string
	TrustedProxies  []string
}

type CacheConfig struct {
	Enabled         bool
	TTL             time.Duration
	CleanupInterval time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "localhost")
	v.SetDefault("SERVER_PORT", 8084)
	v.SetDefault("SERVER_READ_TIMEOUT", 10*time.Second)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 10*time.Second)
	v.SetDefault("SERVER_IDLE_TIMEOUT", 60*time.Second)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second)

	v.SetDefault("CSV_FILE", "main_sales.csv")
	v.SetDefault("CSV_LOAD_TIMEOUT", 30*time.Second)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SECURITY_RATE_LIMIT_ENABLED", true)
	v.SetDefault("SECURITY_RATE_LIMIT_RPS", 100)
	v.SetDefault("SECURITY_RATE_LIMIT_BURST", 10)
	v.SetDefault("SECURITY_ALLOWED_ORIGINS", "http://localhost:8084")
	v.SetDefault("SECURITY_TRUSTED_PROXIES", "127.0.0.1")

	v.SetDefault("CACHE_ENABLED", true)
	v.SetDefault("CACHE_TTL", 5*time.Minute)
	v.SetDefault("CACHE_CLEANUP_INTERVAL", 10*time.Minute)
}

// Load reads configuration from the environment, after merging an optional
// .env file from the working directory.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not read .env file", "error", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host:            v.GetString("SERVER_HOST"),
			Port:            v.GetInt("SERVER_PORT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:     v.GetDuration("SERVER_IDLE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
		},
		Data: DataConfig{
			CSVFile:     v.GetString("CSV_FILE"),
			LoadTimeout: v.GetDuration("CSV_LOAD_TIMEOUT"),
		},
		Logger: LoggerConfig{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
		Security: SecurityConfig{
			EnableRateLimit: v.GetBool("SECURITY_RATE_LIMIT_ENABLED"),
			RateLimitRPS:    v.GetInt("SECURITY_RATE_LIMIT_RPS"),
			RateLimitBurst:  v.GetInt("SECURITY_RATE_LIMIT_BURST"),
			AllowedOrigins:  splitList(v.GetString("SECURITY_ALLOWED_ORIGINS")),
			TrustedProxies:  splitList(v.GetString("SECURITY_TRUSTED_PROXIES")),
		},
		Cache: CacheConfig{
			Enabled:         v.GetBool("CACHE_ENABLED"),
			TTL:             v.GetDuration("CACHE_TTL"),
			CleanupInterval: v.GetDuration("CACHE_CLEANUP_INTERVAL"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Data.CSVFile == "" {
		return fmt.Errorf("CSV file path cannot be empty")
	}

	if c.Data.LoadTimeout <= 0 {
		return fmt.Errorf("CSV load timeout must be positive")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, c.Logger.Level) {
		return fmt.Errorf("invalid log level %q, must be one of: %s", c.Logger.Level, strings.Join(validLogLevels, ", "))
	}

	validLogFormats := []string{"json", "text"}
	if !slices.Contains(validLogFormats, c.Logger.Format) {
		return fmt.Errorf("invalid log format %q, must be one of: %s", c.Logger.Format, strings.Join(validLogFormats, ", "))
	}

	if c.Security.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit RPS must be positive")
	}

	if c.Security.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit burst must be positive")
	}

	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive when the cache is enabled")
	}

	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
