package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EmailProviderLog = "log"
	EmailProviderSES = "ses"
)

type AppConfig struct {
	Environment     string        `yaml:"environment"`
	Port            int           `yaml:"port"`
	BaseURL         string        `yaml:"base_url"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	File          string `yaml:"file"`
	PoolSize      int    `yaml:"pool_size"`
	MigrationsDir string `yaml:"migrations_dir"`
}

type SessionConfig struct {
	CookieName string        `yaml:"cookie_name"`
	Lifetime   time.Duration `yaml:"lifetime"`
	Secure     bool          `yaml:"secure"`
}

type EmailConfig struct {
	Provider string `yaml:"provider"`
	From     string `yaml:"from"`
	Region   string `yaml:"region"`
	// Loaded from environment
	AccessKeyID     string `yaml:"-"`
	SecretAccessKey string `yaml:"-"`
}

type StorageConfig struct {
	Bucket        string `yaml:"bucket"`
	Region        string `yaml:"region"`
	Endpoint      string `yaml:"endpoint"`
	PublicBaseURL string `yaml:"public_base_url"`
	// Loaded from environment
	AccessKeyID     string `yaml:"-"`
	SecretAccessKey string `yaml:"-"`
}

// Enabled reports whether league logo uploads can be served.
func (s StorageConfig) Enabled() bool {
	return s.Bucket != "" && s.AccessKeyID != "" && s.SecretAccessKey != ""
}

type OAuthProvider struct {
	Key    string `yaml:"-"`
	Secret string `yaml:"-"`
}

type OAuthConfig struct {
	CallbackBaseURL string        `yaml:"callback_base_url"`
	Google          OAuthProvider `yaml:"-"`
	Discord         OAuthProvider `yaml:"-"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type CleanupConfig struct {
	Interval time.Duration `yaml:"interval"`
}

type Config struct {
	App       AppConfig       `yaml:"app"`
	Database  DatabaseConfig  `yaml:"database"`
	Session   SessionConfig   `yaml:"session"`
	Email     EmailConfig     `yaml:"email"`
	Storage   StorageConfig   `yaml:"storage"`
	OAuth     OAuthConfig     `yaml:"oauth"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Cleanup   CleanupConfig   `yaml:"cleanup"`
}

// Default returns the configuration used for any value the YAML file leaves out.
func Default() Config {
	return Config{
		App: AppConfig{
			Environment:     "development",
			Port:            3000,
			BaseURL:         "http://localhost:3000",
			RequestTimeout:  10 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			File:          "tennis_leagues.db",
			PoolSize:      5,
			MigrationsDir: "migrations",
		},
		Session: SessionConfig{
			CookieName: "session-key",
			Lifetime:   1000 * 24 * time.Hour,
		},
		Email: EmailConfig{
			Provider: EmailProviderLog,
			From:     "registration@tld.com",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 1,
			Burst:             10,
		},
		Cleanup: CleanupConfig{
			Interval: time.Hour,
		},
	}
}

// Load reads the optional .env next to configPath, then the YAML file itself, then the
// secrets that only ever come from the environment. A missing YAML file leaves the defaults.
func Load(configPath string) (*Config, error) {
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := Default()

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if port, ok := os.LookupEnv("PORT"); ok {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid PORT environment variable: %w", err)
		}
		c.App.Port = p
	}
	if env, ok := os.LookupEnv("ENVIRONMENT"); ok {
		c.App.Environment = env
	}
	if file, ok := os.LookupEnv("DATABASE_FILE"); ok {
		c.Database.File = file
	}

	c.Email.AccessKeyID = os.Getenv("SES_ACCESS_KEY_ID")
	c.Email.SecretAccessKey = os.Getenv("SES_SECRET_ACCESS_KEY")
	c.Storage.AccessKeyID = os.Getenv("S3_ACCESS_KEY_ID")
	c.Storage.SecretAccessKey = os.Getenv("S3_SECRET_ACCESS_KEY")

	c.OAuth.Google = OAuthProvider{Key: os.Getenv("GOOGLE_KEY"), Secret: os.Getenv("GOOGLE_SECRET")}
	c.OAuth.Discord = OAuthProvider{Key: os.Getenv("DISCORD_KEY"), Secret: os.Getenv("DISCORD_SECRET")}
	return nil
}

func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("app port must be between 1 and 65535, got %d", c.App.Port)
	}
	if c.App.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if c.Database.File == "" {
		return fmt.Errorf("database file is required")
	}
	if c.Database.PoolSize <= 0 {
		return fmt.Errorf("database pool size must be positive")
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("session cookie name is required")
	}
	if c.Session.Lifetime <= 0 {
		return fmt.Errorf("session lifetime must be positive")
	}

	switch c.Email.Provider {
	case EmailProviderLog:
	case EmailProviderSES:
		if c.Email.Region == "" {
			return fmt.Errorf("email region is required for ses")
		}
		if c.Email.AccessKeyID == "" || c.Email.SecretAccessKey == "" {
			return fmt.Errorf("SES_ACCESS_KEY_ID and SES_SECRET_ACCESS_KEY are required for ses")
		}
	default:
		return fmt.Errorf("unsupported email provider: %s", c.Email.Provider)
	}
	if c.Email.From == "" {
		return fmt.Errorf("email from address is required")
	}

	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit must allow at least one request")
	}
	if c.Cleanup.Interval <= 0 {
		return fmt.Errorf("cleanup interval must be positive")
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}
