package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/knawat/mp-go/pkg/httpclient"
	"github.com/knawat/mp-go/pkg/mp"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	ConsumerKey    string `mapstructure:"consumer_key"`
	ConsumerSecret string `mapstructure:"consumer_secret"`
	BaseURL        string `mapstructure:"base_url"`
	VerifySSL      bool   `mapstructure:"verify_ssl"`
	TimeoutSeconds int64  `mapstructure:"timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`
	StrictAuth     bool   `mapstructure:"strict_auth"`

	LogLevel       string `mapstructure:"log_level"`
	PublishersFile string `mapstructure:"publishers_file"`

	StorageType           string `mapstructure:"storage_type"`
	BBoltPath             string `mapstructure:"bbolt_path"`
	StorageTTLSeconds     int64  `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds int64  `mapstructure:"storage_cleanup_interval_seconds"`

	SyncPageSize        int   `mapstructure:"sync_page_size"`
	SyncIntervalSeconds int64 `mapstructure:"sync_interval_seconds"`

	Timeout                time.Duration `mapstructure:"-"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
	SyncInterval           time.Duration `mapstructure:"-"`
}

// Load reads configuration from configs/.env, an optional config file and KNAWAT_* environment variables.
func Load(file string) (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("consumer_key", "")
	v.SetDefault("consumer_secret", "")
	v.SetDefault("base_url", mp.DefaultBaseURL)
	v.SetDefault("verify_ssl", false)
	v.SetDefault("timeout_seconds", int64(httpclient.DefaultTimeout/time.Second))
	v.SetDefault("user_agent", httpclient.DefaultUserAgent)
	v.SetDefault("strict_auth", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/sync.db")
	v.SetDefault("storage_ttl_seconds", int64((5*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))
	v.SetDefault("sync_page_size", 25)
	v.SetDefault("sync_interval_seconds", 0)

	if file = strings.TrimSpace(file); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("KNAWAT")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	c.BaseURL = strings.TrimSpace(c.BaseURL)
	if c.BaseURL == "" {
		return fmt.Errorf("invalid base_url (must not be empty)")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base_url %q (must be an absolute http(s) url)", c.BaseURL)
	}
	// Request paths are appended to the base verbatim.
	if !strings.HasSuffix(c.BaseURL, "/") {
		c.BaseURL += "/"
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("invalid timeout_seconds (must be positive seconds)")
	}
	c.Timeout = time.Duration(c.TimeoutSeconds) * time.Second

	if c.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if c.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	c.StorageTTL = time.Duration(c.StorageTTLSeconds) * time.Second
	c.StorageCleanupInterval = time.Duration(c.StorageCleanupSeconds) * time.Second

	if c.SyncPageSize <= 0 {
		return fmt.Errorf("invalid sync_page_size (must be positive)")
	}
	if c.SyncIntervalSeconds < 0 {
		return fmt.Errorf("invalid sync_interval_seconds (must not be negative)")
	}
	c.SyncInterval = time.Duration(c.SyncIntervalSeconds) * time.Second
	return nil
}

// RequireCredentials reports an error when the consumer key or secret is missing.
func (c *Config) RequireCredentials() error {
	if strings.TrimSpace(c.ConsumerKey) == "" || strings.TrimSpace(c.ConsumerSecret) == "" {
		return fmt.Errorf("consumer_key and consumer_secret are required (set KNAWAT_CONSUMER_KEY and KNAWAT_CONSUMER_SECRET)")
	}
	return nil
}

// ClientOptions maps the transport settings to SDK options.
func (c *Config) ClientOptions() []httpclient.Option {
	return []httpclient.Option{
		httpclient.WithOptions(httpclient.Options{
			VerifySSL: c.VerifySSL,
			Timeout:   c.Timeout,
			UserAgent: c.UserAgent,
		}),
		httpclient.WithStrictAuth(c.StrictAuth),
	}
}

// String hides credentials when the config is logged.
func (c Config) String() string {
	return fmt.Sprintf("Config{base_url=%s verify_ssl=%t timeout=%s user_agent=%q strict_auth=%t log_level=%s consumer_key=%s}",
		c.BaseURL, c.VerifySSL, c.Timeout, c.UserAgent, c.StrictAuth, c.LogLevel, mask(c.ConsumerKey))
}

func mask(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", len(s)-4)
}
