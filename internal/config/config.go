package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Configuration struct {
	Server    ServerConfig    `validate:"required"`
	Logging   LoggingConfig   `validate:"required"`
	Postgres  PostgresConfig  `validate:"required"`
	Redis     RedisConfig     `validate:"required"`
	Auth      AuthConfig      `validate:"required"`
	Webhook   WebhookConfig   `validate:"required"`
	Email     EmailConfig     `validate:"required"`
	Stripe    StripeConfig    `validate:"required"`
	RateLimit RateLimitConfig `validate:"required"`
	Cache     CacheConfig     `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level string `validate:"required"`
}

type PostgresConfig struct {
	Host                   string
	Port                   int
	User                   string
	Password               string
	DBName                 string
	SSLMode                string
	MaxOpenConns           int
	MaxIdleConns           int
	ConnMaxLifetimeMinutes int
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type AuthConfig struct {
	// APIKeys maps sha256(api key) -> owning tenant/user. Keys are loaded
	// from config and never stored in plain text.
	APIKeys map[string]APIKeyDetails
}

type APIKeyDetails struct {
	TenantID string
	UserID   string
}

type WebhookConfig struct {
	// NowPayIPNSecret is the shared secret used to verify the crypto
	// gateway's IPN signatures.
	NowPayIPNSecret string
	// NowPayAPIKey authenticates outbound status lookups against the
	// crypto gateway's REST API.
	NowPayAPIKey string
}

type EmailConfig struct {
	Enabled     bool
	APIKey      string
	FromAddress string
	ReplyTo     string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
}

type CacheConfig struct {
	Enabled bool
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/invomate")

	v.SetEnvPrefix("INVOMATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", "info")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.maxopenconns", 10)
	v.SetDefault("postgres.maxidleconns", 5)
	v.SetDefault("postgres.connmaxlifetimeminutes", 30)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.requests", 60)
	v.SetDefault("ratelimit.window", time.Minute)
	v.SetDefault("cache.enabled", true)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// and tests.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Server:    ServerConfig{Address: ":8080"},
		Logging:   LoggingConfig{Level: "debug"},
		Postgres:  PostgresConfig{Host: "localhost", Port: 5432, SSLMode: "disable"},
		Redis:     RedisConfig{Address: "localhost:6379"},
		Auth:      AuthConfig{APIKeys: map[string]APIKeyDetails{}},
		Webhook:   WebhookConfig{NowPayIPNSecret: "test-ipn-secret"},
		Email:     EmailConfig{Enabled: false},
		Stripe:    StripeConfig{},
		RateLimit: RateLimitConfig{Enabled: true, Requests: 60, Window: time.Minute},
		Cache:     CacheConfig{Enabled: true},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
