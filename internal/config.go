package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	PlanStoreContentful = "contentful"
	PlanStorePostgres   = "postgres"
)

type Config struct {
	Env           string              `mapstructure:"env"`
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	PlanStore     PlanStoreConfig     `mapstructure:"plan_store"`
	Contentful    ContentfulConfig    `mapstructure:"contentful"`
	Coupon        CouponConfig        `mapstructure:"coupon"`
	Gateway       GatewayConfig       `mapstructure:"gateway"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ValidateRequests  bool          `mapstructure:"validate_requests"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Source          string        `mapstructure:"source"`
}

type PlanStoreConfig struct {
	Driver  string        `mapstructure:"driver"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type ContentfulConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	SpaceID     string `mapstructure:"space_id"`
	Environment string `mapstructure:"environment"`
	AccessToken string `mapstructure:"access_token"`
}

type CouponConfig struct {
	DefaultEndpoint string        `mapstructure:"default_endpoint"`
	AllowedHosts    []string      `mapstructure:"allowed_hosts"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// GatewayConfig holds the process-wide gateway credentials used when a plan
// does not carry its own.
type GatewayConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	SecretKey string        `mapstructure:"secret_key"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ----------------- ENV -----------------

// LoadConfigFromEnv builds the config for container deployments where no
// config file is mounted.
func LoadConfigFromEnv() *Config {
	cfg := &Config{
		Env: getEnv("APP_ENV", "production"),
		Server: ServerConfig{
			Port:              getEnvAsInt("HTTP_PORT", 8080),
			BaseURL:           getEnv("HTTP_BASE_URL", ""),
			AllowedOrigins:    getEnv("HTTP_ALLOWED_ORIGINS", "*"),
			ValidateRequests:  getEnvAsBool("HTTP_VALIDATE_REQUESTS", true),
			ReadHeaderTimeout: getEnvAsDuration("HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			WriteTimeout:      getEnvAsDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
			Source:          getEnv("DATABASE_URL", ""),
		},
		PlanStore: PlanStoreConfig{
			Driver:  getEnv("PLAN_STORE_DRIVER", PlanStoreContentful),
			Timeout: getEnvAsDuration("PLAN_STORE_TIMEOUT", 5*time.Second),
		},
		Contentful: ContentfulConfig{
			BaseURL:     getEnv("CONTENTFUL_BASE_URL", "https://cdn.contentful.com"),
			SpaceID:     getEnv("CONTENTFUL_SPACE_ID", ""),
			Environment: getEnv("CONTENTFUL_ENVIRONMENT", "master"),
			AccessToken: getEnv("CONTENTFUL_ACCESS_TOKEN", ""),
		},
		Coupon: CouponConfig{
			DefaultEndpoint: getEnv("COUPONS_ENDPOINT", ""),
			AllowedHosts:    getEnvAsList("COUPONS_ALLOWED_HOSTS"),
			Timeout:         getEnvAsDuration("COUPONS_TIMEOUT", 5*time.Second),
		},
		Gateway: GatewayConfig{
			APIKey:    getEnv("DLOCAL_API_KEY", ""),
			SecretKey: getEnv("DLOCAL_SECRET_KEY", ""),
			Timeout:   getEnvAsDuration("GATEWAY_TIMEOUT", 10*time.Second),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero values that have a sensible default. Called after
// both the file and the env loaders.
func (c *Config) ApplyDefaults() {
	if c.Env == "" {
		c.Env = "development"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.PlanStore.Driver == "" {
		c.PlanStore.Driver = PlanStoreContentful
	}
	if c.PlanStore.Timeout <= 0 {
		c.PlanStore.Timeout = 5 * time.Second
	}
	if c.Contentful.BaseURL == "" {
		c.Contentful.BaseURL = "https://cdn.contentful.com"
	}
	if c.Contentful.Environment == "" {
		c.Contentful.Environment = "master"
	}
	if c.Coupon.Timeout <= 0 {
		c.Coupon.Timeout = 5 * time.Second
	}
	if c.Gateway.Timeout <= 0 {
		c.Gateway.Timeout = 10 * time.Second
	}
	// the gateway fallback tier keeps honouring the legacy variables
	if c.Gateway.APIKey == "" {
		c.Gateway.APIKey = os.Getenv("DLOCAL_API_KEY")
	}
	if c.Gateway.SecretKey == "" {
		c.Gateway.SecretKey = os.Getenv("DLOCAL_SECRET_KEY")
	}
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	switch c.PlanStore.Driver {
	case PlanStoreContentful:
		if err := c.Contentful.Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("contentful config: %v", err))
		}
	case PlanStorePostgres:
		if err := c.Database.Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("database config: %v", err))
		}
	default:
		errs = append(errs, fmt.Sprintf("plan_store config: unknown driver %q", c.PlanStore.Driver))
	}

	if err := c.Coupon.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("coupon config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *ContentfulConfig) Validate() error {
	if c.SpaceID == "" {
		return errors.New("space_id is required")
	}
	if c.AccessToken == "" {
		return errors.New("access_token is required")
	}
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	return nil
}

func (c *CouponConfig) Validate() error {
	if c.DefaultEndpoint == "" {
		return nil
	}
	u, err := url.Parse(c.DefaultEndpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid default_endpoint %q", c.DefaultEndpoint)
	}
	return nil
}
