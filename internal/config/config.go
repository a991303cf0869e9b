package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// DevJWTSecretKey is only acceptable outside production.
	DevJWTSecretKey = "your-secret-key-change-in-production"

	StoreDriverMongo    = "mongo"
	StoreDriverPostgres = "postgres"

	DefaultListLimit = 100
)

var ErrInsecureSecret = errors.New("jwt secret key must be set in production")

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// store
	StoreDriver    string `toml:"store_driver"`
	MongoURI       string `toml:"mongo_uri"`
	MongoDB        string `toml:"mongo_db"`
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`

	// redis, used for rate limiting; empty host means in-process limiting
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	HoneycombEnabled      bool   `toml:"honeycomb_enabled"`

	// auth
	TokenTTL                   Duration `toml:"token_ttl"`
	AuthRateLimitAllowedPerMin int      `toml:"auth_rate_limit_allowed_per_min"`
	CorsAllowedOrigins         []string `toml:"cors_allowed_origins"`
	ListLimit                  int      `toml:"list_limit"`

	// secrets, never read from the TOML file
	JWTSecretKey     string `toml:"-"`
	RedisPassword    string `toml:"-"`
	PostgresPassword string `toml:"-"`
	SentryDSN        string `toml:"-"`
}

// Duration lets TOML values like "168h" decode into a time.Duration.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		if t.Development == nil {
			return nil, fmt.Errorf("missing [development] section")
		}
		t.Development.Environment = "development"
		return t.Development, nil
	case "prod", "production":
		if t.Production == nil {
			return nil, fmt.Errorf("missing [production] section")
		}
		t.Production.Environment = "production"
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Development returns the built-in defaults used when no config file exists.
func Development() *Config {
	return &Config{
		Environment:                "development",
		Host:                       "localhost",
		Port:                       8000,
		LogLevel:                   "debug",
		LogToStdout:                true,
		StoreDriver:                StoreDriverMongo,
		MongoURI:                   "mongodb://localhost:27017",
		MongoDB:                    "fitness",
		PostgresHost:               "localhost",
		PostgresPort:               "5432",
		PostgresDBName:             "fitness",
		PrometheusMetricsHost:      "localhost",
		PrometheusMetricsPort:      "2112",
		TokenTTL:                   Duration{7 * 24 * time.Hour},
		AuthRateLimitAllowedPerMin: 15,
		CorsAllowedOrigins:         []string{"*"},
		ListLimit:                  DefaultListLimit,
	}
}

// Load reads the env section of the TOML file at path, then applies the
// environment variable overrides. A missing file yields development defaults.
func Load(env, path string) (*Config, error) {
	cfg, err := read(env, path)
	if err != nil {
		return nil, err
	}

	applyEnv(cfg, os.LookupEnv)
	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func read(env, path string) (*Config, error) {
	if path == "" {
		return devOnly(env)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return devOnly(env)
	}

	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return t.Get(env)
}

func devOnly(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return Development(), nil
	default:
		return nil, fmt.Errorf("config file is required in env [%s]", env)
	}
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup("JWT_SECRET_KEY"); ok {
		cfg.JWTSecretKey = v
	}
	if v, ok := lookup("MONGODB_URI"); ok && v != "" {
		cfg.MongoURI = v
	}
	if v, ok := lookup("MONGODB_DB"); ok && v != "" {
		cfg.MongoDB = v
	}
	if v, ok := lookup("FITNESS_STORE_DRIVER"); ok && v != "" {
		cfg.StoreDriver = v
	}
	if v, ok := lookup("FITNESS_REDIS_PASS"); ok {
		cfg.RedisPassword = v
	}
	if v, ok := lookup("FITNESS_POSTGRES_PASS"); ok {
		cfg.PostgresPassword = v
	}
	if v, ok := lookup("SENTRY_DSN"); ok {
		cfg.SentryDSN = v
	}
	if v, ok := lookup("HONEYCOMB_ENABLED"); ok {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.HoneycombEnabled = enabled
		}
	}
}

func (c *Config) fillDefaults() {
	def := Development()
	if c.JWTSecretKey == "" && c.Environment != "production" {
		c.JWTSecretKey = DevJWTSecretKey
	}
	if c.StoreDriver == "" {
		c.StoreDriver = def.StoreDriver
	}
	if c.MongoURI == "" {
		c.MongoURI = def.MongoURI
	}
	if c.MongoDB == "" {
		c.MongoDB = def.MongoDB
	}
	if c.TokenTTL.Duration <= 0 {
		c.TokenTTL = def.TokenTTL
	}
	if c.ListLimit <= 0 {
		c.ListLimit = def.ListLimit
	}
	if c.AuthRateLimitAllowedPerMin <= 0 {
		c.AuthRateLimitAllowedPerMin = def.AuthRateLimitAllowedPerMin
	}
}

func (c *Config) Validate() error {
	if c.Environment == "production" && (c.JWTSecretKey == "" || c.JWTSecretKey == DevJWTSecretKey) {
		return ErrInsecureSecret
	}
	switch c.StoreDriver {
	case StoreDriverMongo, StoreDriverPostgres:
	default:
		return fmt.Errorf("unknown store driver: %s", c.StoreDriver)
	}
	if c.Port <= 0 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	return nil
}
