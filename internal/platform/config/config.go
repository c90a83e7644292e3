package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	stringutil "dossier/pkg/platform/strings"
)

// Config is the full service configuration. A TOML file named by
// DOSSIER_CONFIG is decoded first; environment variables override it.
type Config struct {
	Server   Server   `toml:"server"`
	Postgres Postgres `toml:"postgres"`
	Redis    Redis    `toml:"redis"`
	Kafka    Kafka    `toml:"kafka"`
	Rules    Rules    `toml:"rules"`
	Criteria Criteria `toml:"criteria"`
	LogLevel string   `toml:"log_level"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string   `toml:"addr"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
	ServiceID       string   `toml:"service_id"`
	ServiceName     string   `toml:"service_name"`
	ServiceVersion  string   `toml:"service_version"`
}

// Postgres selects the persistent stores. An empty DSN runs the service on
// in-memory stores.
type Postgres struct {
	DSN             string   `toml:"dsn"`
	MaxConns        int32    `toml:"max_conns"`
	ConnMaxLifetime Duration `toml:"conn_max_lifetime"`
}

type Redis struct {
	URL          string   `toml:"url"`
	PoolSize     int      `toml:"pool_size"`
	MinIdleConns int      `toml:"min_idle_conns"`
	DialTimeout  Duration `toml:"dial_timeout"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// Kafka configures the incident publisher. No brokers disables publishing.
type Kafka struct {
	Brokers           []string `toml:"brokers"`
	IncidentTopic     string   `toml:"incident_topic"`
	Partitions        int32    `toml:"partitions"`
	ReplicationFactor int16    `toml:"replication_factor"`
}

// Rules configures the rules repository.
type Rules struct {
	CacheTTL Duration `toml:"cache_ttl"`
	SeedFile string   `toml:"seed_file"`
}

// Criteria holds the numeric limits of coefficient validation.
type Criteria struct {
	CoefficientMin float64 `toml:"coefficient_min"`
	CoefficientMax float64 `toml:"coefficient_max"`
	CastLimit      float64 `toml:"cast_limit"`
}

// Duration wraps time.Duration for TOML parsing.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the development configuration.
func Default() Config {
	return Config{
		Server: Server{
			Addr:            ":8080",
			ShutdownTimeout: Duration{10 * time.Second},
			ServiceID:       "19",
			ServiceName:     "dossier",
			ServiceVersion:  "1.0.0",
		},
		Postgres: Postgres{MaxConns: 20, ConnMaxLifetime: Duration{time.Hour}},
		Redis: Redis{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  Duration{5 * time.Second},
			ReadTimeout:  Duration{3 * time.Second},
			WriteTimeout: Duration{3 * time.Second},
		},
		Kafka:    Kafka{IncidentTopic: "incidents", Partitions: 1, ReplicationFactor: 1},
		Rules:    Rules{CacheTTL: Duration{5 * time.Minute}},
		Criteria: Criteria{CoefficientMin: 0.01, CoefficientMax: 2, CastLimit: 0.8},
		LogLevel: "info",
	}
}

// FromEnv builds the configuration so main stays lean.
func FromEnv() (Config, error) {
	cfg := Default()
	if path := os.Getenv("DOSSIER_CONFIG"); path != "" {
		if err := Load(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	setString(&cfg.Server.Addr, "DOSSIER_ADDR")
	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setString(&cfg.Redis.URL, "REDIS_URL")
	setString(&cfg.Kafka.IncidentTopic, "KAFKA_INCIDENT_TOPIC")
	setString(&cfg.Rules.SeedFile, "DOSSIER_RULES_FILE")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	if brokers := stringutil.SplitList(os.Getenv("KAFKA_BROKERS"), ","); len(brokers) > 0 {
		cfg.Kafka.Brokers = brokers
	}
	if raw := os.Getenv("DOSSIER_RULES_CACHE_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse DOSSIER_RULES_CACHE_TTL: %w", err)
		}
		cfg.Rules.CacheTTL = Duration{ttl}
	}
	if raw := os.Getenv("DOSSIER_CAST_LIMIT"); raw != "" {
		limit, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parse DOSSIER_CAST_LIMIT: %w", err)
		}
		cfg.Criteria.CastLimit = limit
	}

	return cfg, cfg.Validate()
}

// Load decodes a TOML file over cfg.
func Load(path string, cfg *Config) error {
	if _, err := toml.DecodeFile(os.ExpandEnv(path), cfg); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

// Validate rejects configurations the service cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Criteria.CoefficientMin > c.Criteria.CoefficientMax {
		errs = append(errs, fmt.Errorf("criteria.coefficient_min %v exceeds coefficient_max %v",
			c.Criteria.CoefficientMin, c.Criteria.CoefficientMax))
	}
	if c.Criteria.CastLimit <= 0 || c.Criteria.CastLimit > 1 {
		errs = append(errs, fmt.Errorf("criteria.cast_limit %v must be in (0, 1]", c.Criteria.CastLimit))
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.IncidentTopic == "" {
		errs = append(errs, errors.New("kafka.incident_topic is required when brokers are set"))
	}
	return errors.Join(errs...)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
