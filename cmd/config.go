package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPPort string `validate:"required,numeric"`

	DBDriver   string `validate:"oneof=postgres sqlite"`
	DBHost     string `validate:"required_if=DBDriver postgres"`
	DBPort     string `validate:"required_if=DBDriver postgres"`
	DBUser     string
	DBPassword string
	DBName     string `validate:"required_if=DBDriver postgres"`
	DBSslMode  string
	SQLitePath string `validate:"required_if=DBDriver sqlite"`

	Dispatch     DispatchConfig
	StoreTimeout time.Duration `validate:"gt=0"`

	KafkaHost              string
	KafkaOrderChangedTopic string `validate:"required_with=KafkaHost"`

	RedisAddr string
	LockTTL   time.Duration `validate:"gt=0"`

	LogLevel        string
	TracingExporter string `validate:"oneof=none stdout"`
}

// DispatchConfig is the dispatch policy. It can be overlaid from the YAML
// file named by DISPATCH_CONFIG_FILE.
type DispatchConfig struct {
	Interval            time.Duration `yaml:"interval" validate:"gt=0"`
	GracePeriod         time.Duration `yaml:"grace_period" validate:"gte=0"`
	BatchWindow         time.Duration `yaml:"batch_window" validate:"gte=0"`
	RadiusKm            float64       `yaml:"radius_km" validate:"gt=0"`
	CapacityThresholdKg float64       `yaml:"capacity_threshold_kg" validate:"gt=0"`
}

// LoadConfig reads .env when present, then the process environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return ConfigFromEnv(os.LookupEnv)
}

// ConfigFromEnv builds and validates a Config from lookup.
func ConfigFromEnv(lookup func(string) (string, bool)) (Config, error) {
	env := envReader{lookup: lookup}

	cfg := Config{
		HTTPPort:   env.get("HTTP_PORT", "8082"),
		DBDriver:   env.get("DB_DRIVER", postgres.DriverPostgres),
		DBHost:     env.get("DB_HOST", ""),
		DBPort:     env.get("DB_PORT", "5432"),
		DBUser:     env.get("DB_USER", ""),
		DBPassword: env.get("DB_PASSWORD", ""),
		DBName:     env.get("DB_NAME", ""),
		DBSslMode:  env.get("DB_SSLMODE", "disable"),
		SQLitePath: env.get("SQLITE_PATH", "dispatch.db"),
		Dispatch:   DispatchConfig{
			Interval:            env.duration("DISPATCH_INTERVAL", 10*time.Second),
			GracePeriod:         env.duration("DISPATCH_GRACE_PERIOD", services.DefaultGracePeriod),
			BatchWindow:         env.duration("DISPATCH_BATCH_WINDOW", services.DefaultBatchWindow),
			RadiusKm:            env.number("DISPATCH_RADIUS_KM", services.DefaultRadiusKm),
			CapacityThresholdKg: env.number("DISPATCH_CAPACITY_THRESHOLD_KG", kernel.DefaultCapacityThresholdKg),
		},
		StoreTimeout:           env.duration("STORE_TIMEOUT", 5*time.Second),
		KafkaHost:              env.get("KAFKA_HOST", ""),
		KafkaOrderChangedTopic: env.get("KAFKA_ORDER_CHANGED_TOPIC", "order.changed"),
		RedisAddr:              env.get("REDIS_ADDR", ""),
		LockTTL:                env.duration("DISPATCH_LOCK_TTL", 30*time.Second),
		LogLevel:               env.get("LOG_LEVEL", "info"),
		TracingExporter:        env.get("TRACING_EXPORTER", "none"),
	}
	if err := errors.Join(env.errs...); err != nil {
		return Config{}, err
	}

	if path := env.get("DISPATCH_CONFIG_FILE", ""); path != "" {
		if err := overlayDispatch(path, &cfg.Dispatch); err != nil {
			return Config{}, err
		}
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Connection selects the store the service runs on.
func (c Config) Connection() postgres.ConnectionConfig {
	if c.DBDriver == postgres.DriverSQLite {
		return postgres.ConnectionConfig{
			Driver: postgres.DriverSQLite,
			DSN:    fmt.Sprintf("file:%s?_busy_timeout=5000", c.SQLitePath),
		}
	}
	return postgres.ConnectionConfig{
		Driver:       postgres.DriverPostgres,
		DSN:          postgres.PostgresDSN(c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode),
		MaxOpenConns: 10,
	}
}

// overlayDispatch replaces the dispatch settings present in the file and
// keeps the others.
func overlayDispatch(path string, dst *DispatchConfig) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read dispatch config: %w", err)
	}

	doc := struct {
		Dispatch *DispatchConfig `yaml:"dispatch"`
	}{Dispatch: dst}

	if err = yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse dispatch config %s: %w", path, err)
	}
	return nil
}

type envReader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (r *envReader) get(key, fallback string) string {
	if v, ok := r.lookup(key); ok && v != "" {
		return v
	}
	return fallback
}

func (r *envReader) duration(key string, fallback time.Duration) time.Duration {
	v, ok := r.lookup(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}

func (r *envReader) number(key string, fallback float64) float64 {
	v, ok := r.lookup(key)
	if !ok || v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return f
}
