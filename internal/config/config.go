// Package config loads application configuration from the environment,
// with an optional .env file layered underneath, via viper and godotenv.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/paiban/horario/pkg/tabu"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the application's full runtime configuration.
type Config struct {
	Env  string
	Port int

	Database DatabaseConfig
	Redis    RedisConfig
	Log      LogConfig
	Engine   EngineConfig
	Metrics  MetricsConfig
	Batch    BatchConfig
}

// DatabaseConfig configures the runs store (internal/store).
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns a lib/pq connection string.
func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + itoa(c.Port) +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" sslmode=" + c.SSLMode
}

// RedisConfig configures the internal/realtime progress fan-out.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port for go-redis.
func (c *RedisConfig) Addr() string {
	return c.Host + ":" + itoa(c.Port)
}

// LogConfig configures pkg/logger.
type LogConfig struct {
	Level  string
	Pretty bool
}

// EngineConfig is the default tabu.Config used when a solve request omits
// explicit search parameters.
type EngineConfig struct {
	MaxIterations       int
	TabuSize            int
	MaxImprovementStall int
	NeighborhoodSize    int
	Seed                int64
	Timeout             time.Duration
}

// MetricsConfig toggles the Prometheus /metrics endpoint.
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// BatchConfig configures cmd/batch's worker pool.
type BatchConfig struct {
	Workers int
}

// Load reads configuration from the environment (and a .env file, if
// present), applying defaults for anything unset.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{
		Env:  v.GetString("ENV"),
		Port: v.GetInt("PORT"),
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSL_MODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: parseDuration(v.GetString("DB_CONN_MAX_LIFETIME"), 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Pretty: v.GetBool("LOG_PRETTY"),
		},
		Engine: EngineConfig{
			MaxIterations:       v.GetInt("ENGINE_MAX_ITERATIONS"),
			TabuSize:            v.GetInt("ENGINE_TABU_SIZE"),
			MaxImprovementStall: v.GetInt("ENGINE_MAX_STALL"),
			NeighborhoodSize:    v.GetInt("ENGINE_NEIGHBORHOOD_SIZE"),
			Seed:                v.GetInt64("ENGINE_SEED"),
			Timeout:             parseDuration(v.GetString("ENGINE_TIMEOUT"), 30*time.Second),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
			Path:    v.GetString("METRICS_PATH"),
		},
		Batch: BatchConfig{
			Workers: v.GetInt("BATCH_WORKERS"),
		},
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 7020)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "horario")
	v.SetDefault("DB_PASSWORD", "horario")
	v.SetDefault("DB_NAME", "horario")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)

	v.SetDefault("ENGINE_MAX_ITERATIONS", 2000)
	v.SetDefault("ENGINE_TABU_SIZE", 50)
	v.SetDefault("ENGINE_MAX_STALL", 300)
	v.SetDefault("ENGINE_NEIGHBORHOOD_SIZE", 40)
	v.SetDefault("ENGINE_SEED", 0)
	v.SetDefault("ENGINE_TIMEOUT", "30s")

	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("METRICS_PATH", "/metrics")

	v.SetDefault("BATCH_WORKERS", 4)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

// ToTabuConfig converts the configured engine defaults to a tabu.Config.
func (c *EngineConfig) ToTabuConfig() tabu.Config {
	return tabu.Config{
		MaxIter:          c.MaxIterations,
		TabuSize:         c.TabuSize,
		Mejoras:          c.MaxImprovementStall,
		NeighborhoodSize: c.NeighborhoodSize,
		Seed:             c.Seed,
	}
}

// IsDevelopment reports whether the configured environment is development.
func (c *Config) IsDevelopment() bool { return c.Env == EnvDevelopment }

// IsProduction reports whether the configured environment is production.
func (c *Config) IsProduction() bool { return c.Env == EnvProduction }

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
