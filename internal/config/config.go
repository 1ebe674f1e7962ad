package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName     string
	Environment string
	HTTP        HTTPConfig
	Store       StoreConfig
	Mongo       MongoConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Cache       CacheConfig
	JWT         JWTConfig
	Buffer      BufferConfig
	Monitor     MonitorConfig
	Context     ContextConfig
	Logger      LoggerConfig
	Migrations  MigrationsConfig
}

type HTTPConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	MaxConn      int
}

// StoreConfig selects the document store backend.
type StoreConfig struct {
	Driver string
	// StrictMissing makes updates of unknown ids fail with NOT_FOUND instead of echoing the input.
	StrictMissing bool
}

type MongoConfig struct {
	URI      string
	Database string
}

type DatabaseConfig struct {
	URL             string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
	SSLMode         string
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

type CacheConfig struct {
	Driver   string
	Prefix   string
	ShortTTL time.Duration
	LongTTL  time.Duration
}

type JWTConfig struct {
	Secret string
	Issuer string
}

type BufferConfig struct {
	Enabled         bool
	Path            string
	Retention       time.Duration
	SyncInterval    time.Duration
	CleanupInterval time.Duration
	BatchSize       int
	MaxRetry        int
}

type MonitorConfig struct {
	Interval time.Duration
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type MigrationsConfig struct {
	Enabled bool
	Path    string
}

// Load reads configuration from environment variables (optionally .env)
// and applies defaults so the service can boot in any environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "tracker"),
		Environment: getString("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Host:         getString("SERVER_HOST", "0.0.0.0"),
			Port:         getString("SERVER_PORT", "8080"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			MaxConn:      getInt("SERVER_MAX_CONN", 0),
		},
		Store: StoreConfig{
			Driver:        strings.ToLower(getString("STORE_DRIVER", StoreMongo)),
			StrictMissing: getBool("STORE_STRICT_MISSING", false),
		},
		Mongo: MongoConfig{
			URI:      getString("MONGO_URI", "mongodb://localhost:27017"),
			Database: getString("MONGO_DATABASE", "articlesdb"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			Host:            getString("DB_HOST", "localhost"),
			Port:            getString("DB_PORT", "5432"),
			Name:            getString("DB_NAME", "tracker"),
			User:            getString("DB_USER", "tracker"),
			Password:        os.Getenv("DB_PASSWORD"),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 10),
			MaxConnLifetime: getDuration("DB_CONN_LIFETIME", time.Hour),
			SSLMode:         getString("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getString("REDIS_URL", "redis://localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
		},
		Cache: CacheConfig{
			Driver:   strings.ToLower(getString("CACHE_DRIVER", CacheMemory)),
			Prefix:   getString("CACHE_PREFIX", "tracker:cache:"),
			ShortTTL: getDuration("CACHE_TTL_SHORT", time.Minute),
			LongTTL:  getDuration("CACHE_TTL_LONG", 24*time.Hour),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			Issuer: getString("JWT_ISSUER", "tracker"),
		},
		Buffer: BufferConfig{
			Enabled:         getBool("BUFFER_ENABLED", true),
			Path:            getString("BOLTDB_PATH", "./data/buffer.db"),
			Retention:       getDuration("BUFFER_RETENTION", 72*time.Hour),
			SyncInterval:    getDuration("SYNC_INTERVAL_SECONDS", 30*time.Second),
			CleanupInterval: getDuration("BUFFER_CLEANUP_INTERVAL", time.Hour),
			BatchSize:       getInt("BUFFER_BATCH_SIZE", 50),
			MaxRetry:        getInt("MAX_RETRY_ATTEMPTS", 3),
		},
		Monitor: MonitorConfig{
			Interval: getDuration("MONITOR_INTERVAL", 10*time.Second),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 5*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
		Migrations: MigrationsConfig{
			Enabled: getBool("RUN_MIGRATIONS", true),
			Path:    getString("MIGRATIONS_PATH", "./assets/migrations"),
		},
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = buildPostgresURL(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Validate rejects driver names the server cannot wire and an unset JWT secret.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreMongo, StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("config: unsupported STORE_DRIVER %q", c.Store.Driver)
	}
	switch c.Cache.Driver {
	case CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("config: unsupported CACHE_DRIVER %q", c.Cache.Driver)
	}
	if c.JWT.Secret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	return nil
}

func buildPostgresURL(cfg *Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
