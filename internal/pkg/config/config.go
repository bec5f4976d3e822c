package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	Auth    AuthConfig
	HTTP    HTTPConfig
	Storage StorageConfig
	Mongo   MongoConfig
	Redis   RedisConfig
	Events  EventsConfig
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET"`
	TokenTTL   time.Duration `env:"JWT_TTL,       default=24h"`
	BcryptCost int           `env:"BCRYPT_COST,   default=10"`
	Required   bool          `env:"AUTH_REQUIRED, default=true"`
}

// HTTPConfig covers CORS and rate limiting. The task routes have their own
// origin list because the browser client calls them with credentials, which
// rules out a wildcard origin.
type HTTPConfig struct {
	CORSOrigins          []string `env:"CORS_ORIGINS,           default=*"`
	TaskCORSOrigins      []string `env:"TASK_CORS_ORIGINS,      default=http://localhost:4321"`
	CORSAllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS, default=true"`
	RateLimitRPS         float64  `env:"RATE_LIMIT_RPS,         default=5"`
	RateLimitBurst       int      `env:"RATE_LIMIT_BURST,       default=10"`
}

// StorageConfig selects the persistence driver. The DB_* keys are only read
// by the mysql and postgres drivers.
type StorageConfig struct {
	Driver   string `env:"STORAGE_DRIVER, default=memory"`
	Host     string `env:"DB_HOST,        default=localhost"`
	Port     int    `env:"DB_PORT"`
	User     string `env:"DB_USER,        default=tasks"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME,        default=task_system"`
	SSLMode  string `env:"DB_SSLMODE,     default=disable"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=task_system"`
}

// RedisConfig is optional. An empty Addr keeps token revocations in memory.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// EventsConfig is optional. Without brokers task events go to the log.
type EventsConfig struct {
	KafkaBrokers []string `env:"KAFKA_BROKERS"`
	KafkaTopic   string   `env:"KAFKA_TOPIC,   default=task-events"`
	Workers      int      `env:"EVENT_WORKERS, default=4"`
}

// Load reads a .env file from the working directory when one exists, then
// resolves configuration from the environment. Variables already set in the
// environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return LoadFrom(context.Background(), envconfig.OsLookuper())
}

// LoadFrom resolves configuration from an arbitrary lookuper.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if cfg.Storage.Port == 0 {
		cfg.Storage.Port = defaultPort(cfg.Storage.Driver)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment reports whether ENV is development.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverMySQL, DriverPostgres, DriverMongo:
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Auth.JWTSecret == "" && !c.IsDevelopment() {
		return errors.New("config: JWT_SECRET is required outside development")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("config: JWT_TTL must be positive")
	}
	if c.HTTP.CORSAllowCredentials {
		if len(c.HTTP.TaskCORSOrigins) == 0 {
			return errors.New("config: TASK_CORS_ORIGINS is required when CORS_ALLOW_CREDENTIALS is true")
		}
		for _, o := range c.HTTP.TaskCORSOrigins {
			if o == "*" {
				return errors.New("config: TASK_CORS_ORIGINS cannot be * when CORS_ALLOW_CREDENTIALS is true")
			}
		}
	}
	if c.Events.Workers <= 0 {
		return errors.New("config: EVENT_WORKERS must be positive")
	}
	return nil
}

func defaultPort(driver string) int {
	switch driver {
	case DriverMySQL:
		return 3306
	case DriverPostgres:
		return 5432
	default:
		return 0
	}
}
