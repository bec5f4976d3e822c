// Package sqlstore implements the repositories on top of database/sql for
// MySQL and PostgreSQL.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultRetries    = 10
	defaultRetryDelay = 3 * time.Second
)

// Config captures the settings needed to open a relational database.
type Config struct {
	Driver   string // mysql | postgres
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string

	Retries    int
	RetryDelay time.Duration
}

// DSN renders the driver specific connection string.
func (c Config) DSN() (string, error) {
	switch c.Driver {
	case MySQL.name:
		mc := mysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
		mc.DBName = c.Name
		mc.ParseTime = true
		return mc.FormatDSN(), nil
	case Postgres.name:
		sslmode := c.SSLMode
		if sslmode == "" {
			sslmode = "disable"
		}
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.Name, sslmode,
		), nil
	default:
		return "", fmt.Errorf("sqlstore: unsupported driver %q", c.Driver)
	}
}

// Connect opens the database and pings it, retrying while the server comes
// up. It gives up after cfg.Retries attempts or when ctx is done.
func Connect(ctx context.Context, cfg Config, logger zerolog.Logger) (*sql.DB, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	retries := cfg.Retries
	if retries <= 0 {
		retries = defaultRetries
	}
	delay := cfg.RetryDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore open: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	for attempt := 1; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
		err = db.PingContext(pingCtx)
		cancel()
		if err == nil {
			logger.Info().Str("driver", cfg.Driver).Str("host", cfg.Host).Str("db", cfg.Name).Msg("database connected")
			return db, nil
		}
		if attempt >= retries {
			break
		}

		logger.Warn().Err(err).Int("attempt", attempt).Str("driver", cfg.Driver).Msg("database not ready, retrying")
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, fmt.Errorf("sqlstore ping: %w", ctx.Err())
		case <-time.After(delay):
		}
	}

	_ = db.Close()
	return nil, fmt.Errorf("sqlstore ping %s at %s:%d after %d attempts: %w", cfg.Name, cfg.Host, cfg.Port, retries, err)
}

// Store bundles the SQL repositories over one connection pool.
type Store struct {
	db    *sql.DB
	Users *UserRepository
	Tasks *TaskRepository
}

func New(db *sql.DB, d Dialect) *Store {
	return &Store{
		db:    db,
		Users: NewUserRepository(db, d),
		Tasks: NewTaskRepository(db, d),
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close(context.Context) error {
	return s.db.Close()
}
