package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

const (
	// DialectSqlite is the embedded default database engine.
	DialectSqlite = "sqlite"
	// DialectPostgres is the optional external database engine.
	DialectPostgres = "postgres"

	// DefaultRetentionDays is how long cached bet events are kept.
	DefaultRetentionDays = 14
)

type Config struct {
	DBDialect     string // sqlite (default) or postgres
	DBDsn         string // file path for sqlite, DSN string for postgres
	RetentionDays int    // bet events older than this are purged
	RetentionCron string // cron schedule for the purge sweep
	LogLevel      string // logrus level name
	Debug         bool   // if true: show logs, no TUI; if false: no logs, show TUI
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// parseDatabaseURL interprets DATABASE_URL and returns (dialect, dsn).
// Supported schemes: postgres, postgresql, sqlite.
func parseDatabaseURL(databaseURL string) (string, string, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", "", err
	}
	scheme := strings.ToLower(u.Scheme)
	switch scheme {
	case DialectPostgres, "postgresql":
		// GORM postgres driver accepts URL DSN as-is
		return DialectPostgres, databaseURL, nil
	case DialectSqlite:
		return DialectSqlite, strings.TrimPrefix(databaseURL, "sqlite://"), nil
	default:
		return "", "", fmt.Errorf("unsupported DATABASE_URL scheme: %s", u.Scheme)
	}
}

func Load() Config {
	cfg := Config{
		DBDialect:     DialectSqlite,
		DBDsn:         getenv("DB_PATH", "validator.db"),
		RetentionDays: getenvInt("EVENT_RETENTION_DAYS", DefaultRetentionDays),
		RetentionCron: getenv("RETENTION_CRON", "@hourly"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		Debug:         getenvBool("DEBUG", false),
	}

	if dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL")); dbURL != "" {
		if dialect, dsn, err := parseDatabaseURL(dbURL); err == nil {
			cfg.DBDialect = dialect
			cfg.DBDsn = dsn
		} else {
			fmt.Fprintf(os.Stderr, "warning: invalid DATABASE_URL, keeping sqlite default: %v\n", err)
		}
	}

	return cfg
}

func (c Config) String() string {
	return fmt.Sprintf("db=%s retention=%dd", c.DBDialect, c.RetentionDays)
}

// DebugString returns a human-friendly configuration string with masked secrets.
func (c Config) DebugString() string {
	return fmt.Sprintf(
		"db=%s dsn=%s retention=%dd cron=%s log=%s",
		c.DBDialect,
		maskDSN(c.DBDialect, c.DBDsn),
		c.RetentionDays,
		c.RetentionCron,
		c.LogLevel,
	)
}

func maskDSN(dialect, dsn string) string {
	switch strings.ToLower(dialect) {
	case DialectPostgres:
		if u, err := url.Parse(dsn); err == nil && u.Scheme != "" {
			if u.User != nil {
				username := u.User.Username()
				u.User = url.User(username)
			}
			return u.String()
		}
		// Fallback for DSN as key-value list
		parts := strings.Fields(dsn)
		for i, p := range parts {
			lower := strings.ToLower(p)
			if strings.HasPrefix(lower, "password=") {
				parts[i] = "password=***"
			}
		}
		return strings.Join(parts, " ")
	default:
		return dsn
	}
}
