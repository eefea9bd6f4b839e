package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoDatabase means neither DATABASE_URL nor POSTGRES_USER is set. The
// server then runs without accounts and highscores.
var ErrNoDatabase = errors.New("no database configured")

type Database struct {
	Username string
	Password string
	Host     string
	Port     uint16
	DBName   string
	SSLMode  string
}

func required(key string) (string, error) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", fmt.Errorf("no %s env variable set", key)
	}
	return value, nil
}

func loadPassword() (string, error) {
	password, ok := os.LookupEnv("POSTGRES_PASSWORD")
	if ok {
		return password, nil
	}

	passwordFile, ok := os.LookupEnv("POSTGRES_PASSWORD_FILE")
	if !ok {
		return "", fmt.Errorf("no POSTGRES_PASSWORD or POSTGRES_PASSWORD_FILE env variable set")
	}

	data, err := os.ReadFile(passwordFile)
	if err != nil {
		return "", fmt.Errorf("unable to read from password file: %w", err)
	}

	return strings.TrimSpace(string(data)), nil
}

func NewDatabase() (*Database, error) {
	if _, ok := os.LookupEnv("POSTGRES_USER"); !ok {
		return nil, ErrNoDatabase
	}

	cfg := &Database{SSLMode: "disable"}
	var err error

	if cfg.Username, err = required("POSTGRES_USER"); err != nil {
		return nil, err
	}
	if cfg.Password, err = loadPassword(); err != nil {
		return nil, fmt.Errorf("unable to load password: %w", err)
	}
	if cfg.Host, err = required("POSTGRES_HOST"); err != nil {
		return nil, err
	}

	portStr, err := required("POSTGRES_PORT")
	if err != nil {
		return nil, err
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("unable to convert port to int: %w", err)
	}
	cfg.Port = uint16(port)

	if cfg.DBName, err = required("POSTGRES_DB"); err != nil {
		return nil, err
	}
	if sslMode, ok := os.LookupEnv("POSTGRES_SSLMODE"); ok {
		cfg.SSLMode = sslMode
	}

	return cfg, nil
}

func (c Database) URL() string {
	u := url.URL{
		Scheme:   "postgresql",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

// DbURL prefers DATABASE_URL and falls back to the POSTGRES_* variables.
func DbURL() (string, error) {
	if dbURL, ok := os.LookupEnv("DATABASE_URL"); ok {
		return dbURL, nil
	}

	cfg, err := NewDatabase()
	if err != nil {
		return "", err
	}
	return cfg.URL(), nil
}

func NewPgxpoolConfig() (*pgxpool.Config, error) {
	dbURL, err := DbURL()
	if err != nil {
		return nil, err
	}
	return pgxpool.ParseConfig(dbURL)
}
