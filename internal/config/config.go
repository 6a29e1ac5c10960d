// Package config loads the service configuration from a YAML file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

type Config struct {
	Env        string `yaml:"env" validate:"oneof=dev stage prod"`
	LogLevel   string `yaml:"log_level" validate:"oneof=debug info warn error"`
	Storage    string `yaml:"storage" validate:"oneof=postgres sqlite"`
	Shortlink  `yaml:"shortlink"`
	HTTPServer `yaml:"http_server"`
	Postgres   `yaml:"postgres"`
	SQLite     `yaml:"sqlite"`
}

// SlogLevel maps LogLevel onto slog levels, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type Shortlink struct {
	Alphabet        string `yaml:"alphabet" validate:"required,alphanum"`
	ShortCodeLength int    `yaml:"short_code_length" validate:"gt=0,lte=32"`
	AdminKeyLength  int    `yaml:"admin_key_length" validate:"gt=0"`
	MaxRetries      int    `yaml:"max_retries" validate:"gt=0"`
}

var defaultShortlink = Shortlink{
	Alphabet:        "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz",
	ShortCodeLength: 6,
	AdminKeyLength:  16,
	MaxRetries:      5,
}

type RateLimit struct {
	Requests int           `yaml:"requests" validate:"gte=0"`
	Window   time.Duration `yaml:"window" validate:"gte=0"`
}

type HTTPServer struct {
	Port            int           `yaml:"port" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes"`
	CertFile        string        `yaml:"cert_file"`
	KeyFile         string        `yaml:"key_file"`
	RootPath        string        `yaml:"root_path" validate:"omitempty,startswith=/"`
	BaseURL         string        `yaml:"base_url" validate:"required,url"`
	RateLimit       RateLimit     `yaml:"rate_limit"`
}

var defaultHTTPServer = HTTPServer{
	Port:            8080,
	ReadTimeout:     5 * time.Second,
	WriteTimeout:    10 * time.Second,
	IdleTimeout:     time.Minute,
	ShutdownTimeout: 10 * time.Second,
	MaxHeaderBytes:  1 << 20,
	BaseURL:         "http://localhost:8080",
	RateLimit: RateLimit{
		Requests: 1,
		Window:   time.Second,
	},
}

func (s *HTTPServer) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type Postgres struct {
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	DB              string        `yaml:"db"`
	SSLMode         string        `yaml:"sslmode"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
}

var defaultPostgres = Postgres{
	Host:            "localhost",
	Port:            5432,
	SSLMode:         "disable",
	ConnMaxIdleTime: 5 * time.Minute,
	ConnMaxLifetime: 30 * time.Minute,
	MaxIdleConns:    5,
	MaxOpenConns:    25,
}

// DSN is understood by both the pgx driver and the postgres migration driver.
func (p *Postgres) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DB, p.SSLMode)
}

type SQLite struct {
	Path string `yaml:"path"`
}

var defaultSQLite = SQLite{
	Path: "shortlink.db",
}

func (s *SQLite) MigrationURL() string {
	return "sqlite://" + s.Path
}

func Load(path string) (*Config, error) {
	const op = "config.Load"

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open config file: %w", op, err)
	}
	defer f.Close()

	var cfg Config
	setDefaults(&cfg)

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to decode config file: %w", op, err)
	}

	if err := newValidator().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("%s: invalid config: %w", op, err)
	}

	return &cfg, nil
}

func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterStructValidation(validateDependencies, Config{})

	return validate
}

// validateDependencies checks settings that are only required by the chosen
// storage engine or environment.
func validateDependencies(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)

	switch cfg.Storage {
	case StoragePostgres:
		if cfg.Postgres.User == "" {
			sl.ReportError(cfg.Postgres.User, "User", "User", "required_for_postgres", "")
		}
		if cfg.Postgres.DB == "" {
			sl.ReportError(cfg.Postgres.DB, "DB", "DB", "required_for_postgres", "")
		}
	case StorageSQLite:
		if cfg.SQLite.Path == "" {
			sl.ReportError(cfg.SQLite.Path, "Path", "Path", "required_for_sqlite", "")
		}
	}

	if rl := cfg.HTTPServer.RateLimit; rl.Requests > 0 && rl.Window <= 0 {
		sl.ReportError(rl.Window, "Window", "Window", "gt_when_limited", "0")
	}

	if cfg.Env == EnvProd {
		if cfg.HTTPServer.CertFile == "" {
			sl.ReportError(cfg.HTTPServer.CertFile, "CertFile", "CertFile", "required_in_prod", "")
		}
		if cfg.HTTPServer.KeyFile == "" {
			sl.ReportError(cfg.HTTPServer.KeyFile, "KeyFile", "KeyFile", "required_in_prod", "")
		}
	}
}

func setDefaults(cfg *Config) {
	cfg.Env = EnvDev
	cfg.LogLevel = "info"
	cfg.Storage = StorageSQLite
	cfg.Shortlink = defaultShortlink
	cfg.HTTPServer = defaultHTTPServer
	cfg.Postgres = defaultPostgres
	cfg.SQLite = defaultSQLite
}
