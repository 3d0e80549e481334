package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPath  = ".env"
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"

	BackendJSON     = "json"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

const (
	defaultRunAddress      = ":8000"
	defaultDataFile        = "data.json"
	defaultSQLitePath      = "users.db"
	defaultConflictRetries = 5
	defaultShutdownTimeout = 10 * time.Second
)

type Config struct {
	Env     string
	Server  Server
	Storage Storage
	Logger  Logger
	Metrics Metrics
}

type Server struct {
	RunAddress      string        `env:"RUN_ADDRESS"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
	ConflictRetries int           `env:"CONFLICT_RETRIES"`
}

type Storage struct {
	Backend     string `env:"STORAGE_BACKEND"`
	DataFile    string `env:"DATA_FILE"`
	SQLitePath  string `env:"SQLITE_PATH"`
	DatabaseURI string `env:"DATABASE_URI"`
	Migrations  string `env:"MIGRATIONS_PATH"`
}

type Logger struct {
	LogLevel string `env:"LOG_LEVEL"`
}

type Metrics struct {
	Enabled bool `env:"METRICS_ENABLED"`
}

var (
	ErrUnknownBackend = errors.New("unknown storage backend")
	ErrMissingSetting = errors.New("missing required setting")
	ErrInvalidSetting = errors.New("invalid setting")
)

// MustLoad загружает конфигурацию сервера и завершает процесс при ошибке
func MustLoad() *Config {
	if err := godotenv.Load(envPath); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg, err := Load(viper.New())
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

// Load читает конфигурацию из переменных окружения через v
func Load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetDefault("app_env", EnvLocal)
	v.SetDefault("run_address", defaultRunAddress)
	v.SetDefault("shutdown_timeout", defaultShutdownTimeout)
	v.SetDefault("conflict_retries", defaultConflictRetries)
	v.SetDefault("storage_backend", BackendJSON)
	v.SetDefault("data_file", defaultDataFile)
	v.SetDefault("sqlite_path", defaultSQLitePath)
	v.SetDefault("metrics_enabled", true)

	cfg := &Config{
		Env: v.GetString("app_env"),
		Server: Server{
			RunAddress:      v.GetString("run_address"),
			ShutdownTimeout: v.GetDuration("shutdown_timeout"),
			ConflictRetries: v.GetInt("conflict_retries"),
		},
		Storage: Storage{
			Backend:     v.GetString("storage_backend"),
			DataFile:    v.GetString("data_file"),
			SQLitePath:  v.GetString("sqlite_path"),
			DatabaseURI: v.GetString("database_uri"),
			Migrations:  v.GetString("migrations_path"),
		},
		Logger:  Logger{LogLevel: v.GetString("log_level")},
		Metrics: Metrics{Enabled: v.GetBool("metrics_enabled")},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("%w: app_env %q", ErrInvalidSetting, c.Env)
	}

	if c.Server.RunAddress == "" {
		return fmt.Errorf("%w: run_address", ErrMissingSetting)
	}
	if c.Server.ConflictRetries < 0 {
		return fmt.Errorf("%w: conflict_retries must not be negative", ErrInvalidSetting)
	}

	switch c.Storage.Backend {
	case BackendJSON:
		if c.Storage.DataFile == "" {
			return fmt.Errorf("%w: data_file", ErrMissingSetting)
		}
	case BackendSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("%w: sqlite_path", ErrMissingSetting)
		}
	case BackendPostgres:
		if c.Storage.DatabaseURI == "" {
			return fmt.Errorf("%w: database_uri", ErrMissingSetting)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Storage.Backend)
	}

	return nil
}
