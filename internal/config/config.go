// Package config loads service configuration from a YAML file with
// environment-variable overrides. A .env or .env.local file is loaded
// first when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	defaultServiceName    = "persuasion-scanner"
	defaultServiceVersion = "1.0.0"
	defaultServicePort    = 8090
	defaultLogLevel       = "info"
	defaultOracleRPS      = 5
	defaultDBHost         = "localhost"
	defaultDBPort         = 5432
	defaultDBUser         = "postgres"
	defaultDBName         = "scanner"
	defaultDBSSLMode      = "disable"
	defaultSQLitePath     = "agent_config.db"
	defaultESURL          = "http://localhost:9200"
	defaultESTimeout      = 30 * time.Second
)

// Config holds all configuration for the scanner service.
type Config struct {
	Service       ServiceConfig       `yaml:"service"`
	Oracle        OracleConfig        `yaml:"oracle"`
	Database      DatabaseConfig      `yaml:"database"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"SCANNER_PORT" yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"    yaml:"debug"`
}

// OracleConfig holds scoring-backend configuration. An empty BackendURL
// disables the generative path; scoring then runs purely on heuristics.
type OracleConfig struct {
	BackendURL string `env:"ORACLE_BACKEND_URL" yaml:"backend_url"`
	RPS        int    `env:"ORACLE_RPS"         yaml:"rps"`
}

// DatabaseConfig holds Postgres (scan history) and sqlite (agent config)
// configuration. An empty Host disables Postgres persistence.
type DatabaseConfig struct {
	Host       string `env:"POSTGRES_HOST"     yaml:"host"`
	Port       int    `env:"POSTGRES_PORT"     yaml:"port"`
	User       string `env:"POSTGRES_USER"     yaml:"user"`
	Password   string `env:"POSTGRES_PASSWORD" yaml:"password"`
	Database   string `env:"POSTGRES_DB"       yaml:"database"`
	SSLMode    string `env:"POSTGRES_SSLMODE"  yaml:"sslmode"`
	SQLitePath string `env:"SQLITE_PATH"       yaml:"sqlite_path"`
}

// ElasticsearchConfig holds the result-sink configuration. An empty URL
// disables the sink.
type ElasticsearchConfig struct {
	URL      string        `env:"ELASTICSEARCH_URL" yaml:"url"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	Timeout  time.Duration `yaml:"timeout"`
	Enabled  bool          `env:"ELASTICSEARCH_ENABLED" yaml:"enabled"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level       string `env:"LOG_LEVEL" yaml:"level"`
	Development bool   `yaml:"development"`
}

// Load reads configuration from the given YAML path (optional) and
// applies environment overrides on top.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvFiles loads .env.local then .env; missing files are fine.
func loadEnvFiles() {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")
}

func defaults() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:    defaultServiceName,
			Version: defaultServiceVersion,
			Port:    defaultServicePort,
		},
		Oracle: OracleConfig{
			RPS: defaultOracleRPS,
		},
		Database: DatabaseConfig{
			Port:       defaultDBPort,
			User:       defaultDBUser,
			Database:   defaultDBName,
			SSLMode:    defaultDBSSLMode,
			SQLitePath: defaultSQLitePath,
		},
		Elasticsearch: ElasticsearchConfig{
			URL:     defaultESURL,
			Timeout: defaultESTimeout,
		},
		Logging: LoggingConfig{
			Level: defaultLogLevel,
		},
	}
}

// applyEnv overrides config fields from environment variables.
func applyEnv(cfg *Config) {
	setString(&cfg.Oracle.BackendURL, "ORACLE_BACKEND_URL")
	setInt(&cfg.Oracle.RPS, "ORACLE_RPS")
	setInt(&cfg.Service.Port, "SCANNER_PORT")
	setBool(&cfg.Service.Debug, "APP_DEBUG")
	setString(&cfg.Database.Host, "POSTGRES_HOST")
	setInt(&cfg.Database.Port, "POSTGRES_PORT")
	setString(&cfg.Database.User, "POSTGRES_USER")
	setString(&cfg.Database.Password, "POSTGRES_PASSWORD")
	setString(&cfg.Database.Database, "POSTGRES_DB")
	setString(&cfg.Database.SSLMode, "POSTGRES_SSLMODE")
	setString(&cfg.Database.SQLitePath, "SQLITE_PATH")
	setString(&cfg.Elasticsearch.URL, "ELASTICSEARCH_URL")
	setBool(&cfg.Elasticsearch.Enabled, "ELASTICSEARCH_ENABLED")
	setString(&cfg.Logging.Level, "LOG_LEVEL")
}

// Validate fails fast on impossible configuration.
func (c *Config) Validate() error {
	if c.Service.Port <= 0 || c.Service.Port > 65535 {
		return fmt.Errorf("invalid service port %d", c.Service.Port)
	}
	if c.Oracle.RPS < 0 {
		return fmt.Errorf("invalid oracle rps %d", c.Oracle.RPS)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
