package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the config file path.
const EnvConfigPath = "TOPDOWN_CONFIG"

// DefaultConfigPath is used when EnvConfigPath is unset.
const DefaultConfigPath = "config/arena.yaml"

// DatabaseConfig holds PostgreSQL connection parameters for the combat journal.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`

	// Journal batching
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	BufferSize    int           `yaml:"buffer_size"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultDatabase returns disabled journal settings pointing at a local Postgres.
func DefaultDatabase() DatabaseConfig {
	return DatabaseConfig{
		Enabled:       false,
		Host:          "127.0.0.1",
		Port:          5432,
		User:          "topdown",
		Password:      "topdown",
		DBName:        "topdown",
		SSLMode:       "disable",
		BatchSize:     256,
		FlushInterval: time.Second,
		BufferSize:    4096,
	}
}

// Path returns the config path from EnvConfigPath or DefaultConfigPath.
func Path() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return DefaultConfigPath
}

// load reads YAML from path over cfg. A missing file leaves cfg untouched.
func load(path string, cfg any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}

	return nil
}
