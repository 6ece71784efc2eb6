package config

import "fmt"

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"ORBRUSH_DB_HOST"`
	Port     int    `yaml:"port" env:"ORBRUSH_DB_PORT"`
	User     string `yaml:"user" env:"ORBRUSH_DB_USER"`
	Password string `yaml:"password" env:"ORBRUSH_DB_PASSWORD"`
	DBName   string `yaml:"dbname" env:"ORBRUSH_DB_NAME"`
	SSLMode  string `yaml:"sslmode" env:"ORBRUSH_DB_SSLMODE"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultDatabase returns local-development connection defaults.
func DefaultDatabase() DatabaseConfig {
	return DatabaseConfig{
		Host:     "127.0.0.1",
		Port:     5432,
		User:     "orbrush",
		Password: "orbrush",
		DBName:   "orbrush",
		SSLMode:  "disable",
	}
}
