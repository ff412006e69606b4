package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ThiagoRGoveia/statement-reconciler/internal/models"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// DatabaseConfig holds everything the account store needs to reach the accounts database.
type DatabaseConfig struct {
	Driver     string
	Username   string
	Password   string
	Instance   string
	HostSuffix string
	Port       int
	Schema     string
}

// Host is the instance name joined with the fixed host suffix.
func (d DatabaseConfig) Host() string {
	return d.Instance + d.HostSuffix
}

type LogConfig struct {
	Level  string
	Format string
}

type Config struct {
	Database     DatabaseConfig
	RosterPath   string
	QueryTimeout time.Duration
	Log          LogConfig
}

func New() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			Driver:     getEnv("SQL_DRIVER", DriverMySQL),
			Username:   os.Getenv("SQL_USERNAME"),
			Password:   os.Getenv("SQL_PASSWORD"),
			Instance:   os.Getenv("SQL_DATABASE"),
			HostSuffix: getEnv("SQL_HOST_SUFFIX", ".criwycoituxs.ca-central-1.rds.amazonaws.com"),
			Schema:     getEnv("SQL_SCHEMA", "qw_prod"),
		},
		RosterPath: getEnv("ROSTER_PATH", "../Document Naming for Matt.xlsx"),
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "auto"),
		},
	}

	for key, value := range map[string]string{
		"SQL_USERNAME": cfg.Database.Username,
		"SQL_PASSWORD": cfg.Database.Password,
		"SQL_DATABASE": cfg.Database.Instance,
	} {
		if value == "" {
			return nil, &models.ConfigurationError{Message: fmt.Sprintf("%s environment variable is not set", key)}
		}
	}

	switch cfg.Database.Driver {
	case DriverMySQL, DriverPostgres:
	default:
		return nil, &models.ConfigurationError{Message: fmt.Sprintf("unsupported SQL_DRIVER '%s'", cfg.Database.Driver)}
	}

	defaultPort := 3306
	if cfg.Database.Driver == DriverPostgres {
		defaultPort = 5432
	}

	var err error
	cfg.Database.Port, err = getEnvAsInt("SQL_PORT", defaultPort)
	if err != nil {
		return nil, err
	}

	timeoutSeconds, err := getEnvAsInt("SQL_QUERY_TIMEOUT_SECONDS", 60)
	if err != nil {
		return nil, err
	}
	cfg.QueryTimeout = time.Duration(timeoutSeconds) * time.Second

	return cfg, nil
}

func getEnv(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, &models.ConfigurationError{Message: fmt.Sprintf("invalid value for %s: expected an integer, got '%s'", key, valueStr)}
	}

	return value, nil
}
