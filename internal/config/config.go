package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yigit/unidwh/internal/pkg/apperrors"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		Schema          string `yaml:"schema" env:"DB_SCHEMA"`
		MaxConns        int    `yaml:"max_conns" env:"DB_MAX_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		ConnectTimeout  string `yaml:"connect_timeout" env:"DB_CONNECT_TIMEOUT"`
	} `yaml:"database"`

	Sources struct {
		DataDir      string `yaml:"data_dir" env:"DWH_DATA_DIR"`
		MetadataFile string `yaml:"metadata_file" env:"DWH_METADATA_FILE"`
		CoursesFile  string `yaml:"courses_file" env:"DWH_COURSES_FILE"`
		ResultsDir   string `yaml:"results_dir" env:"DWH_RESULTS_DIR"`
	} `yaml:"sources"`

	Normalize struct {
		Titles []string `yaml:"titles" env:"DWH_TITLES"`
	} `yaml:"normalize"`

	Load struct {
		Timeout      string `yaml:"timeout" env:"DWH_LOAD_TIMEOUT"`
		DedupeGrades bool   `yaml:"dedupe_grades" env:"DWH_DEDUPE_GRADES"`
	} `yaml:"load"`

	Report struct {
		Timeout string `yaml:"timeout" env:"DWH_REPORT_TIMEOUT"`
	} `yaml:"report"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// DefaultTitles is the recognized academic title vocabulary used to split lecturer names.
var DefaultTitles = []string{"Dipl.-Ing.", "DI.", "Dr.", "Mag.", "B.Sc.", "M.Sc."}

// LoadConfig loads configuration from a file, an optional .env file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("%w: failed to parse %s: %w", apperrors.ErrInvalidConfig, configPath, err)
		}
	}

	// .env values never override variables already present in the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("%w: failed to load from environment: %w", apperrors.ErrInvalidConfig, err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrInvalidConfig, err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "aau_dwh"
	config.Database.SSLMode = "disable"
	config.Database.Schema = "aau_dwh"
	config.Database.MaxConns = 4
	config.Database.ConnMaxLifetime = "1h"
	config.Database.ConnectTimeout = "10s"

	config.Sources.DataDir = "aau_data"
	config.Sources.MetadataFile = "aau_metadata.json"
	config.Sources.CoursesFile = "aau_corses.json"
	config.Sources.ResultsDir = "results"

	config.Normalize.Titles = append([]string(nil), DefaultTitles...)

	config.Load.Timeout = "5m"
	config.Report.Timeout = "30s"

	config.Logging.Level = "info"
	config.Logging.Format = "text"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.Database.DBName == "" {
		return fmt.Errorf("database name is required")
	}

	if config.Database.Schema == "" {
		return fmt.Errorf("database schema is required")
	}

	if config.Database.MaxConns < 1 {
		return fmt.Errorf("database max_conns must be at least 1, got %d", config.Database.MaxConns)
	}

	if config.Sources.DataDir == "" {
		return fmt.Errorf("sources data_dir is required")
	}

	if len(config.Normalize.Titles) == 0 {
		return fmt.Errorf("normalize titles must not be empty")
	}

	durations := map[string]string{
		"database conn_max_lifetime": config.Database.ConnMaxLifetime,
		"database connect_timeout":   config.Database.ConnectTimeout,
		"load timeout":               config.Load.Timeout,
		"report timeout":             config.Report.Timeout,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     c.Database.Host + ":" + c.Database.Port,
		Path:     "/" + c.Database.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(sslMode),
	}
	return u.String()
}

// MetadataPath returns the location of the institution metadata document.
func (c *Config) MetadataPath() string {
	return c.sourcePath(c.Sources.MetadataFile)
}

// CoursesPath returns the location of the courses document.
func (c *Config) CoursesPath() string {
	return c.sourcePath(c.Sources.CoursesFile)
}

// ResultsPath returns the directory holding per-exam result documents.
func (c *Config) ResultsPath() string {
	return c.sourcePath(c.Sources.ResultsDir)
}

func (c *Config) sourcePath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Sources.DataDir, name)
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}
