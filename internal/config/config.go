// Package config loads server settings from an optional YAML file, an optional
// .env file and the process environment, in that order of increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"club_admin_backend/internal/database"
	"club_admin_backend/pkg/utils"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// Dataset drivers.
const (
	DatasetFixtures = "fixtures"
	DatasetFile     = "file"
	DatasetPostgres = "postgres"
)

// Session token store drivers.
const (
	SessionsMemory = "memory"
	SessionsSQLite = "sqlite"
)

// DefaultConfigFile is read when CONFIG_FILE is unset; it may be absent.
const DefaultConfigFile = "config.yaml"

// DevJWTSecret is only accepted in debug mode.
const DevJWTSecret = "dev-secret-change-me"

type Config struct {
	Server struct {
		Port        string   `yaml:"port"`
		Mode        string   `yaml:"mode"` // gin mode: debug, release, test
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`
	Auth struct {
		JWTSecret  string        `yaml:"jwt_secret"`
		TokenTTL   time.Duration `yaml:"token_ttl"`
		BcryptCost int           `yaml:"bcrypt_cost"`
	} `yaml:"auth"`
	Log struct {
		Level   string `yaml:"level"`
		Console bool   `yaml:"console"`
	} `yaml:"log"`
	Dataset struct {
		Driver  string        `yaml:"driver"`
		Path    string        `yaml:"path"`
		Latency time.Duration `yaml:"latency"`
		Seed    bool          `yaml:"seed"`
	} `yaml:"dataset"`
	Database database.Config `yaml:"database"`
	Sessions struct {
		Driver string `yaml:"driver"`
		Path   string `yaml:"path"`
	} `yaml:"sessions"`
}

// Default returns the settings used when nothing overrides them.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = "8080"
	cfg.Server.Mode = "debug"
	cfg.Server.CORSOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	cfg.Auth.JWTSecret = DevJWTSecret
	cfg.Auth.TokenTTL = utils.DefaultAccessTokenTTL
	cfg.Auth.BcryptCost = bcrypt.DefaultCost
	cfg.Log.Level = "info"
	cfg.Log.Console = true
	cfg.Dataset.Driver = DatasetFixtures
	cfg.Dataset.Latency = 500 * time.Millisecond
	cfg.Database = database.Config{
		Host:         "localhost",
		Port:         "5432",
		User:         "club_admin",
		Password:     "club_admin",
		Name:         "club_admin",
		SSLMode:      "disable",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
	}
	cfg.Sessions.Driver = SessionsMemory
	cfg.Sessions.Path = "sessions.db"
	return cfg
}

// Load builds the configuration. path names the YAML file; empty means
// CONFIG_FILE or DefaultConfigFile, and a missing default file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("CONFIG_FILE")
		explicit = path != ""
	}
	if !explicit {
		path = DefaultConfigFile
	}
	if err := cfg.readFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not load .env: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("could not parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = utils.Getenv("PORT", c.Server.Port)
	c.Server.Mode = utils.Getenv("GIN_MODE", c.Server.Mode)
	c.Server.CORSOrigins = utils.GetenvList("CORS_ALLOWED_ORIGINS", c.Server.CORSOrigins)

	c.Auth.JWTSecret = utils.Getenv("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.TokenTTL = utils.GetenvDuration("JWT_TTL", c.Auth.TokenTTL)
	c.Auth.BcryptCost = utils.GetenvInt("BCRYPT_COST", c.Auth.BcryptCost)

	c.Log.Level = utils.Getenv("LOG_LEVEL", c.Log.Level)
	c.Log.Console = utils.GetenvBool("LOG_CONSOLE", c.Log.Console)

	c.Dataset.Driver = utils.Getenv("DATASET_DRIVER", c.Dataset.Driver)
	c.Dataset.Path = utils.Getenv("DATASET_PATH", c.Dataset.Path)
	c.Dataset.Latency = utils.GetenvDuration("DATASET_LATENCY", c.Dataset.Latency)
	c.Dataset.Seed = utils.GetenvBool("DATASET_SEED", c.Dataset.Seed)

	c.Database.Host = utils.Getenv("DB_HOST", c.Database.Host)
	c.Database.Port = utils.Getenv("DB_PORT", c.Database.Port)
	c.Database.User = utils.Getenv("DB_USER", c.Database.User)
	c.Database.Password = utils.Getenv("DB_PASSWORD", c.Database.Password)
	c.Database.Name = utils.Getenv("DB_NAME", c.Database.Name)
	c.Database.SSLMode = utils.Getenv("DB_SSLMODE", c.Database.SSLMode)
	c.Database.SchemaPath = utils.Getenv("DB_SCHEMA_PATH", c.Database.SchemaPath)

	c.Sessions.Driver = utils.Getenv("SESSION_STORE", c.Sessions.Driver)
	c.Sessions.Path = utils.Getenv("SESSION_DB_PATH", c.Sessions.Path)
}

// Validate rejects unknown drivers, a missing file path and the development
// JWT secret outside debug mode.
func (c *Config) Validate() error {
	switch c.Dataset.Driver {
	case DatasetFixtures, DatasetPostgres:
	case DatasetFile:
		if c.Dataset.Path == "" {
			return errors.New("config: dataset.path is required for the file driver")
		}
	default:
		return fmt.Errorf("config: unknown dataset driver %q", c.Dataset.Driver)
	}
	switch c.Sessions.Driver {
	case SessionsMemory:
	case SessionsSQLite:
		if c.Sessions.Path == "" {
			return errors.New("config: sessions.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("config: unknown session store %q", c.Sessions.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("config: auth.jwt_secret must not be empty")
	}
	if c.Auth.JWTSecret == DevJWTSecret && c.Server.Mode == "release" {
		return errors.New("config: set JWT_SECRET before running in release mode")
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("config: bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}
