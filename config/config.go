package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingConnectionString is returned by Load when DefaultConnection is not set.
var ErrMissingConnectionString = errors.New("connection string 'DefaultConnection' not found")

type Config struct {
	Port        string
	Env         string
	LogLevel    string
	LogPath     string
	CORSOrigins string
	Database    Database
	Pagination  Pagination
	RateLimit   RateLimit
}

type Database struct {
	Driver            string
	DefaultConnection string
}

type Pagination struct {
	DefaultPageSize int
	MaxPageSize     int
}

type RateLimit struct {
	Max int
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads .env, then the optional YAML file at path, then the environment.
// Later sources win.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("port", "3000")
	v.SetDefault("env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_path", "")
	v.SetDefault("cors_origins", "*")
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("connection_strings.default_connection", "")
	v.SetDefault("pagination.default_page_size", 10)
	v.SetDefault("pagination.max_page_size", 100)
	v.SetDefault("rate_limit.max", 200)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("connection_strings.default_connection",
		"DEFAULT_CONNECTION", "ConnectionStrings__DefaultConnection")
	_ = v.BindEnv("database.driver", "DB_DRIVER", "DATABASE_DRIVER")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		Port:        v.GetString("port"),
		Env:         v.GetString("env"),
		LogLevel:    v.GetString("log_level"),
		LogPath:     v.GetString("log_path"),
		CORSOrigins: v.GetString("cors_origins"),
		Database: Database{
			Driver:            v.GetString("database.driver"),
			DefaultConnection: strings.TrimSpace(v.GetString("connection_strings.default_connection")),
		},
		Pagination: Pagination{
			DefaultPageSize: v.GetInt("pagination.default_page_size"),
			MaxPageSize:     v.GetInt("pagination.max_page_size"),
		},
		RateLimit: RateLimit{
			Max: v.GetInt("rate_limit.max"),
		},
	}

	if cfg.Database.DefaultConnection == "" {
		return nil, ErrMissingConnectionString
	}

	return cfg, nil
}
