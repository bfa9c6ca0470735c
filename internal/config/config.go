package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Service selectors for server.service.
const (
	ServiceAll         = "all"
	ServiceStudents    = "students"
	ServiceCourses     = "courses"
	ServiceEnrollments = "enrollments"
)

// Session backends for session.backend.
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port        string `yaml:"port" env:"SERVER_PORT"`
		Mode        string `yaml:"mode" env:"SERVER_MODE"`
		Service     string `yaml:"service" env:"SERVICE"`
		ServiceName string `yaml:"service_name" env:"SERVICE_NAME"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		TxMaxAttempts   int    `yaml:"tx_max_attempts" env:"DB_TX_MAX_ATTEMPTS"`
	} `yaml:"database"`

	Auth struct {
		TokenSecret   string `yaml:"token_secret" env:"AUTH_TOKEN_SECRET"`
		SessionTTL    string `yaml:"session_ttl" env:"AUTH_SESSION_TTL"`
		Issuer        string `yaml:"issuer" env:"AUTH_ISSUER"`
		AdminUsername string `yaml:"admin_username" env:"ADMIN_USERNAME"`
		AdminPassword string `yaml:"admin_password" env:"ADMIN_PASSWORD"`
	} `yaml:"auth"`

	Session struct {
		Backend       string `yaml:"backend" env:"SESSION_BACKEND"`
		RedisAddr     string `yaml:"redis_addr" env:"REDIS_ADDR"`
		RedisPassword string `yaml:"redis_password" env:"REDIS_PASSWORD"`
		RedisDB       int    `yaml:"redis_db" env:"REDIS_DB"`
		KeyPrefix     string `yaml:"key_prefix" env:"SESSION_KEY_PREFIX"`
	} `yaml:"session"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	// GeneratedSecret is set when no token secret was configured and a
	// per-process one was generated instead.
	GeneratedSecret bool `yaml:"-"`
}

// LoadConfig loads configuration from a file, an optional .env file and environment variables
func LoadConfig(configPath, envPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Variables already present in the environment win over the .env file.
	if envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", envPath, err)
			}
		}
	}

	if err := processStructFields(config, os.LookupEnv); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := finalize(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.Service = ServiceAll
	config.Server.ServiceName = "edutrack"

	config.Database.Host = "127.0.0.1"
	config.Database.Port = "5433"
	config.Database.User = "edutrack"
	config.Database.Password = "password"
	config.Database.DBName = "edutrack"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.TxMaxAttempts = 3

	config.Auth.SessionTTL = "8h"
	config.Auth.Issuer = "edutrack.course-service"
	config.Auth.AdminUsername = "admin"

	config.Session.Backend = SessionBackendMemory
	config.Session.RedisAddr = "localhost:6379"
	config.Session.KeyPrefix = "edutrack:session:"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// finalize validates the configuration and fills derived values
func finalize(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if config.Database.TxMaxAttempts < 1 {
		return fmt.Errorf("database tx_max_attempts must be at least 1")
	}
	if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid database conn_max_lifetime: %w", err)
	}
	if ttl, err := time.ParseDuration(config.Auth.SessionTTL); err != nil || ttl <= 0 {
		return fmt.Errorf("invalid auth session_ttl %q", config.Auth.SessionTTL)
	}

	config.Server.Service = strings.ToLower(config.Server.Service)
	switch config.Server.Service {
	case ServiceAll, ServiceStudents, ServiceCourses, ServiceEnrollments:
	default:
		return fmt.Errorf("unknown server service %q", config.Server.Service)
	}

	config.Session.Backend = strings.ToLower(config.Session.Backend)
	switch config.Session.Backend {
	case SessionBackendMemory:
	case SessionBackendRedis:
		if config.Session.RedisAddr == "" {
			return fmt.Errorf("session redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown session backend %q", config.Session.Backend)
	}

	if config.Auth.TokenSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return fmt.Errorf("failed to generate token secret: %w", err)
		}
		config.Auth.TokenSecret = secret
		config.GeneratedSecret = true
	}

	return nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// SessionTTL returns the parsed admin session lifetime.
func (c *Config) SessionTTL() time.Duration {
	ttl, _ := time.ParseDuration(c.Auth.SessionTTL)
	return ttl
}

// Serves reports whether the route group for service is mounted.
func (c *Config) Serves(service string) bool {
	return c.Server.Service == ServiceAll || c.Server.Service == service
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
		Host:     net.JoinHostPort(c.Database.Host, c.Database.Port),
		Path:     "/" + c.Database.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(sslMode),
	}
	return u.String()
}
