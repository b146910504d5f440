// Package config provides configuration for the application
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported database drivers
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Config holds all configuration for the application.
// It is loaded once at startup and passed explicitly to the components that need it.
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Logging  LoggingConfig
	CORS     CORSConfig
	JWT      JWTConfig
	Admin    AdminConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	// DBName is the schema name for MySQL and the database file path for SQLite
	DBName string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// JWTConfig holds JWT token configuration
type JWTConfig struct {
	Secret     string
	Algorithm  string
	Expiration time.Duration
}

// AdminConfig holds the credentials of the administrator created on first boot
type AdminConfig struct {
	Username string
	Email    string
	Password string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{}

	if err := loadDatabase(cfg); err != nil {
		return nil, err
	}

	// Server configuration
	serverPortStr := os.Getenv("SERVER_PORT")
	if serverPortStr == "" {
		serverPortStr = "8080" // default port
	}
	serverPort, err := strconv.Atoi(serverPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}
	cfg.Server.Port = serverPort

	// Logging configuration
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info" // default level
	}
	cfg.Logging.Level = logLevel

	cfg.CORS.AllowedOrigins = parseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	cfg.JWT.Secret = jwtSecret

	jwtAlgorithm := os.Getenv("JWT_ALGORITHM")
	if jwtAlgorithm == "" {
		jwtAlgorithm = "HS256"
	}
	cfg.JWT.Algorithm = jwtAlgorithm

	// Token expiration (default: 8 hours)
	expirationStr := os.Getenv("JWT_EXPIRATION")
	if expirationStr == "" {
		expirationStr = "8h"
	}
	expiration, err := time.ParseDuration(expirationStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION: %w", err)
	}
	if expiration <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRATION must be positive")
	}
	cfg.JWT.Expiration = expiration

	// Bootstrap administrator
	cfg.Admin.Username = os.Getenv("ADMIN_USERNAME")
	if cfg.Admin.Username == "" {
		return nil, fmt.Errorf("ADMIN_USERNAME is required")
	}
	cfg.Admin.Email = os.Getenv("ADMIN_EMAIL")
	if cfg.Admin.Email == "" {
		return nil, fmt.Errorf("ADMIN_EMAIL is required")
	}
	cfg.Admin.Password = os.Getenv("ADMIN_PASSWORD")
	if cfg.Admin.Password == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD is required")
	}

	return cfg, nil
}

// LoadDatabase reads only the database and logging sections.
// It serves commands that touch the schema without serving requests.
func LoadDatabase() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := loadDatabase(cfg); err != nil {
		return nil, err
	}

	cfg.Logging.Level = os.Getenv("LOG_LEVEL")
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	return cfg, nil
}

// loadDatabase fills the database section. SQLite only needs DB_NAME (the file path).
func loadDatabase(cfg *Config) error {
	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = DriverMySQL
	}
	if driver != DriverMySQL && driver != DriverSQLite {
		return fmt.Errorf("invalid DB_DRIVER: %q, must be %q or %q", driver, DriverMySQL, DriverSQLite)
	}
	cfg.Database.Driver = driver

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	cfg.Database.DBName = dbName

	if driver == DriverSQLite {
		return nil
	}

	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	cfg.Database.Host = dbHost

	dbPortStr := os.Getenv("DB_PORT")
	if dbPortStr == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	dbPort, err := strconv.Atoi(dbPortStr)
	if err != nil {
		return fmt.Errorf("invalid DB_PORT: %w", err)
	}
	cfg.Database.Port = dbPort

	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		return fmt.Errorf("DB_USER is required")
	}
	cfg.Database.User = dbUser

	dbPassword := os.Getenv("DB_PASSWORD")
	if dbPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	cfg.Database.Password = dbPassword

	return nil
}

// parseOrigins parses comma-separated CORS origins, defaulting to all origins
func parseOrigins(corsOrigins string) []string {
	if corsOrigins == "" {
		// Default to allow all origins if not specified (for development)
		return []string{"*"}
	}

	origins := strings.Split(corsOrigins, ",")
	allowed := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowed = append(allowed, origin)
		}
	}
	// If no valid origins found, default to allow all
	if len(allowed) == 0 {
		return []string{"*"}
	}
	return allowed
}

// DSN returns the database connection string for the configured driver
func (c *Config) DSN() string {
	if c.Database.Driver == DriverSQLite {
		return SQLiteDSN(c.Database.DBName)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&multiStatements=true",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
	)
}

// SQLiteDSN builds a modernc.org/sqlite DSN with foreign keys enforced on every connection
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
}
