package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadTestConfig loads the configuration for integration tests from the .env file or environment variables.
// Database settings fall back to an empty SQLite config when TEST_DB_* variables are not set,
// which lets tests point DBName at a temporary file. JWT and admin settings get test defaults.
func LoadTestConfig() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist - it's optional)
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load()

	cfg := &Config{
		Database: DatabaseConfig{Driver: DriverSQLite},
		Server:   ServerConfig{Port: 8080},
		Logging:  LoggingConfig{Level: "debug"},
		CORS:     CORSConfig{AllowedOrigins: []string{"*"}},
		JWT: JWTConfig{
			Secret:     "test_secret_key",
			Algorithm:  "HS256",
			Expiration: 24 * time.Hour,
		},
		Admin: AdminConfig{
			Username: "test_admin",
			Email:    "test@example.com",
			Password: "test_password",
		},
	}

	if secret := os.Getenv("TEST_JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}

	dbHost := os.Getenv("TEST_DB_HOST")
	if dbHost == "" {
		// Return SQLite config to allow a temporary database file in tests
		return cfg, nil
	}

	dbPort, err := strconv.Atoi(os.Getenv("TEST_DB_PORT"))
	if err != nil {
		return nil, fmt.Errorf("invalid TEST_DB_PORT: %w", err)
	}

	cfg.Database = DatabaseConfig{
		Driver:   DriverMySQL,
		Host:     dbHost,
		Port:     dbPort,
		User:     os.Getenv("TEST_DB_USER"),
		Password: os.Getenv("TEST_DB_PASSWORD"),
		DBName:   os.Getenv("TEST_DB_NAME"),
	}
	if cfg.Database.User == "" || cfg.Database.DBName == "" {
		return nil, fmt.Errorf("TEST_DB_USER and TEST_DB_NAME are required when TEST_DB_HOST is set")
	}

	return cfg, nil
}
