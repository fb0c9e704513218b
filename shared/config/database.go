package config

import (
	"fmt"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DatabaseConfig holds connection settings for one Postgres target
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// GetSourceDBConfig returns the connection settings for the legacy shared
// database holding every owner's data. The migration only ever reads from it.
func GetSourceDBConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Host:     getEnv("SOURCE_DB_HOST", "localhost"),
		Port:     getEnv("SOURCE_DB_PORT", "5432"),
		User:     getEnv("SOURCE_DB_USER", "postgres"),
		Password: getEnv("SOURCE_DB_PASSWORD", "password"),
		DBName:   getEnv("SOURCE_DB_NAME", "whatsapp_campaign"),
		SSLMode:  getEnv("SOURCE_DB_SSL_MODE", "disable"),
	}
}

// GetRegistryDBConfig returns the connection settings for the central tenant
// directory database.
func GetRegistryDBConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Host:     getEnv("REGISTRY_DB_HOST", "localhost"),
		Port:     getEnv("REGISTRY_DB_PORT", "5432"),
		User:     getEnv("REGISTRY_DB_USER", "postgres"),
		Password: getEnv("REGISTRY_DB_PASSWORD", "password"),
		DBName:   getEnv("REGISTRY_DB_NAME", "tenant_registry"),
		SSLMode:  getEnv("REGISTRY_DB_SSL_MODE", "disable"),
	}
}

// GetAdminConfig returns the administrative connection used for CREATE
// DATABASE / CREATE ROLE / GRANT statements. It must carry elevated rights
// distinct from any tenant principal; it connects to the engine's
// maintenance database.
func GetAdminConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Host:     getEnv("ADMIN_DB_HOST", "localhost"),
		Port:     getEnv("ADMIN_DB_PORT", "5432"),
		User:     getEnv("ADMIN_DB_USER", "postgres"),
		Password: getEnv("ADMIN_DB_PASSWORD", "password"),
		DBName:   getEnv("ADMIN_DB_NAME", "postgres"),
		SSLMode:  getEnv("ADMIN_DB_SSL_MODE", "disable"),
	}
}

// GetTenantHostPort returns the host and port recorded in directory rows for
// reaching tenant stores. Tenant databases live on the same engine as the
// admin connection unless overridden.
func GetTenantHostPort() (string, string) {
	admin := GetAdminConfig()
	return getEnv("TENANT_DB_HOST", admin.Host), getEnv("TENANT_DB_PORT", admin.Port)
}

// GetTenantSSLMode returns the sslmode used for tenant store connections.
func GetTenantSSLMode() string {
	return getEnv("TENANT_DB_SSL_MODE", "disable")
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// Connect establishes a connection to the configured database with pool
// settings sized for a migration run.
func Connect(c *DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(c.GetDSN()), &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logger.Error), // Reduce logging overhead
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %s: %w", c.DBName, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}

	// The run is single-flow; a small pool is enough and keeps the engine's
	// connection limit free for the per-tenant connections opened during copy.
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	// Verify connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database %s: %w", c.DBName, err)
	}

	return db, nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
