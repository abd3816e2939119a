// Package config provides configuration management for the clientgraph service.
package config

import (
	"os"
	"strconv"
)

// Config holds all configuration for the clientgraph service.
type Config struct {
	// Server settings
	Port     string
	GraphiQL bool
	Registry string

	// Database settings
	DBDialect string
	DBDSN     string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:     getEnv("CLIENTGRAPH_PORT", "5000"),
		GraphiQL: getEnvBool("CLIENTGRAPH_GRAPHIQL", true),
		Registry: getEnv("CLIENTGRAPH_REGISTRY", "mdns"),

		DBDialect: getEnv("CLIENTGRAPH_DB_DIALECT", "sqlite3"),
		DBDSN:     getEnv("CLIENTGRAPH_DB_DSN", "file:ent?mode=memory&cache=shared&_fk=1"),
	}
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
