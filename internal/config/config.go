package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string
	DatabaseURL    string
	DatabasePath   string
	MigrationsPath string

	// Session tokens issued at login
	SessionSecret   string
	SessionDuration time.Duration

	// Identity store: "local" uses the identities table in the main
	// database, "hosted" talks to an external admin API.
	IdentityMode         string
	IdentityBaseURL      string
	IdentityTokenURL     string
	IdentityClientID     string
	IdentityClientSecret string

	// Domain for the throwaway login identifiers minted for children
	ChildEmailDomain string

	// AI tutor provider
	ProviderBaseURL string
	ProviderModel   string
	ProviderTimeout time.Duration

	// SES notifications
	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	EmailDebug   bool
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabaseURL:    getEnv("DB_URL", ""),
		DatabasePath:   getEnv("DB_PATH", "./familyhub.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		SessionSecret:   getEnv("SESSION_SECRET", "dev-only-secret-change-me"),
		SessionDuration: getDuration("SESSION_DURATION", 24*time.Hour),

		IdentityMode:         getEnv("IDENTITY_MODE", "local"),
		IdentityBaseURL:      getEnv("IDENTITY_BASE_URL", ""),
		IdentityTokenURL:     getEnv("IDENTITY_TOKEN_URL", ""),
		IdentityClientID:     getEnv("IDENTITY_CLIENT_ID", ""),
		IdentityClientSecret: getEnv("IDENTITY_CLIENT_SECRET", ""),

		ChildEmailDomain: getEnv("CHILD_EMAIL_DOMAIN", "children.familyhub.app"),

		ProviderBaseURL: getEnv("PROVIDER_BASE_URL", "https://api.openai.com"),
		ProviderModel:   getEnv("PROVIDER_MODEL", "gpt-4o-mini"),
		ProviderTimeout: getDuration("PROVIDER_TIMEOUT", 30*time.Second),

		AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "FamilyHub"),
		EmailDebug:   getBool("EMAIL_DEBUG", false),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration reads a duration environment variable or returns a default
func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getBool reads a boolean environment variable or returns a default
func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
