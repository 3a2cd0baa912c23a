package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration
type Config struct {
	Port             string        // Service port
	TokenSecret      string        // Shared secret for bearer credential decryption
	OdooURL          string        // Odoo base URL (XML-RPC endpoints live under /xmlrpc/2)
	OdooDB           string        // Odoo database name
	OdooUsername     string        // Odoo service account login
	OdooAPIKey       string        // Odoo service account API key
	OdooTimeout      time.Duration // Per-call timeout for ERP requests
	VerifyCacheTTL   time.Duration // Customer verification cache TTL
	VerifyCacheSize  int           // Customer verification cache capacity
	NotifyTemplateID int64         // Mail template sent on ticket creation
	CORSAllowOrigins []string      // Allowed CORS origins
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	config := &Config{
		Port:             getEnv("PORT", "8080"),
		TokenSecret:      getEnv("TOKEN_SECRET", ""),
		OdooURL:          getEnv("ODOO_URL", ""),
		OdooDB:           getEnv("ODOO_DB", ""),
		OdooUsername:     getEnv("ODOO_USERNAME", ""),
		OdooAPIKey:       getEnv("ODOO_API_KEY", ""),
		OdooTimeout:      10 * time.Second,
		VerifyCacheTTL:   time.Hour,
		VerifyCacheSize:  1000,
		NotifyTemplateID: 18,
		CORSAllowOrigins: splitOrigins(getEnv("CORS_ALLOW_ORIGINS", "*")),
	}

	// Parse ODOO_TIMEOUT if provided
	if timeoutStr := os.Getenv("ODOO_TIMEOUT"); timeoutStr != "" {
		duration, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return nil, fmt.Errorf("invalid ODOO_TIMEOUT format: %w", err)
		}
		config.OdooTimeout = duration
	}

	// Parse VERIFY_CACHE_TTL if provided
	if ttlStr := os.Getenv("VERIFY_CACHE_TTL"); ttlStr != "" {
		duration, err := time.ParseDuration(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid VERIFY_CACHE_TTL format: %w", err)
		}
		config.VerifyCacheTTL = duration
	}

	// Parse VERIFY_CACHE_SIZE if provided
	if sizeStr := os.Getenv("VERIFY_CACHE_SIZE"); sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil {
			return nil, fmt.Errorf("invalid VERIFY_CACHE_SIZE format: %w", err)
		}
		config.VerifyCacheSize = size
	}

	// Parse NOTIFY_TEMPLATE_ID if provided
	if idStr := os.Getenv("NOTIFY_TEMPLATE_ID"); idStr != "" {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid NOTIFY_TEMPLATE_ID format: %w", err)
		}
		config.NotifyTemplateID = id
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	if c.TokenSecret == "" {
		return fmt.Errorf("TOKEN_SECRET cannot be empty")
	}

	if c.OdooURL == "" {
		return fmt.Errorf("ODOO_URL cannot be empty")
	}

	if c.OdooDB == "" {
		return fmt.Errorf("ODOO_DB cannot be empty")
	}

	if c.OdooUsername == "" {
		return fmt.Errorf("ODOO_USERNAME cannot be empty")
	}

	if c.OdooAPIKey == "" {
		return fmt.Errorf("ODOO_API_KEY cannot be empty")
	}

	if c.OdooTimeout <= 0 {
		return fmt.Errorf("ODOO_TIMEOUT must be positive")
	}

	if c.VerifyCacheTTL <= 0 {
		return fmt.Errorf("VERIFY_CACHE_TTL must be positive")
	}

	if c.VerifyCacheSize <= 0 {
		return fmt.Errorf("VERIFY_CACHE_SIZE must be positive")
	}

	return nil
}

// splitOrigins parses a comma-separated origin list
func splitOrigins(value string) []string {
	parts := strings.Split(value, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// getEnv retrieves an environment variable or returns a fallback value
func getEnv(key, fallback string) string {
	// Check for _FILE suffix
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
