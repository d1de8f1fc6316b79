package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"comparador/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Catalog CatalogConfig `validate:"required"`
	Server  ServerConfig  `validate:"required"`
	Loader  LoaderConfig
}

// CatalogConfig holds settings for the CKAN open-data catalog
type CatalogConfig struct {
	BaseURL         string `validate:"required"`
	MetadataTimeout time.Duration
	DownloadTimeout time.Duration
	SearchRowsCap   int
	MaxDownloadMB   float64
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string `validate:"required"`
}

// LoaderConfig holds file parsing settings
type LoaderConfig struct {
	MaxUploadMB int64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Catalog: loadCatalogConfig(),
		Server:  loadServerConfig(),
		Loader:  loadLoaderConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadCatalogConfig() CatalogConfig {
	return CatalogConfig{
		BaseURL:         strings.TrimRight(getEnvOrDefault("CATALOG_BASE_URL", "https://www.datos.gob.mx"), "/"),
		MetadataTimeout: time.Duration(getEnvIntOrDefault("CATALOG_TIMEOUT_SECONDS", 10)) * time.Second,
		DownloadTimeout: time.Duration(getEnvIntOrDefault("DOWNLOAD_TIMEOUT_SECONDS", 60)) * time.Second,
		SearchRowsCap:   getEnvIntOrDefault("SEARCH_ROWS_CAP", 1000),
		MaxDownloadMB:   getEnvFloatOrDefault("MAX_AUTO_DOWNLOAD_MB", 200),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port: getEnvOrDefault("PORT", "8080"),
	}
}

func loadLoaderConfig() LoaderConfig {
	return LoaderConfig{
		MaxUploadMB: int64(getEnvIntOrDefault("MAX_UPLOAD_MB", 256)),
	}
}

func validateConfig(config *Config) error {
	if config.Catalog.BaseURL == "" {
		return errors.ConfigInvalid("catalog base URL is required")
	}
	if !strings.HasPrefix(config.Catalog.BaseURL, "http://") && !strings.HasPrefix(config.Catalog.BaseURL, "https://") {
		return errors.ConfigInvalid("catalog base URL must be an http(s) URL")
	}
	if config.Catalog.MetadataTimeout <= 0 || config.Catalog.DownloadTimeout <= 0 {
		return errors.ConfigInvalid("catalog timeouts must be positive")
	}
	if config.Catalog.SearchRowsCap <= 0 {
		return errors.ConfigInvalid("search rows cap must be positive")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
