package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/calebmor/drivecat/internal/domain"
)

// Defaults for scan policy knobs. Page size and ancestor depth are
// policy, not algorithmic invariants, so both live in configuration.
const (
	DefaultPageSize = 1000
	DefaultMaxDepth = 20
	MaxPageSize     = 1000
)

// Config represents the complete configuration for drivecat
type Config struct {
	// Credentials configure the Google OAuth client
	Credentials CredentialsConfig `mapstructure:"credentials"`

	// Catalog configures the persisted CSV catalog
	Catalog CatalogConfig `mapstructure:"catalog"`

	// Scan configures traversal policy
	Scan ScanConfig `mapstructure:"scan"`

	// Log configures logging
	Log LogConfig `mapstructure:"log"`

	// DataDir is where drivecat keeps its state database and lock file
	DataDir string `mapstructure:"data_dir"`
}

// CredentialsConfig holds the OAuth client configuration
type CredentialsConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	TokenPath    string `mapstructure:"token_path"`
}

// CatalogConfig configures the catalog file
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// ScanConfig configures traversal policy
type ScanConfig struct {
	// FolderID is the folder to scan from (drive root when empty)
	FolderID string `mapstructure:"folder_id"`

	// PageSize is the number of entries requested per listing page
	PageSize int64 `mapstructure:"page_size"`

	// MaxDepth bounds the ancestor walk during path resolution
	MaxDepth int `mapstructure:"max_depth"`
}

// LogConfig configures logging
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// Validate checks if the configuration is complete and consistent
func (c *Config) Validate() error {
	if c.Catalog.Path == "" {
		return fmt.Errorf("%w: catalog path cannot be empty", domain.ErrConfigInvalid)
	}
	if c.Scan.PageSize < 1 || c.Scan.PageSize > MaxPageSize {
		return fmt.Errorf("%w: scan page_size must be between 1 and %d, got %d",
			domain.ErrConfigInvalid, MaxPageSize, c.Scan.PageSize)
	}
	if c.Scan.MaxDepth < 1 {
		return fmt.Errorf("%w: scan max_depth must be positive, got %d",
			domain.ErrConfigInvalid, c.Scan.MaxDepth)
	}
	return nil
}

// ValidateCredentials checks that the OAuth client is configured.
// Split from Validate because commands like history don't need it.
func (c *Config) ValidateCredentials() error {
	if c.Credentials.ClientID == "" {
		return fmt.Errorf("%w: credentials client_id cannot be empty", domain.ErrConfigInvalid)
	}
	if c.Credentials.ClientSecret == "" {
		return fmt.Errorf("%w: credentials client_secret cannot be empty", domain.ErrConfigInvalid)
	}
	return nil
}

// GetDataDir returns the configured data directory, defaulting to the
// user config directory
func (c *Config) GetDataDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "drivecat")
	}
	return ".drivecat"
}
