package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	SetlistFM  SetlistFMConfig
	Catalog    CatalogConfig
	Export     ExportConfig
	Parse      ParseConfig
	Match      MatchConfig
	Automation AutomationConfig

	// Log level (debug, info, warn, error)
	// Default: "info"
	LogLevel string
}

// SetlistFMConfig holds setlist.fm API settings
type SetlistFMConfig struct {
	APIKey   string
	BaseURL  string
	Language string
}

// CatalogConfig controls the iTunes Search API lookup step
type CatalogConfig struct {
	Enabled bool
	Country string
}

// ExportConfig controls playlist file export
type ExportConfig struct {
	// "m3u" or "csv"
	Format string

	// Directory for exported files when no output path is given
	Dir string
}

// ParseConfig controls setlist parsing
type ParseConfig struct {
	SkipTape bool
}

// MatchConfig controls library matching
type MatchConfig struct {
	StripQualifiers bool
}

// AutomationConfig controls music application scripting
type AutomationConfig struct {
	ScriptTimeout time.Duration
}

// EnvPrefix prefixes environment overrides, e.g. SETLISTIFY_EXPORT_FORMAT.
const EnvPrefix = "SETLISTIFY"

// Load reads configuration from file and environment.
//
// An empty path searches the config directory and the working directory for
// config.yaml; a missing file there is not an error. An explicit path must
// exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(getConfigDir())
		v.AddConfigPath(".")
	}

	// Set defaults
	v.SetDefault("setlistfm.language", "en")
	v.SetDefault("catalog.enabled", true)
	v.SetDefault("catalog.country", "US")
	v.SetDefault("export.format", "m3u")
	v.SetDefault("export.dir", "")
	v.SetDefault("parse.skip_tape", false)
	v.SetDefault("match.strip_qualifiers", true)
	v.SetDefault("automation.script_timeout", 30*time.Second)
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// Read from environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("setlistfm.api_key", EnvPrefix+"_SETLISTFM_API_KEY", "SETLISTFM_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind API key environment: %w", err)
	}

	// Map config to struct
	cfg := &Config{
		SetlistFM: SetlistFMConfig{
			APIKey:   strings.TrimSpace(v.GetString("setlistfm.api_key")),
			BaseURL:  v.GetString("setlistfm.base_url"),
			Language: v.GetString("setlistfm.language"),
		},
		Catalog: CatalogConfig{
			Enabled: v.GetBool("catalog.enabled"),
			Country: v.GetString("catalog.country"),
		},
		Export: ExportConfig{
			Format: v.GetString("export.format"),
			Dir:    v.GetString("export.dir"),
		},
		Parse: ParseConfig{
			SkipTape: v.GetBool("parse.skip_tape"),
		},
		Match: MatchConfig{
			StripQualifiers: v.GetBool("match.strip_qualifiers"),
		},
		Automation: AutomationConfig{
			ScriptTimeout: v.GetDuration("automation.script_timeout"),
		},
		LogLevel: v.GetString("log_level"),
	}

	return cfg, nil
}

// getConfigDir returns the configuration directory path
func getConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, ".config", "setlistify")
}

// GetConfigDir returns the configuration directory path (public helper)
func GetConfigDir() string {
	return getConfigDir()
}
