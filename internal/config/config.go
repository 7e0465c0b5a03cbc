package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration structure.
// It defines browsing defaults, enumeration filters, and window parameters.
type Config struct {
	Settings struct {
		StartDirectory  string   `yaml:"start_directory"`  // Folder opened on startup (empty = none)
		ExcludePatterns []string `yaml:"exclude_patterns"` // Glob patterns skipped during enumeration
		Debug           bool     `yaml:"debug"`            // Enable debug logging
	} `yaml:"settings"`
	Watch struct {
		Enabled    bool `yaml:"enabled"`     // Refresh the file list when the folder changes on disk
		DebounceMs int  `yaml:"debounce_ms"` // Quiet period before a refresh fires
	} `yaml:"watch"`
	Window struct {
		Width  int `yaml:"width"`  // Initial window width
		Height int `yaml:"height"` // Initial window height
	} `yaml:"window"`
}

// LoadConfig loads configuration from the default location
// (~/.config/fwinphotoviewer/config.yaml).
func LoadConfig() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(home, ".config", "fwinphotoviewer", "config.yaml")
	return LoadConfigFile(configPath)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	// Start with default configuration
	cfg := defaultConfig()

	// Try to read the config file
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if file doesn't exist
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Unmarshal into a temporary config to preserve defaults for unset fields
	var tempCfg Config
	if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Merge the loaded config with defaults
	if tempCfg.Settings.StartDirectory != "" {
		cfg.Settings.StartDirectory = tempCfg.Settings.StartDirectory
	}
	if len(tempCfg.Settings.ExcludePatterns) > 0 {
		cfg.Settings.ExcludePatterns = tempCfg.Settings.ExcludePatterns
	}
	cfg.Settings.Debug = tempCfg.Settings.Debug

	cfg.Watch.Enabled = tempCfg.Watch.Enabled
	if tempCfg.Watch.DebounceMs > 0 {
		cfg.Watch.DebounceMs = tempCfg.Watch.DebounceMs
	}

	if tempCfg.Window.Width > 0 {
		cfg.Window.Width = tempCfg.Window.Width
	}
	if tempCfg.Window.Height > 0 {
		cfg.Window.Height = tempCfg.Window.Height
	}

	// Validate the final configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Settings.StartDirectory = ""
	cfg.Settings.ExcludePatterns = []string{}
	cfg.Settings.Debug = false

	cfg.Watch.Enabled = false
	cfg.Watch.DebounceMs = 250

	cfg.Window.Width = 1100
	cfg.Window.Height = 800

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	// Create parent directories if they don't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Marshal the config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write the data to the file
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
// Returns error if any settings are invalid.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config")
	}

	// Exclude patterns must compile
	for i, pattern := range c.Settings.ExcludePatterns {
		if pattern == "" {
			return fmt.Errorf("exclude pattern %d: pattern cannot be empty", i)
		}
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("exclude pattern %d (%q): %w", i, pattern, err)
		}
	}

	if c.Watch.DebounceMs < 0 {
		return fmt.Errorf("watch debounce must be >= 0 ms")
	}

	if c.Window.Width < 0 || c.Window.Height < 0 {
		return fmt.Errorf("window dimensions must be >= 0")
	}

	// The start directory must exist if set
	if c.Settings.StartDirectory != "" {
		info, err := os.Stat(c.Settings.StartDirectory)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("start directory does not exist: %s", c.Settings.StartDirectory)
			}
			return fmt.Errorf("error accessing start directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("start directory is not a directory: %s", c.Settings.StartDirectory)
		}
	}

	return nil
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}
