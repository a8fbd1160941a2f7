package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// Config represents the entire studygen configuration
type Config struct {
	DefaultProfile string             `toml:"default_profile"`
	CacheHours     int                `toml:"cache_hours"`
	TemplateFile   string             `toml:"template_file,omitempty"`
	Profiles       map[string]Profile `toml:"profiles"`
}

// Profile represents an LLM provider configuration
type Profile struct {
	Name          string `toml:"-"`        // Set from map key
	Provider      string `toml:"provider"` // "openai", "anthropic", "ollama"
	Model         string `toml:"model"`
	ContextWindow int    `toml:"context_window,omitempty"` // Max context window in tokens (defaults to 8192)
}

// DefaultCacheHours matches a single study session spilling into the next
// day: results stay fresh for 24 hours.
const DefaultCacheHours = 24

// Load reads the configuration from the config file and environment variables
func Load() (*Config, error) {
	cfg := &Config{
		CacheHours: DefaultCacheHours,
		Profiles:   make(map[string]Profile),
	}

	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}

		// Set profile names from map keys
		for name, profile := range cfg.Profiles {
			profile.Name = name
			cfg.Profiles[name] = profile
		}
	}

	// Override with environment variables if set
	if profile := os.Getenv("STUDYGEN_PROFILE"); profile != "" {
		cfg.DefaultProfile = profile
	}

	return cfg, nil
}

// Save writes the configuration to the config file
func Save(cfg *Config) error {
	configPath := getConfigPath()

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetActiveProfile returns the active profile based on flags, env vars, and config
func (c *Config) GetActiveProfile() (*Profile, error) {
	var profileName string

	// Priority: CLI flag > env var > config default
	if viper.IsSet("profile") && viper.GetString("profile") != "" {
		profileName = viper.GetString("profile")
	} else if c.DefaultProfile != "" {
		profileName = c.DefaultProfile
	} else {
		return nil, fmt.Errorf("no profile specified and no default profile set")
	}

	profile, ok := c.Profiles[profileName]
	if !ok {
		return nil, fmt.Errorf("profile %q not found", profileName)
	}

	profile.Name = profileName
	return &profile, nil
}

// AddProfile adds or updates a profile
func (c *Config) AddProfile(name string, profile Profile) {
	if c.Profiles == nil {
		c.Profiles = make(map[string]Profile)
	}
	profile.Name = name
	c.Profiles[name] = profile
}

// GetContextWindow returns the context window for a profile, defaulting to 8192
func (p *Profile) GetContextWindow() int {
	if p.ContextWindow > 0 {
		return p.ContextWindow
	}
	return 8192
}

// GetAPIKey returns the API key for the given provider, read from the
// environment. An empty result is not fatal here: the provider is still
// constructed and the credential failure surfaces on the first remote call.
func (c *Config) GetAPIKey(provider string) string {
	switch provider {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	}

	// Ollama doesn't need an API key
	return ""
}

// getConfigPath returns the path to the config file
func getConfigPath() string {
	configPath, err := xdg.ConfigFile("studygen/config.toml")
	if err != nil {
		// Fallback to home directory
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "studygen", "config.toml")
	}
	return configPath
}
