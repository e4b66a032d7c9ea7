package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk CLI configuration.
type Config struct {
	DefaultProfile string             `yaml:"default_profile"`
	Profiles       map[string]Profile `yaml:"profiles"`
}

// Profile holds the server and credential for one environment.
type Profile struct {
	Name      string `yaml:"name"`
	ServerURL string `yaml:"server_url"`
	Token     string `yaml:"token"`
}

// validateConfigPath rejects unsafe config locations.
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("invalid config path: path traversal not allowed")
	}
	if !filepath.IsAbs(cleanPath) {
		return fmt.Errorf("invalid config path: must be absolute")
	}
	return nil
}

// LoadConfig reads the configuration file, returning an empty config
// when none exists yet.
func LoadConfig() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	if err := validateConfigPath(configPath); err != nil {
		return nil, err
	}

	config := &Config{Profiles: make(map[string]Profile)}

	if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
		return config, nil
	}

	data, err := os.ReadFile(configPath) //nolint:gosec // path validated above
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	if config.Profiles == nil {
		config.Profiles = make(map[string]Profile)
	}
	return config, nil
}

// SaveConfig writes the configuration file with owner-only
// permissions, since it carries the session token.
func SaveConfig(config *Config) error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}
	if err := validateConfigPath(configPath); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// GetCurrentProfile resolves the active profile, applying the --server
// flag on top of it.
func GetCurrentProfile() (*Profile, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	name := config.DefaultProfile
	if name == "" {
		name = "default"
	}

	profile, ok := config.Profiles[name]
	if !ok {
		profile = Profile{Name: name, ServerURL: "http://localhost:3001"}
	}
	if serverURL != "" {
		profile.ServerURL = serverURL
	}
	return &profile, nil
}

// SetProfile stores a profile and makes it the default.
func SetProfile(profile Profile) error {
	config, err := LoadConfig()
	if err != nil {
		return err
	}
	if profile.Name == "" {
		profile.Name = "default"
	}
	config.Profiles[profile.Name] = profile
	config.DefaultProfile = profile.Name
	return SaveConfig(config)
}
