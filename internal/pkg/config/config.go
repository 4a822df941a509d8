package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads the configuration from the specified YAML file.
// A missing path is not an error: defaults plus environment overrides apply.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", configPath)
		}

		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %v", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %v", err)
		}
	}

	applyEnvOverrides(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("config validation error: %v", err)
	}

	return config, nil
}

// Environment variables win over file values so the agent can run
// from a bare .env.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("API_BASE_URL"); v != "" {
		config.API.BaseURL = v
	}
	if v := os.Getenv("WEB_PORT"); v != "" {
		config.Agent.WebPort = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		config.Agent.DataDir = v
	}
	if v := os.Getenv("WATCH_DIR"); v != "" {
		config.Agent.WatchDir = v
	}
	if v := os.Getenv("LOG_SERVER_URL"); v != "" {
		config.Logging.LogServerURL = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Notifications.TelegramChatID = id
		}
	}
}

func validateConfig(config *Config) error {
	if config.API.BaseURL == "" {
		return fmt.Errorf("api.baseURL (or API_BASE_URL) must be set")
	}

	if config.Agent.WebPort == "" {
		config.Agent.WebPort = "8090"
	}

	if config.Agent.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to resolve home directory: %v", err)
		}
		config.Agent.DataDir = filepath.Join(home, ".cloud_drive_agent")
	}

	if err := os.MkdirAll(config.Agent.DataDir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory %s: %v", config.Agent.DataDir, err)
	}

	if config.Cache.TTLSeconds <= 0 {
		config.Cache.TTLSeconds = 300
	}

	return nil
}

// APIBaseURL returns the backend API root without a trailing slash.
func (c *Config) APIBaseURL() string {
	return strings.TrimSuffix(strings.TrimSpace(c.API.BaseURL), "/")
}

// ServerBaseURL strips a trailing /api segment from the API base, giving
// the host the realtime endpoint and OAuth entry point live on.
func (c *Config) ServerBaseURL() string {
	base := c.APIBaseURL()
	return strings.TrimSuffix(base, "/api")
}

// RealtimeURL derives the websocket endpoint from the API base URL.
func (c *Config) RealtimeURL() string {
	base := c.ServerBaseURL()
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + "/realtime"
}

// TokenDBPath is the sqlite file holding the persisted session state.
func (c *Config) TokenDBPath() string {
	return filepath.Join(c.Agent.DataDir, "agent.db")
}

// TokenKeyPath is the key file used to seal the token at rest.
func (c *Config) TokenKeyPath() string {
	return filepath.Join(c.Agent.DataDir, "agent.key")
}
