package config

import (
	"fmt"
	"os"
	"time"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type ServerConfig struct {
	URL            string `toml:"url"`
	RequestTimeout string `toml:"request_timeout,omitempty"`
}

type UserConfig struct {
	Server         ServerConfig `toml:"server"`
	WelcomeMessage string       `toml:"welcome_message,omitempty"`
}

type Config struct {
	DataDirectory  string
	ServerURL      string
	RequestTimeout time.Duration
	WelcomeMessage string
	KeyBindings    *KeyBindingsConfig
}

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// Timeout returns the HTTP client timeout. Zero means the transport decides.
func (c *Config) Timeout() time.Duration {
	return c.RequestTimeout
}

func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("CURIE_SERVER_URL"); url != "" {
		c.ServerURL = url
	}
	if dataDir := os.Getenv("CURIE_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
}

// Overrides carries command line values. Empty fields are ignored.
type Overrides struct {
	ServerURL     string
	DataDirectory string
}

func Load() (*Config, error) {
	return LoadWithOverrides(Overrides{})
}

func LoadWithOverrides(o Overrides) (*Config, error) {
	cfg := &Config{
		DataDirectory:  DefaultDataDirectory,
		ServerURL:      DefaultServerURL,
		WelcomeMessage: DefaultWelcomeMessage,
	}

	systemCfg, err := LoadSystemConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}
	if systemCfg.DataDirectory != "" {
		cfg.DataDirectory = systemCfg.DataDirectory
	}

	// Data directory may move before the user config is read
	if dataDir := os.Getenv("CURIE_DATA_DIR"); dataDir != "" {
		cfg.DataDirectory = dataDir
	}
	if o.DataDirectory != "" {
		cfg.DataDirectory = o.DataDirectory
	}

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	if err := cfg.applyUserConfig(userCfg); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()
	if o.DataDirectory != "" {
		cfg.DataDirectory = o.DataDirectory
	}
	if o.ServerURL != "" {
		cfg.ServerURL = o.ServerURL
	}

	kb, err := LoadKeybindings(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load keybindings: %w", err)
	}
	cfg.KeyBindings = kb

	return cfg, nil
}

func (c *Config) applyUserConfig(u *UserConfig) error {
	if u.Server.URL != "" {
		c.ServerURL = u.Server.URL
	}
	if u.Server.RequestTimeout != "" {
		d, err := time.ParseDuration(u.Server.RequestTimeout)
		if err != nil {
			return fmt.Errorf("invalid server.request_timeout %q: %w", u.Server.RequestTimeout, err)
		}
		c.RequestTimeout = d
	}
	if u.WelcomeMessage != "" {
		c.WelcomeMessage = u.WelcomeMessage
	}
	return nil
}
