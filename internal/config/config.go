package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Sources       []Source   `yaml:"sources"`
	WindowDays    int        `yaml:"window_days"`
	PacingSeconds int        `yaml:"pacing_seconds"`
	Extraction    Extraction `yaml:"extraction"`
	Output        Output     `yaml:"output"`
	Logging       Logging    `yaml:"logging"`
}

// Source is one registered channel. Either ChannelID (YouTube) or FeedURL
// (any RSS/Atom feed) must be set. Declaration order is scan order.
type Source struct {
	Name         string `yaml:"name"`
	ChannelID    string `yaml:"channel_id"`
	FeedURL      string `yaml:"feed_url"`
	FetchContent bool   `yaml:"fetch_content"`
}

type Extraction struct {
	Provider     string `yaml:"provider"`
	Model        string `yaml:"model"`
	APIKeyEnv    string `yaml:"api_key_env"`
	OpenAIModel  string `yaml:"openai_model"`
	OpenAIKeyEnv string `yaml:"openai_api_key_env"`
	MaxTokens    int    `yaml:"max_tokens"`
	PromptFile   string `yaml:"prompt_file"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for vidigest.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "vidigest")
}

// DataDir returns the XDG data directory for vidigest.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "vidigest")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/vidigest/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'vidigest init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		WindowDays:    3,
		PacingSeconds: 3,
		Extraction: Extraction{
			Provider:     "gemini",
			Model:        "gemini-2.5-flash",
			APIKeyEnv:    "GOOGLE_API_KEY",
			OpenAIModel:  "gpt-4o-mini",
			OpenAIKeyEnv: "OPENAI_API_KEY",
			MaxTokens:    2048,
		},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	for i, s := range cfg.Sources {
		if s.Name == "" {
			return nil, fmt.Errorf("source %d: name is required", i+1)
		}
		if s.ChannelID == "" && s.FeedURL == "" {
			return nil, fmt.Errorf("source %q: channel_id or feed_url is required", s.Name)
		}
	}

	return cfg, nil
}

// Pacing returns the delay enforced between successive persisted items.
func (c *Config) Pacing() time.Duration {
	return time.Duration(c.PacingSeconds) * time.Second
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
