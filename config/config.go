// Package config handles configuration loading and saving.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/linanwx/notakers/logger"
)

const (
	configDirName  = ".notakers"
	configFileName = "config.yaml"
)

var configDirOverride string

// SetConfigDir overrides the config directory for the current process.
// Empty value clears the override.
func SetConfigDir(dir string) {
	configDirOverride = strings.TrimSpace(dir)
}

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server"`
	Editor  EditorConfig  `json:"editor,omitempty" yaml:"editor,omitempty"`
	Logging LoggingConfig `json:"logging,omitempty" yaml:"logging,omitempty"`
}

// ServerConfig holds the fixed endpoints of the notes backend.
type ServerConfig struct {
	MirrorURL string `json:"mirrorURL" yaml:"mirrorURL"` // ws://localhost:8000/ws
	SubmitURL string `json:"submitURL" yaml:"submitURL"` // http://localhost:8000/submit_note
	NotesURL  string `json:"notesURL,omitempty" yaml:"notesURL,omitempty"`
}

// EditorConfig tunes the editor TUI.
type EditorConfig struct {
	Placeholder   string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	TokenEncoding string `json:"tokenEncoding,omitempty" yaml:"tokenEncoding,omitempty"` // r50k_base matches the backend's GPT-2
	TokenLimit    int    `json:"tokenLimit,omitempty" yaml:"tokenLimit,omitempty"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Enabled *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Level   string `json:"level,omitempty" yaml:"level,omitempty"`   // debug, info, warn, error
	Stdout  bool   `json:"stdout,omitempty" yaml:"stdout,omitempty"` // log to stdout
	File    string `json:"file,omitempty" yaml:"file,omitempty"`     // relative to the config dir
}

// ConfigDir returns the configuration directory.
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

// ConfigPath returns the path of config.yaml.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads config.yaml. A missing file yields the defaults.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to config.yaml, creating the directory if needed.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the endpoint URLs.
func (c *Config) Validate() error {
	checks := []struct {
		field, raw string
		schemes    []string
	}{
		{"server.mirrorURL", c.Server.MirrorURL, []string{"ws", "wss"}},
		{"server.submitURL", c.Server.SubmitURL, []string{"http", "https"}},
		{"server.notesURL", c.Server.NotesURL, []string{"http", "https"}},
	}
	for _, chk := range checks {
		u, err := url.Parse(chk.raw)
		if err != nil {
			return fmt.Errorf("%s: %w", chk.field, err)
		}
		ok := false
		for _, s := range chk.schemes {
			if u.Scheme == s {
				ok = true
			}
		}
		if !ok || u.Host == "" {
			return fmt.Errorf("%s: %q must be a %s URL", chk.field, chk.raw, strings.Join(chk.schemes, "/"))
		}
	}
	return nil
}

// BuildLoggerConfig converts the logging section for logger.Init.
func (c *Config) BuildLoggerConfig() logger.Config {
	enabled := true
	if c.Logging.Enabled != nil {
		enabled = *c.Logging.Enabled
	}
	return logger.Config{
		Enabled: enabled,
		Level:   c.Logging.Level,
		Stdout:  c.Logging.Stdout,
		File:    c.Logging.File,
	}
}
