package shell

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the shell's rc file, loaded from YAML before the first prompt.
type Config struct {
	// HistoryPath is the command history database. Empty disables history.
	HistoryPath string `yaml:"history"`
	// Plugins are spawned and registered during startup.
	Plugins []PluginConfig `yaml:"plugins"`
	// Env is merged into the base overlay's environment.
	Env map[string]string `yaml:"env"`
	// ValuePrefix is printed before each output value in interactive mode.
	ValuePrefix string `yaml:"value_prefix"`
}

// PluginConfig identifies one plugin executable.
type PluginConfig struct {
	Name string   `yaml:"name"`
	Path string   `yaml:"path"`
	Args []string `yaml:"args"`
}

// DefaultConfig is the configuration used when no rc file exists.
func DefaultConfig() *Config {
	return &Config{ValuePrefix: "▶ "}
}

// DefaultConfigPath returns the standard rc file location.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "strand", "rc.yaml"), nil
}

// LoadConfig reads and parses the rc file. A missing file is not an error;
// it yields the default configuration.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
