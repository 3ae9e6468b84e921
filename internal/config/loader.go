package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the default config file location when set.
const EnvConfigPath = "HARLOG_CONFIG"

// Load loads configuration from $HARLOG_CONFIG if set, otherwise from
// ~/.config/harlog/config.yaml. A missing file yields the defaults; a
// malformed file is skipped with a warning.
func Load() Config {
	cfg := DefaultConfig()

	path := os.Getenv(EnvConfigPath)
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg
		}
		path = filepath.Join(home, ".config", "harlog", "config.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: ignoring config %s: %v\n", path, err)
		return DefaultConfig()
	}
	return cfg
}
