package config

import "time"

// Config holds the application configuration.
type Config struct {
	CreatorName    string        `yaml:"creator_name"`
	OutputDir      string        `yaml:"output_dir"`
	HistoryPath    string        `yaml:"history_path"`
	DefaultTimeout time.Duration `yaml:"default_timeout"`
	ProxyURL       string        `yaml:"proxy_url"`
	NoProxy        string        `yaml:"no_proxy"`
	Insecure       bool          `yaml:"insecure"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		CreatorName:    "harlog",
		OutputDir:      "",
		HistoryPath:    "",
		DefaultTimeout: 30 * time.Second,
		ProxyURL:       "",
		NoProxy:        "",
		Insecure:       false,
	}
}
