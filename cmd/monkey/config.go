package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultConfigName = ".monkey.yaml"

// Config holds the settings read from the optional YAML config file.
type Config struct {
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`
	LogLevel    string `yaml:"log_level"`
	Banner      string `yaml:"banner"`
}

func defaultConfig() *Config {
	return &Config{
		Prompt:   ">> ",
		LogLevel: "warn",
		Banner:   "Monkey REPL. Ctrl+D or exit() to quit.",
	}
}

// loadConfig reads path over the defaults. When explicit is false a missing
// file is not an error.
func loadConfig(path string, explicit bool) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.HistoryFile != "" {
		cfg.HistoryFile = expandHome(cfg.HistoryFile)
	}
	return cfg, nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, defaultConfigName)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
