package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPath is where Load looks for the defaults file.
const DefaultPath = "config.json"

// Config represents the configuration file structure. Every field is a
// default that command-line flags override.
type Config struct {
	LogLevel   string      `json:"log_level"`
	Workers    int         `json:"workers"`
	Color      string      `json:"color"`
	RHSDefault []string    `json:"rhs_default"`
	InputDir   string      `json:"input_dir"`
	Bloom      BloomConfig `json:"bloom"`
	Sort       SortConfig  `json:"sort"`
}

type BloomConfig struct {
	Intensity    *float64 `json:"intensity"`
	Radius       *float64 `json:"radius"`
	MinThreshold *int     `json:"min_threshold"`
	MaxThreshold *int     `json:"max_threshold"`
}

type SortConfig struct {
	Direction    string   `json:"direction"`
	SortBy       string   `json:"sort_by"`
	MinThreshold *float64 `json:"min_threshold"`
	MaxThreshold *float64 `json:"max_threshold"`
	Reversed     bool     `json:"reversed"`
}

// Load loads configuration from config.json in the working directory
func Load() (*Config, error) {
	return LoadFile(DefaultPath)
}

// LoadFile loads configuration from path. A missing file yields an empty
// config.
func LoadFile(configPath string) (*Config, error) {
	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{}, nil
	}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// ResolveInputPath resolves the input path, using input_dir from config if needed
func ResolveInputPath(inputPath string, config *Config) string {
	if inputPath == "" || inputPath == "-" {
		return inputPath
	}

	// If it's an absolute path or contains path separators, use as-is
	if filepath.IsAbs(inputPath) || strings.ContainsRune(inputPath, filepath.Separator) {
		return inputPath
	}

	// If config has input_dir and input looks like just a filename, combine them
	if config != nil && config.InputDir != "" {
		return filepath.Join(config.InputDir, inputPath)
	}

	return inputPath
}
