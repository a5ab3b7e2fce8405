// Package config provides configuration file parsing for gh-upstream-watch.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigDir and ConfigFilename locate the default configuration file under
// the user config directory.
const (
	ConfigDir      = "gh-upstream-watch"
	ConfigFilename = "config.yml"
)

// Config is the tool configuration. Every field is optional; zero values
// are filled from Defaults.
type Config struct {
	// WatchedRepo is the owner/repo whose CI history is inspected.
	WatchedRepo string `yaml:"watched_repo"`
	// Workflow is the workflow file that runs the upstream suite.
	Workflow string `yaml:"workflow"`
	// DefaultBranch is the watched repository's default branch.
	DefaultBranch string `yaml:"default_branch"`
	// DependencyRepo is the owner/repo of the tracked dependency.
	DependencyRepo string `yaml:"dependency_repo"`
	// DependencyName is the name the dependency goes by in logs.
	DependencyName string `yaml:"dependency_name"`
	// DependencyBranch is the dependency branch used for freshness checks.
	DependencyBranch string `yaml:"dependency_branch"`
	// API selects the transport: auto, gh, or rest.
	API string `yaml:"api"`
	// Keywords extends the built-in failure classification keywords.
	Keywords []string `yaml:"keywords"`
}

// Defaults returns the configuration for the repositories this tool was
// built around: xarray's upstream-dev CI and the zarr dev branch.
func Defaults() Config {
	return Config{
		WatchedRepo:      "pydata/xarray",
		Workflow:         "upstream-dev-ci.yaml",
		DefaultBranch:    "main",
		DependencyRepo:   "zarr-developers/zarr-python",
		DependencyName:   "zarr",
		DependencyBranch: "main",
		API:              "auto",
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}

	return filepath.Join(dir, ConfigDir, ConfigFilename), nil
}

// Load loads the configuration from the default location. A missing file
// yields the defaults.
func Load() (Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Defaults(), nil
	}

	return LoadFrom(path)
}

// LoadFrom loads the configuration from a specific path, filling unset
// fields from Defaults.
func LoadFrom(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}

		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	return applyDefaults(cfg), nil
}

func applyDefaults(cfg Config) Config {
	def := Defaults()

	if cfg.WatchedRepo == "" {
		cfg.WatchedRepo = def.WatchedRepo
	}

	if cfg.Workflow == "" {
		cfg.Workflow = def.Workflow
	}

	if cfg.DefaultBranch == "" {
		cfg.DefaultBranch = def.DefaultBranch
	}

	if cfg.DependencyRepo == "" {
		cfg.DependencyRepo = def.DependencyRepo
	}

	if cfg.DependencyName == "" {
		cfg.DependencyName = def.DependencyName
	}

	if cfg.DependencyBranch == "" {
		cfg.DependencyBranch = def.DependencyBranch
	}

	if cfg.API == "" {
		cfg.API = def.API
	}

	return cfg
}
