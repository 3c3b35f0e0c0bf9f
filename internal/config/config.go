// Copyright (c) Microsoft Corporation. All rights reserved.

// Package config loads the devhost tool configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const DefaultFileName = "devhost.yaml"

// ServerConfig describes how to run the language-server backend.
type ServerConfig struct {
	// Path to the language server executable.
	Path string `yaml:"path"`

	Args []string `yaml:"args,omitempty"`

	// Environment files applied to the server process, in order.
	// Explicit Env entries take precedence over envFile contents.
	EnvFiles []string          `yaml:"envFiles,omitempty"`
	Env      map[string]string `yaml:"env,omitempty"`

	WorkingDirectory string `yaml:"workingDirectory,omitempty"`

	// File watched for changes that trigger a server restart.
	SettingsFile string `yaml:"settingsFile,omitempty"`
}

type Config struct {
	// Path to the dotnet host executable, "dotnet" if unset.
	DotnetPath string `yaml:"dotnetPath,omitempty"`

	Server ServerConfig `yaml:"server"`
}

func Parse(yamlContent []byte) (*Config, error) {
	var cfg Config

	if err := yaml.Unmarshal(yamlContent, &cfg); err != nil {
		return nil, fmt.Errorf("unable to parse tool configuration: %w", err)
	}

	if cfg.DotnetPath == "" {
		cfg.DotnetPath = "dotnet"
	}

	return &cfg, nil
}

// Load reads the configuration from path, or from DefaultFileName in the
// workspace folder when path is empty. A missing default file yields the
// zero configuration rather than an error.
func Load(path string, workspaceFolder string) (*Config, error) {
	usingDefault := path == ""
	if usingDefault {
		path = filepath.Join(workspaceFolder, DefaultFileName)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if usingDefault && os.IsNotExist(err) {
			return &Config{DotnetPath: "dotnet"}, nil
		}
		return nil, fmt.Errorf("unable to read tool configuration file %s: %w", path, err)
	}

	cfg, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	resolveRelative(cfg, filepath.Dir(path))
	return cfg, nil
}

// Paths in the configuration file are resolved against the file's directory.
func resolveRelative(cfg *Config, baseDir string) {
	cfg.Server.Path = absolute(baseDir, cfg.Server.Path)
	cfg.Server.WorkingDirectory = absolute(baseDir, cfg.Server.WorkingDirectory)
	cfg.Server.SettingsFile = absolute(baseDir, cfg.Server.SettingsFile)
	for i, envFile := range cfg.Server.EnvFiles {
		cfg.Server.EnvFiles[i] = absolute(baseDir, envFile)
	}
}

func absolute(baseDir string, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
