// config.go: declarative factory configuration
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginfactory

import (
	"encoding/json"
	"os"
	"regexp"
	"strings"

	"github.com/agilira/argus"
	"gopkg.in/yaml.v3"
)

// FactoryConfig is the declarative form of a factory's search paths,
// loadable from JSON or YAML files and applied in one shot.
type FactoryConfig struct {
	// Packages lists the search path blocks to register, one per
	// package bucket.
	Packages []PackageConfig `json:"packages" yaml:"packages"`
}

// PackageConfig registers a group of search paths under one package.
type PackageConfig struct {
	// Package is the target package bucket. Empty means the factory
	// default.
	Package string `json:"package,omitempty" yaml:"package,omitempty"`

	// Paths are the search paths to register. Values support
	// ${VAR} and ${VAR:-default} environment expansion.
	Paths []string `json:"paths,omitempty" yaml:"paths,omitempty"`

	// EnvVar optionally names an environment variable holding extra
	// paths separated by the OS path list separator.
	EnvVar string `json:"env_var,omitempty" yaml:"env_var,omitempty"`

	// Mechanism selects the loading strategy by name: "guess",
	// "load_source" or "importable". Empty means guess.
	Mechanism string `json:"mechanism,omitempty" yaml:"mechanism,omitempty"`
}

// envVarPattern matches ${VAR} and ${VAR:-default} references.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// expandEnvVariables substitutes environment variable references in a
// configuration value. Unset variables expand to their inline default,
// or to the empty string when no default is given.
func expandEnvVariables(value string) string {
	return envVarPattern.ReplaceAllStringFunc(value, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if resolved, ok := os.LookupEnv(groups[1]); ok {
			return resolved
		}
		return groups[3]
	})
}

// LoadConfigFile reads a factory configuration from a JSON or YAML
// file, detecting the format by extension. Environment variable
// references in paths are expanded after parsing.
func LoadConfigFile(path string) (*FactoryConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, NewConfigNotFoundError(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewConfigParseError(path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, NewConfigParseError(path, NewConfigValidationError("config file is empty", nil))
	}

	var config FactoryConfig
	switch format := argus.DetectFormat(path); format {
	case argus.FormatJSON:
		err = json.Unmarshal(data, &config)
	case argus.FormatYAML:
		err = yaml.Unmarshal(data, &config)
	default:
		return nil, NewConfigParseError(path,
			NewConfigValidationError("unsupported config format: "+format.String(), nil))
	}
	if err != nil {
		return nil, NewConfigParseError(path, err)
	}

	for i := range config.Packages {
		for j, p := range config.Packages[i].Paths {
			config.Packages[i].Paths[j] = expandEnvVariables(p)
		}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks structural soundness: every package block must name
// at least one path source and use a known mechanism.
func (c *FactoryConfig) Validate() error {
	for _, pkg := range c.Packages {
		if len(pkg.Paths) == 0 && pkg.EnvVar == "" {
			return NewConfigValidationError("package block has neither paths nor env_var", nil)
		}
		if _, err := ParseLoadingMechanism(pkg.Mechanism); err != nil {
			return NewConfigValidationError("unknown loading mechanism: "+pkg.Mechanism, err)
		}
	}
	return nil
}

// ApplyConfig registers every path block from a configuration, on top
// of whatever the factory already holds. Returns the number of plugins
// added.
func (f *Factory[T]) ApplyConfig(config *FactoryConfig) (int, error) {
	if config == nil {
		return 0, NewConfigValidationError("nil configuration", nil)
	}
	if err := config.Validate(); err != nil {
		return 0, err
	}

	total := 0
	for _, pkg := range config.Packages {
		mechanism, err := ParseLoadingMechanism(pkg.Mechanism)
		if err != nil {
			return total, err
		}
		if len(pkg.Paths) > 0 {
			total += f.RegisterPaths(pkg.Paths, pkg.Package, mechanism)
		}
		if pkg.EnvVar != "" {
			total += f.RegisterPathsFromEnvVar(pkg.EnvVar, pkg.Package, mechanism)
		}
	}
	return total, nil
}

// LoadConfigFile loads a configuration file and applies it to the
// factory. Returns the number of plugins added.
func (f *Factory[T]) LoadConfigFile(path string) (int, error) {
	config, err := LoadConfigFile(path)
	if err != nil {
		return 0, err
	}
	return f.ApplyConfig(config)
}
