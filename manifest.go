// manifest.go: plugin manifest parsing for source-loaded modules
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginfactory

import (
	"encoding/json"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest describes a source-loaded plugin module.
//
// A manifest is the declarative counterpart of a compiled plugin bundle:
// instead of exporting values from a shared object, it names the bound
// implementations the module provides. Both JSON and YAML formats are
// supported.
//
// Example YAML manifest:
//
//	name: paint-tools
//	description: Brush and fill tools
//	exports:
//	  - PaintTool
//	  - FillTool
type Manifest struct {
	// Human-readable module identity, informational only
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Exports lists the catalog names of the implementations this
	// module provides. Names not bound in the factory catalog are
	// skipped during scanning.
	Exports []string `json:"exports" yaml:"exports"`

	// Free-form metadata carried along for diagnostics
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// parseManifestFile reads and parses a manifest file, trying JSON first
// and falling back to YAML.
func parseManifestFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) // #nosec G304 - discovery paths are registered by the caller
	if err != nil {
		return nil, NewManifestParseError(path, err)
	}

	var manifest Manifest
	if jsonErr := json.Unmarshal(data, &manifest); jsonErr != nil {
		if yamlErr := yaml.Unmarshal(data, &manifest); yamlErr != nil {
			return nil, NewManifestParseError(path, yamlErr)
		}
	}

	if err := validateManifest(&manifest); err != nil {
		return nil, err
	}

	return &manifest, nil
}

// validateManifest rejects export names that could never resolve against
// a catalog entry.
func validateManifest(manifest *Manifest) error {
	for _, export := range manifest.Exports {
		if export == "" {
			return NewConfigValidationError("manifest export name is empty", nil)
		}
		if strings.ContainsAny(export, "/\\") {
			return NewConfigValidationError("manifest export name contains path separator: "+export, nil)
		}
	}
	return nil
}
