// plugin.go: discovered plugin records
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginfactory

import (
	"reflect"
	"time"
)

// PluginSpec describes a single discovered plugin instance together with
// the provenance recorded at discovery time.
//
// Value holds the registered prototype. Type is its concrete reflect.Type,
// cached so queries never re-derive it. Root and SourcePath are empty for
// plugins registered directly from a value instead of a search path.
type PluginSpec struct {
	// Value is the plugin prototype implementing the factory interface.
	Value any

	// Type is the concrete type of Value.
	Type reflect.Type

	// Root is the search path the plugin was discovered under.
	Root string

	// SourcePath is the file the plugin was loaded from.
	SourcePath string

	// Mechanism records the loading strategy that produced the plugin.
	Mechanism LoadingMechanism

	// DiscoveredAt is the time the plugin entered the registry.
	DiscoveredAt time.Time
}
