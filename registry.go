// registry.go: path and plugin registries
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginfactory

import (
	"sort"
)

// registeredPath records one search path registration as given by the
// caller, keyed by package and paired with its loading mechanism so the
// registration can be replayed verbatim on reload.
type registeredPath struct {
	Package   string
	Path      string
	Mechanism LoadingMechanism
}

// pathRegistry tracks registered search paths per package. Entries are
// unique per (package, canonical path): re-registering a known path
// overwrites its stored mechanism in place, keeping insertion order for
// replay.
type pathRegistry struct {
	entries []registeredPath
}

func newPathRegistry() *pathRegistry {
	return &pathRegistry{}
}

func (r *pathRegistry) register(packageName, path string, mechanism LoadingMechanism) {
	canonical := cleanPath(path)
	for i, entry := range r.entries {
		if entry.Package == packageName && cleanPath(entry.Path) == canonical {
			r.entries[i].Path = path
			r.entries[i].Mechanism = mechanism
			return
		}
	}
	r.entries = append(r.entries, registeredPath{
		Package:   packageName,
		Path:      path,
		Mechanism: mechanism,
	})
}

// pathsFor returns the registered paths for a package in registration
// order. Unknown packages yield an empty slice.
func (r *pathRegistry) pathsFor(packageName string) []string {
	paths := make([]string, 0)
	for _, entry := range r.entries {
		if entry.Package == packageName {
			paths = append(paths, entry.Path)
		}
	}
	return paths
}

// snapshot returns a copy of every registration, safe to iterate while
// the registry itself is being cleared and rebuilt.
func (r *pathRegistry) snapshot() []registeredPath {
	out := make([]registeredPath, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *pathRegistry) clear() {
	r.entries = nil
}

// pluginRegistry stores discovered plugin specs grouped by package.
type pluginRegistry struct {
	specs map[string][]*PluginSpec
}

func newPluginRegistry() *pluginRegistry {
	return &pluginRegistry{specs: make(map[string][]*PluginSpec)}
}

// add appends a spec to a package, creating the package bucket on first
// use.
func (r *pluginRegistry) add(packageName string, spec *PluginSpec) {
	r.specs[packageName] = append(r.specs[packageName], spec)
}

// listFor returns the specs registered under a package.
func (r *pluginRegistry) listFor(packageName string) []*PluginSpec {
	return r.specs[packageName]
}

// has reports whether a package bucket exists.
func (r *pluginRegistry) has(packageName string) bool {
	_, ok := r.specs[packageName]
	return ok
}

// packages returns the known package names in sorted order.
func (r *pluginRegistry) packages() []string {
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// total counts specs across every package.
func (r *pluginRegistry) total() int {
	n := 0
	for _, specs := range r.specs {
		n += len(specs)
	}
	return n
}

func (r *pluginRegistry) clear() {
	r.specs = make(map[string][]*PluginSpec)
}
