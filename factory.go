// factory.go: generic plugin factory facade
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginfactory

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	timecache "github.com/agilira/go-timecache"
)

// DefaultPackageName is the package bucket used when callers register
// paths or plugins without naming one.
const DefaultPackageName = "plugins"

// Options configures a Factory at construction time. The zero value is
// usable: no initial paths, the default package name, type names as
// identifiers and no version resolution.
type Options struct {
	// Paths are search paths registered during construction with the
	// guess mechanism.
	Paths []string

	// PackageName overrides DefaultPackageName as the fallback package.
	PackageName string

	// PluginIdentifier names the attribute resolved to identify a
	// plugin. Empty means the concrete type name is the identifier.
	PluginIdentifier string

	// VersionIdentifier names the attribute resolved for plugin
	// versions. Empty disables version resolution entirely.
	VersionIdentifier string

	// EnvVar names an environment variable holding additional search
	// paths separated by the OS path list separator.
	EnvVar string

	// Logger is any supported logger value, converted via NewLogger.
	Logger any
}

// Factory discovers, registers and resolves plugins implementing the
// interface type T. All methods are single-goroutine; wrap the factory
// in your own synchronization if you share it across goroutines.
type Factory[T any] struct {
	iface             reflect.Type
	pluginIdentifier  string
	versionIdentifier string
	defaultPackage    string
	logger            Logger

	catalog    *typeCatalog
	loader     *moduleLoader
	scanner    *interfaceScanner
	plugins    *pluginRegistry
	registered *pathRegistry
}

// New builds a factory for the interface type T. T must be an interface
// type; any other kind is rejected so conformance checks stay
// meaningful.
func New[T any](opts Options) (*Factory[T], error) {
	iface := reflect.TypeOf((*T)(nil)).Elem()
	if iface.Kind() != reflect.Interface {
		return nil, NewInvalidInterfaceError(iface.Kind().String())
	}

	logger := NewLogger(opts.Logger)
	defaultPackage := opts.PackageName
	if defaultPackage == "" {
		defaultPackage = DefaultPackageName
	}

	catalog := newTypeCatalog()
	f := &Factory[T]{
		iface:             iface,
		pluginIdentifier:  opts.PluginIdentifier,
		versionIdentifier: opts.VersionIdentifier,
		defaultPackage:    defaultPackage,
		logger:            logger,
		catalog:           catalog,
		loader:            newModuleLoader(catalog, logger),
		scanner:           newInterfaceScanner(iface, logger),
		plugins:           newPluginRegistry(),
		registered:        newPathRegistry(),
	}

	if len(opts.Paths) > 0 {
		f.RegisterPaths(opts.Paths, "", MechanismGuess)
	}
	if opts.EnvVar != "" {
		f.RegisterPathsFromEnvVar(opts.EnvVar, "", MechanismGuess)
	}
	return f, nil
}

// Bind registers prototype values in the export catalog under their own
// type names. Manifest exports resolve against these bindings during
// source loading.
func (f *Factory[T]) Bind(prototypes ...T) {
	for _, prototype := range prototypes {
		name := f.catalog.bindDefault(prototype)
		f.logger.Debug("Prototype bound", "name", name)
	}
}

// BindNamed registers a prototype under an explicit export name,
// overwriting any previous binding for that name.
func (f *Factory[T]) BindNamed(name string, prototype T) {
	f.catalog.bind(name, prototype)
	f.logger.Debug("Prototype bound", "name", name)
}

// RegisterPath scans a directory tree for plugin files and registers
// every conforming plugin found. The path is recorded even when the
// scan finds nothing, so it participates in reloads. Returns the number
// of plugins added; invalid or missing paths add zero.
func (f *Factory[T]) RegisterPath(path, packageName string, mechanism LoadingMechanism) int {
	if path == "" {
		return 0
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		f.logger.Debug("Search path skipped", "path", path, "error", NewInvalidPathError(path))
		return 0
	}

	pkg := f.packageOrDefault(packageName)
	f.registered.register(pkg, path, mechanism)

	var candidates []string
	walkTree(path, isExcludedDir,
		func(dir string, walkErr error) {
			f.logger.Warn("Directory scan failed", "dir", dir,
				"error", NewDiscoveryError("failed to read plugin directory", walkErr))
		},
		func(dir string, files []string) {
			for _, name := range files {
				if isCandidateFile(name) {
					candidates = append(candidates, cleanPath(filepath.Join(dir, name)))
				}
			}
		})

	count := 0
	for _, filePath := range candidates {
		module := f.loader.load(filePath, path, mechanism)
		if module == nil {
			continue
		}
		for _, spec := range f.scanner.scan(module, path, mechanism) {
			f.plugins.add(pkg, spec)
			count++
		}
	}

	f.logger.Debug("Search path registered",
		"path", path,
		"package", pkg,
		"mechanism", mechanism.String(),
		"plugins", count)
	return count
}

// RegisterPaths registers multiple search paths, skipping duplicates.
// Two paths are duplicates when they normalize to the same location; a
// path naming an existing file is normalized by dropping its extension
// first, so a manifest path and its directory collapse together.
// Returns the total number of plugins added.
func (f *Factory[T]) RegisterPaths(paths []string, packageName string, mechanism LoadingMechanism) int {
	total := 0
	visited := make(map[string]bool, len(paths))
	for _, path := range paths {
		if path == "" {
			continue
		}
		base := path
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			base = strings.TrimSuffix(path, filepath.Ext(path))
		}
		base = cleanPath(base)
		if visited[base] {
			continue
		}
		visited[base] = true
		total += f.RegisterPath(path, packageName, mechanism)
	}
	return total
}

// RegisterPathsFromEnvVar reads search paths from an environment
// variable, split on the OS path list separator, and registers them.
func (f *Factory[T]) RegisterPathsFromEnvVar(name, packageName string, mechanism LoadingMechanism) int {
	value := os.Getenv(name)
	if value == "" {
		f.logger.Debug("Environment variable empty or unset", "var", name)
		return 0
	}
	return f.RegisterPaths(strings.Split(value, string(os.PathListSeparator)), packageName, mechanism)
}

// RegisterPlugin adds a plugin value directly, bypassing path scanning.
// The value must implement the factory interface. When packageName is
// empty the package is derived from the plugin identifier: the
// identifier is split on "." and "-" separators and the first segment
// becomes the package, falling back to the factory default when the
// identifier has no separators. Returns false when the value does not
// conform or its identifier cannot be resolved.
func (f *Factory[T]) RegisterPlugin(plugin any, packageName string) bool {
	if plugin == nil {
		f.logger.Warn("Plugin registration refused", "error", NewInvalidPluginClassError("<nil>"))
		return false
	}
	t := reflect.TypeOf(plugin)
	if t == f.iface || !t.Implements(f.iface) {
		f.logger.Warn("Plugin registration refused",
			"type", t.String(),
			"error", NewInvalidPluginClassError(t.String()))
		return false
	}

	spec := &PluginSpec{
		Value:        plugin,
		Type:         t,
		Mechanism:    MechanismGuess,
		DiscoveredAt: timecache.CachedTime(),
	}

	if packageName == "" {
		id, err := f.resolveIdentifier(spec)
		if err != nil {
			f.logger.Warn("Plugin registration refused", "type", t.String(), "error", err)
			return false
		}
		segment := strings.Split(strings.ReplaceAll(id, ".", "-"), "-")[0]
		if segment != id {
			packageName = segment
		} else {
			packageName = f.defaultPackage
		}
	}

	f.plugins.add(packageName, spec)
	f.logger.Debug("Plugin registered directly", "type", t.String(), "package", packageName)
	return true
}

// UnregisterPath removes one registered path from a package and rebuilds
// the registry from the remaining registrations. Plugins discovered
// under other paths survive.
func (f *Factory[T]) UnregisterPath(path, packageName string) {
	pkg := f.packageOrDefault(packageName)
	target := cleanPath(path)

	remaining := f.registered.snapshot()
	f.Clear()
	for _, entry := range remaining {
		if entry.Package == pkg && cleanPath(entry.Path) == target {
			continue
		}
		f.RegisterPath(entry.Path, entry.Package, entry.Mechanism)
	}
}

// Reload clears the plugin registry and rescans every registered path.
func (f *Factory[T]) Reload() {
	snapshot := f.registered.snapshot()
	f.Clear()
	for _, entry := range snapshot {
		f.RegisterPath(entry.Path, entry.Package, entry.Mechanism)
	}
}

// Clear empties the plugin and path registries and the loaded-module
// cache without rescanning anything. Prototype bindings survive.
func (f *Factory[T]) Clear() {
	f.plugins.clear()
	f.registered.clear()
	f.loader.reset()
}

// Paths returns the registered search paths for a package, in
// registration order. An empty packageName means the factory default.
func (f *Factory[T]) Paths(packageName string) []string {
	return f.registered.pathsFor(f.packageOrDefault(packageName))
}

// Packages returns the package names with at least one registered
// plugin, sorted.
func (f *Factory[T]) Packages() []string {
	return f.plugins.packages()
}

// Identifiers returns the distinct plugin identifiers in a package,
// sorted. Plugins whose identifier cannot be resolved are skipped with
// a warning.
func (f *Factory[T]) Identifiers(packageName string) []string {
	pkg := f.packageOrDefault(packageName)
	seen := make(map[string]bool)
	var ids []string
	for _, spec := range f.plugins.listFor(pkg) {
		id, err := f.resolveIdentifier(spec)
		if err != nil {
			f.logger.Warn("Plugin identifier unresolved", "type", spec.Type.String(), "error", err)
			continue
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Versions returns the resolved versions of every plugin in a package
// matching the identifier, in ascending loose-version order. Returns an
// empty slice when no version attribute is configured.
func (f *Factory[T]) Versions(identifier, packageName string) []string {
	versions := make([]string, 0)
	if f.versionIdentifier == "" {
		return versions
	}
	pkg := f.packageOrDefault(packageName)
	for _, spec := range f.plugins.listFor(pkg) {
		id, err := f.resolveIdentifier(spec)
		if err != nil || id != identifier {
			continue
		}
		version, err := resolveAttribute(spec.Value, f.versionIdentifier)
		if err != nil {
			f.logger.Warn("Plugin version unresolved", "plugin_id", id, "error", err)
			continue
		}
		versions = append(versions, version)
	}
	sortVersionStrings(versions)
	return versions
}

// Plugins returns one representative spec per distinct identifier in a
// package. With version resolution configured the representative is the
// highest version.
func (f *Factory[T]) Plugins(packageName string) []*PluginSpec {
	pkg := f.packageOrDefault(packageName)
	var out []*PluginSpec
	for _, id := range f.Identifiers(pkg) {
		if spec := f.GetPluginFromID(id, pkg, ""); spec != nil {
			out = append(out, spec)
		}
	}
	return out
}

// GetPluginFromID resolves a plugin spec by identifier.
//
// An empty packageName searches every package; a named package that has
// no registered plugins is an error, logged and answered with nil. With
// no version attribute configured the first match wins. Otherwise an
// empty version selects the highest loose version and a non-empty
// version must match one of the resolved versions under loose-version
// equality, so "1.0" and "1.00" are the same version.
func (f *Factory[T]) GetPluginFromID(pluginID, packageName, version string) *PluginSpec {
	if packageName != "" && !f.plugins.has(packageName) {
		f.logger.Error("Plugin lookup failed",
			"plugin_id", pluginID,
			"package", packageName,
			"error", NewPackageNotRegisteredError(packageName))
		return nil
	}

	var candidates []*PluginSpec
	if packageName != "" {
		candidates = f.plugins.listFor(packageName)
	} else {
		for _, pkg := range f.plugins.packages() {
			candidates = append(candidates, f.plugins.listFor(pkg)...)
		}
	}

	var matching []*PluginSpec
	for _, spec := range candidates {
		id, err := f.resolveIdentifier(spec)
		if err != nil {
			f.logger.Debug("Plugin identifier unresolved during lookup",
				"type", spec.Type.String(), "error", err)
			continue
		}
		if id == pluginID {
			matching = append(matching, spec)
		}
	}
	if len(matching) == 0 {
		f.logger.Warn("Plugin not found",
			"plugin_id", pluginID,
			"package", packageName,
			"error", NewPluginNotFoundError(pluginID, packageName))
		return nil
	}

	if f.versionIdentifier == "" {
		return matching[0]
	}

	byVersion := make(map[string]*PluginSpec, len(matching))
	versions := make([]string, 0, len(matching))
	for _, spec := range matching {
		resolved, err := resolveAttribute(spec.Value, f.versionIdentifier)
		if err != nil {
			f.logger.Warn("Plugin version unresolved during lookup",
				"plugin_id", pluginID, "error", err)
			continue
		}
		if _, dup := byVersion[resolved]; !dup {
			versions = append(versions, resolved)
		}
		byVersion[resolved] = spec
	}
	if len(versions) == 0 {
		return matching[0]
	}
	sortVersionStrings(versions)

	if version == "" {
		return byVersion[versions[len(versions)-1]]
	}
	requested := ParseLooseVersion(version)
	for _, candidate := range versions {
		if requested.Compare(ParseLooseVersion(candidate)) == 0 {
			return byVersion[candidate]
		}
	}
	f.logger.Warn("Plugin version not found",
		"plugin_id", pluginID,
		"version", version,
		"error", NewPluginVersionNotFoundError(pluginID, version))
	return nil
}

// String renders a short factory summary for logs and debugging.
func (f *Factory[T]) String() string {
	identifier := f.pluginIdentifier
	if identifier == "" {
		identifier = "<type name>"
	}
	return fmt.Sprintf("[Factory[%s] - Identifier: %s, Plugin Count: %d]",
		f.iface.Name(), identifier, f.plugins.total())
}

// resolveIdentifier returns a spec's identity string, either the
// configured identifier attribute or the concrete type name.
func (f *Factory[T]) resolveIdentifier(spec *PluginSpec) (string, error) {
	if f.pluginIdentifier == "" {
		return baseTypeName(spec.Type), nil
	}
	return resolveAttribute(spec.Value, f.pluginIdentifier)
}

func (f *Factory[T]) packageOrDefault(packageName string) string {
	if packageName == "" {
		return f.defaultPackage
	}
	return packageName
}
