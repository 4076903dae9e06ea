// loader.go: module loading strategies for plugin discovery
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginfactory

import (
	"path/filepath"
	"plugin"
	"strings"

	"github.com/google/uuid"
)

// ExportsSymbolName is the fixed symbol a compiled plugin bundle must
// export for the importable mechanism. The symbol may be either a
// map[string]any variable or a func() map[string]any; either way it
// yields the bundle's named top-level attributes.
const ExportsSymbolName = "PluginExports"

// bundleExtension marks compiled plugin bundle files.
const bundleExtension = ".so"

// Module is a loaded plugin module: a named set of top-level attributes
// produced by one of the loading mechanisms.
type Module struct {
	// Name is the module's namespace: a dotted name derived from the
	// file path for importable bundles, or an anonymous uuid-derived
	// name for source-loaded modules.
	Name string

	// Path is the canonicalized absolute path of the module file.
	Path string

	// Attrs holds the module's named top-level attributes.
	Attrs map[string]any
}

// moduleLoader executes the loading mechanisms and maintains the
// loaded-module cache for importable bundles.
type moduleLoader struct {
	catalog *typeCatalog
	logger  Logger

	// loaded caches importable modules by canonical path, so a bundle
	// is opened and executed at most once per factory lifetime.
	loaded map[string]*Module
}

func newModuleLoader(catalog *typeCatalog, logger Logger) *moduleLoader {
	return &moduleLoader{
		catalog: catalog,
		logger:  logger,
		loaded:  make(map[string]*Module),
	}
}

// load produces a module for filePath using the requested mechanism,
// or nil when no mechanism could produce one. Failures are logged and
// swallowed: a file that cannot be loaded contributes nothing and the
// scan moves on.
func (l *moduleLoader) load(filePath, root string, mechanism LoadingMechanism) *Module {
	var module *Module

	if mechanism == MechanismImportable || mechanism == MechanismGuess {
		module = l.loadImportable(filePath, root)
	}

	if module == nil {
		if mechanism == MechanismLoadSource || mechanism == MechanismGuess {
			module = l.loadSource(filePath)
		}
	}

	return module
}

// loadImportable opens a compiled plugin bundle and reads its exports
// symbol. Only compiled-bundle files qualify; everything else yields no
// module so guess mode can fall through to source loading.
func (l *moduleLoader) loadImportable(filePath, root string) *Module {
	if filepath.Ext(filePath) != bundleExtension {
		return nil
	}

	canonical := cleanPath(filePath)
	if module, ok := l.loaded[canonical]; ok {
		return module
	}

	bundle, err := plugin.Open(filePath)
	if err != nil {
		l.logger.Debug("Bundle open failed, treating as no module",
			"path", filePath,
			"error", NewModuleLoadError(filePath, err))
		return nil
	}

	symbol, err := bundle.Lookup(ExportsSymbolName)
	if err != nil {
		l.logger.Debug("Bundle is missing the exports symbol",
			"path", filePath,
			"error", NewSymbolLookupError(filePath, ExportsSymbolName, err))
		return nil
	}

	var attrs map[string]any
	switch exports := symbol.(type) {
	case *map[string]any:
		attrs = *exports
	case func() map[string]any:
		attrs = exports()
	default:
		l.logger.Debug("Bundle exports symbol has unsupported type",
			"path", filePath,
			"symbol", ExportsSymbolName)
		return nil
	}

	module := &Module{
		Name:  dottedModuleName(root, filePath),
		Path:  canonical,
		Attrs: attrs,
	}
	l.loaded[canonical] = module

	return module
}

// loadSource parses the file as a manifest and resolves its exports
// against the bound catalog. The resulting module lives in an anonymous
// uuid-derived namespace.
func (l *moduleLoader) loadSource(filePath string) *Module {
	manifest, err := parseManifestFile(filePath)
	if err != nil {
		l.logger.Debug("Manifest load failed, treating as no module",
			"path", filePath,
			"error", err)
		return nil
	}

	attrs := make(map[string]any, len(manifest.Exports))
	for _, export := range manifest.Exports {
		prototype, ok := l.catalog.lookup(export)
		if !ok {
			l.logger.Debug("Manifest export is not bound in the catalog",
				"path", filePath,
				"export", export)
			continue
		}
		attrs[export] = prototype
	}

	return &Module{
		Name:  anonymousNamespace(filePath),
		Path:  cleanPath(filePath),
		Attrs: attrs,
	}
}

// reset drops the loaded-module cache. Cleared factories start from a
// cold cache so a later rescan re-reads every bundle.
func (l *moduleLoader) reset() {
	l.loaded = make(map[string]*Module)
}

// dottedModuleName converts a file path into a dotted module name
// relative to its registered root.
func dottedModuleName(root, filePath string) string {
	rel, err := filepath.Rel(root, filePath)
	if err != nil {
		rel = filepath.Base(filePath)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	return strings.ReplaceAll(filepath.ToSlash(rel), "/", ".")
}

// anonymousNamespace builds a unique namespace name for a source-loaded
// module.
func anonymousNamespace(filePath string) string {
	base := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	return base + "-" + uuid.NewString()
}
