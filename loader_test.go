// loader_test.go: module loading mechanism tests
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginfactory

import (
	"path/filepath"
	"strings"
	"testing"
)

// TestLoadSourceResolvesBoundExports tests manifest loading against the
// catalog
func TestLoadSourceResolvesBoundExports(t *testing.T) {
	catalog := newTypeCatalog()
	catalog.bind("BrushTool", &describedPlugin{Label: "brush"})
	loader := newModuleLoader(catalog, NewNoOpLogger())

	path := filepath.Join(t.TempDir(), "tools.yaml")
	mustWrite(t, path, "exports:\n  - BrushTool\n  - UnboundTool\n")

	module := loader.load(path, filepath.Dir(path), MechanismLoadSource)
	if module == nil {
		t.Fatal("expected a module")
	}
	if len(module.Attrs) != 1 {
		t.Fatalf("Attrs = %v, want exactly the bound export", module.Attrs)
	}
	if _, ok := module.Attrs["BrushTool"]; !ok {
		t.Error("expected BrushTool to resolve")
	}
	if module.Path != cleanPath(path) {
		t.Errorf("Path = %q, want canonical %q", module.Path, cleanPath(path))
	}
}

// TestLoadSourceAnonymousNamespace tests that source-loaded modules get
// unique namespaces
func TestLoadSourceAnonymousNamespace(t *testing.T) {
	catalog := newTypeCatalog()
	loader := newModuleLoader(catalog, NewNoOpLogger())

	path := filepath.Join(t.TempDir(), "tools.yaml")
	mustWrite(t, path, "exports: []\n")

	first := loader.load(path, filepath.Dir(path), MechanismLoadSource)
	second := loader.load(path, filepath.Dir(path), MechanismLoadSource)
	if first == nil || second == nil {
		t.Fatal("expected modules")
	}
	if !strings.HasPrefix(first.Name, "tools-") {
		t.Errorf("Name = %q, want tools- prefix", first.Name)
	}
	if first.Name == second.Name {
		t.Error("expected distinct namespaces per load")
	}
}

// TestLoadSourceBrokenManifest tests that parse failures yield no module
func TestLoadSourceBrokenManifest(t *testing.T) {
	logger := NewTestLogger()
	loader := newModuleLoader(newTypeCatalog(), logger)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	mustWrite(t, path, "{ not: [valid")

	if module := loader.load(path, filepath.Dir(path), MechanismLoadSource); module != nil {
		t.Fatal("expected no module for a broken manifest")
	}
	if logger.CountLevel("DEBUG") == 0 {
		t.Error("expected the failure to be logged")
	}
}

// TestLoadImportableRejectsNonBundles tests the extension gate
func TestLoadImportableRejectsNonBundles(t *testing.T) {
	loader := newModuleLoader(newTypeCatalog(), NewNoOpLogger())

	path := filepath.Join(t.TempDir(), "tools.yaml")
	mustWrite(t, path, "exports: []\n")

	if module := loader.loadImportable(path, filepath.Dir(path)); module != nil {
		t.Fatal("expected no module for a non-bundle file")
	}
}

// TestLoadImportableCorruptBundle tests graceful failure on a file that
// is not a real shared object
func TestLoadImportableCorruptBundle(t *testing.T) {
	logger := NewTestLogger()
	loader := newModuleLoader(newTypeCatalog(), logger)

	path := filepath.Join(t.TempDir(), "fake.so")
	mustWrite(t, path, "this is not a shared object")

	if module := loader.load(path, filepath.Dir(path), MechanismImportable); module != nil {
		t.Fatal("expected no module for a corrupt bundle")
	}
	if logger.CountLevel("DEBUG") == 0 {
		t.Error("expected the failure to be logged")
	}
}

// TestGuessFallsBackToSource tests mechanism degradation
func TestGuessFallsBackToSource(t *testing.T) {
	catalog := newTypeCatalog()
	catalog.bind("BrushTool", &describedPlugin{})
	loader := newModuleLoader(catalog, NewNoOpLogger())

	path := filepath.Join(t.TempDir(), "tools.yaml")
	mustWrite(t, path, "exports:\n  - BrushTool\n")

	module := loader.load(path, filepath.Dir(path), MechanismGuess)
	if module == nil {
		t.Fatal("expected guess mode to fall back to source loading")
	}
	if _, ok := module.Attrs["BrushTool"]; !ok {
		t.Error("expected BrushTool to resolve")
	}
}

// TestLoadSourceOnlySkipsBundles tests that load_source never resolves
// bundle files through the manifest parser into plugins
func TestLoadSourceOnlySkipsBundles(t *testing.T) {
	loader := newModuleLoader(newTypeCatalog(), NewNoOpLogger())

	path := filepath.Join(t.TempDir(), "real.so")
	mustWrite(t, path, "\x7fELF garbage")

	if module := loader.load(path, filepath.Dir(path), MechanismLoadSource); module != nil {
		t.Fatal("expected no module")
	}
}

// TestDottedModuleName tests path to namespace conversion
func TestDottedModuleName(t *testing.T) {
	root := filepath.Join("plugins", "tree")
	path := filepath.Join(root, "paint", "brush.so")
	if name := dottedModuleName(root, path); name != "paint.brush" {
		t.Errorf("dottedModuleName = %q, want %q", name, "paint.brush")
	}
}

// TestLoaderReset tests that reset drops the bundle cache
func TestLoaderReset(t *testing.T) {
	loader := newModuleLoader(newTypeCatalog(), NewNoOpLogger())
	loader.loaded["x"] = &Module{Name: "x"}
	loader.reset()
	if len(loader.loaded) != 0 {
		t.Error("expected the cache to be empty after reset")
	}
}
