// Package pluginfactory provides a plugin discovery and versioned registry
// engine for Go applications. It locates plugin modules under registered
// filesystem paths, loads them through a choice of loading mechanisms
// (compiled shared-object bundles or declarative manifests), extracts every
// exported value implementing a configured interface, and maintains a
// queryable registry keyed by package, identifier and optional version.
//
// Key Features:
//   - Recursive search-path registration with per-package partitioning
//   - Three loading mechanisms: importable bundles, source manifests, and
//     a graceful guess mode that degrades from one to the other
//   - Identifier and version resolution through plain values or
//     zero-argument accessors on the plugin type
//   - Loose dotted-component version ordering for highest-version queries
//   - Best-effort discovery: a broken plugin file never aborts the scan
//   - Declarative factory configuration with Argus-powered hot reload
//   - Structured, coded errors and pluggable logging
//
// Basic Usage:
//
//	// Define the interface your plugins must implement
//	type Tool interface {
//		Run() error
//	}
//
//	// Create a factory and bind the implementations manifests may export
//	factory, err := pluginfactory.New[Tool](pluginfactory.Options{
//		PluginIdentifier:  "Name",
//		VersionIdentifier: "Version",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	factory.Bind(&PaintTool{}, &EraseTool{})
//
//	// Register search paths and query the registry
//	factory.RegisterPath("/opt/tools", "", pluginfactory.MechanismGuess)
//	tool := factory.GetPluginFromID("paint", "", "")
//
// Discovery executes arbitrary plugin bundle code when the importable
// mechanism opens a shared object; register only trees you trust. The
// factory holds no locks: callers needing concurrent mutation must
// serialize externally.
//
// Copyright (c) 2025 AGILira - A. Giordano
// SPDX-License-Identifier: MPL-2.0
package pluginfactory
