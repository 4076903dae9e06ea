// watcher_test.go: configuration hot reload tests
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginfactory

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/agilira/argus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietWatcherOptions() WatcherOptions {
	options := DefaultWatcherOptions()
	options.PollInterval = 50 * time.Millisecond
	options.CacheTTL = 25 * time.Millisecond
	options.AuditConfig = argus.AuditConfig{Enabled: false}
	return options
}

// TestWatcherAppliesInitialConfig tests that Start loads and applies the
// configuration before watching
func TestWatcherAppliesInitialConfig(t *testing.T) {
	factory := newPaintFactory(t, nil)
	factory.BindNamed("BrushTool", &versionedTool{id: "brush", version: "1.0"})

	dir := t.TempDir()
	writeManifest(t, dir, "brush.yaml", "BrushTool")

	configPath := filepath.Join(t.TempDir(), "factory.json")
	mustWrite(t, configPath, fmt.Sprintf(`{"packages": [{"paths": [%q]}]}`, dir))

	watcher, err := NewFactoryConfigWatcher(factory, configPath, quietWatcherOptions(), nil)
	require.NoError(t, err)

	require.NoError(t, watcher.Start(context.Background()))
	defer func() { _ = watcher.Stop() }()

	assert.True(t, watcher.IsRunning())
	assert.Equal(t, []string{"brush"}, factory.Identifiers(""))
	require.NotNil(t, watcher.CurrentConfig())
	assert.Len(t, watcher.CurrentConfig().Packages, 1)
}

// TestWatcherLifecycle tests start and stop state transitions
func TestWatcherLifecycle(t *testing.T) {
	factory := newPaintFactory(t, nil)

	dir := t.TempDir()
	configPath := filepath.Join(t.TempDir(), "factory.json")
	mustWrite(t, configPath, fmt.Sprintf(`{"packages": [{"paths": [%q]}]}`, dir))

	watcher, err := NewFactoryConfigWatcher(factory, configPath, quietWatcherOptions(), nil)
	require.NoError(t, err)

	assert.False(t, watcher.IsRunning())
	require.NoError(t, watcher.Start(context.Background()))

	// A second start while running must fail.
	require.Error(t, watcher.Start(context.Background()))

	require.NoError(t, watcher.Stop())
	assert.False(t, watcher.IsRunning())

	// Stop is permanent.
	require.Error(t, watcher.Stop())
	require.Error(t, watcher.Start(context.Background()))
}

// TestWatcherStartMissingConfig tests startup failure on an absent file
func TestWatcherStartMissingConfig(t *testing.T) {
	factory := newPaintFactory(t, nil)

	configPath := filepath.Join(t.TempDir(), "absent.json")
	watcher, err := NewFactoryConfigWatcher(factory, configPath, quietWatcherOptions(), nil)
	require.NoError(t, err)

	require.Error(t, watcher.Start(context.Background()))
	assert.False(t, watcher.IsRunning())
}

// TestWatcherNilFactory tests the constructor guard
func TestWatcherNilFactory(t *testing.T) {
	_, err := NewFactoryConfigWatcher[paintTool](nil, "factory.json", quietWatcherOptions(), nil)
	require.Error(t, err)
}

// TestWatcherRebuildOnChange tests that a config change event rebuilds
// the factory from the new file contents
func TestWatcherRebuildOnChange(t *testing.T) {
	factory := newPaintFactory(t, nil)
	factory.BindNamed("BrushTool", &versionedTool{id: "brush", version: "1.0"})
	factory.BindNamed("EraserTool", &versionedTool{id: "eraser", version: "1.0"})

	dir1 := t.TempDir()
	dir2 := t.TempDir()
	writeManifest(t, dir1, "brush.yaml", "BrushTool")
	writeManifest(t, dir2, "eraser.yaml", "EraserTool")

	configPath := filepath.Join(t.TempDir(), "factory.json")
	mustWrite(t, configPath, fmt.Sprintf(`{"packages": [{"paths": [%q]}]}`, dir1))

	watcher, err := NewFactoryConfigWatcher(factory, configPath, quietWatcherOptions(), nil)
	require.NoError(t, err)
	require.NoError(t, watcher.Start(context.Background()))
	defer func() { _ = watcher.Stop() }()

	require.Equal(t, []string{"brush"}, factory.Identifiers(""))

	// Swap the config to the second tree and wait for a rebuild.
	mustWrite(t, configPath, fmt.Sprintf(`{"packages": [{"paths": [%q]}]}`, dir2))

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if ids := factory.Identifiers(""); len(ids) == 1 && ids[0] == "eraser" {
			return
		}
		time.Sleep(25 * time.Millisecond)
	}
	t.Fatalf("factory was not rebuilt from the new config, identifiers = %v", factory.Identifiers(""))
}

// TestWatcherKeepsStateOnBrokenReload tests that an invalid rewrite
// leaves the previous configuration applied
func TestWatcherKeepsStateOnBrokenReload(t *testing.T) {
	logger := NewTestLogger()
	factory := newPaintFactory(t, logger)
	factory.BindNamed("BrushTool", &versionedTool{id: "brush", version: "1.0"})

	dir := t.TempDir()
	writeManifest(t, dir, "brush.yaml", "BrushTool")

	configPath := filepath.Join(t.TempDir(), "factory.json")
	mustWrite(t, configPath, fmt.Sprintf(`{"packages": [{"paths": [%q]}]}`, dir))

	watcher, err := NewFactoryConfigWatcher(factory, configPath, quietWatcherOptions(), logger)
	require.NoError(t, err)
	require.NoError(t, watcher.Start(context.Background()))
	defer func() { _ = watcher.Stop() }()

	previous := watcher.CurrentConfig()
	mustWrite(t, configPath, "{ not json")

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if logger.HasMessage("ERROR", "Failed to reload configuration") {
			break
		}
		time.Sleep(25 * time.Millisecond)
	}

	assert.Same(t, previous, watcher.CurrentConfig())
	assert.Equal(t, []string{"brush"}, factory.Identifiers(""))
}
