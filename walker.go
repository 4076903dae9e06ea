// walker.go: recursive directory traversal for plugin discovery
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginfactory

import (
	"os"
	"path/filepath"
	"strings"
)

// bundleCacheDirName is the staging cache directory for compiled plugin
// bundles. Trees are free to keep intermediate build artifacts there;
// discovery never descends into it.
const bundleCacheDirName = ".plugincache"

// packagingDescriptorName is a tree packaging descriptor, never a plugin
// manifest, so file selection skips it by exact name.
const packagingDescriptorName = "package.json"

// candidateFilePattern matches file names eligible for scanning: the name
// must start with an ASCII letter and end in a recognized manifest or
// compiled-bundle extension.
var candidateFileExtensions = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
	".so":   true,
}

// isCandidateFile reports whether a file name is eligible for plugin
// scanning. Names starting with "test" are fixtures, and the packaging
// descriptor is tree metadata; both are skipped.
func isCandidateFile(name string) bool {
	if name == "" {
		return false
	}
	first := name[0]
	if !(first >= 'a' && first <= 'z' || first >= 'A' && first <= 'Z') {
		return false
	}
	if !candidateFileExtensions[filepath.Ext(name)] {
		return false
	}
	if strings.HasPrefix(name, "test") {
		return false
	}
	if name == packagingDescriptorName {
		return false
	}
	return true
}

// isExcludedDir reports whether any segment of the directory path names
// the bundle staging cache.
func isExcludedDir(dir string) bool {
	for _, segment := range strings.Split(filepath.ToSlash(dir), "/") {
		if segment == bundleCacheDirName {
			return true
		}
	}
	return false
}

// walkTree walks root recursively, invoking fn once per directory with
// the plain file names it contains. Directories rejected by excludeDir
// are pruned along with their subtrees. Unreadable directories are
// reported to fn's caller through onError and the walk continues;
// nothing aborts the traversal.
func walkTree(root string, excludeDir func(string) bool, onError func(dir string, err error), fn func(dir string, files []string)) {
	if excludeDir != nil && excludeDir(root) {
		return
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		if onError != nil {
			onError(root, err)
		}
		return
	}

	var files []string
	var subdirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			subdirs = append(subdirs, entry.Name())
			continue
		}
		files = append(files, entry.Name())
	}

	fn(root, files)

	for _, subdir := range subdirs {
		walkTree(filepath.Join(root, subdir), excludeDir, onError, fn)
	}
}

// cleanPath canonicalizes a filesystem path into a unique comparable
// form: absolute, lexically cleaned, with forward slashes.
func cleanPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return filepath.ToSlash(filepath.Clean(path))
}
