// panic_recovery.go: panic isolation for untrusted plugin code paths
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginfactory

import (
	"runtime"
)

// withStackRecover returns a deferred recovery function that logs any panic
// with a full stack trace. Module scanning and attribute resolution run
// arbitrary plugin code; a panic there must be contained so discovery of
// the remaining tree continues.
//
// Usage:
//
//	defer withStackRecover(logger)()
func withStackRecover(logger Logger) func() {
	return func() {
		if r := recover(); r != nil {
			buf := make([]byte, 64<<10)
			n := runtime.Stack(buf, false)

			logger.Error("Panic recovered during plugin introspection",
				"panic", r,
				"stack", string(buf[:n]))
		}
	}
}
