// mechanism.go: plugin module loading mechanism selection
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginfactory

// LoadingMechanism selects how plugin files found under a registered path
// are turned into inspectable modules.
type LoadingMechanism int

const (
	// MechanismGuess is the default mechanism. It attempts
	// MechanismImportable first and, when that yields no module, falls
	// back to MechanismLoadSource. It degrades gracefully and is the
	// right choice when a tree mixes compiled bundles and manifests.
	MechanismGuess LoadingMechanism = iota

	// MechanismLoadSource loads a plugin module from its source text: the
	// file is parsed as a declarative manifest whose exports resolve
	// against the factory's bound type catalog. Works for arbitrary
	// out-of-tree files, at the cost of the identity guarantees compiled
	// bundles give. Each source-loaded module lives in an anonymous
	// uuid-derived namespace.
	MechanismLoadSource

	// MechanismImportable loads a compiled plugin bundle (a shared
	// object exporting the registration symbol). Already-loaded bundles
	// are served from the module cache without re-execution, which keeps
	// type identity stable across re-scans. Files that are not compiled
	// bundles always yield no module under this mechanism.
	MechanismImportable
)

// String returns the mechanism's configuration name.
func (m LoadingMechanism) String() string {
	switch m {
	case MechanismLoadSource:
		return "load_source"
	case MechanismImportable:
		return "importable"
	default:
		return "guess"
	}
}

// ParseLoadingMechanism converts a configuration string into a
// LoadingMechanism. An empty string selects MechanismGuess.
func ParseLoadingMechanism(name string) (LoadingMechanism, error) {
	switch name {
	case "", "guess":
		return MechanismGuess, nil
	case "load_source":
		return MechanismLoadSource, nil
	case "importable":
		return MechanismImportable, nil
	default:
		return MechanismGuess, NewConfigValidationError("unknown loading mechanism: "+name, nil)
	}
}
