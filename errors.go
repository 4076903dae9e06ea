// errors.go: structured error definitions for the plugin factory
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginfactory

import (
	"github.com/agilira/go-errors"
)

// Error codes for the plugin factory system
const (
	// Factory construction and registration errors (1000-1099)
	ErrCodeInvalidInterface   = "FACTORY_1001"
	ErrCodeInvalidPluginClass = "FACTORY_1002"
	ErrCodeInvalidPath        = "FACTORY_1003"

	// Discovery and registry errors (1100-1199)
	ErrCodeDiscoveryError        = "FACTORY_1101"
	ErrCodePackageNotRegistered  = "FACTORY_1102"
	ErrCodePluginNotFound        = "FACTORY_1103"
	ErrCodePluginVersionNotFound = "FACTORY_1104"

	// Module loading errors (1200-1299)
	ErrCodeModuleLoadError    = "LOAD_1201"
	ErrCodeManifestParseError = "LOAD_1202"
	ErrCodeSymbolLookupError  = "LOAD_1203"

	// Attribute resolution errors (1300-1399)
	ErrCodeAttributeNotFound   = "FACTORY_1301"
	ErrCodeAttributeResolution = "FACTORY_1302"

	// Configuration errors (1400-1499)
	ErrCodeConfigNotFound        = "CONFIG_1401"
	ErrCodeConfigParseError      = "CONFIG_1402"
	ErrCodeConfigValidationError = "CONFIG_1403"
	ErrCodeConfigWatcherError    = "CONFIG_1404"
)

// Factory construction and registration error constructors

func NewInvalidInterfaceError(kind string) *errors.Error {
	return errors.New(ErrCodeInvalidInterface, "Invalid plugin interface").
		WithUserMessage("Factory type parameter must be an interface type").
		WithContext("kind", kind).
		WithSeverity("error")
}

func NewInvalidPluginClassError(typeName string) *errors.Error {
	return errors.New(ErrCodeInvalidPluginClass, "Invalid plugin class").
		WithUserMessage("Registered value must implement the factory interface").
		WithContext("type", typeName).
		WithSeverity("error")
}

func NewInvalidPathError(path string) *errors.Error {
	return errors.New(ErrCodeInvalidPath, "Invalid search path").
		WithUserMessage("Search path must be an existing directory").
		WithContext("path", path).
		WithSeverity("warning")
}

// Discovery and registry error constructors

func NewDiscoveryError(message string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeDiscoveryError, "Discovery error: "+message).
		WithUserMessage("Plugin discovery failed").
		WithSeverity("error")
}

func NewPackageNotRegisteredError(packageName string) *errors.Error {
	return errors.New(ErrCodePackageNotRegistered, "Package not registered").
		WithUserMessage("The requested package has no registered plugins").
		WithContext("package", packageName).
		WithSeverity("error")
}

func NewPluginNotFoundError(pluginID, packageName string) *errors.Error {
	return errors.New(ErrCodePluginNotFound, "Plugin not found").
		WithUserMessage("No plugin with the requested identifier was found").
		WithContext("plugin_id", pluginID).
		WithContext("package", packageName).
		WithSeverity("warning")
}

func NewPluginVersionNotFoundError(pluginID, version string) *errors.Error {
	return errors.New(ErrCodePluginVersionNotFound, "Plugin version not found").
		WithUserMessage("No plugin with the requested identifier and version was found").
		WithContext("plugin_id", pluginID).
		WithContext("version", version).
		WithSeverity("warning")
}

// Module loading error constructors

func NewModuleLoadError(path string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeModuleLoadError, "Module load error").
		WithUserMessage("Failed to load a plugin module").
		WithContext("path", path).
		WithSeverity("warning")
}

func NewManifestParseError(path string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeManifestParseError, "Manifest parse error").
		WithUserMessage("Failed to parse plugin manifest as JSON or YAML").
		WithContext("path", path).
		WithSeverity("warning")
}

func NewSymbolLookupError(path, symbol string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeSymbolLookupError, "Symbol lookup error").
		WithUserMessage("Plugin bundle does not export the registration symbol").
		WithContext("path", path).
		WithContext("symbol", symbol).
		WithSeverity("warning")
}

// Attribute resolution error constructors

func NewAttributeNotFoundError(typeName, attribute string) *errors.Error {
	return errors.New(ErrCodeAttributeNotFound, "Attribute not found").
		WithUserMessage("Plugin type does not expose the configured attribute").
		WithContext("type", typeName).
		WithContext("attribute", attribute).
		WithSeverity("error")
}

func NewAttributeResolutionError(typeName, attribute string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeAttributeResolution, "Attribute resolution failed").
		WithUserMessage("Reading the plugin attribute raised an error").
		WithContext("type", typeName).
		WithContext("attribute", attribute).
		WithSeverity("error")
}

// Configuration error constructors

func NewConfigNotFoundError(path string) *errors.Error {
	return errors.New(ErrCodeConfigNotFound, "Configuration file not found").
		WithUserMessage("The factory configuration file could not be found").
		WithContext("config_path", path).
		WithSeverity("error")
}

func NewConfigParseError(path string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeConfigParseError, "Configuration parse error").
		WithUserMessage("Failed to parse factory configuration file").
		WithContext("config_path", path).
		WithSeverity("error")
}

func NewConfigValidationError(message string, cause error) *errors.Error {
	if cause != nil {
		return errors.Wrap(cause, ErrCodeConfigValidationError, "Configuration validation error: "+message).
			WithUserMessage("Factory configuration validation failed").
			WithSeverity("error")
	}
	return errors.New(ErrCodeConfigValidationError, "Configuration validation error: "+message).
		WithUserMessage("Factory configuration validation failed").
		WithSeverity("error")
}

func NewConfigWatcherError(message string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeConfigWatcherError, "Configuration watcher error: "+message).
		WithUserMessage("Factory configuration monitoring failed").
		WithSeverity("error")
}
