// scanner.go: interface conformance scanning over loaded modules
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginfactory

import (
	"reflect"
	"sort"

	timecache "github.com/agilira/go-timecache"
)

// interfaceScanner inspects loaded module attributes and keeps the ones
// whose concrete type implements the factory interface.
type interfaceScanner struct {
	iface  reflect.Type
	logger Logger
}

func newInterfaceScanner(iface reflect.Type, logger Logger) *interfaceScanner {
	return &interfaceScanner{iface: iface, logger: logger}
}

// scan walks a module's exported attributes in deterministic order and
// returns a PluginSpec for every value implementing the target
// interface. Attributes that are nil or do not conform are skipped
// silently. A panic while inspecting one attribute abandons the rest of
// the module but keeps the specs collected so far.
func (s *interfaceScanner) scan(module *Module, root string, mechanism LoadingMechanism) (specs []*PluginSpec) {
	if module == nil || len(module.Attrs) == 0 {
		return nil
	}
	defer withStackRecover(s.logger)()

	names := make([]string, 0, len(module.Attrs))
	for name := range module.Attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	discovered := timecache.CachedTime()
	for _, name := range names {
		attr := module.Attrs[name]
		if attr == nil {
			continue
		}
		t := reflect.TypeOf(attr)
		if t == s.iface || !t.Implements(s.iface) {
			continue
		}
		s.logger.Debug("Plugin attribute matched interface",
			"module", module.Name,
			"attribute", name,
			"type", t.String())
		specs = append(specs, &PluginSpec{
			Value:        attr,
			Type:         t,
			Root:         root,
			SourcePath:   module.Path,
			Mechanism:    mechanism,
			DiscoveredAt: discovered,
		})
	}
	return specs
}
