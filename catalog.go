// catalog.go: bound implementation catalog for manifest resolution
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginfactory

import (
	"reflect"
)

// typeCatalog maps export names to bound prototype values. Manifest
// exports resolve against it during source loading; compiled bundles
// bypass it entirely because they carry their own values.
type typeCatalog struct {
	entries map[string]any
}

func newTypeCatalog() *typeCatalog {
	return &typeCatalog{entries: make(map[string]any)}
}

// bind stores a prototype under an explicit name, overwriting any
// previous binding for that name.
func (c *typeCatalog) bind(name string, prototype any) {
	c.entries[name] = prototype
}

// bindDefault stores a prototype under its own type name.
func (c *typeCatalog) bindDefault(prototype any) string {
	name := typeName(prototype)
	c.entries[name] = prototype
	return name
}

// lookup resolves an export name to its bound prototype.
func (c *typeCatalog) lookup(name string) (any, bool) {
	prototype, ok := c.entries[name]
	return prototype, ok
}

// typeName returns the bare type name of a value, unwrapping pointers.
func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}
