// resolver_test.go: attribute resolution tests
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginfactory

import (
	"reflect"
	"strings"
	"testing"
)

type describedPlugin struct {
	Label    string
	Revision int
	Resolver func() string
}

func (d *describedPlugin) ID() string      { return "described" }
func (d *describedPlugin) Version() string { return "1.4" }
func (d *describedPlugin) Panics() string  { panic("broken accessor") }

// TestResolveAttributeMethod tests method accessors
func TestResolveAttributeMethod(t *testing.T) {
	value, err := resolveAttribute(&describedPlugin{}, "ID")
	if err != nil {
		t.Fatalf("resolveAttribute failed: %v", err)
	}
	if value != "described" {
		t.Errorf("value = %q, want %q", value, "described")
	}
}

// TestResolveAttributeField tests plain field access with coercion
func TestResolveAttributeField(t *testing.T) {
	plugin := &describedPlugin{Label: "paint", Revision: 7}

	if value, err := resolveAttribute(plugin, "Label"); err != nil || value != "paint" {
		t.Errorf("Label = %q, %v", value, err)
	}
	// Non-string fields coerce through their string form.
	if value, err := resolveAttribute(plugin, "Revision"); err != nil || value != "7" {
		t.Errorf("Revision = %q, %v", value, err)
	}
}

// TestResolveAttributeFuncField tests invocation of func-typed fields
func TestResolveAttributeFuncField(t *testing.T) {
	plugin := &describedPlugin{Resolver: func() string { return "computed" }}
	value, err := resolveAttribute(plugin, "Resolver")
	if err != nil {
		t.Fatalf("resolveAttribute failed: %v", err)
	}
	if value != "computed" {
		t.Errorf("value = %q, want %q", value, "computed")
	}
}

// TestResolveAttributeMissing tests the not-found error
func TestResolveAttributeMissing(t *testing.T) {
	if _, err := resolveAttribute(&describedPlugin{}, "Nope"); err == nil {
		t.Fatal("expected error for missing attribute")
	}
}

// TestResolveAttributeNil tests nil prototype handling
func TestResolveAttributeNil(t *testing.T) {
	if _, err := resolveAttribute(nil, "ID"); err == nil {
		t.Fatal("expected error for nil prototype")
	}
	var typed *describedPlugin
	if _, err := resolveAttribute(typed, "Label"); err == nil {
		t.Fatal("expected error for nil pointer field access")
	}
}

// TestResolveAttributePanicRecovery tests that accessor panics become
// resolution errors instead of crashing the caller
func TestResolveAttributePanicRecovery(t *testing.T) {
	_, err := resolveAttribute(&describedPlugin{}, "Panics")
	if err == nil {
		t.Fatal("expected error from panicking accessor")
	}
	if !strings.Contains(err.Error(), "resolution") {
		t.Errorf("error should report a resolution failure: %v", err)
	}
}

// TestBaseTypeName tests pointer unwrapping for fallback identifiers
func TestBaseTypeName(t *testing.T) {
	if name := baseTypeName(reflect.TypeOf(&describedPlugin{})); name != "describedPlugin" {
		t.Errorf("baseTypeName = %q, want %q", name, "describedPlugin")
	}
	if name := baseTypeName(reflect.TypeOf(describedPlugin{})); name != "describedPlugin" {
		t.Errorf("baseTypeName = %q, want %q", name, "describedPlugin")
	}
}
