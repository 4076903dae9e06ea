// resolver.go: identifier and version attribute resolution
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pluginfactory

import (
	"fmt"
	"reflect"
)

// resolveAttribute reads the named attribute off a plugin prototype and
// coerces it to a string.
//
// Resolution order:
//  1. An exported method with the attribute name. It must take no
//     arguments and return at least one value; the first return value
//     is used.
//  2. An exported struct field with the attribute name. A zero-argument
//     func field is invoked; any other field value is used directly.
//
// Panics raised by accessor invocation are recovered and reported as
// resolution errors so a single misbehaving plugin cannot take down a
// whole registry scan.
func resolveAttribute(prototype any, name string) (value string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewAttributeResolutionError(typeName(prototype), name, fmt.Errorf("accessor panic: %v", r))
		}
	}()

	rv := reflect.ValueOf(prototype)
	if !rv.IsValid() {
		return "", NewAttributeNotFoundError("<nil>", name)
	}

	if method := rv.MethodByName(name); method.IsValid() {
		return invokeAccessor(method, typeName(prototype), name)
	}

	elem := rv
	for elem.Kind() == reflect.Pointer {
		if elem.IsNil() {
			return "", NewAttributeNotFoundError(typeName(prototype), name)
		}
		elem = elem.Elem()
	}
	if elem.Kind() == reflect.Struct {
		if field := elem.FieldByName(name); field.IsValid() && field.CanInterface() {
			if field.Kind() == reflect.Func && !field.IsNil() {
				return invokeAccessor(field, typeName(prototype), name)
			}
			return fmt.Sprint(field.Interface()), nil
		}
	}

	return "", NewAttributeNotFoundError(typeName(prototype), name)
}

// invokeAccessor calls a zero-argument accessor and stringifies its
// first return value.
func invokeAccessor(fn reflect.Value, owner, name string) (string, error) {
	ft := fn.Type()
	if ft.NumIn() != 0 {
		return "", NewAttributeResolutionError(owner, name,
			fmt.Errorf("accessor takes %d arguments, want 0", ft.NumIn()))
	}
	if ft.NumOut() < 1 {
		return "", NewAttributeResolutionError(owner, name,
			fmt.Errorf("accessor returns no values"))
	}
	results := fn.Call(nil)
	return fmt.Sprint(results[0].Interface()), nil
}

// baseTypeName returns the unqualified name of a type with pointer
// indirections stripped. Used as the fallback identifier when no
// identifier attribute is configured or present.
func baseTypeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
