// Package enum keeps a process-wide registry of string-backed constants so
// request payloads can be parsed back into the typed value they name.
package enum

import (
	"fmt"
	"reflect"
)

var registry = map[reflect.Type]any{}

// New registers value under its concrete type and returns it, so a constant
// can be declared and registered in one line:
//
//	var Pending = enum.New(Status("pending"))
func New[T comparable](value T) T {
	t := reflect.TypeOf(value)
	values, ok := registry[t].(map[string]T)
	if !ok {
		values = map[string]T{}
		registry[t] = values
	}

	values[reflect.ValueOf(value).String()] = value
	return value
}

// ToEnum resolves s to the registered value of type T, or fails if T has no
// registered value with that string form.
func ToEnum[T comparable](s string) (T, error) {
	var zero T
	values, ok := registry[reflect.TypeOf(zero)].(map[string]T)
	if !ok {
		return zero, fmt.Errorf("unregistered enum type %T", zero)
	}

	value, ok := values[s]
	if !ok {
		return zero, fmt.Errorf("unknown %T value %q", zero, s)
	}

	return value, nil
}
