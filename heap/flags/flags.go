// Package flags provides provenance-tagged configuration values.
//
// Sizing rules treat a value the user asked for differently from a built-in
// default that happens to be equal to it. Value keeps the origin next to the
// value so those rules can ask where a setting came from.
package flags

import "fmt"

// Origin records where a value came from.
type Origin uint8

const (
	// Default is a built-in default that nobody overrode.
	Default Origin = iota

	// Configured was set explicitly by the embedding runtime's configuration.
	Configured

	// Ergonomic was chosen by the sizing policy itself.
	Ergonomic
)

func (o Origin) String() string {
	switch o {
	case Default:
		return "default"
	case Configured:
		return "configured"
	case Ergonomic:
		return "ergonomic"
	default:
		return "unknown"
	}
}

// Value is a setting together with its Origin.
type Value[T any] struct {
	v      T
	origin Origin
}

// DefaultValue returns v tagged as a built-in default.
func DefaultValue[T any](v T) Value[T] {
	return Value[T]{v: v, origin: Default}
}

// ConfiguredValue returns v tagged as explicitly configured.
func ConfiguredValue[T any](v T) Value[T] {
	return Value[T]{v: v, origin: Configured}
}

// Get returns the value.
func (f Value[T]) Get() T { return f.v }

// Origin returns where the value came from.
func (f Value[T]) Origin() Origin { return f.origin }

// IsDefault reports whether the value is still the built-in default.
// Values replaced with SetDefault keep reporting true.
func (f Value[T]) IsDefault() bool { return f.origin == Default }

// IsConfigured reports whether the value was set explicitly.
func (f Value[T]) IsConfigured() bool { return f.origin == Configured }

// Set records v as explicitly configured.
func (f *Value[T]) Set(v T) {
	f.v = v
	f.origin = Configured
}

// SetErgo records v as chosen by the policy.
func (f *Value[T]) SetErgo(v T) {
	f.v = v
	f.origin = Ergonomic
}

// SetDefault replaces the value but keeps it marked as a default, so later
// rules still see it as not chosen by the user.
func (f *Value[T]) SetDefault(v T) {
	f.v = v
	f.origin = Default
}

func (f Value[T]) String() string {
	return fmt.Sprintf("%v (%s)", f.v, f.origin)
}
