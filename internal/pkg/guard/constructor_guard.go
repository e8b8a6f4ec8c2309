// Package guard holds small helpers that protect value objects and commands
// from being used in their zero-value form.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate on a zero-value guard
// when the caller passes no error of its own.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in types that must only be built by their
// New* function. The zero value reports "not constructed".
type ConstructorGuard struct {
	constructed bool
}

func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{constructed: true}
}

// Validate returns nil for a guard created by NewConstructorGuard and
// notConstructed (or ErrDefaultConstructorGuard when nil) otherwise.
func (g ConstructorGuard) Validate(notConstructed error) error {
	if g.constructed {
		return nil
	}
	if notConstructed == nil {
		return ErrDefaultConstructorGuard
	}
	return notConstructed
}
