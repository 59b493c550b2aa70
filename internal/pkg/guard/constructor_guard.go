// Package guard provides a lightweight mechanism for enforcing constructor usage
// on value objects and commands. A zero-value guard fails validation, so any
// struct embedding a ConstructorGuard can detect instances that bypassed its
// constructor function.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no custom error is supplied
// and the guarded object was not created through its constructor.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as properly constructed.
// The zero value is invalid; constructors must embed the result of NewConstructorGuard.
type ConstructorGuard struct {
	constructed bool
}

// NewConstructorGuard creates a guard in the constructed state.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{constructed: true}
}

// Validate returns nil if the guard was created via NewConstructorGuard.
// Otherwise it returns notConstructedErr, or ErrDefaultConstructorGuard when
// notConstructedErr is nil.
func (g ConstructorGuard) Validate(notConstructedErr error) error {
	if g.constructed {
		return nil
	}

	if notConstructedErr != nil {
		return notConstructedErr
	}

	return ErrDefaultConstructorGuard
}
