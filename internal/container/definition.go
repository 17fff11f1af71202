package container

import (
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/dig"
)

// ErrInvalidDefinition is returned when a definition cannot be merged into a Builder.
var ErrInvalidDefinition = errors.New("invalid definition")

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Definition is a single entry a module contributes to the container: a
// constructor function plus the dig options it is provided with.
type Definition struct {
	Constructor any
	Options     []dig.ProvideOption
}

// Definitions is the ordered set of entries a module contributes.
type Definitions []Definition

// Provide wraps a constructor function as a Definition.
func Provide(constructor any, opts ...dig.ProvideOption) Definition {
	return Definition{Constructor: constructor, Options: opts}
}

// Value returns a Definition that always supplies v.
func Value[T any](v T, opts ...dig.ProvideOption) Definition {
	return Definition{
		Constructor: func() T { return v },
		Options:     opts,
	}
}

// Validate checks that the definition can be handed to dig: the constructor
// must be a non-nil function that produces at least one non-error result.
func (d Definition) Validate() error {
	if d.Constructor == nil {
		return fmt.Errorf("%w: constructor is nil", ErrInvalidDefinition)
	}

	fnType := reflect.TypeOf(d.Constructor)
	if fnType.Kind() != reflect.Func {
		return fmt.Errorf("%w: constructor must be a function, got %s", ErrInvalidDefinition, fnType)
	}
	if reflect.ValueOf(d.Constructor).IsNil() {
		return fmt.Errorf("%w: constructor %s is a nil function", ErrInvalidDefinition, fnType)
	}

	for i := 0; i < fnType.NumOut(); i++ {
		if fnType.Out(i) != errorType {
			return nil
		}
	}
	return fmt.Errorf("%w: constructor %s has no result besides error", ErrInvalidDefinition, fnType)
}

// Validate checks every definition and reports the first failure by index.
func (ds Definitions) Validate() error {
	for i, d := range ds {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("definition %d: %w", i, err)
		}
	}
	return nil
}
