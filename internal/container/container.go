package container

import (
	"fmt"
	"reflect"

	"go.uber.org/dig"
)

// Container is the finished, immutable product of a Builder.
type Container struct {
	dig *dig.Container
}

// Invoke runs fn with its parameters resolved from the container.
func (c *Container) Invoke(fn any) error {
	return c.dig.Invoke(fn)
}

// Resolve returns the value of type T held by the container.
func Resolve[T any](c *Container) (T, error) {
	var out T
	if err := c.Invoke(func(v T) { out = v }); err != nil {
		return out, fmt.Errorf("resolve %s: %w", reflect.TypeFor[T](), dig.RootCause(err))
	}
	return out, nil
}
