package container

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"
)

type greeting struct{ text string }

type greeter struct{ g *greeting }

func newGreeter(g *greeting) *greeter { return &greeter{g: g} }

func TestDefinitionValidate(t *testing.T) {
	var nilFn func() int

	cases := []struct {
		name string
		def  Definition
		ok   bool
	}{
		{name: "constructor", def: Provide(newGreeter), ok: true},
		{name: "value", def: Value(&greeting{}), ok: true},
		{name: "with error result", def: Provide(func() (*greeting, error) { return nil, nil }), ok: true},
		{name: "nil", def: Definition{}},
		{name: "not a function", def: Provide("hello")},
		{name: "nil function", def: Provide(nilFn)},
		{name: "no results", def: Provide(func() {})},
		{name: "only error", def: Provide(func() error { return nil })},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.def.Validate()
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidDefinition)
		})
	}
}

func TestBuilderBuildAndResolve(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddDefinitions("base", Definitions{Value(&greeting{text: "hi"})}))
	require.NoError(t, b.AddDefinitions("greeter", Definitions{Provide(newGreeter)}))
	assert.Equal(t, []string{"base", "greeter"}, b.Owners())
	assert.Equal(t, 2, b.Len())

	c, err := b.Build()
	require.NoError(t, err)

	g, err := Resolve[*greeter](c)
	require.NoError(t, err)
	assert.Equal(t, "hi", g.g.text)
}

func TestBuilderRejectsInvalidDefinitionsAtomically(t *testing.T) {
	b := NewBuilder()
	err := b.AddDefinitions("broken", Definitions{Value(1), Provide(42)})
	require.ErrorIs(t, err, ErrInvalidDefinition)
	assert.Contains(t, err.Error(), `"broken"`)
	assert.Zero(t, b.Len())
	assert.Empty(t, b.Owners())
}

func TestBuilderDuplicateProviderFails(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AddDefinitions("a", Definitions{Value(&greeting{text: "a"})}))
	require.NoError(t, b.AddDefinitions("b", Definitions{Value(&greeting{text: "b"})}))

	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"b"`)
}

func TestBuilderIsSingleUse(t *testing.T) {
	b := NewBuilder()
	_, err := b.Build()
	require.NoError(t, err)

	_, err = b.Build()
	assert.ErrorIs(t, err, ErrBuilderSealed)
	assert.ErrorIs(t, b.AddDefinitions("late", nil), ErrBuilderSealed)
}

func TestResolveMissingType(t *testing.T) {
	c, err := NewBuilder().Build()
	require.NoError(t, err)

	_, err = Resolve[*greeter](c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "*container.greeter")
}

func TestNamedValues(t *testing.T) {
	type params struct {
		dig.In
		Primary   *greeting `name:"primary"`
		Secondary *greeting `name:"secondary"`
	}

	b := NewBuilder()
	require.NoError(t, b.AddDefinitions("names", Definitions{
		Value(&greeting{text: "one"}, dig.Name("primary")),
		Value(&greeting{text: "two"}, dig.Name("secondary")),
	}))
	c, err := b.Build()
	require.NoError(t, err)

	var got params
	require.NoError(t, c.Invoke(func(p params) { got = p }))
	assert.Equal(t, "one", got.Primary.text)
	assert.Equal(t, "two", got.Secondary.text)
}

func TestConstructorErrorSurfacesOnInvoke(t *testing.T) {
	boom := errors.New("boom")
	b := NewBuilder()
	require.NoError(t, b.AddDefinitions("failing", Definitions{
		Provide(func() (*greeting, error) { return nil, boom }),
	}))
	c, err := b.Build()
	require.NoError(t, err)

	_, err = Resolve[*greeting](c)
	assert.ErrorIs(t, err, boom)
}
