package env

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/faro/internal/container"
)

func TestParse(t *testing.T) {
	vars := Parse([]string{"A=1", "B=x=y", "BROKEN", "EMPTY="})

	assert.Equal(t, []string{"A", "B", "EMPTY"}, vars.Keys())

	v, ok := vars.Get("B")
	assert.True(t, ok)
	assert.Equal(t, "x=y", v)

	v, ok = vars.Get("EMPTY")
	assert.True(t, ok)
	assert.Empty(t, v)

	_, ok = vars.Get("BROKEN")
	assert.False(t, ok)
}

func TestModule_ProvidesVars(t *testing.T) {
	t.Setenv("FARO_ENV_MODULE_TEST", "yes")

	m := &Module{}
	b := container.NewBuilder()
	require.NoError(t, b.AddDefinitions(m.Name(), m.Definitions()))
	c, err := b.Build()
	require.NoError(t, err)

	require.NoError(t, m.Setup(context.Background(), c))

	vars, err := container.Resolve[Vars](c)
	require.NoError(t, err)
	v, ok := vars.Get("FARO_ENV_MODULE_TEST")
	assert.True(t, ok)
	assert.Equal(t, "yes", v)
}
