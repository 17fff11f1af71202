package module

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/faro/internal/container"
)

func TestBaseDefaults(t *testing.T) {
	m := &Base{ID: "plain"}

	assert.Equal(t, "plain", m.Name())
	assert.True(t, m.Enabled())
	assert.Empty(t, m.DependsOn())
	assert.Empty(t, m.Definitions())
	assert.NoError(t, m.Setup(context.Background(), nil))
}

func TestBaseSetupCallback(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	m := &Base{ID: "cb", OnSetup: func(context.Context, *container.Container) error {
		calls++
		return boom
	}}

	require.ErrorIs(t, m.Setup(context.Background(), nil), boom)
	assert.Equal(t, 1, calls)
}

func TestWithEnabled(t *testing.T) {
	base := &Base{ID: "svc", Requires: []string{"db"}}

	off := WithEnabled(base, false)
	assert.False(t, off.Enabled())
	assert.Equal(t, "svc", off.Name())
	assert.Equal(t, []string{"db"}, off.DependsOn())

	on := WithEnabled(off, true)
	assert.True(t, on.Enabled())
	wrapped, ok := on.(*override)
	require.True(t, ok)
	assert.Same(t, base, wrapped.Module, "wrappers must not stack")
}
