package config

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestLoader_LoadSource(t *testing.T) {
	src := `
log_level  = "debug"
log_format = "json"

module "httpserver" {
  settings = {
    addr = ":9090"
  }
}

module "socketio" {
  enabled = false
}
`
	model, err := NewLoader().LoadSource(context.Background(), "main.hcl", []byte(src))
	require.NoError(t, err)

	assert.Equal(t, "debug", model.LogLevel)
	assert.Equal(t, "json", model.LogFormat)
	assert.Equal(t, []string{"main.hcl"}, model.Files)
	assert.Equal(t, []string{"httpserver", "socketio"}, model.ModuleNames())

	server, ok := model.Module("httpserver")
	require.True(t, ok)
	assert.Nil(t, server.Enabled)
	assert.True(t, server.Settings.GetAttr("addr").RawEquals(cty.StringVal(":9090")))

	sio, ok := model.Module("socketio")
	require.True(t, ok)
	require.NotNil(t, sio.Enabled)
	assert.False(t, *sio.Enabled)
	assert.True(t, sio.Settings.IsNull())
}

func TestLoader_LaterFilesWin(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "a.hcl", `
log_level = "info"

module "httpserver" {
  enabled  = false
  settings = { addr = ":1" }
}
`)
	second := writeFile(t, dir, "b.hcl", `
log_level = "warn"

module "httpserver" {
  enabled = true
}

module "healthcheck" {
  settings = { path = "/ready" }
}
`)

	model, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)

	if diff := cmp.Diff([]string{first, second}, model.Files); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "warn", model.LogLevel)

	server, _ := model.Module("httpserver")
	require.NotNil(t, server.Enabled)
	assert.True(t, *server.Enabled)
	assert.True(t, server.Settings.GetAttr("addr").RawEquals(cty.StringVal(":1")), "settings untouched by a later block without settings")

	settings := model.Settings()
	assert.True(t, settings.Has("httpserver"))
	assert.True(t, settings.Has("healthcheck"))
	assert.False(t, settings.Has("socketio"))
}

func TestLoader_MissingPathIsAnError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "prod.hcl")
	_, err := NewLoader().Load(context.Background(), missing)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), missing)
}

func TestLoader_NoPaths(t *testing.T) {
	model, err := NewLoader().Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, model.Files)
	assert.Empty(t, model.Modules)
}

func TestLoader_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "syntax error",
			src:     `module "x" {`,
			wantErr: "failed to parse HCL file",
		},
		{
			name:    "unknown attribute",
			src:     `colour = "blue"`,
			wantErr: "failed to decode HCL file",
		},
		{
			name:    "settings not an object",
			src:     `module "x" { settings = "flat" }`,
			wantErr: `module "x": settings must be an object`,
		},
		{
			name:    "settings reference a variable",
			src:     `module "x" { settings = { a = var.b } }`,
			wantErr: `module "x": invalid settings`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLoader().LoadSource(context.Background(), "bad.hcl", []byte(tc.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
