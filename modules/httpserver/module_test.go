package httpserver

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/faro/internal/config"
	"github.com/vk/faro/internal/container"
	"github.com/vk/faro/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

func settingsWithAddr(addr string) *config.Settings {
	return config.NewSettings(map[string]cty.Value{
		Name: cty.ObjectVal(map[string]cty.Value{"addr": cty.StringVal(addr)}),
	})
}

func TestNewServer(t *testing.T) {
	mux := http.NewServeMux()

	srv, err := NewServer(config.NewSettings(nil), mux)
	require.NoError(t, err)
	assert.Equal(t, ":8080", srv.Addr)
	assert.Same(t, mux, srv.Handler)

	srv, err = NewServer(settingsWithAddr("127.0.0.1:9090"), mux)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", srv.Addr)

	_, err = NewServer(settingsWithAddr("no-port"), mux)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid addr "no-port"`)
}

func TestModule_ProvidesMuxAndServer(t *testing.T) {
	m := &Module{}
	b := container.NewBuilder()
	require.NoError(t, b.AddDefinitions("base", container.Definitions{container.Value(config.NewSettings(nil))}))
	require.NoError(t, b.AddDefinitions(m.Name(), m.Definitions()))
	c, err := b.Build()
	require.NoError(t, err)

	require.NoError(t, m.Setup(context.Background(), c))

	mux, err := container.Resolve[*http.ServeMux](c)
	require.NoError(t, err)
	srv, err := container.Resolve[*http.Server](c)
	require.NoError(t, err)
	assert.Same(t, mux, srv.Handler, "server must serve the shared mux")
}

func TestServe_StopsOnCancel(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx, cancel := context.WithCancel(ctxlog.WithLogger(context.Background(), logger))

	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()}
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, srv) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}

func TestServe_ListenError(t *testing.T) {
	srv := &http.Server{Addr: "256.0.0.1:bad"}
	err := Serve(context.Background(), srv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}
