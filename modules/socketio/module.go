// Package socketio provides a Dialer that opens socket.io client
// connections with the module's configured defaults.
package socketio

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/vk/faro/internal/config"
	"github.com/vk/faro/internal/container"
	"github.com/vk/faro/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Name is the module name.
const Name = "socketio"

// ErrNoURL is returned by Dial when neither the call nor the settings name a
// server URL.
var ErrNoURL = errors.New("socket.io url is not configured")

// Settings are read from the module's `settings` block.
type Settings struct {
	URL                string `cty:"url"`
	Namespace          string `cty:"namespace"`
	InsecureSkipVerify bool   `cty:"insecure_skip_verify"`
	Timeout            string `cty:"timeout"`
}

// DefaultSettings returns the settings used when none are configured.
func DefaultSettings() Settings {
	return Settings{Namespace: "/", Timeout: "15s"}
}

// Endpoint is a parsed socket.io server address.
type Endpoint struct {
	// BaseURL is scheme and host only; the manager connects to it.
	BaseURL string
	// Path is the engine.io path, empty for the library default.
	Path string
}

// ParseEndpoint splits a server URL into the parts the manager needs.
func ParseEndpoint(raw string) (Endpoint, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Endpoint{}, fmt.Errorf("failed to parse URL: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return Endpoint{}, fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return Endpoint{}, fmt.Errorf("URL %q has no host", raw)
	}
	return Endpoint{BaseURL: fmt.Sprintf("%s://%s", u.Scheme, u.Host), Path: u.Path}, nil
}

// Dialer opens socket.io connections.
type Dialer struct {
	settings Settings
	timeout  time.Duration
	logger   *slog.Logger
}

// NewDialer creates a Dialer from the module settings.
func NewDialer(settings *config.Settings, logger *slog.Logger) (*Dialer, error) {
	s := DefaultSettings()
	if err := settings.Decode(Name, &s); err != nil {
		return nil, err
	}
	timeout, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout %q: %w", s.Timeout, err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("invalid timeout %q: must be positive", s.Timeout)
	}
	if s.URL != "" {
		if _, err := ParseEndpoint(s.URL); err != nil {
			return nil, err
		}
	}
	return &Dialer{settings: s, timeout: timeout, logger: logger}, nil
}

// Settings returns the effective settings.
func (d *Dialer) Settings() Settings { return d.settings }

// Timeout returns how long Dial waits for a connection.
func (d *Dialer) Timeout() time.Duration { return d.timeout }

// Dial connects to the configured URL and namespace.
func (d *Dialer) Dial(ctx context.Context) (*socket.Socket, error) {
	return d.DialURL(ctx, d.settings.URL, d.settings.Namespace)
}

// DialURL connects to rawURL in namespace and waits for the connection to
// be acknowledged. The returned socket must be disconnected by the caller.
func (d *Dialer) DialURL(ctx context.Context, rawURL, namespace string) (*socket.Socket, error) {
	if rawURL == "" {
		return nil, ErrNoURL
	}
	ep, err := ParseEndpoint(rawURL)
	if err != nil {
		return nil, err
	}
	if namespace == "" {
		namespace = "/"
	}

	logger := d.logger.With("url", rawURL, "namespace", namespace)

	opts := socket.DefaultOptions()
	if ep.Path != "" {
		opts.SetPath(ep.Path)
	}
	if d.settings.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(ep.BaseURL, opts)
	io := manager.Socket(namespace, opts)

	connectCh := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Successfully connected", "sid", io.Id())
		notify(connectCh, nil)
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		notify(connectCh, connectError(errs))
	})

	logger.Debug("Initiating connection...")
	io.Connect()

	timer := time.NewTimer(d.timeout)
	defer timer.Stop()

	select {
	case err := <-connectCh:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return io, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("waiting for socket.io connection: %w", ctx.Err())
	case <-timer.C:
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", d.timeout)
	}
}

// notify delivers the first connection outcome. Later ones, such as a
// connect after a reconnect, are dropped so the event loop never blocks.
func notify(ch chan<- error, err error) {
	select {
	case ch <- err:
	default:
	}
}

func connectError(args []any) error {
	if len(args) > 0 {
		if err, ok := args[0].(error); ok {
			return err
		}
		return fmt.Errorf("%v", args[0])
	}
	return errors.New("connect_error")
}

// Module implements module.Module for this package.
type Module struct{}

// Name implements module.Module.
func (m *Module) Name() string { return Name }

// Enabled implements module.Module.
func (m *Module) Enabled() bool { return true }

// DependsOn implements module.Module.
func (m *Module) DependsOn() []string { return nil }

// Definitions implements module.Module.
func (m *Module) Definitions() container.Definitions {
	return container.Definitions{container.Provide(NewDialer)}
}

// Setup implements module.Module.
func (m *Module) Setup(ctx context.Context, c *container.Container) error {
	d, err := container.Resolve[*Dialer](c)
	if err != nil {
		return err
	}
	logger := ctxlog.FromContext(ctx)
	if d.settings.URL == "" {
		logger.Debug("Socket.io dialer ready without a default URL.")
		return nil
	}
	logger.Debug("Socket.io dialer ready.", "url", d.settings.URL, "namespace", d.settings.Namespace, "timeout", d.timeout)
	return nil
}
