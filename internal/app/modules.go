package app

import (
	"github.com/vk/faro/internal/module"
	"github.com/vk/faro/modules/env"
	"github.com/vk/faro/modules/healthcheck"
	"github.com/vk/faro/modules/httpclient"
	"github.com/vk/faro/modules/httpserver"
	"github.com/vk/faro/modules/socketio"
)

// CoreModules returns the modules compiled into the faro binary, in
// registration order.
func CoreModules() []module.Module {
	return []module.Module{
		&env.Module{},
		&httpclient.Module{},
		&httpserver.Module{},
		&healthcheck.Module{},
		&socketio.Module{},
	}
}
