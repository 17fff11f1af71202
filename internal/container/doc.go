// Package container is the thin layer between modules and the dependency
// injection container that the application is assembled into.
//
// Modules never talk to go.uber.org/dig directly while they are being loaded.
// Instead they contribute Definitions, which a Builder collects in merge order
// and only turns into a live dig container when Build is called. The result is
// a Container that can be invoked against but not extended: once built, the
// set of providers is fixed.
//
//	b := container.NewBuilder()
//	_ = b.AddDefinitions("config", container.Definitions{
//		container.Value(&Settings{Addr: ":8080"}),
//		container.Provide(NewServer),
//	})
//	c, err := b.Build()
//	srv, err := container.Resolve[*Server](c)
package container
