// Package app bootstraps a loom application: configuration, logging, a
// started container and the HTTP router, assembled from the caller's modules.
package app

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/loomdi/loom/config"
	"github.com/loomdi/loom/container"
	"github.com/loomdi/loom/web"
)

// Application is the top-level handle: a started container plus the router
// resolved from it.
//
//	application, err := app.New(usersModule, billingModule)
//	application.Router().Get("/", handler)
//	application.Run()
type Application struct {
	cfg    *config.Config
	log    *slog.Logger
	c      *container.Container
	router *web.Router
}

// New loads configuration from the environment (and optional .env files),
// then boots an Application over the given modules.
func New(modules ...*container.Module) (*Application, error) {
	return NewWithConfig(config.Load(), modules...)
}

// NewWithConfig boots an Application for callers that already hold a Config.
//
// The kernel registers *config.Config and *slog.Logger itself, so user
// modules depend on both without providing them; a module that does provide
// one fails Start with a duplicate key error.
func NewWithConfig(cfg *config.Config, modules ...*container.Module) (*Application, error) {
	log := cfg.Logger(os.Stderr)

	c := container.New(container.WithLogger(log))
	all := append([]*container.Module{bootModule(cfg, log), web.Module()}, modules...)
	if err := c.Start(all...); err != nil {
		return nil, err
	}

	router, err := container.Resolve[*web.Router](c)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	return &Application{cfg: cfg, log: log, c: c, router: router}, nil
}

func bootModule(cfg *config.Config, log *slog.Logger) *container.Module {
	return container.NewModule("boot",
		container.Instance(cfg),
		container.Instance(log),
	)
}

// Verify statically checks the wiring New would start with: the kernel's own
// definitions plus the given modules. Put it in a test next to your module
// declarations.
//
//	func TestWiring(t *testing.T) {
//	    if err := app.Verify(usersModule); err != nil {
//	        t.Fatal(err)
//	    }
//	}
func Verify(modules ...*container.Module) error {
	boot := bootModule(&config.Config{}, slog.New(slog.DiscardHandler))
	all := append([]*container.Module{boot, web.Module()}, modules...)
	return container.Check(nil, all...)
}

// Container returns the started container.
func (a *Application) Container() *container.Container { return a.c }

// Config returns the application configuration.
func (a *Application) Config() *config.Config { return a.cfg }

// Log returns the application logger.
func (a *Application) Log() *slog.Logger { return a.log }

// Router returns the HTTP router resolved from the container.
func (a *Application) Router() *web.Router { return a.router }

// Run serves HTTP on the configured address. It blocks until the server
// stops.
func (a *Application) Run() error {
	a.log.Info("http server listening",
		"app", a.cfg.App.Name, "addr", a.cfg.HTTP.Addr, "env", a.cfg.App.Env)
	return http.ListenAndServe(a.cfg.HTTP.Addr, a.router)
}

// Close tears the container down, closing every cached instance.
func (a *Application) Close() error {
	return a.c.Close()
}
