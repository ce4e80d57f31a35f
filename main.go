package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/loomdi/loom/app"
	"github.com/loomdi/loom/config"
	"github.com/loomdi/loom/web"
)

// CLI is the demo server's command line.
type CLI struct {
	EnvFile []string `kong:"short='e',help='Extra .env files to load.'"`
	Addr    string   `kong:"help='Override HTTP_ADDR.'"`
	Debug   bool     `kong:"short='d',help='Force debug logging.'"`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("loom-demo"),
		kong.Description("Demo HTTP API wired through the loom container"),
		kong.UsageOnError(),
	)

	cfg := config.Load(cli.EnvFile...)
	if cli.Addr != "" {
		cfg.HTTP.Addr = cli.Addr
	}
	if cli.Debug {
		cfg.Log.Level = "debug"
	}

	application, err := app.NewWithConfig(cfg, demoModule())
	if err != nil {
		fmt.Fprintln(os.Stderr, "boot:", err)
		os.Exit(1)
	}
	defer application.Close()

	registerRoutes(application)

	if err := application.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

func registerRoutes(application *app.Application) {
	r := application.Router()

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		web.NewResponse(w).Success(map[string]any{
			"app":     application.Config().App.Name,
			"message": "Welcome to the loom demo API",
		})
	})

	r.Prefix("/api/v1", func(api *web.Router) {

		// GET /api/v1/users
		api.Get("/users", func(w http.ResponseWriter, req *http.Request) {
			res := web.NewResponse(w)
			svc, err := web.FromRequest[*UserService](req)
			if err != nil {
				res.ServerError()
				return
			}
			res.Success(svc.List())
		})

		// GET /api/v1/users/{id}
		api.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
			res := web.NewResponse(w)
			id, err := strconv.Atoi(web.Param(req, "id"))
			if err != nil {
				res.Error(http.StatusBadRequest, "id must be numeric")
				return
			}
			svc, err := web.FromRequest[*UserService](req)
			if err != nil {
				res.ServerError()
				return
			}
			user, ok := svc.Get(id)
			if !ok {
				res.NotFound()
				return
			}
			res.Success(user)
		})

		// POST /api/v1/users
		api.Post("/users", func(w http.ResponseWriter, req *http.Request) {
			res := web.NewResponse(w)

			var body struct {
				Name string `json:"name"`
			}
			if err := web.NewRequest(req).Bind(&body); err != nil {
				res.Error(http.StatusBadRequest, err.Error())
				return
			}
			if strings.TrimSpace(body.Name) == "" {
				res.Error(http.StatusUnprocessableEntity, "name is required")
				return
			}

			svc, err := web.FromRequest[*UserService](req)
			if err != nil {
				res.ServerError()
				return
			}
			res.Created(svc.Create(body.Name))
		})

		// GET /api/v1/trace shows the per-request scope at work.
		api.Get("/trace", func(w http.ResponseWriter, req *http.Request) {
			res := web.NewResponse(w)
			trace, err := web.FromRequest[*RequestTrace](req)
			if err != nil {
				res.ServerError()
				return
			}
			res.Success(trace)
		})
	})
}
