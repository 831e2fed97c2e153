package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/angelofallars/statmaster/internal/config"
	"github.com/angelofallars/statmaster/internal/service"
	"github.com/go-chi/chi/v5"
)

type App struct {
	host string
	port int

	slog   *slog.Logger
	router chi.Router

	cfg        config.Config
	svcAnalyze service.Analyzer
}

func New(slog *slog.Logger, cfg config.Config, svcAnalyze service.Analyzer) *App {
	app := &App{
		host: cfg.Host,
		port: cfg.Port,

		router: chi.NewRouter(),
		slog:   slog,

		cfg:        cfg,
		svcAnalyze: svcAnalyze,
	}

	app.RegisterRoutes()

	return app
}

func (a *App) WithHost(host string) *App {
	a.host = host
	return a
}

func (a *App) WithPort(port uint) *App {
	a.port = int(port)
	return a
}

func (a *App) Serve() error {
	addr := fmt.Sprintf("%s:%d", a.host, a.port)
	server := http.Server{
		Addr:    addr,
		Handler: a.router,

		IdleTimeout: time.Minute,
		// Reads stay generous enough for two 16 MB uploads in one
		// multipart request.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	a.slog.Info("server started listening", "addr", addr)

	return server.ListenAndServe()
}
