package app

import (
	"net/http"

	"github.com/angelofallars/statmaster/app/route/analysis"
	"github.com/go-chi/chi/v5/middleware"
)

func (a *App) RegisterRoutes() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)

	analysis.NewHandlerGroup(a.svcAnalyze, a.cfg, a.slog).Mount(a.router)

	a.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("app/static/"))))
}
