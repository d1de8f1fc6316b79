// Package ui serves the comparison dashboard: upload a local file, browse
// the open-data catalog, load a resource and see both summaries side by side.
package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"comparador/internal"
	"comparador/internal/config"
	"comparador/ports"
)

//go:embed templates/*.html help/ayuda.md
var embeddedFiles embed.FS

// App represents the dashboard application
type App struct {
	router    *chi.Mux
	templates *template.Template
	session   *Session
	catalog   ports.Catalog
	cfg       *config.Config
	log       *internal.Logger
}

// NewApp wires the dashboard against a catalog client
func NewApp(cfg *config.Config, cat ports.Catalog, logger *internal.Logger) (*App, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}

	funcMap := template.FuncMap{
		"add": func(a, b int) int { return a + b },
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	app := &App{
		router:    chi.NewRouter(),
		templates: templates,
		session:   NewSession(),
		catalog:   cat,
		cfg:       cfg,
		log:       logger,
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Post("/local", a.handleLocalUpload)
	a.router.Post("/recursos/{id}/cargar", a.handleLoadResource)
	a.router.Get("/export.txt", a.handleExport)
	a.router.Get("/graficas/categoria", a.handleCategoryChart)
	a.router.Get("/graficas/histograma", a.handleHistogramChart)
	a.router.Get("/ayuda", a.handleHelp)
}

// Router exposes the handler for tests and embedding
func (a *App) Router() http.Handler {
	return a.router
}

// Start starts the HTTP server
func (a *App) Start() error {
	addr := ":" + a.cfg.Server.Port
	a.log.Info("comparador listening on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

func (a *App) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.templates.ExecuteTemplate(w, templateName, data); err != nil {
		a.log.Error("template %s: %v", templateName, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}
