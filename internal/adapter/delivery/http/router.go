// Package http is the HTTP delivery layer of the shortlink service: routing,
// request validation and mapping of use case errors onto status codes.
package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/vadimbarashkov/shortlink/docs"
	"github.com/vadimbarashkov/shortlink/pkg/middleware/recoverer"
)

type RouterConfig struct {
	// BaseURL is the public scheme and host used to build the link field, e.g. https://sho.rt.
	BaseURL string
	// RootPath prefixes every route, e.g. /s. Empty mounts at the root.
	RootPath string
	// CreateRateLimit caps shortlink creations per client IP within CreateRateWindow.
	// Zero disables the limit.
	CreateRateLimit  int
	CreateRateWindow time.Duration
}

// NewRouter builds the chi router serving the shortlink API.
func NewRouter(logger *httplog.Logger, useCase shortlinkUseCase, db pinger, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"POST", "GET", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(recoverer.New(logger.Logger))

	rootPath := strings.TrimSuffix(cfg.RootPath, "/")
	linkPrefix := strings.TrimSuffix(cfg.BaseURL, "/") + rootPath
	docsPath := rootPath + "/docs"

	h := newShortlinkHandler(useCase, validator.New(), linkPrefix)

	mount := func(r chi.Router) {
		r.Get("/", handleWelcome(docsPath+"/"))

		create := r
		if cfg.CreateRateLimit > 0 {
			create = r.With(httprate.Limit(
				cfg.CreateRateLimit,
				cfg.CreateRateWindow,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(handleTooManyRequests),
			))
		}
		create.Post("/", h.create)

		r.Get("/status", handleStatus(db))
		r.Get("/status/", handleStatus(db))

		r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, docsPath+"/index.html", http.StatusMovedPermanently)
		})
		r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/yaml")
			w.Write(docs.Swagger)
		})
		r.Get("/docs/*", httpSwagger.Handler(
			httpSwagger.URL(docsPath+"/swagger.yml"),
		))

		r.Get("/{shortURL}", h.resolve)
		r.Get("/{shortURL}/{adminKey}", h.getStats)
		r.Delete("/{shortURL}/{adminKey}", h.delete)
	}

	if rootPath == "" {
		mount(r)
	} else {
		r.Route(rootPath, mount)
	}

	return r
}
