package server

import (
	"net/http"

	"github.com/cloo-solutions/lendrag/internal/api"
	"github.com/cloo-solutions/lendrag/internal/api/handlers"
	"github.com/cloo-solutions/lendrag/internal/api/middleware"
	"github.com/go-chi/chi/v5"
)

type RouterConfig struct {
	UploadHandler *handlers.UploadHandler
	QueryHandler  *handlers.QueryHandler
	MaxBodyBytes  int64
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	maxBodyBytes := cfg.MaxBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = 25 * 1024 * 1024
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))
	r.Use(middleware.CORS)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/upload", cfg.UploadHandler.Upload)
	r.Post("/query", cfg.QueryHandler.Query)

	return r
}
