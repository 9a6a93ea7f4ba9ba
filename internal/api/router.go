package api

import (
	_ "tipocambio/docs"
	"tipocambio/internal/rate/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	swagger "github.com/swaggo/http-swagger"
)

func NewRouter(syncHandler *handler.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	router.Get("/", handler.Liveness)

	// Swagger UI
	router.Get("/swagger/*", swagger.WrapHandler)

	router.Post("/api/v1/sync", syncHandler.TriggerSync)
	router.Get("/api/v1/sync/{date}", syncHandler.GetSyncResult)
	return router
}
