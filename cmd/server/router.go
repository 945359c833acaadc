package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/calref/retouch-api/internal/api"
	apiMiddleware "github.com/calref/retouch-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	queueHandler := api.NewQueueHandler(app.queueService, app.config.Queue.MaxUploadBytes)
	runHandler := api.NewRunHandler(app.queueService)
	credentialHandler := api.NewCredentialHandler(app.creds)

	r.Route("/api", func(r chi.Router) {
		// Queue endpoints
		r.Route("/queue", func(r chi.Router) {
			r.Post("/", queueHandler.CreateItem)
			r.Get("/", queueHandler.ListItems)
			r.Delete("/", queueHandler.ClearQueue)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", queueHandler.GetItem)
				r.Delete("/", queueHandler.DeleteItem)
				r.Put("/instruction", queueHandler.UpdateItemInstruction)
				r.Get("/result", queueHandler.GetResult)
				r.Get("/thumbnail", queueHandler.GetThumbnail)
			})
		})

		// Queue-wide instruction
		r.Put("/instruction", queueHandler.UpdateGlobalInstruction)
		r.Get("/instruction", queueHandler.GetGlobalInstruction)

		// Processing runs
		r.Route("/runs", func(r chi.Router) {
			r.Post("/", runHandler.StartRun)
			r.Post("/cancel", runHandler.CancelRun)
			r.Get("/current", runHandler.GetRunStatus)
		})

		// Upstream credential
		r.Get("/credential", credentialHandler.GetCredential)
		r.Put("/credential", credentialHandler.UpdateCredential)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
