package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/lingocards/lingo-api/internal/api"
	"github.com/lingocards/lingo-api/internal/api/middleware"
	"github.com/lingocards/lingo-api/internal/api/shared"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Trace(app.logger))
	r.Use(chimw.Recoverer)

	authMiddleware := middleware.NewAuthMiddleware(app.jwtService)
	studyHandler := api.NewStudyHandler(app.studyService, app.logger)
	cardHandler := api.NewCardHandler(app.cardService, app.logger)
	aiHandler := api.NewAIHandler(app.suggestions, app.cardService, app.logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Route("/study", func(r chi.Router) {
			r.Post("/session", studyHandler.StartSession)
			r.Post("/review", studyHandler.SubmitReview)
			r.Get("/statistics", studyHandler.GetStatistics)
			r.Get("/cards/{card_id}/history", studyHandler.GetCardHistory)
		})

		r.Route("/flashcards", func(r chi.Router) {
			r.Get("/", cardHandler.ListCards)
			r.Post("/", cardHandler.CreateCard)
			r.Get("/export", cardHandler.ExportCards)
			r.Post("/bulk-delete", cardHandler.BulkDeleteCards)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", cardHandler.GetCard)
				r.Patch("/", cardHandler.UpdateCard)
				r.Delete("/", cardHandler.DeleteCard)
				r.Post("/restore", cardHandler.RestoreCard)
			})
		})

		r.Route("/ai", func(r chi.Router) {
			r.With(middleware.RateLimit(app.limiter, middleware.EndpointAIGenerate)).
				Post("/generate", aiHandler.Generate)
			r.With(middleware.RateLimit(app.limiter, middleware.EndpointAIAccept)).
				Post("/accept", aiHandler.Accept)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := map[string]string{"status": "ok"}
		if err := app.db.PingContext(r.Context()); err != nil {
			app.logger.Warn("health check database ping failed")
			status = http.StatusServiceUnavailable
			body["status"] = "unavailable"
		}
		shared.RespondWithJSON(w, r, status, body)
	})

	return r
}
