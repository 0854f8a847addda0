// Package api assembles the HTTP surface of the tracker.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/manwaring/initiative-tracker/internal/api/handler"
	"github.com/manwaring/initiative-tracker/internal/api/middleware"
	"github.com/manwaring/initiative-tracker/internal/engine"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Engine        *engine.Engine
	Replier       handler.Replier
	SigningSecret string
}

// NewRouter creates and configures a Chi router with all middleware and
// routes. Slack-facing routes verify the request signature before any
// parsing happens.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.VerifySlackSignature(deps.SigningSecret))

		r.Post("/slack/actions", handler.NewInteractionHandler(deps.Engine, deps.Replier).ServeHTTP)
		r.Post("/slack/commands/initiatives", handler.NewCommandHandler(deps.Engine).ServeHTTP)
	})

	return r
}
