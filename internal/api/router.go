// Package api wires the REST surface and the WebSocket upgrade endpoint
// onto one chi router, grouped by auth requirement.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/riftforge/draftorch/internal/api/handlers"
	apimiddleware "github.com/riftforge/draftorch/internal/api/middleware"
	"github.com/riftforge/draftorch/internal/champion"
	"github.com/riftforge/draftorch/internal/config"
	"github.com/riftforge/draftorch/internal/draft"
	"github.com/riftforge/draftorch/internal/identity"
	"github.com/riftforge/draftorch/internal/match"
	"github.com/riftforge/draftorch/internal/matchstore"
	"github.com/riftforge/draftorch/internal/queue"
	"github.com/riftforge/draftorch/internal/restore"
	"github.com/riftforge/draftorch/internal/session"
	"github.com/riftforge/draftorch/internal/voting"
)

// Deps collects every core component the REST surface fronts.
type Deps struct {
	Drafts   *draft.Manager
	Queue    *queue.Manager
	Votes    *voting.Service
	Matches  *match.Monitor
	Restorer *restore.Orchestrator
	Catalog  *champion.Catalog
	Store    matchstore.Store
	Registry *session.Registry
	Verifier identity.Verifier
	Config   *config.Config
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(apimiddleware.CORS)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	draftHandler := handlers.NewDraftHandler(d.Drafts)
	votingHandler := handlers.NewVotingHandler(d.Votes)
	queueHandler := handlers.NewQueueHandler(d.Queue, d.Restorer)
	matchHandler := handlers.NewMatchHandler(d.Matches)
	championHandler := handlers.NewChampionHandler(d.Catalog)
	debugHandler := handlers.NewDebugHandler(d.Store, d.Config)
	wsHandler := handlers.NewWebSocketHandler(d.Registry, d.Verifier)

	r.Route("/", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(apimiddleware.Auth(d.Verifier))

			r.Route("/match", func(r chi.Router) {
				r.Post("/draft-action", draftHandler.ProcessAction)
				r.Post("/{id}/change-pick", draftHandler.ChangePick)
				r.Post("/{id}/confirm-final-draft", draftHandler.ConfirmFinalDraft)
				r.Post("/{id}/cancel", matchHandler.Cancel)
				r.Post("/{id}/vote", votingHandler.Vote)
				r.Get("/{id}/votes", votingHandler.GetVotes)
				r.Delete("/{id}/vote", votingHandler.Unvote)
			})

			r.Route("/queue", func(r chi.Router) {
				r.Post("/join", queueHandler.Join)
				r.Post("/leave", queueHandler.Leave)
				r.Get("/my-active-match", queueHandler.MyActiveMatch)
			})

			r.Route("/champions", func(r chi.Router) {
				r.Post("/sync", championHandler.Sync)
			})
		})

		r.Post("/debug/simulate-last-match", debugHandler.SimulateLastMatch)

		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
