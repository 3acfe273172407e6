package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewHandler(pollHandler *PollHandler, voteHandler *VoteHandler, hookHandler *HookHandler, globalHandler *GlobalHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/polls", func(r chi.Router) {
			r.Post("/", pollHandler.CreatePoll)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", pollHandler.GetPoll)
				r.Patch("/status", pollHandler.SetStatus)
				r.Post("/vote", voteHandler.SubmitVote)
				r.Get("/vote", voteHandler.GetVoteStatus)
			})
		})

		r.Get("/globals/{slug}", globalHandler.GetGlobal)
		r.Post("/hooks/content", hookHandler.ContentChanged)
	})

	return r
}
