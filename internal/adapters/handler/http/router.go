package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Handlers struct {
	Anglers *AnglerHandler
	Events  *EventHandler
	Catches *CatchHandler
	Polls   *PollHandler
	Votes   *VoteHandler
}

// NewHandler mounts the API under /api. Reads are public; anything that
// changes state needs a token signed with jwtSecret.
func NewHandler(h Handlers, jwtSecret []byte) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	auth := Authenticator(jwtSecret)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("welcome"))
		})

		r.Route("/anglers", func(r chi.Router) {
			r.Get("/", h.Anglers.ListAnglers)
			r.Get("/{id}", h.Anglers.GetAngler)
			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Post("/", h.Anglers.RegisterAngler)
				r.Get("/me", h.Anglers.GetMe)
				r.Put("/{id}/active", h.Anglers.SetActive)
				r.Post("/{id}/leave", h.Anglers.Leave)
			})
		})

		r.Route("/seasons", func(r chi.Router) {
			r.Get("/", h.Events.ListSeasons)
			r.Get("/{id}", h.Events.GetSeason)
			r.Get("/{id}/events", h.Events.ListEvents)
			r.Get("/{id}/standings", h.Events.GetStandings)
			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Post("/", h.Events.CreateSeason)
			})
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/{id}", h.Events.GetEvent)
			r.Get("/{id}/results", h.Events.GetResults)
			r.Get("/{id}/catches", h.Catches.ListCatches)
			r.Get("/{id}/corrections", h.Catches.ListCorrections)
			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Post("/", h.Events.CreateEvent)
				r.Post("/{id}/start", h.Events.StartEvent)
				r.Post("/{id}/finalize", h.Events.FinalizeEvent)
				r.Post("/{id}/cancel", h.Events.CancelEvent)
				r.Post("/{id}/catches", h.Catches.RecordCatch)
				r.Put("/{id}/catches/{anglerID}", h.Catches.CorrectCatch)
			})
		})

		r.Route("/polls", func(r chi.Router) {
			r.Get("/", h.Polls.ListPolls)
			r.Get("/{id}", h.Polls.GetPoll)
			r.Get("/{id}/tally", h.Votes.Tally)
			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Post("/", h.Polls.CreatePoll)
				r.Post("/{id}/close", h.Polls.ClosePoll)
				r.Post("/{id}/votes", h.Votes.VoteOnPoll)
				r.Put("/{id}/votes", h.Votes.ChangeVote)
				r.Delete("/{id}/votes", h.Votes.Unvote)
				r.Get("/{id}/my-vote", h.Votes.GetMyVote)
			})
		})
	})

	return r
}
