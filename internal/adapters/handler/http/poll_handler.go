package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
	"github.com/vncsmyrnk/bassclub/internal/core/ports"
)

type PollHandler struct {
	service ports.PollService
}

func NewPollHandler(service ports.PollService) *PollHandler {
	return &PollHandler{
		service: service,
	}
}

type createPollRequest struct {
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	Options         []string               `json:"options"`
	Eligibility     domain.EligibilityRule `json:"eligibility"`
	AllowVoteChange bool                   `json:"allow_vote_change"`
	OpensAt         time.Time              `json:"opens_at"`
	ClosesAt        time.Time              `json:"closes_at"`
}

// CreatePoll godoc
// @Summary      Creates a poll
// @Description  Eligible anglers are fixed when the poll is created, evaluated for its opening time.
// @Tags         polls
// @Accept       json
// @Produce      json
// @Success      201
// @Failure      400
// @Router       /polls [post]
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req createPollRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input := ports.CreatePollInput{
		Title:           req.Title,
		Description:     req.Description,
		Options:         req.Options,
		Eligibility:     req.Eligibility,
		AllowVoteChange: req.AllowVoteChange,
		OpensAt:         req.OpensAt,
		ClosesAt:        req.ClosesAt,
	}

	poll, err := h.service.Create(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, poll)
}

// ListPolls godoc
// @Summary      Lists polls
// @Description  Most voted first. Pages hold 20 polls; q filters by title.
// @Tags         polls
// @Produce      json
// @Param        page  query  int     false  "page number"
// @Param        q     query  string  false  "title search"
// @Success      200
// @Router       /polls [get]
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			http.Error(w, "invalid page", http.StatusBadRequest)
			return
		}
		page = n
	}

	polls, err := h.service.ListPolls(r.Context(), ports.ListPollsInput{
		Page:  page,
		Query: r.URL.Query().Get("q"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if polls == nil {
		polls = []*domain.Poll{}
	}
	writeJSON(w, http.StatusOK, polls)
}

func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "missing poll id", http.StatusBadRequest)
		return
	}

	poll, err := h.service.GetPoll(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, poll)
}

func (h *PollHandler) ClosePoll(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	poll, err := h.service.ClosePoll(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, poll)
}
