package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/bassclub/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{
		service: service,
	}
}

type voteRequest struct {
	OptionID uuid.UUID `json:"option_id"`
}

func (h *VoteHandler) voteInput(w http.ResponseWriter, r *http.Request) (ports.VoteInput, bool) {
	pollID, ok := uuidParam(w, r, "id")
	if !ok {
		return ports.VoteInput{}, false
	}
	var req voteRequest
	if !decodeJSON(w, r, &req) {
		return ports.VoteInput{}, false
	}
	anglerID, ok := anglerFromContext(w, r)
	if !ok {
		return ports.VoteInput{}, false
	}
	return ports.VoteInput{PollID: pollID, OptionID: req.OptionID, AnglerID: anglerID}, true
}

// VoteOnPoll godoc
// @Summary      Casts the authenticated angler's vote
// @Tags         votes
// @Accept       json
// @Produce      json
// @Success      201
// @Failure      400
// @Failure      403
// @Failure      409
// @Router       /polls/{id}/votes [post]
func (h *VoteHandler) VoteOnPoll(w http.ResponseWriter, r *http.Request) {
	input, ok := h.voteInput(w, r)
	if !ok {
		return
	}

	voteID, err := h.service.Vote(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]uuid.UUID{"vote_id": voteID})
}

func (h *VoteHandler) ChangeVote(w http.ResponseWriter, r *http.Request) {
	input, ok := h.voteInput(w, r)
	if !ok {
		return
	}

	if err := h.service.ChangeVote(r.Context(), input); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *VoteHandler) Unvote(w http.ResponseWriter, r *http.Request) {
	pollID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	anglerID, ok := anglerFromContext(w, r)
	if !ok {
		return
	}

	if err := h.service.Unvote(r.Context(), pollID, anglerID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *VoteHandler) GetMyVote(w http.ResponseWriter, r *http.Request) {
	pollID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	anglerID, ok := anglerFromContext(w, r)
	if !ok {
		return
	}

	vote, err := h.service.GetMyVote(r.Context(), pollID, anglerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uuid.UUID{"option_id": vote.OptionID})
}

// Tally godoc
// @Summary      Vote counts of a poll
// @Description  Every option sharing the top count is listed in leaders.
// @Tags         votes
// @Produce      json
// @Success      200
// @Failure      404
// @Router       /polls/{id}/tally [get]
func (h *VoteHandler) Tally(w http.ResponseWriter, r *http.Request) {
	pollID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	tally, err := h.service.Tally(r.Context(), pollID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tally)
}
