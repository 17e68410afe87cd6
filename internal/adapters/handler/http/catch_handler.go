package http

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vncsmyrnk/bassclub/internal/core/ports"
)

type CatchHandler struct {
	service ports.CatchService
}

func NewCatchHandler(service ports.CatchService) *CatchHandler {
	return &CatchHandler{
		service: service,
	}
}

type catchRequest struct {
	AnglerID      uuid.UUID       `json:"angler_id"`
	Weight        decimal.Decimal `json:"weight"`
	FishCount     int             `json:"fish_count"`
	BigBass       bool            `json:"big_bass"`
	BigBassWeight decimal.Decimal `json:"big_bass_weight"`
	Disqualified  bool            `json:"disqualified"`
	Penalty       decimal.Decimal `json:"penalty"`
}

func (req catchRequest) input(eventID uuid.UUID) ports.RecordCatchInput {
	return ports.RecordCatchInput{
		EventID:       eventID,
		AnglerID:      req.AnglerID,
		Weight:        req.Weight,
		FishCount:     req.FishCount,
		BigBass:       req.BigBass,
		BigBassWeight: req.BigBassWeight,
		Disqualified:  req.Disqualified,
		Penalty:       req.Penalty,
	}
}

// RecordCatch godoc
// @Summary      Enters an angler's weigh-in
// @Description  Only accepted while the event is in progress. Weights are decimal pounds.
// @Tags         events
// @Accept       json
// @Produce      json
// @Success      201
// @Failure      400
// @Failure      404
// @Router       /events/{id}/catches [post]
func (h *CatchHandler) RecordCatch(w http.ResponseWriter, r *http.Request) {
	eventID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var req catchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	record, err := h.service.RecordCatch(r.Context(), req.input(eventID))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

type correctCatchRequest struct {
	catchRequest
	Reason string `json:"reason"`
}

// CorrectCatch godoc
// @Summary      Corrects a catch record of a finalized event
// @Description  The authenticated angler is recorded as the author of the correction.
// @Tags         events
// @Accept       json
// @Produce      json
// @Success      200
// @Failure      400
// @Failure      404
// @Router       /events/{id}/catches/{anglerID} [put]
func (h *CatchHandler) CorrectCatch(w http.ResponseWriter, r *http.Request) {
	eventID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	anglerID, ok := uuidParam(w, r, "anglerID")
	if !ok {
		return
	}
	correctedBy, ok := anglerFromContext(w, r)
	if !ok {
		return
	}
	var req correctCatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.AnglerID = anglerID

	correction, err := h.service.CorrectCatch(r.Context(), ports.CorrectCatchInput{
		RecordCatchInput: req.input(eventID),
		Reason:           req.Reason,
		CorrectedBy:      correctedBy,
	})
	if err != nil && correction == nil {
		writeError(w, r, err)
		return
	}
	if err != nil {
		slog.Warn("event projections not refreshed", "event_id", eventID, "error", err)
	}
	writeJSON(w, http.StatusOK, correction)
}

func (h *CatchHandler) ListCatches(w http.ResponseWriter, r *http.Request) {
	eventID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	records, err := h.service.ListCatches(r.Context(), eventID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *CatchHandler) ListCorrections(w http.ResponseWriter, r *http.Request) {
	eventID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	corrections, err := h.service.ListCorrections(r.Context(), eventID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, corrections)
}
