package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/bassclub/internal/core/domain"
	"github.com/vncsmyrnk/bassclub/internal/core/ports"
)

type EventHandler struct {
	events    ports.EventService
	results   ports.ResultService
	standings ports.StandingsService
}

func NewEventHandler(events ports.EventService, results ports.ResultService, standings ports.StandingsService) *EventHandler {
	return &EventHandler{
		events:    events,
		results:   results,
		standings: standings,
	}
}

type createSeasonRequest struct {
	Name     string    `json:"name"`
	StartsOn time.Time `json:"starts_on"`
	EndsOn   time.Time `json:"ends_on"`
}

// CreateSeason godoc
// @Summary      Creates a season
// @Tags         seasons
// @Accept       json
// @Produce      json
// @Success      201
// @Failure      400
// @Router       /seasons [post]
func (h *EventHandler) CreateSeason(w http.ResponseWriter, r *http.Request) {
	var req createSeasonRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	season, err := h.events.CreateSeason(r.Context(), ports.CreateSeasonInput{
		Name:     req.Name,
		StartsOn: req.StartsOn,
		EndsOn:   req.EndsOn,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, season)
}

func (h *EventHandler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	seasons, err := h.events.ListSeasons(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, seasons)
}

func (h *EventHandler) GetSeason(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	season, err := h.events.GetSeason(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, season)
}

func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	events, err := h.events.ListEvents(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// GetStandings godoc
// @Summary      Angler-of-the-Year standings for a season
// @Tags         seasons
// @Produce      json
// @Success      200
// @Failure      404
// @Router       /seasons/{id}/standings [get]
func (h *EventHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	standings, err := h.standings.GetStandings(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, standings)
}

type createEventRequest struct {
	SeasonID uuid.UUID `json:"season_id"`
	Lake     string    `json:"lake"`
	Date     time.Time `json:"date"`
}

func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	event, err := h.events.CreateEvent(r.Context(), ports.CreateEventInput{
		SeasonID: req.SeasonID,
		Lake:     req.Lake,
		Date:     req.Date,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	event, err := h.events.GetEvent(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) StartEvent(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.events.StartEvent)
}

// FinalizeEvent godoc
// @Summary      Finalizes an event and publishes its results
// @Description  The event stays finalized when the results fail to publish; the rebuild job repairs them.
// @Tags         events
// @Produce      json
// @Success      200
// @Failure      400
// @Failure      404
// @Router       /events/{id}/finalize [post]
func (h *EventHandler) FinalizeEvent(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.events.FinalizeEvent)
}

func (h *EventHandler) CancelEvent(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.events.CancelEvent)
}

func (h *EventHandler) transition(w http.ResponseWriter, r *http.Request, move func(ctx context.Context, id uuid.UUID) (*domain.Event, error)) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	event, err := move(r.Context(), id)
	if err != nil && event == nil {
		writeError(w, r, err)
		return
	}
	if err != nil {
		slog.Warn("event projections not refreshed", "event_id", id, "error", err)
	}
	writeJSON(w, http.StatusOK, event)
}

// GetResults godoc
// @Summary      Ranked results of an event
// @Tags         events
// @Produce      json
// @Success      200
// @Failure      404
// @Router       /events/{id}/results [get]
func (h *EventHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	results, err := h.results.GetEventResults(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}
