package http

import (
	"net/http"
	"time"

	"github.com/vncsmyrnk/bassclub/internal/core/ports"
)

type AnglerHandler struct {
	service ports.AnglerService
}

func NewAnglerHandler(service ports.AnglerService) *AnglerHandler {
	return &AnglerHandler{
		service: service,
	}
}

type registerAnglerRequest struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	JoinedAt time.Time `json:"joined_at"`
}

// RegisterAngler godoc
// @Summary      Registers a club member
// @Tags         anglers
// @Accept       json
// @Produce      json
// @Success      201
// @Failure      400
// @Router       /anglers [post]
func (h *AnglerHandler) RegisterAngler(w http.ResponseWriter, r *http.Request) {
	var req registerAnglerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	angler, err := h.service.Register(r.Context(), ports.RegisterAnglerInput{
		Name:     req.Name,
		Email:    req.Email,
		JoinedAt: req.JoinedAt,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, angler)
}

func (h *AnglerHandler) ListAnglers(w http.ResponseWriter, r *http.Request) {
	anglers, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, anglers)
}

func (h *AnglerHandler) GetAngler(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	angler, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, angler)
}

// GetMe godoc
// @Summary      Returns the authenticated angler
// @Tags         anglers
// @Produce      json
// @Success      200
// @Failure      401
// @Router       /anglers/me [get]
func (h *AnglerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	anglerID, ok := anglerFromContext(w, r)
	if !ok {
		return
	}

	angler, err := h.service.GetByID(r.Context(), anglerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, angler)
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

func (h *AnglerHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var req setActiveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.SetActive(r.Context(), id, req.Active); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AnglerHandler) Leave(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Leave(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
