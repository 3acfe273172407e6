package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/newspoll/api/internal/core/domain"
	"github.com/newspoll/api/internal/core/ports"
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
	Question string   `json:"question"`
	Slug     string   `json:"slug"`
	Options  []string `json:"options"`
}

func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req createPollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	input := ports.CreatePollInput{
		Question: req.Question,
		Slug:     req.Slug,
		Options:  req.Options,
	}

	poll, err := h.service.Create(r.Context(), input)
	if err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, poll)
}

func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	poll, err := h.service.GetPoll(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writePollError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, poll)
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (h *PollHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	poll, err := h.service.SetStatus(r.Context(), chi.URLParam(r, "id"), domain.PollStatus(req.Status))
	if err != nil {
		writePollError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, poll)
}

func writePollError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidPollID):
		writeError(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrPollNotFound):
		writeError(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		writeError(w, http.StatusInternalServerError, errorResponse{
			Error:   "internal server error",
			Details: err.Error(),
		})
	}
}
