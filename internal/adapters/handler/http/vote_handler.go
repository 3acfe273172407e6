package http

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/newspoll/api/internal/core/domain"
	"github.com/newspoll/api/internal/core/ports"
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
	OptionIndex *int   `json:"optionIndex"`
	VisitorID   string `json:"visitorId"`
}

type voteResponse struct {
	Success          bool                  `json:"success"`
	Message          string                `json:"message"`
	Results          []domain.OptionResult `json:"results"`
	TotalVotes       int64                 `json:"totalVotes"`
	VotedOptionIndex int                   `json:"votedOptionIndex"`
}

type voteStatusResponse struct {
	HasVoted         bool                  `json:"hasVoted"`
	VotedOptionIndex int                   `json:"votedOptionIndex"`
	Results          []domain.OptionResult `json:"results"`
	TotalVotes       int64                 `json:"totalVotes"`
}

type errorResponse struct {
	Error        string `json:"error"`
	AlreadyVoted bool   `json:"alreadyVoted,omitempty"`
	Details      string `json:"details,omitempty"`
}

func (h *VoteHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	pollID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{Error: "invalid poll id"})
		return
	}

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.OptionIndex == nil {
		writeError(w, http.StatusBadRequest, errorResponse{Error: "optionIndex is required"})
		return
	}

	input := ports.SubmitVoteInput{
		PollID:      pollID,
		OptionIndex: *req.OptionIndex,
		VisitorID:   req.VisitorID,
		IPAddress:   remoteIP(r),
		UserAgent:   r.UserAgent(),
	}

	result, err := h.service.SubmitVote(r.Context(), input)
	if err != nil {
		writeVoteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, voteResponse{
		Success:          true,
		Message:          "vote recorded",
		Results:          result.Results,
		TotalVotes:       result.TotalVotes,
		VotedOptionIndex: result.VotedOptionIndex,
	})
}

func (h *VoteHandler) GetVoteStatus(w http.ResponseWriter, r *http.Request) {
	pollID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{Error: "invalid poll id"})
		return
	}

	visitorID := r.URL.Query().Get("visitorId")

	status, err := h.service.GetVoteStatus(r.Context(), pollID, visitorID)
	if err != nil {
		writeVoteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, voteStatusResponse{
		HasVoted:         status.HasVoted,
		VotedOptionIndex: status.VotedOptionIndex,
		Results:          status.Results,
		TotalVotes:       status.TotalVotes,
	})
}

// writeVoteError maps the domain taxonomy onto the wire contract. Duplicate
// votes carry the alreadyVoted marker so the client can switch to a results
// view instead of retrying.
func writeVoteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrAlreadyVoted):
		writeError(w, http.StatusBadRequest, errorResponse{Error: err.Error(), AlreadyVoted: true})
	case errors.Is(err, domain.ErrVisitorIDRequired),
		errors.Is(err, domain.ErrInvalidOption),
		errors.Is(err, domain.ErrPollNotActive):
		writeError(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrPollNotFound):
		writeError(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		writeError(w, http.StatusInternalServerError, errorResponse{
			Error:   "failed to process vote",
			Details: err.Error(),
		})
	}
}

func remoteIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, body errorResponse) {
	writeJSON(w, status, body)
}
