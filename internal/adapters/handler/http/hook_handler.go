package http

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/newspoll/api/internal/core/domain"
	"github.com/newspoll/api/internal/core/ports"
)

// HookHandler is the content-mutation boundary: the CMS calls it on every
// collection or global write and the dispatcher turns the payload into cache
// invalidation commands.
type HookHandler struct {
	dispatcher ports.RevalidationDispatcher
}

func NewHookHandler(dispatcher ports.RevalidationDispatcher) *HookHandler {
	return &HookHandler{
		dispatcher: dispatcher,
	}
}

type contentHookRequest struct {
	Collection  string       `json:"collection"`
	Operation   string       `json:"operation"`
	Doc         *domain.Post `json:"doc,omitempty"`
	PreviousDoc *domain.Post `json:"previousDoc,omitempty"`
	PollID      string       `json:"pollId,omitempty"`
	GlobalSlug  string       `json:"globalSlug,omitempty"`
	Flags       hookFlags    `json:"contextFlags"`
}

type hookFlags struct {
	DisableRevalidate bool `json:"disableRevalidate"`
}

func (h *HookHandler) ContentChanged(w http.ResponseWriter, r *http.Request) {
	var req contentHookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	switch req.Collection {
	case "posts":
		evt := ports.PostChangeEvent{
			Doc:               req.Doc,
			PreviousDoc:       req.PreviousDoc,
			DisableRevalidate: req.Flags.DisableRevalidate,
		}
		if req.Operation == "delete" {
			h.dispatcher.PostDeleted(r.Context(), evt)
		} else {
			h.dispatcher.PostChanged(r.Context(), evt)
		}
	case "polls":
		pollID, err := uuid.Parse(req.PollID)
		if err != nil {
			writeError(w, http.StatusBadRequest, errorResponse{Error: "invalid poll id"})
			return
		}
		h.dispatcher.PollChanged(r.Context(), ports.PollChangeEvent{
			Poll:              &domain.Poll{ID: pollID},
			DisableRevalidate: req.Flags.DisableRevalidate,
		})
	case "globals":
		h.dispatcher.GlobalChanged(r.Context(), ports.GlobalChangeEvent{
			Slug:              req.GlobalSlug,
			DisableRevalidate: req.Flags.DisableRevalidate,
		})
	default:
		writeError(w, http.StatusBadRequest, errorResponse{Error: "unknown collection"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
