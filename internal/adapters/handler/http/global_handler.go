package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/newspoll/api/internal/core/domain"
	"github.com/newspoll/api/internal/core/ports"
)

// GlobalHandler serves the memoized global documents to rendering code.
type GlobalHandler struct {
	reader ports.GlobalReader
}

func NewGlobalHandler(reader ports.GlobalReader) *GlobalHandler {
	return &GlobalHandler{
		reader: reader,
	}
}

func (h *GlobalHandler) GetGlobal(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	locale := r.URL.Query().Get("locale")
	if locale == "" {
		locale = domain.SupportedLocales[0]
	}

	depth := 0
	if raw := r.URL.Query().Get("depth"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, errorResponse{Error: "invalid depth"})
			return
		}
		depth = parsed
	}

	doc, err := h.reader.GetCachedGlobal(slug, depth, locale)(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrGlobalNotFound) {
			writeError(w, http.StatusNotFound, errorResponse{Error: err.Error()})
			return
		}
		writeError(w, http.StatusInternalServerError, errorResponse{
			Error:   "failed to read global",
			Details: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, doc)
}
