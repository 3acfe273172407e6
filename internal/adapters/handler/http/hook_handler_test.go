package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newspoll/api/internal/core/ports"
)

type recordingDispatcher struct {
	changed []ports.PostChangeEvent
	deleted []ports.PostChangeEvent
	polls   []ports.PollChangeEvent
	globals []ports.GlobalChangeEvent
}

func (d *recordingDispatcher) PostChanged(ctx context.Context, evt ports.PostChangeEvent) {
	d.changed = append(d.changed, evt)
}

func (d *recordingDispatcher) PostDeleted(ctx context.Context, evt ports.PostChangeEvent) {
	d.deleted = append(d.deleted, evt)
}

func (d *recordingDispatcher) PollChanged(ctx context.Context, evt ports.PollChangeEvent) {
	d.polls = append(d.polls, evt)
}

func (d *recordingDispatcher) GlobalChanged(ctx context.Context, evt ports.GlobalChangeEvent) {
	d.globals = append(d.globals, evt)
}

func postHook(t *testing.T, h *HookHandler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/hooks/content", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	h.ContentChanged(rec, req)
	return rec
}

func TestContentHookRoutesPostChange(t *testing.T) {
	d := &recordingDispatcher{}
	h := NewHookHandler(d)

	rec := postHook(t, h, map[string]interface{}{
		"collection": "posts",
		"operation":  "update",
		"doc":        map[string]interface{}{"slug": "story", "country_slug": "france", "published": true},
	})

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, d.changed, 1)
	assert.Equal(t, "story", d.changed[0].Doc.Slug)
	assert.True(t, d.changed[0].Doc.Published)
	assert.Empty(t, d.deleted)
}

func TestContentHookRoutesPostDelete(t *testing.T) {
	d := &recordingDispatcher{}
	h := NewHookHandler(d)

	rec := postHook(t, h, map[string]interface{}{
		"collection":  "posts",
		"operation":   "delete",
		"previousDoc": map[string]interface{}{"slug": "story", "published": true},
	})

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, d.deleted, 1)
	assert.Empty(t, d.changed)
}

func TestContentHookRoutesGlobalChange(t *testing.T) {
	d := &recordingDispatcher{}
	h := NewHookHandler(d)

	rec := postHook(t, h, map[string]interface{}{
		"collection": "globals",
		"globalSlug": "footer",
	})

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, d.globals, 1)
	assert.Equal(t, "footer", d.globals[0].Slug)
}

func TestContentHookRoutesPollChange(t *testing.T) {
	d := &recordingDispatcher{}
	h := NewHookHandler(d)
	pollID := uuid.New()

	rec := postHook(t, h, map[string]interface{}{
		"collection": "polls",
		"pollId":     pollID.String(),
	})

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, d.polls, 1)
	assert.Equal(t, pollID, d.polls[0].Poll.ID)
}

func TestContentHookRejectsBadPollID(t *testing.T) {
	d := &recordingDispatcher{}
	h := NewHookHandler(d)

	rec := postHook(t, h, map[string]interface{}{
		"collection": "polls",
		"pollId":     "not-a-uuid",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, d.polls)
}

func TestContentHookCarriesDisableRevalidate(t *testing.T) {
	d := &recordingDispatcher{}
	h := NewHookHandler(d)

	rec := postHook(t, h, map[string]interface{}{
		"collection":   "posts",
		"doc":          map[string]interface{}{"slug": "seeded", "published": true},
		"contextFlags": map[string]interface{}{"disableRevalidate": true},
	})

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, d.changed, 1)
	assert.True(t, d.changed[0].DisableRevalidate)
}

func TestContentHookRejectsUnknownCollection(t *testing.T) {
	d := &recordingDispatcher{}
	h := NewHookHandler(d)

	rec := postHook(t, h, map[string]interface{}{"collection": "comments"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, d.changed)
	assert.Empty(t, d.globals)
}
