package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	repo "github.com/newspoll/api/internal/adapters/repository/postgres"
	"github.com/newspoll/api/internal/core/domain"
	"github.com/newspoll/api/internal/core/services"
)

func TestCreateAndGetPoll(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	createPayload := map[string]interface{}{
		"question": "Best coverage of the year?",
		"slug":     "best-coverage",
		"options":  []string{"Elections", "Economy", "Sports"},
	}
	body, _ := json.Marshal(createPayload)

	resp, err := app.Client.Post(app.Server.URL+"/api/polls", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created domain.Poll
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()

	assert.Equal(t, domain.PollStatusDraft, created.Status)
	assert.Len(t, created.Options, 3)

	resp, err = app.Client.Get(fmt.Sprintf("%s/api/polls/%s", app.Server.URL, created.ID))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var fetched domain.Poll
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&fetched))
	resp.Body.Close()

	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "Best coverage of the year?", fetched.Question)
	assert.Equal(t, int64(0), fetched.TotalVotes)
}

func TestGetPollNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	resp, err := app.Client.Get(fmt.Sprintf("%s/api/polls/%s", app.Server.URL, uuid.NewString()))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp, err = app.Client.Get(app.Server.URL + "/api/polls/not-a-uuid")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestSetStatusInvalidatesCachedPages(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	poll := createActivePoll(t, app, "Yes", "No")

	paths, tags := app.Invalidator.Snapshot()
	assert.Contains(t, tags, "poll_"+poll.ID.String())
	assert.Contains(t, paths, "/")
}

// TestAggregateRepair corrupts the materialized counters and checks that the
// recount job restores them from the ledger.
func TestAggregateRepair(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	poll := createActivePoll(t, app, "Yes", "No")

	for i := 0; i < 6; i++ {
		resp, _ := submitVote(t, app, poll.ID.String(), i%2, fmt.Sprintf("visitor-%d", i))
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	// Simulate a crash window that left counters behind the ledger.
	_, err := app.DB.Exec("UPDATE polls SET total_votes = 1 WHERE id = $1", poll.ID)
	require.NoError(t, err)
	_, err = app.DB.Exec("UPDATE poll_options SET votes = 0 WHERE poll_id = $1 AND position = 0", poll.ID)
	require.NoError(t, err)

	pollRepo := repo.NewPollRepository(app.DB)
	voteRepo := repo.NewVoteRepository(app.DB)
	repair := services.NewRepairService(pollRepo, voteRepo)
	require.NoError(t, repair.RecountAllPolls(context.Background()))

	var total, optionSum int64
	require.NoError(t, app.DB.QueryRow("SELECT total_votes FROM polls WHERE id = $1", poll.ID).Scan(&total))
	require.NoError(t, app.DB.QueryRow("SELECT SUM(votes) FROM poll_options WHERE poll_id = $1", poll.ID).Scan(&optionSum))

	assert.Equal(t, int64(6), total)
	assert.Equal(t, int64(6), optionSum)
}
