package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	handler "github.com/newspoll/api/internal/adapters/handler/http"
	repo "github.com/newspoll/api/internal/adapters/repository/postgres"
	"github.com/newspoll/api/internal/core/services"
)

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	Invalidator *RecordingInvalidator
	DBContainer testcontainers.Container
}

// RecordingInvalidator stands in for the redis-backed store: it holds tagged
// entries in memory, honors tag invalidation, and records every invalidation
// command so hook tests can assert on what the dispatcher issued.
type RecordingInvalidator struct {
	mu      sync.Mutex
	entries map[string][]byte
	tagKeys map[string][]string
	Paths   []string
	Tags    []string
}

func newRecordingInvalidator() *RecordingInvalidator {
	return &RecordingInvalidator{
		entries: make(map[string][]byte),
		tagKeys: make(map[string][]string),
	}
}

func (r *RecordingInvalidator) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	r.mu.Lock()
	data, ok := r.entries[key]
	r.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (r *RecordingInvalidator) SetTagged(ctx context.Context, key string, value interface{}, tags ...string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = data
	for _, tag := range tags {
		r.tagKeys[tag] = append(r.tagKeys[tag], key)
	}
	return nil
}

func (r *RecordingInvalidator) InvalidatePath(ctx context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Paths = append(r.Paths, path)
	return nil
}

func (r *RecordingInvalidator) InvalidateTag(ctx context.Context, tag string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Tags = append(r.Tags, tag)
	for _, key := range r.tagKeys[tag] {
		delete(r.entries, key)
	}
	delete(r.tagKeys, tag)
	return nil
}

func (r *RecordingInvalidator) Snapshot() (paths, tags []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.Paths...), append([]string(nil), r.Tags...)
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		fullPath := filepath.Join(dirPath, entry.Name())
		content, err := os.ReadFile(fullPath)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		_, err = db.Exec(string(content))
		if err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func setupTestApp(t *testing.T) *TestApp {
	ctx := context.Background()
	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	err = applyMigrations(db)
	require.NoError(t, err)

	pollRepo := repo.NewPollRepository(db)
	voteRepo := repo.NewVoteRepository(db)
	globalRepo := repo.NewGlobalRepository(db)

	invalidator := newRecordingInvalidator()
	dispatcher := services.NewRevalidationDispatcher(invalidator)

	pollService := services.NewPollService(pollRepo, dispatcher)
	voteService := services.NewVoteService(pollRepo, voteRepo)
	globalReader := services.NewGlobalReader(globalRepo, invalidator)

	router := handler.NewHandler(
		handler.NewPollHandler(pollService),
		handler.NewVoteHandler(voteService),
		handler.NewHookHandler(dispatcher),
		handler.NewGlobalHandler(globalReader),
	)

	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		Invalidator: invalidator,
		DBContainer: dbContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	app.Server.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}
