package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	rediscache "github.com/newspoll/api/internal/adapters/cache/redis"
	handler "github.com/newspoll/api/internal/adapters/handler/http"
	"github.com/newspoll/api/internal/adapters/repository/postgres"
	"github.com/newspoll/api/internal/core/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db, err := sql.Open("postgres", dbConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	redisClient, err := rediscache.NewClient(
		getenv("REDIS_ADDR", "localhost:6379"),
		os.Getenv("REDIS_PASSWORD"),
		0,
	)
	if err != nil {
		log.Fatal(err)
	}
	defer redisClient.Close()

	cacheStore := rediscache.NewStore(redisClient)

	pollRepo := postgres.NewPollRepository(db)
	voteRepo := postgres.NewVoteRepository(db)
	globalRepo := postgres.NewGlobalRepository(db)

	dispatcher := services.NewRevalidationDispatcher(cacheStore)
	pollService := services.NewPollService(pollRepo, dispatcher)
	voteService := services.NewVoteService(pollRepo, voteRepo)
	globalReader := services.NewGlobalReader(globalRepo, cacheStore)

	router := handler.NewHandler(
		handler.NewPollHandler(pollService),
		handler.NewVoteHandler(voteService),
		handler.NewHookHandler(dispatcher),
		handler.NewGlobalHandler(globalReader),
	)

	server := &stdhttp.Server{
		Addr:    "0.0.0.0:" + getenv("PORT", "8080"),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func dbConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("POSTGRES_HOST"),
		os.Getenv("POSTGRES_PORT"),
		os.Getenv("POSTGRES_DB"),
	)
}
