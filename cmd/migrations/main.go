package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// Applies every up migration in lexical order. Migration files are
// numbered, so sorting the directory listing gives the intended order.
func main() {
	dir := flag.String("dir", filepath.Join("internal", "adapters", "repository", "postgres", "migrations"), "migrations directory")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db, err := sql.Open("postgres", dbConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	applied, err := runMigrations(db, *dir)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("Applied %d migration(s).", applied)
}

func runMigrations(db *sql.DB, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return 0, fmt.Errorf("failed to read migration file %s: %w", name, err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return 0, fmt.Errorf("failed to execute migration %s: %w", name, err)
		}

		log.Printf("Applied %s", name)
	}

	return len(names), nil
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
