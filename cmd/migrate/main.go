package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"gosppt/adapters/postgres"
	"gosppt/domain/core"
	"gosppt/domain/sppt"
	"gosppt/internal/migration"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate <database_url> [results_dir]")
	}

	databaseURL := os.Args[1]
	ctx := context.Background()

	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	runner := migration.NewRunner()
	if err := runner.Run(ctx, db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Printf("Schema migrated to version %s", runner.Version())

	if len(os.Args) < 3 {
		return
	}
	resultsDir := os.Args[2]

	files, err := findResultFiles(resultsDir)
	if err != nil {
		log.Fatalf("Failed to find result files: %v", err)
	}
	log.Printf("Found %d exported results to import", len(files))

	repo := postgres.NewResultRepository(db)
	imported, skipped := 0, 0
	for _, file := range files {
		res, err := loadResultFromFile(file)
		if err != nil {
			log.Printf("Failed to load result from %s: %v", file, err)
			skipped++
			continue
		}
		if res.RunID == "" {
			res.RunID = core.NewRunID()
		}
		if err := repo.Save(ctx, res); err != nil {
			log.Printf("Failed to save run %s: %v", res.RunID, err)
			skipped++
			continue
		}
		imported++
		log.Printf("Imported run %s from %s", res.RunID, filepath.Base(file))
	}

	log.Printf("Import complete: %d imported, %d skipped", imported, skipped)
}

// findResultFiles lists JSON exports (sppt_output_*.json) under dir.
func findResultFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		name := info.Name()
		if !info.IsDir() && strings.HasPrefix(name, "sppt_output_") && strings.HasSuffix(name, ".json") {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

func loadResultFromFile(filePath string) (*sppt.Result, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var result sppt.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	if result.Table == nil || len(result.Intervals) == 0 {
		return nil, os.ErrInvalid
	}
	return &result, nil
}
