package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/fadedpez/leetbot/internal/logging"
	"github.com/fadedpez/leetbot/pkg/db/migrations"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	createCmd := flag.NewFlagSet("create", flag.ExitOnError)
	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)

	migrationsDir := createCmd.String("dir", "pkg/db/migrations/sql", "Directory to store migrations")
	dbPath := migrateCmd.String("db", "data/leetbot.db", "Path to SQLite database")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "create":
		createCmd.Parse(os.Args[2:])
		if createCmd.NArg() < 1 {
			fmt.Println("Error: Missing migration description")
			createCmd.Usage()
			os.Exit(1)
		}
		createNewMigration(*migrationsDir, createCmd.Arg(0))

	case "migrate":
		migrateCmd.Parse(os.Args[2:])
		applyMigrations(*dbPath)

	case "help":
		printUsage()

	default:
		fmt.Printf("Error: Unknown command '%s'\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/migrate create DESCRIPTION  - Create a new migration")
	fmt.Println("  go run ./cmd/migrate migrate [-db PATH]  - Apply pending migrations")
	fmt.Println("  go run ./cmd/migrate help                - Show this help")
	fmt.Println("\nExamples:")
	fmt.Println("  go run ./cmd/migrate create \"add match index\"")
	fmt.Println("  go run ./cmd/migrate migrate -db data/leetbot.db")
}

func createNewMigration(migrationsDir, description string) {
	filePath, err := migrations.CreateMigration(migrationsDir, description)
	if err != nil {
		log.Fatalf("Error creating migration: %v", err)
	}

	fmt.Printf("Created migration file: %s\n", filePath)
	fmt.Println("Edit this file, then rebuild so the migration is embedded.")
}

func applyMigrations(dbPath string) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		log.Fatalf("Error creating database directory: %v", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	defer db.Close()

	logger, err := logging.New(logging.INFO, true)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer logger.Sync()

	migrator, err := migrations.NewEmbeddedMigrator(db, logger)
	if err != nil {
		log.Fatalf("Error loading migrations: %v", err)
	}

	applied, err := migrator.MigrateUp()
	if err != nil {
		log.Fatalf("Error applying migrations: %v", err)
	}

	fmt.Printf("Applied %d migrations successfully!\n", applied)
}
