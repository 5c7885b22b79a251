package main

import (
	"log"
	"os"

	"portfolio-notes-be/internal/model"
	"portfolio-notes-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Starting GORM migration...")

	// Extensions first; AutoMigrate cannot create them.
	color.Yellow("Step 1: Ensuring extensions...")
	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			color.Red("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	color.Yellow("Step 2: Running AutoMigrate...")
	models := []interface{}{
		&model.Note{},
		&model.NoteEmbedding{},
		&model.NoteEdge{},
		&model.Notification{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		color.Red("Migration failed: %v", err)
		os.Exit(1)
	}

	color.Green("Migration complete: %d tables up to date", len(models))
}
