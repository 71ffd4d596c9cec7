package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"tg-autodelete/internal/config"
	"tg-autodelete/internal/logger"
	"tg-autodelete/internal/models"
	"tg-autodelete/internal/storage"

	"gorm.io/gorm"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (optional, env vars used otherwise)")
	action := flag.String("action", "migrate", "Action to perform (migrate, reset, status)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Setup(cfg); err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	db, err := storage.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	switch *action {
	case "migrate":
		if err := migrateDatabase(db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migration completed successfully")
	case "reset":
		if err := resetDatabase(db); err != nil {
			log.Fatalf("Reset failed: %v", err)
		}
		log.Println("Database reset completed successfully")
	case "status":
		if err := checkStatus(db); err != nil {
			log.Fatalf("Status check failed: %v", err)
		}
	default:
		log.Fatalf("Unknown action: %s", *action)
	}
}

// migrateDatabase performs database migration
func migrateDatabase(db *gorm.DB) error {
	fmt.Println("Migrating database...")

	if err := db.AutoMigrate(&models.TrackedMessage{}); err != nil {
		return fmt.Errorf("failed to migrate TrackedMessage model: %w", err)
	}

	return nil
}

// resetDatabase drops the tracked messages table and recreates it
func resetDatabase(db *gorm.DB) error {
	fmt.Println("Resetting database...")

	fmt.Print("WARNING: This will delete all data! Are you sure? (y/N): ")
	var confirmation string
	fmt.Scanln(&confirmation)

	if confirmation != "y" && confirmation != "Y" {
		return fmt.Errorf("operation cancelled by user")
	}

	if err := db.Migrator().DropTable(&models.TrackedMessage{}); err != nil {
		return fmt.Errorf("failed to drop TrackedMessage table: %w", err)
	}

	return migrateDatabase(db)
}

// checkStatus checks the database status
func checkStatus(db *gorm.DB) error {
	fmt.Println("Checking database status...")

	if !db.Migrator().HasTable(&models.TrackedMessage{}) {
		fmt.Println("❌ TrackedMessage table does not exist")
		return nil
	}

	fmt.Println("✅ TrackedMessage table exists")

	var total, due int64
	db.Model(&models.TrackedMessage{}).Count(&total)
	db.Model(&models.TrackedMessage{}).Where("delete_date <= ?", time.Now()).Count(&due)
	fmt.Printf("   - Contains %d records, %d due for deletion\n", total, due)

	return nil
}
