// database/migrate.go - Database Migration Runner
package database

import (
	"log"

	"hackportal/models"

	"gorm.io/gorm"
)

// RunMigrations runs all database migrations.
func RunMigrations(db *gorm.DB) error {
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.CheckinLog{},
	); err != nil {
		return err
	}

	createIndexes(db)

	log.Println("✅ All migrations completed successfully")
	return nil
}

// createIndexes creates lookup indexes beyond what the column tags declare.
func createIndexes(db *gorm.DB) {
	// Team lookups: search is over team_id/name/college, listings sort by team_id
	db.Exec("CREATE INDEX IF NOT EXISTS idx_teams_name ON teams(name)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_teams_college ON teams(college)")

	// Log lookups by team and checkpoint
	db.Exec("CREATE INDEX IF NOT EXISTS idx_checkin_logs_checkpoint ON checkin_logs(checkpoint)")
}
