package services

import (
	"fmt"
	"testing"

	"hackportal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database per test. The pool is capped at
// one connection so goroutines in concurrency tests serialize at the pool
// instead of tripping sqlite write locks.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&models.User{}, &models.Team{}, &models.CheckinLog{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func mustCreateTeam(t *testing.T, db *gorm.DB, teamID string, members ...string) *models.Team {
	t.Helper()

	team := &models.Team{
		TeamID:         teamID,
		Name:           "Team " + teamID,
		College:        "Tech U",
		Token:          teamID + "-token",
		Members:        models.StringList(members),
		PresentMembers: models.StringList{},
	}
	if err := db.Create(team).Error; err != nil {
		t.Fatalf("failed to create fixture team %s: %v", teamID, err)
	}
	return team
}

func countLogs(t *testing.T, db *gorm.DB, teamID, checkpoint string) int64 {
	t.Helper()

	var n int64
	if err := db.Model(&models.CheckinLog{}).
		Where("team_id = ? AND checkpoint = ?", teamID, checkpoint).
		Count(&n).Error; err != nil {
		t.Fatalf("failed to count logs: %v", err)
	}
	return n
}
