// cmd/seed-users - Seeds the staff credential store.
//
// Creates the admin, gate volunteer and hall volunteer accounts. Existing
// accounts get their password and role refreshed, so re-running the seeder
// is how passwords are rotated.
package main

import (
	"log"
	"os"

	"hackportal/database"
	"hackportal/models"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedUser struct {
	username string
	password string
	role     string
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	users := []seedUser{
		{"admin", getEnv("SEED_ADMIN_PASSWORD", "password123"), models.RoleAdmin},
		{"volunteer", getEnv("SEED_VOLUNTEER_PASSWORD", "volunteer123"), models.RoleVolunteer},
		{"hall_admin", getEnv("SEED_HALL_PASSWORD", "hall123"), models.RoleHallVolunteer},
	}

	for _, u := range users {
		if err := upsertUser(db, u); err != nil {
			log.Fatalf("Failed to seed user %s: %v", u.username, err)
		}
		log.Printf("✅ User %s (%s) ready", u.username, u.role)
	}
}

func upsertUser(db *gorm.DB, u seedUser) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var existing models.User
	err = db.Where("username = ?", u.username).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return db.Create(&models.User{
			Username: u.username,
			Password: string(hashed),
			Role:     u.role,
		}).Error
	}
	if err != nil {
		return err
	}

	return db.Model(&existing).Updates(map[string]interface{}{
		"password": string(hashed),
		"role":     u.role,
	}).Error
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
