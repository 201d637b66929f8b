// cmd/import-teams - Bulk team registration from a CSV file.
//
// Expected columns: teamId,name,college,place,track,member1,member2,...
// A header row starting with "teamId" or "Team ID" is skipped. Duplicate
// team IDs are reported and skipped; the import continues.
package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"hackportal/database"
	"hackportal/services"

	"github.com/joho/godotenv"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <teams.csv>\n", os.Args[0])
		os.Exit(1)
	}
	csvPath := os.Args[1]

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

	qrDir := getEnv("QR_DIR", "./public/qrcodes")
	baseURL := getEnv("PORTAL_BASE_URL", "http://localhost:3000")
	qrService, err := services.NewQRService(db, qrDir, baseURL)
	if err != nil {
		log.Fatalf("Failed to initialize QR service: %v", err)
	}
	teamService := services.NewTeamService(db, qrService)

	f, err := os.Open(csvPath)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", csvPath, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // member count varies per team

	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Failed to parse CSV: %v", err)
	}

	created, skipped := 0, 0
	for i, rec := range records {
		if i == 0 && isHeader(rec) {
			continue
		}

		in, err := parseRow(rec)
		if err != nil {
			log.Printf("⚠️ Row %d: %v - skipped", i+1, err)
			skipped++
			continue
		}

		if _, err := teamService.Create(in); err != nil {
			if errors.Is(err, services.ErrTeamExists) {
				log.Printf("⚠️ Row %d: team %s already exists - skipped", i+1, in.TeamID)
			} else {
				log.Printf("⚠️ Row %d: %v - skipped", i+1, err)
			}
			skipped++
			continue
		}
		created++
	}

	fmt.Printf("Imported %d teams (%d skipped)\n", created, skipped)
}

// parseRow maps one CSV record to a create input. Place, track and members
// are optional trailing columns.
func parseRow(rec []string) (services.CreateTeamInput, error) {
	if len(rec) < 3 {
		return services.CreateTeamInput{}, errors.New("need at least teamId,name,college")
	}

	in := services.CreateTeamInput{
		TeamID:  strings.TrimSpace(rec[0]),
		Name:    strings.TrimSpace(rec[1]),
		College: strings.TrimSpace(rec[2]),
	}
	if len(rec) > 3 {
		in.Place = strings.TrimSpace(rec[3])
	}
	if len(rec) > 4 {
		in.Track = strings.TrimSpace(rec[4])
	}
	if len(rec) > 5 {
		for _, member := range rec[5:] {
			if m := strings.TrimSpace(member); m != "" {
				in.Members = append(in.Members, m)
			}
		}
	}
	return in, nil
}

func isHeader(rec []string) bool {
	if len(rec) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(rec[0]))
	return first == "teamid" || first == "team id"
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
