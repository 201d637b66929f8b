// services/qr_service.go - QR code rendering and batch regeneration
package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"hackportal/models"

	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

const qrImageSize = 300

// RenderFunc writes a QR image for data to path.
type RenderFunc func(data string, size int, path string) error

type QRService struct {
	db      *gorm.DB
	dir     string
	baseURL string
	render  RenderFunc
}

// NewQRService creates the generator. dir is the public directory QR images
// are written to, baseURL is the portal origin embedded in each code.
func NewQRService(db *gorm.DB, dir, baseURL string) (*QRService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create QR directory: %w", err)
	}
	return &QRService{
		db:      db,
		dir:     dir,
		baseURL: baseURL,
		render: func(data string, size int, path string) error {
			return qrcode.WriteFile(data, qrcode.Medium, size, path)
		},
	}, nil
}

// Render writes the QR image for one team and returns the public URL path.
func (s *QRService) Render(teamID, token string) (string, error) {
	data := fmt.Sprintf("%s/checkin?teamId=%s&token=%s", s.baseURL, teamID, token)
	fileName := teamID + ".png"

	if err := s.render(data, qrImageSize, filepath.Join(s.dir, fileName)); err != nil {
		return "", fmt.Errorf("failed to render QR for %s: %w", teamID, err)
	}
	return "/qrcodes/" + fileName, nil
}

// GenerateAll regenerates QR images for every team that has a token and
// returns how many were written. Per-team failures are logged and skipped so
// one bad record cannot abort the batch.
func (s *QRService) GenerateAll() (int, error) {
	var teams []models.Team
	if err := s.db.Find(&teams).Error; err != nil {
		return 0, err
	}

	count := 0
	for _, team := range teams {
		if team.Token == "" || team.TeamID == "" {
			continue
		}

		url, err := s.Render(team.TeamID, team.Token)
		if err != nil {
			log.Printf("⚠️ QR generation failed for %s: %v", team.TeamID, err)
			continue
		}

		if err := s.db.Model(&models.Team{}).
			Where("team_id = ?", team.TeamID).
			Update("qr_code_url", url).Error; err != nil {
			log.Printf("⚠️ Failed to store QR URL for %s: %v", team.TeamID, err)
			continue
		}
		count++
	}

	return count, nil
}
