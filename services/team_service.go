// services/team_service.go - Team Registry Business Logic
package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"hackportal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TeamService struct {
	db *gorm.DB
	qr *QRService
}

func NewTeamService(db *gorm.DB, qr *QRService) *TeamService {
	return &TeamService{db: db, qr: qr}
}

type CreateTeamInput struct {
	TeamID     string   `json:"teamId"`
	Name       string   `json:"name"`
	College    string   `json:"college"`
	Place      string   `json:"place"`
	Track      string   `json:"track"`
	SeatNumber string   `json:"seatNumber"`
	Members    []string `json:"members"`
}

// Create registers a team with a fresh token and its QR code. The QR image is
// rendered before the row is persisted so a stored qrCodeUrl always resolves;
// if rendering fails the team is still created without a URL and the batch
// generator can backfill it later.
func (s *TeamService) Create(in CreateTeamInput) (*models.Team, error) {
	if in.TeamID == "" || in.Name == "" || in.College == "" {
		return nil, ErrMissingFields
	}

	var existing models.Team
	if err := s.db.Where("team_id = ?", in.TeamID).First(&existing).Error; err == nil {
		return nil, ErrTeamExists
	}

	token := fmt.Sprintf("%s-%s", in.TeamID, uuid.New().String()[:8])

	qrURL := ""
	if s.qr != nil {
		url, err := s.qr.Render(in.TeamID, token)
		if err != nil {
			log.Printf("⚠️ %v", err)
		} else {
			qrURL = url
		}
	}

	team := &models.Team{
		TeamID:         in.TeamID,
		Name:           in.Name,
		College:        in.College,
		Place:          in.Place,
		Track:          in.Track,
		SeatNumber:     in.SeatNumber,
		Members:        models.StringList(in.Members),
		Token:          token,
		QRCodeURL:      qrURL,
		GateCheckIn:    false,
		HallCheckIn:    false,
		PresentMembers: models.StringList{},
	}

	if err := s.db.Create(team).Error; err != nil {
		// a concurrent create of the same ID can slip past the read above
		// and land on the unique constraint instead
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTeamExists
		}
		return nil, err
	}
	return team, nil
}

type ListTeamsFilter struct {
	Search string
	Gate   *bool
	Hall   *bool
}

// List returns teams matching the filter, ordered by team ID so listings are
// deterministic without pagination.
func (s *TeamService) List(f ListTeamsFilter) ([]models.Team, error) {
	q := s.db.Model(&models.Team{})

	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where(
			"LOWER(team_id) LIKE ? OR LOWER(name) LIKE ? OR LOWER(college) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if f.Gate != nil {
		q = q.Where("gate_check_in = ?", *f.Gate)
	}
	if f.Hall != nil {
		q = q.Where("hall_check_in = ?", *f.Hall)
	}

	var teams []models.Team
	err := q.Order("team_id ASC").Find(&teams).Error
	return teams, err
}

// Get retrieves one team by its external ID.
func (s *TeamService) Get(teamID string) (*models.Team, error) {
	var team models.Team
	if err := s.db.Where("team_id = ?", teamID).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

type UpdateTeamInput struct {
	TeamID     string    `json:"teamId"`
	Name       *string   `json:"name"`
	College    *string   `json:"college"`
	Place      *string   `json:"place"`
	Track      *string   `json:"track"`
	SeatNumber *string   `json:"seatNumber"`
	Members    *[]string `json:"members"`

	// Attendance override fields. Setting these bypasses the transition
	// handler's validation: an admin may undo a check-in or adjust the
	// present list after the fact.
	PresentMembers *[]string `json:"presentMembers"`
	GateCheckIn    *bool     `json:"gateCheckIn"`
	HallCheckIn    *bool     `json:"hallCheckIn"`
}

// Update applies a partial update of descriptive fields and, when the
// override fields are set, of the attendance state itself. Flag and timestamp
// stay paired: forcing a flag on stamps now, forcing it off clears the stamp.
func (s *TeamService) Update(in UpdateTeamInput) (*models.Team, error) {
	team, err := s.Get(in.TeamID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.College != nil {
		updates["college"] = *in.College
	}
	if in.Place != nil {
		updates["place"] = *in.Place
	}
	if in.Track != nil {
		updates["track"] = *in.Track
	}
	if in.SeatNumber != nil {
		updates["seat_number"] = *in.SeatNumber
	}

	members := team.Members
	if in.Members != nil {
		members = models.StringList(*in.Members)
		updates["members"] = members
	}

	if in.PresentMembers != nil {
		updates["present_members"] = presentSubset(members, *in.PresentMembers)
	} else if in.Members != nil {
		// roster edits keep the attendance list consistent with the new roster
		updates["present_members"] = presentSubset(members, team.PresentMembers)
	}

	if in.GateCheckIn != nil {
		updates["gate_check_in"] = *in.GateCheckIn
		if *in.GateCheckIn {
			if team.GateCheckInTime == nil {
				updates["gate_check_in_time"] = time.Now()
			}
		} else {
			updates["gate_check_in_time"] = nil
			// hall requires gate; undoing gate undoes hall as well
			updates["hall_check_in"] = false
			updates["hall_check_in_time"] = nil
		}
	}
	if in.HallCheckIn != nil {
		updates["hall_check_in"] = *in.HallCheckIn
		if *in.HallCheckIn {
			if team.HallCheckInTime == nil {
				updates["hall_check_in_time"] = time.Now()
			}
		} else {
			updates["hall_check_in_time"] = nil
		}
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.Team{}).
			Where("team_id = ?", in.TeamID).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.Get(in.TeamID)
}

// Delete removes a single team.
func (s *TeamService) Delete(teamID string) error {
	res := s.db.Where("team_id = ?", teamID).Delete(&models.Team{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTeamNotFound
	}
	return nil
}

// WipeAll removes every team and every check-in log row. Destructive; the
// interface layer is responsible for operator confirmation.
func (s *TeamService) WipeAll() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Team{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&models.CheckinLog{}).Error
	})
}

// ExportRows builds the CSV rows (header first) for the teams listing export.
func (s *TeamService) ExportRows(f ListTeamsFilter) ([][]string, error) {
	teams, err := s.List(f)
	if err != nil {
		return nil, err
	}

	rows := [][]string{{
		"Team ID", "Name", "College", "Members",
		"Gate Check-in", "Gate Time", "Hall Check-in", "Hall Time",
		"Present Members", "Absent Members",
	}}

	for _, t := range teams {
		absent := []string{}
		for _, m := range t.Members {
			if !t.PresentMembers.Contains(m) {
				absent = append(absent, m)
			}
		}

		rows = append(rows, []string{
			t.TeamID,
			t.Name,
			t.College,
			strings.Join(t.Members, ", "),
			yesNo(t.GateCheckIn),
			formatTime(t.GateCheckInTime),
			yesNo(t.HallCheckIn),
			formatTime(t.HallCheckInTime),
			strings.Join(t.PresentMembers, ", "),
			strings.Join(absent, ", "),
		})
	}

	return rows, nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
