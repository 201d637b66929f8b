// services/checkin_service.go - Gate and Hall check-in transitions
package services

import (
	"errors"
	"time"

	"hackportal/models"

	"gorm.io/gorm"
)

type CheckinService struct {
	db *gorm.DB
}

func NewCheckinService(db *gorm.DB) *CheckinService {
	return &CheckinService{db: db}
}

type CheckinRequest struct {
	TeamID         string   `json:"teamId"`
	Token          string   `json:"token"`
	Type           string   `json:"type"` // GATE or HALL
	HandledBy      string   `json:"handledBy"`
	PresentMembers []string `json:"presentMembers"`
}

// conflict is an internal marker for "conditional update matched no row".
var errTransitionConflict = errors.New("transition conflict")

// Checkin applies a gate or hall transition for one team and appends exactly
// one log row on success. The flag flip is a conditional update on the
// pre-state, so concurrent duplicate scans of the same team resolve to one
// success and conflicts for the rest.
func (s *CheckinService) Checkin(req CheckinRequest) (*models.Team, error) {
	if req.Type != models.CheckpointGate && req.Type != models.CheckpointHall {
		return nil, ErrInvalidCheckpoint
	}

	var team models.Team
	if err := s.db.Where("team_id = ?", req.TeamID).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	if req.Token != "" && team.Token != req.Token {
		return nil, ErrInvalidToken
	}

	handledBy := req.HandledBy
	if handledBy == "" {
		handledBy = "Unknown"
	}
	now := time.Now()

	var err error
	if req.Type == models.CheckpointGate {
		err = s.gateTransition(&team, req.PresentMembers, handledBy, now)
	} else {
		err = s.hallTransition(&team, handledBy, now)
	}
	if err != nil {
		return nil, err
	}

	// Return the post-transition record
	if err := s.db.Where("team_id = ?", req.TeamID).First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *CheckinService) gateTransition(team *models.Team, present []string, handledBy string, now time.Time) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Team{}).
			Where("team_id = ? AND gate_check_in = ?", team.TeamID, false).
			Updates(map[string]interface{}{
				"gate_check_in":      true,
				"gate_check_in_time": now,
				"present_members":    presentSubset(team.Members, present),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errTransitionConflict
		}

		return tx.Create(&models.CheckinLog{
			TeamID:     team.TeamID,
			Checkpoint: models.CheckpointGate,
			HandledBy:  handledBy,
			Timestamp:  now,
		}).Error
	})

	if errors.Is(err, errTransitionConflict) {
		return s.conflictError(team.TeamID, models.CheckpointGate)
	}
	return err
}

func (s *CheckinService) hallTransition(team *models.Team, handledBy string, now time.Time) error {
	if !team.GateCheckIn {
		return ErrGateNotCompleted
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Team{}).
			Where("team_id = ? AND gate_check_in = ? AND hall_check_in = ?", team.TeamID, true, false).
			Updates(map[string]interface{}{
				"hall_check_in":      true,
				"hall_check_in_time": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errTransitionConflict
		}

		return tx.Create(&models.CheckinLog{
			TeamID:     team.TeamID,
			Checkpoint: models.CheckpointHall,
			HandledBy:  handledBy,
			Timestamp:  now,
		}).Error
	})

	if errors.Is(err, errTransitionConflict) {
		// Zero rows can also mean an admin override flipped the gate flag
		// back between our read and the update.
		var current models.Team
		if lookupErr := s.db.Where("team_id = ?", team.TeamID).First(&current).Error; lookupErr == nil && !current.GateCheckIn {
			return ErrGateNotCompleted
		}
		return s.conflictError(team.TeamID, models.CheckpointHall)
	}
	return err
}

// conflictError re-reads the record so the message carries the time of the
// original check-in.
func (s *CheckinService) conflictError(teamID, checkpoint string) error {
	var team models.Team
	at := time.Time{}
	if err := s.db.Where("team_id = ?", teamID).First(&team).Error; err == nil {
		if checkpoint == models.CheckpointGate && team.GateCheckInTime != nil {
			at = *team.GateCheckInTime
		}
		if checkpoint == models.CheckpointHall && team.HallCheckInTime != nil {
			at = *team.HallCheckInTime
		}
	}
	return &AlreadyCheckedInError{Checkpoint: checkpoint, At: at}
}

// presentSubset keeps only registered members, preserving roster order.
// A nil or empty scan payload records an empty attendance list.
func presentSubset(members models.StringList, present []string) models.StringList {
	out := models.StringList{}
	for _, name := range members {
		for _, p := range present {
			if p == name {
				out = append(out, name)
				break
			}
		}
	}
	return out
}
