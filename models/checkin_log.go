// models/checkin_log.go
package models

import "time"

// Checkpoint kinds recorded in the log.
const (
	CheckpointGate = "GATE"
	CheckpointHall = "HALL"
)

// CheckinLog is append-only: one row per successful check-in transition.
// Rows are never updated; they are only removed by the full wipe.
type CheckinLog struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	TeamID     string    `json:"teamId" gorm:"not null;index;size:50"`
	Checkpoint string    `json:"checkpoint" gorm:"not null;size:10"`
	HandledBy  string    `json:"handledBy" gorm:"size:100"`
	Timestamp  time.Time `json:"timestamp" gorm:"index"`
}

func (CheckinLog) TableName() string {
	return "checkin_logs"
}
