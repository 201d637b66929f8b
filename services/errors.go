// services/errors.go - Failure taxonomy shared by all services
package services

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrTeamNotFound       = errors.New("team not found")
	ErrTeamExists         = errors.New("team ID already exists")
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidCheckpoint  = errors.New("invalid check-in type")
	ErrInvalidToken       = errors.New("invalid QR token")
	ErrGateNotCompleted   = errors.New("gate entry not completed, please go to main gate first")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AlreadyCheckedInError is returned when a checkpoint transition is repeated.
// It carries the original check-in time so staff at the scanner can see when
// the first scan happened.
type AlreadyCheckedInError struct {
	Checkpoint string
	At         time.Time
}

func (e *AlreadyCheckedInError) Error() string {
	label := "Gate"
	if e.Checkpoint == "HALL" {
		label = "Hall"
	}
	if e.At.IsZero() {
		return fmt.Sprintf("already checked in at %s", label)
	}
	return fmt.Sprintf("already checked in at %s at %s", label, e.At.Format("3:04:05 PM"))
}
