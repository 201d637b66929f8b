// models/team.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList stores an ordered list of strings as a JSON column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
}

// Contains reports whether name is in the list.
func (l StringList) Contains(name string) bool {
	for _, m := range l {
		if m == name {
			return true
		}
	}
	return false
}

type Team struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	TeamID     string     `json:"teamId" gorm:"uniqueIndex;not null;size:50"`
	Name       string     `json:"name" gorm:"not null;size:100"`
	College    string     `json:"college" gorm:"not null;size:200"`
	Place      string     `json:"place" gorm:"size:100"`
	Track      string     `json:"track" gorm:"size:100;index"`
	Members    StringList `json:"members" gorm:"type:text"`
	Token      string     `json:"token" gorm:"uniqueIndex;size:100"`
	QRCodeURL  string     `json:"qrCodeUrl" gorm:"size:255"`
	SeatNumber string     `json:"seatNumber" gorm:"size:20"`

	GateCheckIn     bool       `json:"gateCheckIn" gorm:"default:false;index"`
	GateCheckInTime *time.Time `json:"gateCheckInTime"`
	PresentMembers  StringList `json:"presentMembers" gorm:"type:text"`

	HallCheckIn     bool       `json:"hallCheckIn" gorm:"default:false;index"`
	HallCheckInTime *time.Time `json:"hallCheckInTime"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Team) TableName() string {
	return "teams"
}
