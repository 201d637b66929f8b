// models/user.go
package models

import "time"

// Staff roles. Roles drive UI routing on the client; the server only ever
// trusts the role claim inside its own signed session token.
const (
	RoleAdmin         = "ADMIN"
	RoleVolunteer     = "VOLUNTEER"
	RoleHallVolunteer = "HALL_VOLUNTEER"
)

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;not null;size:50" json:"username"`
	Password string `gorm:"not null" json:"-"`
	Role     string `gorm:"not null;size:20;default:'VOLUNTEER'" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	LastLogin time.Time `json:"last_login"`
}

func (User) TableName() string {
	return "users"
}
