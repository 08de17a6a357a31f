package models

import (
	"time"
)

type UserRole string

const (
	RoleHomeowner UserRole = "homeowner"
	RoleFixer     UserRole = "fixer"
)

// ValidRole reports whether r is one of the two marketplace roles.
func ValidRole(r UserRole) bool {
	return r == RoleHomeowner || r == RoleFixer
}

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Email     string    `json:"email" gorm:"uniqueIndex"`
	Password  string    `json:"password,omitempty"`
	Role      UserRole  `json:"role" gorm:"type:varchar(16);index"`
	Lat       *float64  `json:"lat,omitempty"`
	Lng       *float64  `json:"lng,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
