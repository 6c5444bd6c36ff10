package models

import "time"

const (
	RoleAdmin      = "admin" // cosmetologist
	RoleClient     = "client"
	RoleSuperadmin = "superadmin"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	FullName     string `gorm:"size:255" json:"full_name"`
	Role         string `gorm:"size:20;not null" json:"role"`
	IsActive     bool   `gorm:"not null" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleClient, RoleSuperadmin:
		return true
	}
	return false
}
