package models

import "time"

// Role values carried in tokens. Only membership is checked.
const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// User represents an advisor or client login.
type User struct {
	Base
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	Name        string     `json:"name"`
	Role        string     `gorm:"not null;default:'client'" json:"role"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}
