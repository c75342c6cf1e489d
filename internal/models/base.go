package models

import (
	"time"

	"gorm.io/gorm"
)

// Base contains common columns for all tables keyed by a surrogate id.
type Base struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Timestamps carries the audit columns shared by client and investment records.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// All lists every model in dependency order, for AutoMigrate.
func All() []interface{} {
	out := []interface{}{
		&User{},
		&Client{},
		&InvestmentAvenue{},
		&ClientDetail{},
		&AuditLog{},
	}
	return append(out, VariantModels()...)
}
