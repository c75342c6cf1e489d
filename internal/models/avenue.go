package models

// InvestmentAvenue is a named, typed investment category. Selecting one
// fixes the variant of the holding being recorded.
type InvestmentAvenue struct {
	AvenueID       uint           `gorm:"primaryKey" json:"avenue_id"`
	AvenueName     string         `gorm:"not null" json:"avenue_name"`
	InvestmentType InvestmentType `gorm:"not null;size:20" json:"investment_type"`
	Description    string         `json:"description,omitempty"`
	IsActive       bool           `gorm:"not null;default:true" json:"is_active"`
	Timestamps
}
