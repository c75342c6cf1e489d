package models

// Client is the client master record an advisor manages holdings for.
type Client struct {
	ClientCode string `gorm:"primaryKey;size:32" json:"client_code"`
	GroupName  string `json:"group_name"`
	ClientName string `gorm:"not null" json:"client_name"`
	PAN        string `gorm:"column:pan;size:10" json:"pan"`
	Aadhaar    string `gorm:"size:12" json:"aadhaar"`
	Mobile     string `gorm:"size:15" json:"mobile"`
	Email      string `json:"email"`
	DOB        *Date  `gorm:"column:dob" json:"dob,omitempty"`
	Address    string `json:"address"`
	IsActive   bool   `gorm:"not null;default:true" json:"is_active"`
	Timestamps
}
