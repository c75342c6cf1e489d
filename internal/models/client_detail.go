package models

// ClientDetail links a client to one concrete investment instance. The
// variant row for the instance shares its DetailID.
type ClientDetail struct {
	DetailID       uint           `gorm:"primaryKey" json:"detail_id"`
	ClientCode     string         `gorm:"not null;index;size:32" json:"client_code"`
	AvenueID       uint           `gorm:"not null;index" json:"avenue_id"`
	InvestmentType InvestmentType `gorm:"not null;size:20;index" json:"investment_type"`
	AccountNo      *string        `json:"account_no,omitempty"`
	FolioNo        *string        `json:"folio_no,omitempty"`
	StartDate      Date           `gorm:"not null" json:"start_date"`
	EndDate        *Date          `json:"end_date,omitempty"`
	IsActive       bool           `gorm:"not null;default:true" json:"is_active"`
	Timestamps

	Client Client           `gorm:"foreignKey:ClientCode;references:ClientCode" json:"-"`
	Avenue InvestmentAvenue `gorm:"foreignKey:AvenueID;references:AvenueID" json:"-"`
}

// EndDateString returns the end date as "YYYY-MM-DD", or "" when open-ended.
func (d *ClientDetail) EndDateString() string {
	if d.EndDate == nil {
		return ""
	}
	return d.EndDate.String()
}
