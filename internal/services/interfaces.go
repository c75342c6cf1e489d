package services

import (
	"context"
	"io"
	"time"

	"nivesh/internal/investment"
	"nivesh/internal/models"
	"nivesh/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
}

// ClientFilter holds optional filter parameters for listing clients.
type ClientFilter struct {
	Search     string
	GroupName  string
	ActiveOnly bool
}

// ClientUpdate holds the client master fields that may change. Nil fields
// are left untouched.
type ClientUpdate struct {
	GroupName  *string
	ClientName *string
	PAN        *string
	Aadhaar    *string
	Mobile     *string
	Email      *string
	DOB        *models.Date
	Address    *string
	IsActive   *bool
}

// ClientServicer defines the contract for client master business logic.
type ClientServicer interface {
	CreateClient(client *models.Client) (*models.Client, error)
	ListClients(filter ClientFilter) ([]models.Client, error)
	GetClient(code string) (*models.Client, error)
	UpdateClient(code string, update ClientUpdate) (*models.Client, error)
	DeleteClient(code string) error
}

// AvenueUpdate holds the avenue fields that may change.
type AvenueUpdate struct {
	AvenueName     *string
	InvestmentType *models.InvestmentType
	Description    *string
	IsActive       *bool
}

// AvenueServicer defines the contract for investment avenue business logic.
// It also serves as the server-side investment.AvenueSource.
type AvenueServicer interface {
	ListAvenues(ctx context.Context) ([]models.InvestmentAvenue, error)
	GetAvenue(id uint) (*models.InvestmentAvenue, error)
	CreateAvenue(avenue *models.InvestmentAvenue) (*models.InvestmentAvenue, error)
	UpdateAvenue(id uint, update AvenueUpdate) (*models.InvestmentAvenue, error)
	DeleteAvenue(id uint) error
	SeedDefaults() (int, error)
}

// InvestmentFilter holds optional filter parameters for listing investments.
type InvestmentFilter struct {
	ClientCode     string
	InvestmentType models.InvestmentType
}

// DetailUpdate holds the client detail fields that may change on an
// existing investment.
type DetailUpdate struct {
	AccountNo *string `json:"account_no"`
	FolioNo   *string `json:"folio_no"`
	StartDate *string `json:"start_date" binding:"omitempty,isodate"`
	EndDate   *string `json:"end_date"`
	IsActive  *bool   `json:"is_active"`
}

// InvestmentServicer defines the contract for investment business logic.
type InvestmentServicer interface {
	CreateInvestment(sub *investment.Submission) (investment.Record, error)
	ListInvestments(filter InvestmentFilter) ([]investment.Record, error)
	GetInvestment(id uint) (investment.Record, error)
	UpdateInvestment(id uint, detail *DetailUpdate, data map[string]any) (investment.Record, error)
	DeleteInvestment(id uint) error
}

// PortfolioServicer defines the contract for the read-side portfolio views.
type PortfolioServicer interface {
	Holdings(filter InvestmentFilter) ([]investment.Holding, error)
	HoldingsPage(filter InvestmentFilter, search string, page pagination.PageRequest) (*pagination.PageResponse[investment.Holding], error)
	Summary(filter InvestmentFilter) (*investment.Summary, error)
	Maturities(from time.Time, days int) ([]investment.Maturity, error)
	WriteHoldingsCSV(w io.Writer, filter InvestmentFilter) error
}

// AuditServicer defines the contract for the audit trail.
type AuditServicer interface {
	Log(userID uint, action, resourceType, resourceID string, ipAddress string, changes map[string]interface{})
	History(resourceType, resourceID string) ([]models.AuditLog, error)
}
