package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"nivesh/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Name:     "Test Advisor",
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestClient creates an active client with a unique code.
func CreateTestClient(t *testing.T, db *gorm.DB) *models.Client {
	t.Helper()

	n := nextID()
	client := &models.Client{
		ClientCode: fmt.Sprintf("C%04d", n),
		GroupName:  "Test Group",
		ClientName: fmt.Sprintf("Test Client %d", n),
		PAN:        "ABCDE1234F",
		Mobile:     "9876543210",
		IsActive:   true,
	}
	if err := db.Create(client).Error; err != nil {
		t.Fatalf("failed to create test client: %v", err)
	}
	return client
}

// SeedTestAvenues inserts one active avenue per investment type with ids
// 1 through 10, in models.InvestmentTypes order.
func SeedTestAvenues(t *testing.T, db *gorm.DB) []models.InvestmentAvenue {
	t.Helper()

	avenues := make([]models.InvestmentAvenue, 0, len(models.InvestmentTypes))
	for i, it := range models.InvestmentTypes {
		avenues = append(avenues, models.InvestmentAvenue{
			AvenueID:       uint(i + 1),
			AvenueName:     it.Label(),
			InvestmentType: it,
			IsActive:       true,
		})
	}
	if err := db.Create(&avenues).Error; err != nil {
		t.Fatalf("failed to seed test avenues: %v", err)
	}
	return avenues
}

// CreateTestFixedDeposit stores a fixed deposit for the client under
// avenue 4. Avenues must be seeded first.
func CreateTestFixedDeposit(t *testing.T, db *gorm.DB, clientCode, bank string, principal float64, maturity models.Date) *models.ClientDetail {
	t.Helper()

	detail := &models.ClientDetail{
		ClientCode:     clientCode,
		AvenueID:       4,
		InvestmentType: models.TypeFixedDeposit,
		StartDate:      models.NewDate(2024, 1, 1),
		IsActive:       true,
	}
	if err := db.Create(detail).Error; err != nil {
		t.Fatalf("failed to create test client detail: %v", err)
	}
	fd := &models.FixedDeposit{BankName: bank, Principal: principal, InterestRate: 7.5, MaturityDate: &maturity}
	fd.SetDetailID(detail.DetailID)
	if err := db.Create(fd).Error; err != nil {
		t.Fatalf("failed to create test fixed deposit: %v", err)
	}
	return detail
}

// CreateTestEquity stores an equity holding for the client under avenue 1.
func CreateTestEquity(t *testing.T, db *gorm.DB, clientCode, symbol string, units, buyPrice, currentPrice float64) *models.ClientDetail {
	t.Helper()

	detail := &models.ClientDetail{
		ClientCode:     clientCode,
		AvenueID:       1,
		InvestmentType: models.TypeEquity,
		StartDate:      models.NewDate(2024, 2, 1),
		IsActive:       true,
	}
	if err := db.Create(detail).Error; err != nil {
		t.Fatalf("failed to create test client detail: %v", err)
	}
	eq := &models.Equity{StockSymbol: symbol, Units: units, BuyPrice: buyPrice, CurrentPrice: currentPrice}
	eq.SetDetailID(detail.DetailID)
	if err := db.Create(eq).Error; err != nil {
		t.Fatalf("failed to create test equity: %v", err)
	}
	return detail
}
