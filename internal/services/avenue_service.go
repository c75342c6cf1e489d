package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "nivesh/internal/errors"
	"nivesh/internal/investment"
	"nivesh/internal/logger"
	"nivesh/internal/models"
)

// avenueService handles investment avenues.
type avenueService struct {
	db *gorm.DB
}

// NewAvenueService creates a new AvenueServicer.
func NewAvenueService(db *gorm.DB) AvenueServicer {
	return &avenueService{db: db}
}

// ListAvenues returns the active avenues ordered by id.
func (s *avenueService) ListAvenues(ctx context.Context) ([]models.InvestmentAvenue, error) {
	var avenues []models.InvestmentAvenue
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("avenue_id ASC").Find(&avenues).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return avenues, nil
}

// GetAvenue retrieves an avenue by id.
func (s *avenueService) GetAvenue(id uint) (*models.InvestmentAvenue, error) {
	var avenue models.InvestmentAvenue
	if err := s.db.First(&avenue, "avenue_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAvenueNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &avenue, nil
}

// CreateAvenue stores a new avenue.
func (s *avenueService) CreateAvenue(avenue *models.InvestmentAvenue) (*models.InvestmentAvenue, error) {
	if strings.TrimSpace(avenue.AvenueName) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "avenue_name is required")
	}
	if !avenue.InvestmentType.Valid() {
		return nil, apperrors.ErrUnsupportedVariant
	}
	avenue.IsActive = true
	if err := s.db.Create(avenue).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return avenue, nil
}

// UpdateAvenue applies the non-nil fields of update. The type of an avenue
// that already has investments cannot change.
func (s *avenueService) UpdateAvenue(id uint, update AvenueUpdate) (*models.InvestmentAvenue, error) {
	avenue, err := s.GetAvenue(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if update.AvenueName != nil {
		if strings.TrimSpace(*update.AvenueName) == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "avenue_name cannot be empty")
		}
		updates["avenue_name"] = *update.AvenueName
	}
	if update.InvestmentType != nil && *update.InvestmentType != avenue.InvestmentType {
		if !update.InvestmentType.Valid() {
			return nil, apperrors.ErrUnsupportedVariant
		}
		if s.inUse(id) {
			return nil, apperrors.WithMessage(apperrors.ErrAvenueInUse, "Cannot change the type of an avenue with investments")
		}
		updates["investment_type"] = *update.InvestmentType
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.IsActive != nil {
		updates["is_active"] = *update.IsActive
	}
	if len(updates) == 0 {
		return avenue, nil
	}

	if err := s.db.Model(avenue).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetAvenue(id)
}

// DeleteAvenue removes an avenue no investment refers to.
func (s *avenueService) DeleteAvenue(id uint) error {
	avenue, err := s.GetAvenue(id)
	if err != nil {
		return err
	}
	if s.inUse(id) {
		return apperrors.ErrAvenueInUse
	}
	if err := s.db.Delete(avenue).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// SeedDefaults inserts the built-in avenues when the table is empty and
// returns how many were inserted.
func (s *avenueService) SeedDefaults() (int, error) {
	var count int64
	if err := s.db.Model(&models.InvestmentAvenue{}).Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return 0, nil
	}

	avenues := investment.DefaultAvenues()
	if err := s.db.Create(&avenues).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if s.db.Dialector.Name() == "postgres" {
		// Explicit ids leave the serial sequence behind.
		s.db.Exec("SELECT setval(pg_get_serial_sequence('investment_avenues', 'avenue_id'), (SELECT MAX(avenue_id) FROM investment_avenues))")
	}
	logger.Get().Infow("Seeded investment avenues", "count", len(avenues))
	return len(avenues), nil
}

func (s *avenueService) inUse(id uint) bool {
	var count int64
	s.db.Model(&models.ClientDetail{}).Where("avenue_id = ?", id).Count(&count)
	return count > 0
}
