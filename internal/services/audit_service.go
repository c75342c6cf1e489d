package services

import (
	"encoding/json"

	"gorm.io/gorm"

	apperrors "nivesh/internal/errors"
	"nivesh/internal/logger"
	"nivesh/internal/models"
)

// auditService writes and reads the audit trail.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records a mutating operation. Failures are logged and swallowed so
// the operation itself still succeeds.
func (s *auditService) Log(userID uint, action, resourceType, resourceID string, ipAddress string, changes map[string]any) {
	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
	}
	if len(changes) > 0 {
		raw, err := json.Marshal(changes)
		if err != nil {
			logger.Named("audit").Errorw("Dropping unencodable changes", "action", action, "error", err)
		} else {
			entry.Changes = string(raw)
		}
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Named("audit").Errorw("Failed to write audit entry",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource", resourceType+"/"+resourceID,
		)
	}
}

// History returns the trail of one resource, oldest first.
func (s *auditService) History(resourceType, resourceID string) ([]models.AuditLog, error) {
	entries := []models.AuditLog{}
	err := s.db.Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entries, nil
}
