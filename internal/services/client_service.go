package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "nivesh/internal/errors"
	"nivesh/internal/models"
)

// clientService handles the client master.
type clientService struct {
	db *gorm.DB
}

// NewClientService creates a new ClientServicer.
func NewClientService(db *gorm.DB) ClientServicer {
	return &clientService{db: db}
}

// CreateClient stores a new client. Codes are unique and stored upper-case.
func (s *clientService) CreateClient(client *models.Client) (*models.Client, error) {
	client.ClientCode = strings.ToUpper(strings.TrimSpace(client.ClientCode))
	client.PAN = strings.ToUpper(strings.TrimSpace(client.PAN))
	if client.ClientCode == "" || strings.TrimSpace(client.ClientName) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "client_code and client_name are required")
	}

	var count int64
	s.db.Model(&models.Client{}).Where("client_code = ?", client.ClientCode).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateClient
	}

	client.IsActive = true
	if err := s.db.Create(client).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return client, nil
}

// ListClients returns clients ordered by name.
func (s *clientService) ListClients(filter ClientFilter) ([]models.Client, error) {
	query := s.db.Model(&models.Client{})
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.GroupName != "" {
		query = query.Where("group_name = ?", filter.GroupName)
	}
	if q := strings.TrimSpace(filter.Search); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(client_name) LIKE ? OR LOWER(client_code) LIKE ? OR LOWER(pan) LIKE ?", like, like, like)
	}

	var clients []models.Client
	if err := query.Order("client_name ASC").Find(&clients).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if clients == nil {
		clients = []models.Client{}
	}
	return clients, nil
}

// GetClient retrieves a client by code.
func (s *clientService) GetClient(code string) (*models.Client, error) {
	var client models.Client
	if err := s.db.Where("client_code = ?", strings.ToUpper(strings.TrimSpace(code))).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrClientNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &client, nil
}

// UpdateClient applies the non-nil fields of update.
func (s *clientService) UpdateClient(code string, update ClientUpdate) (*models.Client, error) {
	client, err := s.GetClient(code)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if update.GroupName != nil {
		updates["group_name"] = *update.GroupName
	}
	if update.ClientName != nil {
		if strings.TrimSpace(*update.ClientName) == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "client_name cannot be empty")
		}
		updates["client_name"] = *update.ClientName
	}
	if update.PAN != nil {
		updates["pan"] = strings.ToUpper(*update.PAN)
	}
	if update.Aadhaar != nil {
		updates["aadhaar"] = *update.Aadhaar
	}
	if update.Mobile != nil {
		updates["mobile"] = *update.Mobile
	}
	if update.Email != nil {
		updates["email"] = *update.Email
	}
	if update.DOB != nil {
		updates["dob"] = *update.DOB
	}
	if update.Address != nil {
		updates["address"] = *update.Address
	}
	if update.IsActive != nil {
		updates["is_active"] = *update.IsActive
	}
	if len(updates) == 0 {
		return client, nil
	}

	if err := s.db.Model(client).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetClient(client.ClientCode)
}

// DeleteClient removes a client without holdings. Clients with holdings
// are deactivated instead so their history stays readable.
func (s *clientService) DeleteClient(code string) error {
	client, err := s.GetClient(code)
	if err != nil {
		return err
	}

	var holdings int64
	s.db.Model(&models.ClientDetail{}).Where("client_code = ?", client.ClientCode).Count(&holdings)
	if holdings > 0 {
		if err := s.db.Model(client).Update("is_active", false).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	}

	if err := s.db.Delete(client).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
