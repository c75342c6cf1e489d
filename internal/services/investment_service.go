package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "nivesh/internal/errors"
	"nivesh/internal/investment"
	"nivesh/internal/logger"
	"nivesh/internal/models"
)

// investmentService stores client details with their variant rows.
type investmentService struct {
	db *gorm.DB
}

// NewInvestmentService creates a new InvestmentServicer.
func NewInvestmentService(db *gorm.DB) InvestmentServicer {
	return &investmentService{db: db}
}

// CreateInvestment validates a submission and stores its client detail and
// variant row in one transaction. The tag must match the avenue's unless
// the submission marks it as an explicit override.
func (s *investmentService) CreateInvestment(sub *investment.Submission) (investment.Record, error) {
	if !sub.InvestmentType.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrUnsupportedVariant,
			fmt.Sprintf("Unsupported investment type %q", sub.InvestmentType))
	}

	cd := sub.ClientDetail
	var client models.Client
	if err := s.db.Where("client_code = ?", strings.ToUpper(strings.TrimSpace(cd.ClientCode))).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrClientNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var avenue models.InvestmentAvenue
	if err := s.db.First(&avenue, "avenue_id = ?", cd.AvenueID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAvenueNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if avenue.InvestmentType != sub.InvestmentType {
		if !sub.TypeOverride {
			return nil, apperrors.WithMessage(apperrors.ErrAvenueTypeMismatch,
				fmt.Sprintf("Avenue %q holds %s investments, not %s", avenue.AvenueName, avenue.InvestmentType, sub.InvestmentType))
		}
		logger.Get().Infow("Accepting overridden investment type",
			"avenue_id", avenue.AvenueID, "avenue_type", avenue.InvestmentType, "investment_type", sub.InvestmentType)
	}

	variant, err := investment.DecodeVariant(sub.InvestmentType, sub.InvestmentData)
	if err != nil {
		return nil, err
	}

	detail := models.ClientDetail{
		ClientCode:     client.ClientCode,
		AvenueID:       avenue.AvenueID,
		InvestmentType: sub.InvestmentType,
		AccountNo:      optional(cd.AccountNo),
		FolioNo:        optional(cd.FolioNo),
		IsActive:       true,
	}
	if err := applyDates(&detail, &cd.StartDate, optional(cd.EndDate)); err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&detail).Error; err != nil {
			return err
		}
		variant.SetDetailID(detail.DetailID)
		return tx.Create(variant).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.record(detail, variant)
}

// ListInvestments returns flat records, newest first.
func (s *investmentService) ListInvestments(filter InvestmentFilter) ([]investment.Record, error) {
	query := s.db.Model(&models.ClientDetail{})
	if filter.ClientCode != "" {
		query = query.Where("client_code = ?", strings.ToUpper(filter.ClientCode))
	}
	if filter.InvestmentType != "" {
		query = query.Where("investment_type = ?", filter.InvestmentType)
	}

	var details []models.ClientDetail
	if err := query.Order("detail_id DESC").Find(&details).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	variants, err := loadVariants(s.db, details)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	records := make([]investment.Record, 0, len(details))
	for _, d := range details {
		r, err := s.record(d, variants[d.DetailID])
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

// GetInvestment retrieves one flat record.
func (s *investmentService) GetInvestment(id uint) (investment.Record, error) {
	detail, variant, err := s.load(id)
	if err != nil {
		return nil, err
	}
	return s.record(*detail, variant)
}

// UpdateInvestment changes client detail fields and merges data over the
// stored variant. The merged variant is validated as a whole.
func (s *investmentService) UpdateInvestment(id uint, upd *DetailUpdate, data map[string]any) (investment.Record, error) {
	detail, variant, err := s.load(id)
	if err != nil {
		return nil, err
	}

	if upd != nil {
		if upd.AccountNo != nil {
			detail.AccountNo = optional(*upd.AccountNo)
		}
		if upd.FolioNo != nil {
			detail.FolioNo = optional(*upd.FolioNo)
		}
		if upd.IsActive != nil {
			detail.IsActive = *upd.IsActive
		}
		end := detail.EndDateString()
		if upd.EndDate != nil {
			end = *upd.EndDate
		}
		if err := applyDates(detail, upd.StartDate, optional(end)); err != nil {
			return nil, err
		}
	}

	if len(data) > 0 {
		merged, err := variantData(detail.InvestmentType, variant)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for k, v := range data {
			merged[k] = v
		}
		next, err := investment.DecodeVariant(detail.InvestmentType, merged)
		if err != nil {
			return nil, err
		}
		next.SetDetailID(detail.DetailID)
		variant = next
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(detail).Error; err != nil {
			return err
		}
		if variant == nil {
			return nil
		}
		return tx.Omit("created_at").Save(variant).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetInvestment(id)
}

// DeleteInvestment removes the client detail and its variant row.
func (s *investmentService) DeleteInvestment(id uint) error {
	detail, variant, err := s.load(id)
	if err != nil {
		return err
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if variant != nil {
			if err := tx.Delete(variant).Error; err != nil {
				return err
			}
		}
		return tx.Delete(detail).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *investmentService) load(id uint) (*models.ClientDetail, models.Variant, error) {
	var detail models.ClientDetail
	if err := s.db.First(&detail, "detail_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrInvestmentNotFound
		}
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	variants, err := loadVariants(s.db, []models.ClientDetail{detail})
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &detail, variants[detail.DetailID], nil
}

func (s *investmentService) record(detail models.ClientDetail, v models.Variant) (investment.Record, error) {
	r, err := investment.NewRecord(detail, v)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return r, nil
}

// loadVariants fetches the variant rows of details, one query per type.
func loadVariants(db *gorm.DB, details []models.ClientDetail) (map[uint]models.Variant, error) {
	byType := map[models.InvestmentType][]uint{}
	for _, d := range details {
		byType[d.InvestmentType] = append(byType[d.InvestmentType], d.DetailID)
	}

	out := make(map[uint]models.Variant, len(details))
	for t, ids := range byType {
		var (
			rows []models.Variant
			err  error
		)
		switch t {
		case models.TypeEquity:
			rows, err = loadRows[models.Equity](db, ids)
		case models.TypeDemat:
			rows, err = loadRows[models.Demat](db, ids)
		case models.TypeDebt:
			rows, err = loadRows[models.Debt](db, ids)
		case models.TypeFixedDeposit:
			rows, err = loadRows[models.FixedDeposit](db, ids)
		case models.TypeMutualFund:
			rows, err = loadRows[models.MutualFund](db, ids)
		case models.TypePPF:
			rows, err = loadRows[models.PPF](db, ids)
		case models.TypeNSC:
			rows, err = loadRows[models.NSC](db, ids)
		case models.TypeNPS:
			rows, err = loadRows[models.NPS](db, ids)
		case models.TypeBullion:
			rows, err = loadRows[models.Bullion](db, ids)
		case models.TypeRealEstate:
			rows, err = loadRows[models.RealEstate](db, ids)
		default:
			logger.Get().Warnw("client details with unknown investment type", "investment_type", t, "count", len(ids))
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, v := range rows {
			out[v.GetDetailID()] = v
		}
	}
	return out, nil
}

func loadRows[T any, PT interface {
	*T
	models.Variant
}](db *gorm.DB, ids []uint) ([]models.Variant, error) {
	var rows []T
	if err := db.Where("detail_id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.Variant, 0, len(rows))
	for i := range rows {
		out = append(out, PT(&rows[i]))
	}
	return out, nil
}

// variantData returns the stored variant's characteristic fields as a
// payload map.
func variantData(t models.InvestmentType, v models.Variant) (map[string]any, error) {
	out := map[string]any{}
	if v == nil {
		return out, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var all map[string]any
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, err
	}
	fields, _ := investment.VariantFields(t)
	for _, f := range fields {
		if val, ok := all[f.Name]; ok && val != nil {
			out[f.Name] = val
		}
	}
	return out, nil
}

func applyDates(detail *models.ClientDetail, start *string, end *string) error {
	fields := map[string]string{}
	if start != nil {
		d, err := models.ParseDate(*start)
		if err != nil {
			fields["start_date"] = "must be a date formatted YYYY-MM-DD"
		} else {
			detail.StartDate = d
		}
	}
	detail.EndDate = nil
	if end != nil {
		d, err := models.ParseDate(*end)
		if err != nil {
			fields["end_date"] = "must be a date formatted YYYY-MM-DD"
		} else {
			detail.EndDate = &d
		}
	}
	if detail.EndDate != nil && detail.EndDate.Before(detail.StartDate.Time) {
		fields["end_date"] = "must not be before start_date"
	}
	if len(fields) > 0 {
		return apperrors.WithFields(apperrors.ErrValidation, fields)
	}
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
