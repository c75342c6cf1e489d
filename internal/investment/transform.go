package investment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "nivesh/internal/errors"
	"nivesh/internal/models"
)

// ClientDetailPayload is the variant-independent half of a submission.
// Optional values are omitted rather than sent blank.
type ClientDetailPayload struct {
	ClientCode string `json:"client_code" binding:"required"`
	AvenueID   uint   `json:"avenue_id" binding:"required,gt=0"`
	AccountNo  string `json:"account_no,omitempty"`
	FolioNo    string `json:"folio_no,omitempty"`
	StartDate  string `json:"start_date" binding:"required,isodate"`
	EndDate    string `json:"end_date,omitempty" binding:"omitempty,isodate"`
}

// Submission is the normalized body of POST /investments/.
type Submission struct {
	ClientDetail   ClientDetailPayload   `json:"client_detail"`
	InvestmentType models.InvestmentType `json:"investment_type" binding:"required,investment_type"`
	InvestmentData map[string]any        `json:"investment_data" binding:"required"`
	// TypeOverride tells the backend the tag intentionally differs from
	// the avenue's.
	TypeOverride bool `json:"type_override,omitempty"`
}

// Transform maps flat form data to a submission. Only the tagged variant's
// fields are copied, and blank values never appear in the output. It has
// no side effects and the same input always encodes to the same bytes.
func Transform(f FormData) (*Submission, error) {
	if err := requireType(f.InvestmentType); err != nil {
		return nil, err
	}

	detail := ClientDetailPayload{
		ClientCode: strings.TrimSpace(f.ClientCode),
		AvenueID:   f.AvenueID,
		AccountNo:  strings.TrimSpace(f.AccountNo),
		FolioNo:    strings.TrimSpace(f.FolioNo),
		StartDate:  strings.TrimSpace(f.StartDate),
		EndDate:    strings.TrimSpace(f.EndDate),
	}

	fields, _ := VariantFields(f.InvestmentType)
	data := make(map[string]any, len(fields))
	for _, field := range fields {
		if v, ok := f.Value(field.Name); ok {
			data[field.Name] = v
		}
	}

	return &Submission{
		ClientDetail:   detail,
		InvestmentType: f.InvestmentType,
		InvestmentData: data,
		TypeOverride:   f.TypeOverride,
	}, nil
}

// CleanData drops nil and whitespace-only values from a variant payload
// and trims the strings that remain.
func CleanData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			val = strings.TrimSpace(val)
			if val == "" {
				continue
			}
			out[k] = val
		default:
			out[k] = v
		}
	}
	return out
}

// ValidatePayload checks a received variant payload: every key must be one
// of the variant's fields with a value of the right kind, and every
// required field must be present.
func ValidatePayload(t models.InvestmentType, data map[string]any) error {
	if err := requireType(t); err != nil {
		return err
	}
	data = CleanData(data)

	fields := map[string]string{}
	for k, v := range data {
		field, ok := variantField(t, k)
		if !ok {
			fields[k] = fmt.Sprintf("is not a %s field", t.Label())
			continue
		}
		if msg := checkValue(field, normalizeNumber(v)); msg != "" {
			fields[k] = msg
		}
	}
	for _, name := range RequiredFields(t) {
		if _, ok := data[name]; !ok {
			fields[name] = "is required"
		}
	}
	if len(fields) > 0 {
		return apperrors.WithFields(apperrors.ErrValidation, fields)
	}
	return nil
}

// DecodeVariant validates a payload and decodes it into the variant model
// for the tag.
func DecodeVariant(t models.InvestmentType, data map[string]any) (models.Variant, error) {
	if err := ValidatePayload(t, data); err != nil {
		return nil, err
	}
	v, _ := models.NewVariant(t)

	raw, err := json.Marshal(CleanData(data))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return nil, apperrors.Wrap(apperrors.WithMessage(apperrors.ErrInvalidInput, "Malformed investment data"), err)
	}
	if err := ValidateStruct(v); err != nil {
		return nil, err
	}
	return v, nil
}

// normalizeNumber converts the numeric types a decoder may produce to float64.
func normalizeNumber(v any) any {
	switch n := v.(type) {
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case float32:
		return float64(n)
	}
	return v
}
