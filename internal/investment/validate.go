package investment

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	apperrors "nivesh/internal/errors"
	"nivesh/internal/models"
	appvalidator "nivesh/internal/validator"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() { validate = appvalidator.New() })
	return validate
}

// KnownAvenue reports whether an avenue id can be selected.
type KnownAvenue func(id uint) bool

// Validate checks the common fields and the fields required by the form's
// variant. Field problems are returned together as a VALIDATION_ERROR; an
// unknown tag yields UNSUPPORTED_VARIANT. A nil known skips the avenue
// reference check.
func Validate(f *FormData, known KnownAvenue) error {
	if err := requireType(f.InvestmentType); err != nil {
		return err
	}

	fields := map[string]string{}
	if strings.TrimSpace(f.ClientCode) == "" {
		fields["client_code"] = "is required"
	}
	switch {
	case f.AvenueID == 0:
		fields["avenue_id"] = "is required"
	case known != nil && !known(f.AvenueID):
		fields["avenue_id"] = "does not reference a known avenue"
	}
	if strings.TrimSpace(f.StartDate) == "" {
		fields["start_date"] = "is required"
	} else if msg := checkValue(Field{Name: "start_date", Kind: KindDate}, strings.TrimSpace(f.StartDate)); msg != "" {
		fields["start_date"] = msg
	}
	if v, ok := f.Value("end_date"); ok {
		if msg := checkValue(Field{Name: "end_date", Kind: KindDate}, v); msg != "" {
			fields["end_date"] = msg
		} else if _, bad := fields["start_date"]; !bad && endsBeforeStart(strings.TrimSpace(f.StartDate), v.(string)) {
			fields["end_date"] = "must not be before start_date"
		}
	}

	vf, _ := VariantFields(f.InvestmentType)
	for _, field := range vf {
		if _, done := fields[field.Name]; done {
			continue
		}
		v, ok := f.Value(field.Name)
		if !ok {
			if field.Required {
				fields[field.Name] = "is required"
			}
			continue
		}
		if msg := checkValue(field, v); msg != "" {
			fields[field.Name] = msg
		}
	}

	if len(fields) > 0 {
		return apperrors.WithFields(apperrors.ErrValidation, fields)
	}
	return nil
}

// checkValue validates one present value against its field kind and
// returns a message, or "" when the value is acceptable.
func checkValue(field Field, v any) string {
	var tag string
	switch field.Kind {
	case KindNumber:
		n, ok := v.(float64)
		if !ok || math.IsInf(n, 0) || math.IsNaN(n) {
			return "must be a number"
		}
		tag = "gte=0"
	default:
		if _, ok := v.(string); !ok {
			return "must be text"
		}
		switch field.Kind {
		case KindDate:
			tag = "isodate"
		case KindChoice:
			tag = "oneof=" + strings.Join(field.Options, " ")
		default:
			return ""
		}
	}
	if err := getValidator().Var(v, tag); err != nil {
		for _, msg := range appvalidator.Messages(err) {
			return msg
		}
		return "is invalid"
	}
	return ""
}

// endsBeforeStart reports whether two well-formed dates are out of order.
func endsBeforeStart(start, end string) bool {
	s, err := models.ParseDate(start)
	if err != nil {
		return false
	}
	e, err := models.ParseDate(end)
	if err != nil {
		return false
	}
	return e.Before(s.Time)
}

// ValidateStruct runs the struct tags of a decoded model through the shared
// validator and converts failures into a VALIDATION_ERROR.
func ValidateStruct(v any) error {
	if err := getValidator().Struct(v); err != nil {
		if msgs := appvalidator.Messages(err); len(msgs) > 0 {
			return apperrors.WithFields(apperrors.ErrValidation, msgs)
		}
		return apperrors.Wrap(apperrors.ErrInvalidInput, err)
	}
	return nil
}

// requireType rejects tags outside the ten known variants.
func requireType(t models.InvestmentType) error {
	if !t.Valid() {
		return apperrors.WithMessage(apperrors.ErrUnsupportedVariant,
			fmt.Sprintf("Unsupported investment type %q", t))
	}
	return nil
}
