package investment

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"nivesh/internal/models"
)

var zeroDay = time.Time{}

// Record is one flat investment row as served by GET /investments/: the
// variant's fields next to detail_id, investment_type, client_code,
// avenue_id, the nested client_detail and timestamps. Legacy rows may lack
// the investment_type tag.
type Record map[string]any

// NewRecord flattens a stored client detail and its variant into a Record.
func NewRecord(detail models.ClientDetail, v models.Variant) (Record, error) {
	r := Record{}
	if v != nil {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, err
		}
	}
	raw, err := json.Marshal(detail)
	if err != nil {
		return nil, err
	}
	var nested map[string]any
	if err := json.Unmarshal(raw, &nested); err != nil {
		return nil, err
	}

	r["detail_id"] = detail.DetailID
	r["investment_type"] = string(detail.InvestmentType)
	r["client_code"] = detail.ClientCode
	r["avenue_id"] = detail.AvenueID
	r["client_detail"] = nested
	if _, ok := r["created_at"]; !ok {
		r["created_at"] = detail.CreatedAt
	}
	return r, nil
}

// Has reports whether key is present with a non-nil, non-blank value.
func (r Record) Has(key string) bool {
	v, ok := r[key]
	if !ok || v == nil {
		return false
	}
	if s, isString := v.(string); isString {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// Str returns the value of key as a trimmed string, or "".
func (r Record) Str(key string) string {
	switch v := r[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	case json.Number:
		return v.String()
	case float64:
		return decimal.NewFromFloat(v).String()
	}
	return ""
}

// Num returns the value of key as a decimal. Missing or unparseable values
// are zero.
func (r Record) Num(key string) decimal.Decimal {
	switch v := r[key].(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case float32:
		return decimal.NewFromFloat32(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromInt(int64(v))
	case json.Number:
		if d, err := decimal.NewFromString(v.String()); err == nil {
			return d
		}
	case string:
		if d, err := decimal.NewFromString(strings.TrimSpace(v)); err == nil {
			return d
		}
	}
	return decimal.Zero
}

// Date parses key as a date. It accepts YYYY-MM-DD, RFC 3339 timestamps and
// time.Time values.
func (r Record) Date(key string) (time.Time, bool) {
	switch v := r[key].(type) {
	case time.Time:
		return v, !v.IsZero()
	case string:
		s := strings.TrimSpace(v)
		if len(s) >= len(models.DateLayout) {
			if t, err := time.Parse(models.DateLayout, s[:len(models.DateLayout)]); err == nil && !t.Equal(zeroDay) {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// DetailID returns the record's detail id, or 0.
func (r Record) DetailID() uint {
	id := r.Num("detail_id")
	if id.IsNegative() {
		return 0
	}
	return uint(id.IntPart())
}

// ClientCode returns the owning client's code, looking into the nested
// client detail when the flat key is absent.
func (r Record) ClientCode() string {
	if r.Has("client_code") {
		return r.Str("client_code")
	}
	if nested, ok := r["client_detail"].(map[string]any); ok {
		return Record(nested).Str("client_code")
	}
	return ""
}

// Tag returns the explicit investment_type carried by the record, or ""
// when it has none.
func (r Record) Tag() models.InvestmentType {
	return models.InvestmentType(r.Str("investment_type"))
}
