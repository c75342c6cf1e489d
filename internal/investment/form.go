package investment

import (
	"math"
	"strconv"
	"strings"

	apperrors "nivesh/internal/errors"
	"nivesh/internal/models"
)

// FormData is the flat state of the investment form. It carries the common
// fields and every variant's fields at once; blank strings and nil numbers
// mean "not entered". It never travels past Transform.
type FormData struct {
	ClientCode     string                `json:"client_code"`
	AvenueID       uint                  `json:"avenue_id"`
	InvestmentType models.InvestmentType `json:"investment_type"`
	// TypeOverride marks an InvestmentType chosen explicitly instead of
	// taken from the avenue.
	TypeOverride bool   `json:"type_override"`
	AccountNo    string `json:"account_no"`
	FolioNo      string `json:"folio_no"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`

	// Equity
	BrokerCode   string   `json:"broker_code"`
	StockSymbol  string   `json:"stock_symbol"`
	Units        *float64 `json:"units"`
	BuyPrice     *float64 `json:"buy_price"`
	CurrentPrice *float64 `json:"current_price"`
	BuyDate      string   `json:"buy_date"`
	SellDate     string   `json:"sell_date"`

	// Demat
	DPID       string `json:"dp_id"`
	ClientID   string `json:"client_id"`
	LinkedBank string `json:"linked_bank"`

	// Debt
	CompanyName  string   `json:"company_name"`
	SecurityType string   `json:"security_type"`
	FaceValue    *float64 `json:"face_value"`
	CouponRate   *float64 `json:"coupon_rate"`
	IssueDate    string   `json:"issue_date"`
	MaturityDate string   `json:"maturity_date"`
	InterestFreq string   `json:"interest_freq"`

	// Fixed deposit
	BankName        string   `json:"bank_name"`
	Principal       *float64 `json:"principal"`
	InterestRate    *float64 `json:"interest_rate"`
	CompoundingType string   `json:"compounding_type"`

	// Mutual fund
	AMC      string   `json:"amc"`
	FundName string   `json:"fund_name"`
	FundType string   `json:"fund_type"`
	NAV      *float64 `json:"nav"`
	ExitDate string   `json:"exit_date"`

	// PPF
	Branch   string   `json:"branch"`
	Deposits *float64 `json:"deposits"`

	// NSC
	CertificateNo  string   `json:"certificate_no"`
	PurchaseAmount *float64 `json:"purchase_amount"`

	// NPS
	PRAN            string   `json:"pran"`
	Contribution    *float64 `json:"contribution"`
	PensionProvider string   `json:"pension_provider"`

	// Bullion
	Type          string   `json:"type"`
	Form          string   `json:"form"`
	Quantity      *float64 `json:"quantity"`
	PurchasePrice *float64 `json:"purchase_price"`
	CurrentValue  *float64 `json:"current_value"`

	// Real estate
	PropertyType string `json:"property_type"`
	Address      string `json:"address"`
	Registration string `json:"registration"`
	PurchaseDate string `json:"purchase_date"`
}

// ref returns a pointer to the named text or number field.
func (f *FormData) ref(name string) (*string, **float64) {
	switch name {
	case "client_code":
		return &f.ClientCode, nil
	case "account_no":
		return &f.AccountNo, nil
	case "folio_no":
		return &f.FolioNo, nil
	case "start_date":
		return &f.StartDate, nil
	case "end_date":
		return &f.EndDate, nil
	case "broker_code":
		return &f.BrokerCode, nil
	case "stock_symbol":
		return &f.StockSymbol, nil
	case "units":
		return nil, &f.Units
	case "buy_price":
		return nil, &f.BuyPrice
	case "current_price":
		return nil, &f.CurrentPrice
	case "buy_date":
		return &f.BuyDate, nil
	case "sell_date":
		return &f.SellDate, nil
	case "dp_id":
		return &f.DPID, nil
	case "client_id":
		return &f.ClientID, nil
	case "linked_bank":
		return &f.LinkedBank, nil
	case "company_name":
		return &f.CompanyName, nil
	case "security_type":
		return &f.SecurityType, nil
	case "face_value":
		return nil, &f.FaceValue
	case "coupon_rate":
		return nil, &f.CouponRate
	case "issue_date":
		return &f.IssueDate, nil
	case "maturity_date":
		return &f.MaturityDate, nil
	case "interest_freq":
		return &f.InterestFreq, nil
	case "bank_name":
		return &f.BankName, nil
	case "principal":
		return nil, &f.Principal
	case "interest_rate":
		return nil, &f.InterestRate
	case "compounding_type":
		return &f.CompoundingType, nil
	case "amc":
		return &f.AMC, nil
	case "fund_name":
		return &f.FundName, nil
	case "fund_type":
		return &f.FundType, nil
	case "nav":
		return nil, &f.NAV
	case "exit_date":
		return &f.ExitDate, nil
	case "branch":
		return &f.Branch, nil
	case "deposits":
		return nil, &f.Deposits
	case "certificate_no":
		return &f.CertificateNo, nil
	case "purchase_amount":
		return nil, &f.PurchaseAmount
	case "pran":
		return &f.PRAN, nil
	case "contribution":
		return nil, &f.Contribution
	case "pension_provider":
		return &f.PensionProvider, nil
	case "type":
		return &f.Type, nil
	case "form":
		return &f.Form, nil
	case "quantity":
		return nil, &f.Quantity
	case "purchase_price":
		return nil, &f.PurchasePrice
	case "current_value":
		return nil, &f.CurrentValue
	case "property_type":
		return &f.PropertyType, nil
	case "address":
		return &f.Address, nil
	case "registration":
		return &f.Registration, nil
	case "purchase_date":
		return &f.PurchaseDate, nil
	}
	return nil, nil
}

// Set assigns a raw input value to the named field. Number fields accept
// a blank value to clear them.
func (f *FormData) Set(name, raw string) error {
	switch name {
	case "avenue_id":
		id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
		if err != nil || id == 0 {
			return apperrors.WithFields(apperrors.ErrValidation, map[string]string{name: "must be a positive integer"})
		}
		f.AvenueID = uint(id)
		return nil
	case "investment_type":
		f.InvestmentType = models.InvestmentType(strings.TrimSpace(raw))
		return nil
	}

	s, n := f.ref(name)
	switch {
	case s != nil:
		*s = raw
	case n != nil:
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*n = nil
			return nil
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return apperrors.WithFields(apperrors.ErrValidation, map[string]string{name: "must be a number"})
		}
		*n = &v
	default:
		return apperrors.WithFields(apperrors.ErrValidation, map[string]string{name: "is not a form field"})
	}
	return nil
}

// Value returns the entered value of a field: a trimmed string or a
// float64. The second result is false when the field is blank or unknown.
func (f *FormData) Value(name string) (any, bool) {
	if name == "avenue_id" {
		return f.AvenueID, f.AvenueID > 0
	}
	s, n := f.ref(name)
	switch {
	case s != nil:
		v := strings.TrimSpace(*s)
		return v, v != ""
	case n != nil && *n != nil:
		return **n, true
	}
	return nil, false
}

// Float is a convenience for populating number fields.
func Float(v float64) *float64 { return &v }
