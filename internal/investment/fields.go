// Package investment holds the investment form pipeline: the flat form
// data, its validation, the transform into a submission payload, and the
// read path that classifies fetched records and derives display values.
package investment

import "nivesh/internal/models"

// FieldKind describes how a form field is entered and checked.
type FieldKind string

const (
	KindText   FieldKind = "text"
	KindNumber FieldKind = "number"
	KindDate   FieldKind = "date"
	KindChoice FieldKind = "choice"
)

// Field is one input of the investment form.
type Field struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required"`
	Options  []string  `json:"options,omitempty"`
}

var (
	frequencyOptions    = []string{"monthly", "quarterly", "annual"}
	fundTypeOptions     = []string{"equity", "debt", "hybrid"}
	bullionTypeOptions  = []string{"gold", "silver"}
	bullionFormOptions  = []string{"coin", "bar", "jewelry"}
	propertyTypeOptions = []string{"residential", "commercial"}
)

// CommonFields are shown for every variant and feed the client detail.
var CommonFields = []Field{
	{Name: "client_code", Label: "Client", Kind: KindText, Required: true},
	{Name: "avenue_id", Label: "Investment Avenue", Kind: KindNumber, Required: true},
	{Name: "account_no", Label: "Account No", Kind: KindText},
	{Name: "folio_no", Label: "Folio No", Kind: KindText},
	{Name: "start_date", Label: "Start Date", Kind: KindDate, Required: true},
	{Name: "end_date", Label: "End Date", Kind: KindDate},
}

var variantFields = map[models.InvestmentType][]Field{
	models.TypeEquity: {
		{Name: "broker_code", Label: "Broker Code", Kind: KindText},
		{Name: "stock_symbol", Label: "Stock Symbol", Kind: KindText, Required: true},
		{Name: "units", Label: "Units", Kind: KindNumber, Required: true},
		{Name: "buy_price", Label: "Buy Price", Kind: KindNumber, Required: true},
		{Name: "current_price", Label: "Current Price", Kind: KindNumber},
		{Name: "buy_date", Label: "Buy Date", Kind: KindDate},
		{Name: "sell_date", Label: "Sell Date", Kind: KindDate},
	},
	models.TypeDemat: {
		{Name: "dp_id", Label: "DP ID", Kind: KindText, Required: true},
		{Name: "client_id", Label: "Client ID", Kind: KindText, Required: true},
		{Name: "broker_code", Label: "Broker Code", Kind: KindText},
		{Name: "linked_bank", Label: "Linked Bank", Kind: KindText},
	},
	models.TypeDebt: {
		{Name: "company_name", Label: "Company Name", Kind: KindText, Required: true},
		{Name: "security_type", Label: "Security Type", Kind: KindText},
		{Name: "face_value", Label: "Face Value", Kind: KindNumber, Required: true},
		{Name: "coupon_rate", Label: "Coupon Rate (%)", Kind: KindNumber},
		{Name: "issue_date", Label: "Issue Date", Kind: KindDate},
		{Name: "maturity_date", Label: "Maturity Date", Kind: KindDate},
		{Name: "interest_freq", Label: "Interest Frequency", Kind: KindChoice, Options: frequencyOptions},
	},
	models.TypeFixedDeposit: {
		{Name: "bank_name", Label: "Bank Name", Kind: KindText, Required: true},
		{Name: "principal", Label: "Principal", Kind: KindNumber, Required: true},
		{Name: "interest_rate", Label: "Interest Rate (%)", Kind: KindNumber, Required: true},
		{Name: "start_date", Label: "Start Date", Kind: KindDate},
		{Name: "maturity_date", Label: "Maturity Date", Kind: KindDate},
		{Name: "compounding_type", Label: "Compounding", Kind: KindChoice, Options: frequencyOptions},
	},
	models.TypeMutualFund: {
		{Name: "amc", Label: "AMC", Kind: KindText},
		{Name: "fund_name", Label: "Fund Name", Kind: KindText, Required: true},
		{Name: "fund_type", Label: "Fund Type", Kind: KindChoice, Options: fundTypeOptions},
		{Name: "folio_no", Label: "Folio No", Kind: KindText},
		{Name: "units", Label: "Units", Kind: KindNumber, Required: true},
		{Name: "nav", Label: "NAV", Kind: KindNumber, Required: true},
		{Name: "start_date", Label: "Start Date", Kind: KindDate},
		{Name: "exit_date", Label: "Exit Date", Kind: KindDate},
	},
	models.TypePPF: {
		{Name: "account_no", Label: "Account No", Kind: KindText, Required: true},
		{Name: "branch", Label: "Branch", Kind: KindText},
		{Name: "deposits", Label: "Deposits", Kind: KindNumber, Required: true},
		{Name: "interest_rate", Label: "Interest Rate (%)", Kind: KindNumber},
		{Name: "start_date", Label: "Start Date", Kind: KindDate},
		{Name: "maturity_date", Label: "Maturity Date", Kind: KindDate},
	},
	models.TypeNSC: {
		{Name: "certificate_no", Label: "Certificate No", Kind: KindText, Required: true},
		{Name: "purchase_amount", Label: "Purchase Amount", Kind: KindNumber, Required: true},
		{Name: "interest_rate", Label: "Interest Rate (%)", Kind: KindNumber},
		{Name: "issue_date", Label: "Issue Date", Kind: KindDate},
		{Name: "maturity_date", Label: "Maturity Date", Kind: KindDate},
	},
	models.TypeNPS: {
		{Name: "pran", Label: "PRAN", Kind: KindText, Required: true},
		{Name: "fund_type", Label: "Fund Type", Kind: KindText},
		{Name: "contribution", Label: "Contribution", Kind: KindNumber, Required: true},
		{Name: "pension_provider", Label: "Pension Provider", Kind: KindText},
	},
	models.TypeBullion: {
		{Name: "type", Label: "Metal", Kind: KindChoice, Required: true, Options: bullionTypeOptions},
		{Name: "form", Label: "Form", Kind: KindChoice, Required: true, Options: bullionFormOptions},
		{Name: "quantity", Label: "Quantity (g)", Kind: KindNumber, Required: true},
		{Name: "purchase_price", Label: "Purchase Price", Kind: KindNumber},
		{Name: "current_value", Label: "Current Value", Kind: KindNumber},
	},
	models.TypeRealEstate: {
		{Name: "property_type", Label: "Property Type", Kind: KindChoice, Required: true, Options: propertyTypeOptions},
		{Name: "address", Label: "Address", Kind: KindText},
		{Name: "registration", Label: "Registration", Kind: KindText},
		{Name: "purchase_price", Label: "Purchase Price", Kind: KindNumber, Required: true},
		{Name: "current_value", Label: "Current Value", Kind: KindNumber},
		{Name: "purchase_date", Label: "Purchase Date", Kind: KindDate},
	},
}

// VariantFields returns the characteristic fields of a variant.
func VariantFields(t models.InvestmentType) ([]Field, bool) {
	fs, ok := variantFields[t]
	return fs, ok
}

// RequiredFields returns the names of the fields a variant cannot be
// submitted without.
func RequiredFields(t models.InvestmentType) []string {
	var out []string
	for _, f := range variantFields[t] {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

// VisibleFields returns the form layout for a tag: the common fields
// followed by the variant fields not already shown among them. A common
// field the variant requires is marked required.
func VisibleFields(t models.InvestmentType) []Field {
	out := make([]Field, 0, len(CommonFields)+len(variantFields[t]))
	seen := make(map[string]int, len(CommonFields))
	for _, f := range CommonFields {
		seen[f.Name] = len(out)
		out = append(out, f)
	}
	for _, f := range variantFields[t] {
		if i, ok := seen[f.Name]; ok {
			out[i].Required = out[i].Required || f.Required
			continue
		}
		out = append(out, f)
	}
	return out
}

func variantField(t models.InvestmentType, name string) (Field, bool) {
	for _, f := range variantFields[t] {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
