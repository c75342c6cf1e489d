package models

// Variant is one of the ten concrete investment record shapes. Every
// variant row shares its primary key with the ClientDetail it belongs to.
type Variant interface {
	Kind() InvestmentType
	GetDetailID() uint
	SetDetailID(id uint)
}

// VariantKey is embedded by every variant: the detail id plus audit timestamps.
type VariantKey struct {
	DetailID uint `gorm:"primaryKey;autoIncrement:false" json:"detail_id"`
	Timestamps
}

// GetDetailID returns the id of the owning ClientDetail.
func (k *VariantKey) GetDetailID() uint { return k.DetailID }

// SetDetailID links the variant to its ClientDetail.
func (k *VariantKey) SetDetailID(id uint) { k.DetailID = id }

// Equity is a listed stock holding.
type Equity struct {
	VariantKey
	BrokerCode   string  `json:"broker_code"`
	StockSymbol  string  `gorm:"not null" json:"stock_symbol"`
	Units        float64 `json:"units" validate:"gte=0"`
	BuyPrice     float64 `json:"buy_price" validate:"gte=0"`
	CurrentPrice float64 `json:"current_price" validate:"gte=0"`
	BuyDate      *Date   `json:"buy_date"`
	SellDate     *Date   `json:"sell_date"`
}

// Demat is a depository account.
type Demat struct {
	VariantKey
	DPID       string `gorm:"column:dp_id;not null" json:"dp_id"`
	ClientID   string `json:"client_id"`
	BrokerCode string `json:"broker_code"`
	LinkedBank string `json:"linked_bank"`
}

// Debt is a bond or debenture.
type Debt struct {
	VariantKey
	CompanyName  string  `gorm:"not null" json:"company_name"`
	SecurityType string  `json:"security_type"`
	FaceValue    float64 `json:"face_value" validate:"gte=0"`
	CouponRate   float64 `json:"coupon_rate" validate:"gte=0"`
	IssueDate    *Date   `json:"issue_date"`
	MaturityDate *Date   `json:"maturity_date"`
	InterestFreq string  `json:"interest_freq" validate:"omitempty,oneof=monthly quarterly annual"`
}

// FixedDeposit is a bank term deposit.
type FixedDeposit struct {
	VariantKey
	BankName        string  `gorm:"not null" json:"bank_name"`
	Principal       float64 `json:"principal" validate:"gte=0"`
	InterestRate    float64 `json:"interest_rate" validate:"gte=0"`
	StartDate       *Date   `json:"start_date"`
	MaturityDate    *Date   `json:"maturity_date"`
	CompoundingType string  `json:"compounding_type" validate:"omitempty,oneof=annual quarterly monthly"`
}

// MutualFund is a folio in a mutual fund scheme.
type MutualFund struct {
	VariantKey
	AMC       string  `gorm:"column:amc" json:"amc"`
	FundName  string  `gorm:"not null" json:"fund_name"`
	FundType  string  `json:"fund_type" validate:"omitempty,oneof=equity debt hybrid"`
	FolioNo   string  `json:"folio_no"`
	Units     float64 `json:"units" validate:"gte=0"`
	NAV       float64 `gorm:"column:nav" json:"nav" validate:"gte=0"`
	StartDate *Date   `json:"start_date"`
	ExitDate  *Date   `json:"exit_date"`
}

// PPF is a Public Provident Fund account.
type PPF struct {
	VariantKey
	AccountNo    string  `gorm:"not null" json:"account_no"`
	Branch       string  `json:"branch"`
	Deposits     float64 `json:"deposits" validate:"gte=0"`
	InterestRate float64 `json:"interest_rate" validate:"gte=0"`
	StartDate    *Date   `json:"start_date"`
	MaturityDate *Date   `json:"maturity_date"`
}

// NSC is a National Savings Certificate.
type NSC struct {
	VariantKey
	CertificateNo  string  `gorm:"not null" json:"certificate_no"`
	PurchaseAmount float64 `json:"purchase_amount" validate:"gte=0"`
	InterestRate   float64 `json:"interest_rate" validate:"gte=0"`
	IssueDate      *Date   `json:"issue_date"`
	MaturityDate   *Date   `json:"maturity_date"`
}

// NPS is a National Pension System account.
type NPS struct {
	VariantKey
	PRAN            string  `gorm:"column:pran;not null" json:"pran"`
	FundType        string  `json:"fund_type"`
	Contribution    float64 `json:"contribution" validate:"gte=0"`
	PensionProvider string  `json:"pension_provider"`
}

// Bullion is a gold or silver holding.
type Bullion struct {
	VariantKey
	Type          string  `gorm:"not null" json:"type" validate:"omitempty,oneof=gold silver"`
	Form          string  `gorm:"not null" json:"form" validate:"omitempty,oneof=coin bar jewelry"`
	Quantity      float64 `json:"quantity" validate:"gte=0"`
	PurchasePrice float64 `json:"purchase_price" validate:"gte=0"`
	CurrentValue  float64 `json:"current_value" validate:"gte=0"`
}

// RealEstate is a property holding.
type RealEstate struct {
	VariantKey
	PropertyType  string  `gorm:"not null" json:"property_type" validate:"omitempty,oneof=residential commercial"`
	Address       string  `json:"address"`
	Registration  string  `json:"registration"`
	PurchasePrice float64 `json:"purchase_price" validate:"gte=0"`
	CurrentValue  float64 `json:"current_value" validate:"gte=0"`
	PurchaseDate  *Date   `json:"purchase_date"`
}

func (*Equity) Kind() InvestmentType       { return TypeEquity }
func (*Demat) Kind() InvestmentType        { return TypeDemat }
func (*Debt) Kind() InvestmentType         { return TypeDebt }
func (*FixedDeposit) Kind() InvestmentType { return TypeFixedDeposit }
func (*MutualFund) Kind() InvestmentType   { return TypeMutualFund }
func (*PPF) Kind() InvestmentType          { return TypePPF }
func (*NSC) Kind() InvestmentType          { return TypeNSC }
func (*NPS) Kind() InvestmentType          { return TypeNPS }
func (*Bullion) Kind() InvestmentType      { return TypeBullion }
func (*RealEstate) Kind() InvestmentType   { return TypeRealEstate }

func (Equity) TableName() string       { return "equities" }
func (Demat) TableName() string        { return "demat_accounts" }
func (Debt) TableName() string         { return "debt_securities" }
func (FixedDeposit) TableName() string { return "fixed_deposits" }
func (MutualFund) TableName() string   { return "mutual_funds" }
func (PPF) TableName() string          { return "ppf_accounts" }
func (NSC) TableName() string          { return "nsc_certificates" }
func (NPS) TableName() string          { return "nps_accounts" }
func (Bullion) TableName() string      { return "bullion_holdings" }
func (RealEstate) TableName() string   { return "real_estate_holdings" }

// NewVariant returns an empty variant for the tag, or false for unknown tags.
func NewVariant(t InvestmentType) (Variant, bool) {
	switch t {
	case TypeEquity:
		return &Equity{}, true
	case TypeDemat:
		return &Demat{}, true
	case TypeDebt:
		return &Debt{}, true
	case TypeFixedDeposit:
		return &FixedDeposit{}, true
	case TypeMutualFund:
		return &MutualFund{}, true
	case TypePPF:
		return &PPF{}, true
	case TypeNSC:
		return &NSC{}, true
	case TypeNPS:
		return &NPS{}, true
	case TypeBullion:
		return &Bullion{}, true
	case TypeRealEstate:
		return &RealEstate{}, true
	}
	return nil, false
}

// VariantModels lists one empty instance of each variant, for migrations.
func VariantModels() []interface{} {
	out := make([]interface{}, 0, len(InvestmentTypes))
	for _, t := range InvestmentTypes {
		v, _ := NewVariant(t)
		out = append(out, v)
	}
	return out
}
