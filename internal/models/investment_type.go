package models

// InvestmentType is the discriminant tag of an investment variant.
type InvestmentType string

const (
	TypeEquity       InvestmentType = "equity"
	TypeDemat        InvestmentType = "demat"
	TypeDebt         InvestmentType = "debt"
	TypeFixedDeposit InvestmentType = "fixed_deposit"
	TypeMutualFund   InvestmentType = "mutual_fund"
	TypePPF          InvestmentType = "ppf"
	TypeNSC          InvestmentType = "nsc"
	TypeNPS          InvestmentType = "nps"
	TypeBullion      InvestmentType = "bullion"
	TypeRealEstate   InvestmentType = "real_estate"

	// TypeUnknown is only produced by read-side discrimination.
	TypeUnknown InvestmentType = "unknown"
)

// InvestmentTypes lists the ten known variants in display order.
var InvestmentTypes = []InvestmentType{
	TypeEquity,
	TypeDemat,
	TypeDebt,
	TypeFixedDeposit,
	TypeMutualFund,
	TypePPF,
	TypeNSC,
	TypeNPS,
	TypeBullion,
	TypeRealEstate,
}

var typeLabels = map[InvestmentType]string{
	TypeEquity:       "Equity",
	TypeDemat:        "Demat",
	TypeDebt:         "Debt",
	TypeFixedDeposit: "Fixed Deposit",
	TypeMutualFund:   "Mutual Fund",
	TypePPF:          "PPF",
	TypeNSC:          "NSC",
	TypeNPS:          "NPS",
	TypeBullion:      "Bullion",
	TypeRealEstate:   "Real Estate",
	TypeUnknown:      "Unknown",
}

// Valid reports whether t is one of the ten known variants.
func (t InvestmentType) Valid() bool {
	for _, known := range InvestmentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Label returns the human-readable category name.
func (t InvestmentType) Label() string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return typeLabels[TypeUnknown]
}
