package investment

import "nivesh/internal/models"

// structuralTests is the fallback priority order for untagged records. The
// first test whose keys are all present wins.
var structuralTests = []struct {
	keys []string
	tag  models.InvestmentType
}{
	{[]string{"stock_symbol"}, models.TypeEquity},
	{[]string{"dp_id"}, models.TypeDemat},
	{[]string{"company_name"}, models.TypeDebt},
	{[]string{"bank_name"}, models.TypeFixedDeposit},
	{[]string{"fund_name"}, models.TypeMutualFund},
	{[]string{"account_no", "branch"}, models.TypePPF},
	{[]string{"certificate_no"}, models.TypeNSC},
	{[]string{"pran"}, models.TypeNPS},
	{[]string{"type", "form"}, models.TypeBullion},
	{[]string{"property_type"}, models.TypeRealEstate},
}

// Classify determines the variant of a fetched record. A valid explicit
// investment_type wins; otherwise fields are tested in a fixed priority
// order. Records matching nothing are TypeUnknown. It never fails.
func Classify(r Record) models.InvestmentType {
	if t := r.Tag(); t.Valid() {
		return t
	}
	for _, test := range structuralTests {
		if hasAll(r, test.keys) {
			return test.tag
		}
	}
	return models.TypeUnknown
}

func hasAll(r Record, keys []string) bool {
	for _, k := range keys {
		if !r.Has(k) {
			return false
		}
	}
	return true
}
