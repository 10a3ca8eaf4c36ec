package fields

import (
	"fmt"
	"strings"
)

// inputs builds the common "input by name, input by id" selector pair.
func inputs(k Key, extra ...string) string {
	parts := []string{
		fmt.Sprintf(`input[name="%s"]`, k),
		fmt.Sprintf(`input[id="%s"]`, k),
	}
	return strings.Join(append(parts, extra...), ", ")
}

// alternates builds name and id selectors for an input and a second element kind
// (select or textarea), name variants first.
func alternates(k Key, tag string) string {
	return strings.Join([]string{
		fmt.Sprintf(`input[name="%s"]`, k),
		fmt.Sprintf(`%s[name="%s"]`, tag, k),
		fmt.Sprintf(`input[id="%s"]`, k),
		fmt.Sprintf(`%s[id="%s"]`, tag, k),
	}, ", ")
}

var selectors = map[Key]string{
	FormNumber:         inputs(FormNumber),
	FormNumberId:       inputs(FormNumberId),
	CompanyName:        inputs(CompanyName),
	YearlyRevenue:      inputs(YearlyRevenue),
	Website:            inputs(Website),
	EmailId:            inputs(EmailId, `input[type="email"]`),
	Country:            alternates(Country, "select"),
	HeadQuarter:        inputs(HeadQuarter),
	Industry:           alternates(Industry, "select"),
	Product:            inputs(Product),
	RegistrationDate:   inputs(RegistrationDate, `input[type="date"]`),
	NumEmployees:       inputs(NumEmployees),
	CompanyAddress:     alternates(CompanyAddress, "textarea"),
	WorkSample:         inputs(WorkSample, `input[type="file"]`),
	DataNumber:         inputs(DataNumber),
	ZipCode:            inputs(ZipCode),
	BrandAmbassador:    inputs(BrandAmbassador),
	MediaPartner:       inputs(MediaPartner),
	SocialMedia:        inputs(SocialMedia),
	FranchisePartner:   inputs(FranchisePartner),
	AdvertisingPartner: inputs(AdvertisingPartner),
	Investor:           inputs(Investor),
	AccAudit:           inputs(AccAudit),
	Services:           alternates(Services, "select"),
	Landmark:           alternates(Landmark, "textarea"),
	Currency:           alternates(Currency, "select"),
	YearlyExpense:      inputs(YearlyExpense),
	Filename:           inputs(Filename, `input[type="file"]`),
	Manager:            inputs(Manager),
	SubClassification:  inputs(SubClassification),
	Fax:                inputs(Fax),
	CompanyCode:        inputs(CompanyCode),
	State:              alternates(State, "select"),
	ContactNumber:      inputs(ContactNumber),
}

// Selector returns the comma separated selector alternatives that locate k on a target form.
// Ad-hoc keys have no selector.
func Selector(k Key) (string, bool) {
	s, ok := selectors[k]
	return s, ok
}
