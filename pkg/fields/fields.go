// Package fields defines the canonical vocabulary of a company registration form and the two
// static tables that translate around it.
//
// The vision model is asked to answer with one "Label: value" line per field. Labels coming back
// are resolved onto a canonical Key through the label table, and canonical keys are resolved onto
// the CSS selectors of the target web form through the selector table.
//
// The key set is open: a label that is not in the label table is kept verbatim as an ad-hoc Key,
// because model output is not perfectly controlled and losing a field is worse than keeping an
// unexpected one.
package fields

import "strings"

// Key identifies one extractable form attribute.
type Key string

// Known field keys, in the order the extraction prompt lists them.
const (
	FormNumber         Key = "FormNumber"
	FormNumberId       Key = "FormNumberId"
	CompanyName        Key = "CompanyName"
	YearlyRevenue      Key = "YearlyRevenue"
	Website            Key = "Website"
	EmailId            Key = "EmailId"
	Country            Key = "Country"
	HeadQuarter        Key = "HeadQuarter"
	Industry           Key = "Industry"
	Product            Key = "Product"
	RegistrationDate   Key = "RegistrationDate"
	NumEmployees       Key = "NumEmployees"
	CompanyAddress     Key = "CompanyAddress"
	WorkSample         Key = "WorkSample"
	DataNumber         Key = "DataNumber"
	ZipCode            Key = "ZipCode"
	BrandAmbassador    Key = "BrandAmbassador"
	MediaPartner       Key = "MediaPartner"
	SocialMedia        Key = "SocialMedia"
	FranchisePartner   Key = "FranchisePartner"
	AdvertisingPartner Key = "AdvertisingPartner"
	Investor           Key = "Investor"
	AccAudit           Key = "AccAudit"
	Services           Key = "Services"
	Landmark           Key = "Landmark"
	Currency           Key = "Currency"
	YearlyExpense      Key = "YearlyExpense"
	Filename           Key = "Filename"
	Manager            Key = "Manager"
	SubClassification  Key = "SubClassification"
	Fax                Key = "Fax"
	CompanyCode        Key = "CompanyCode"
	State              Key = "State"
	ContactNumber      Key = "ContactNumber"
)

var ordered = []Key{
	FormNumber, FormNumberId, CompanyName, YearlyRevenue, Website, EmailId, Country,
	HeadQuarter, Industry, Product, RegistrationDate, NumEmployees, CompanyAddress,
	WorkSample, DataNumber, ZipCode, BrandAmbassador, MediaPartner, SocialMedia,
	FranchisePartner, AdvertisingPartner, Investor, AccAudit, Services, Landmark,
	Currency, YearlyExpense, Filename, Manager, SubClassification, Fax, CompanyCode,
	State, ContactNumber,
}

var known = func() map[Key]struct{} {
	m := make(map[Key]struct{}, len(ordered))
	for _, k := range ordered {
		m[k] = struct{}{}
	}
	return m
}()

// All returns the known keys in prompt order. The returned slice is a copy.
func All() []Key {
	out := make([]Key, len(ordered))
	copy(out, ordered)
	return out
}

// Known reports whether k belongs to the fixed vocabulary.
func (k Key) Known() bool {
	_, ok := known[k]
	return ok
}

func (k Key) String() string { return string(k) }

// labels maps the human readable labels a model may emit onto canonical keys.
// Canonical key names map onto themselves through the fallback in Resolve.
var labels = map[string]Key{
	"Form No.":            FormNumber,
	"Form No":             FormNumber,
	"Company Name":        CompanyName,
	"Company Address":     CompanyAddress,
	"Product":             Product,
	"Website":             Website,
	"Email":               EmailId,
	"Country":             Country,
	"Headquarters":        HeadQuarter,
	"Industry":            Industry,
	"Registration Date":   RegistrationDate,
	"Yearly Revenue":      YearlyRevenue,
	"Yearly Expense":      YearlyExpense,
	"Currency":            Currency,
	"Brand Ambassador":    BrandAmbassador,
	"Data Number":         DataNumber,
	"Zip Code":            ZipCode,
	"Media Partner":       MediaPartner,
	"Social Media":        SocialMedia,
	"Franchise Partner":   FranchisePartner,
	"Advertising Partner": AdvertisingPartner,
	"Investor":            Investor,
	"Acc Audit":           AccAudit,
	"Services":            Services,
	"Landmark":            Landmark,
	"Num Employees":       NumEmployees,
	"Number of Employees": NumEmployees,
	"Work Sample":         WorkSample,
	"Filename":            Filename,
	"Manager":             Manager,
	"Sub Classification":  SubClassification,
	"Sub-Classification":  SubClassification,
	"Tel":                 ContactNumber,
	"Phone":               ContactNumber,
	"Contact":             ContactNumber,
}

// Resolve maps a raw label onto its canonical key. Lookup is exact after trimming; unknown
// labels pass through unchanged.
func Resolve(label string) Key {
	label = strings.TrimSpace(label)
	if k, ok := labels[label]; ok {
		return k
	}
	return Key(label)
}
