package vision

import (
	"fmt"
	"strings"

	"github.com/gardar/formscribe/pkg/fields"
)

var rules = []string{
	"Maintain exact capitalization and spacing",
	"Include all special characters and punctuation",
	"For addresses, keep the complete text including commas and periods",
	"For numbers, ensure exact digit recognition",
	"For email addresses, maintain exact spelling and format",
}

var hints = map[fields.Key]string{
	fields.FormNumber:         "exact form number",
	fields.FormNumberId:       "exact form number id",
	fields.CompanyName:        "exact company name",
	fields.YearlyRevenue:      "exact revenue amount",
	fields.Website:            "exact website URL",
	fields.EmailId:            "exact email address",
	fields.Country:            "exact country name",
	fields.HeadQuarter:        "exact headquarters location",
	fields.Industry:           "exact industry type",
	fields.Product:            "exact product details",
	fields.RegistrationDate:   "exact registration date",
	fields.NumEmployees:       "exact number of employees",
	fields.CompanyAddress:     "complete address with exact formatting",
	fields.WorkSample:         "work sample details",
	fields.DataNumber:         "exact data number",
	fields.ZipCode:            "exact zip code",
	fields.BrandAmbassador:    "brand ambassador details",
	fields.MediaPartner:       "media partner details",
	fields.SocialMedia:        "social media details",
	fields.FranchisePartner:   "franchise partner details",
	fields.AdvertisingPartner: "advertising partner details",
	fields.Investor:           "investor details",
	fields.AccAudit:           "accounting audit details",
	fields.Services:           "services details",
	fields.Landmark:           "exact landmark details",
	fields.Currency:           "exact currency type",
	fields.YearlyExpense:      "exact expense amount",
	fields.Filename:           "exact filename",
	fields.Manager:            "exact manager name",
	fields.SubClassification:  "exact sub-classification",
	fields.Fax:                "exact fax number",
	fields.CompanyCode:        "exact company code",
	fields.State:              "exact state",
	fields.ContactNumber:      "exact contact number",
}

// Prompt is the instruction sent with every image. It asks for one "Field: [hint]" line per
// known field, in canonical order.
func Prompt() string {
	var sb strings.Builder
	sb.WriteString("Please analyze this form image carefully and extract the exact text for each field.\n\n")
	sb.WriteString("Follow these rules strictly:\n")
	for i, r := range rules {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, r)
	}
	sb.WriteString("\nFormat each field exactly as shown below:\n")
	for _, k := range fields.All() {
		fmt.Fprintf(&sb, "%s: [%s]\n", k, hints[k])
	}
	return sb.String()
}
