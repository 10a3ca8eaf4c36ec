// Package normalize turns raw field values read off a form image into clean display text.
//
// Clean is the single composite entry point. It applies, in order: empty-value substitution,
// bracket stripping, currency glyph replacement, abbreviation expansion, a field specific
// transform, and finally the field's tag markers.
//
// Cleaning a CompanyAddress has a side effect: phone and fax numbers embedded in the address
// are moved into the record under ContactNumber and Fax.
package normalize

import (
	"regexp"
	"strings"

	"github.com/gardar/formscribe/pkg/fields"
	"github.com/gardar/formscribe/pkg/record"
)

// Sentinel replaces values that are missing from the form.
const Sentinel = "Data Not Available"

// EmptyMarker delimits values that were empty on the form.
const EmptyMarker = "*"

var (
	currencySymbols = strings.NewReplacer(
		"$", "Dollar ",
		"€", "Euro ",
		"£", "Pound ",
		"¥", "Yen ",
	)
	whitespace = regexp.MustCompile(`\s+`)
)

// EmptyValue is the cleaned value of an empty field k. Keys without a tag rule fall back to
// the bold marker.
func EmptyValue(k fields.Key) string {
	if HasTag(k) {
		return EmptyMarker + Tag(k, Sentinel) + EmptyMarker
	}
	return EmptyMarker + "<B>" + Sentinel + "<B>" + EmptyMarker
}

// ReplaceCurrencySymbols spells out $, €, £ and ¥.
func ReplaceCurrencySymbols(s string) string {
	return currencySymbols.Replace(s)
}

// Clean normalizes raw as the value of field k. rec receives the ContactNumber and Fax
// extracted from a CompanyAddress; it may be nil.
func Clean(raw string, k fields.Key, rec *record.Record) string {
	if strings.TrimSpace(raw) == "" {
		return EmptyValue(k)
	}

	v := Untag(k, strings.TrimSpace(raw))
	v = strings.TrimPrefix(v, "[")
	v = strings.TrimSuffix(v, "]")
	v = strings.TrimSpace(v)
	if v == "" {
		return EmptyValue(k)
	}

	v = ReplaceCurrencySymbols(v)

	if k != fields.Website && k != fields.EmailId {
		v = ExpandAbbreviations(v)
	}

	switch k {
	case fields.Website:
		v = whitespace.ReplaceAllString(strings.ToLower(v), "")
		if !strings.HasPrefix(v, "https://www.") {
			v = "https://www." + v
		}
	case fields.EmailId:
		v = whitespace.ReplaceAllString(strings.ToLower(v), "")
	case fields.CompanyAddress:
		v = cleanAddress(v, rec)
	case fields.ContactNumber, fields.Fax, fields.NumEmployees, fields.DataNumber:
		v = strings.ReplaceAll(v, "-", "")
	case fields.RegistrationDate:
		v = FormatDate(v)
	default:
		v = CapitalizeWords(v)
	}

	if HasTag(k) {
		v = Tag(k, strings.TrimSpace(v))
	}
	return v
}
