package normalize

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gardar/formscribe/pkg/fields"
	"github.com/gardar/formscribe/pkg/record"
)

func TestCleanEmptyValues(t *testing.T) {
	tests := []struct {
		key  fields.Key
		raw  string
		want string
	}{
		{fields.FormNumber, "", "*<B>Data Not Available<B>*"},
		{fields.CompanyName, "   ", "*<R>Data Not Available<R>*"},
		{fields.Website, "\t", "*<I><U>Data Not Available*"},
		{fields.Product, "", "*<R><B>Data Not Available*"},
		{fields.HeadQuarter, "", "*<I><U>Data Not Available<U><I>*"},
		{fields.Country, "", "*<R><I>Data Not Available<I><R>*"},
		{fields.Industry, "", "*<B><U>Data Not Available<U><B>*"},
		{fields.ZipCode, "", "*<B>Data Not Available<B>*"},
		{fields.CompanyName, "[ ]", "*<R>Data Not Available<R>*"},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.raw, tt.key, nil))
		})
	}
}

func TestCleanEmptyIsSentinelForEveryKey(t *testing.T) {
	for _, k := range append(fields.All(), "Custom Label") {
		got := Clean("", k, record.New())
		assert.Equal(t, EmptyValue(k), got)
		assert.True(t, strings.HasPrefix(got, "*") && strings.HasSuffix(got, "*"), got)
		assert.Contains(t, got, Sentinel)
	}
}

func TestExpandAbbreviations(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Acme Pte. Ltd.", "Acme Private Limited. Limited."},
		{"paid in usd", "paid in United States Dollar"},
		{"US office", "United States office"},
		{"based in the USA", "based in the United States Of America"},
		{"Smith & Sons", "Smith AND Sons"},
		{"Maju Sdn Bhd", "Maju Sendrian Berhad"},
		{"CD and USD", "Canadian Dollar and United States Dollar"},
		{"Cod fish", "Cod fish"},
		{"HKD rates", "Hong Kong Dollar rates"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandAbbreviations(tt.in))
		})
	}
}

func TestCleanLeavesNoStandaloneAbbreviation(t *testing.T) {
	for abbr := range abbreviations {
		out := Clean("Acme "+strings.ToLower(abbr)+" Holdings", fields.CompanyName, nil)
		if abbr == "&" {
			assert.NotContains(t, out, "&")
			continue
		}
		word := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(abbr) + `\b`)
		assert.False(t, word.MatchString(out), "%s left in %q", abbr, out)
	}
}

func TestCleanFieldTransforms(t *testing.T) {
	tests := []struct {
		name string
		key  fields.Key
		raw  string
		want string
	}{
		{"company", fields.CompanyName, "[acme co.]", "<R>Acme Company.<R>"},
		{"currency", fields.YearlyRevenue, "$500", "Dollar 500"},
		{"euro", fields.YearlyExpense, "€1.5M", "Euro 1.5m"},
		{"website", fields.Website, "Acme .COM", "<I><U>https://www.acme.com"},
		{"website kept", fields.Website, "https://www.acme.com", "<I><U>https://www.acme.com"},
		{"email", fields.EmailId, "John.Doe @Acme.COM", "john.doe@acme.com"},
		{"employees", fields.NumEmployees, "1-000", "1000"},
		{"contact", fields.ContactNumber, "+1-555-0100", "+15550100"},
		{"date", fields.RegistrationDate, "05/03/2024", "5th March 2024"},
		{"bad date", fields.RegistrationDate, "not-a-date", "not-a-date"},
		{"industry", fields.Industry, "software", "<B><U>Software<U><B>"},
		{"product", fields.Product, "widgets", "<R><B>Widgets"},
		{"country", fields.Country, "uk", "<R><I>United Kingdom<I><R>"},
		{"ad hoc", "Favourite Colour", "dark BLUE", "Dark Blue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.raw, tt.key, nil))
		})
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	tests := []struct {
		key fields.Key
		raw string
	}{
		{fields.Website, "https://www.acme.com"},
		{fields.Website, "Acme.com"},
		{fields.CompanyName, "acme ltd"},
		{fields.HeadQuarter, "kuala lumpur"},
		{fields.CompanyAddress, "1 Bay Rd, Springfield. USA"},
		{fields.RegistrationDate, "1-1-2020"},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			once := Clean(tt.raw, tt.key, nil)
			assert.Equal(t, once, Clean(once, tt.key, nil))
		})
	}
}

func TestCleanAddressMovesPhoneIntoRecord(t *testing.T) {
	rec := record.New()
	got := Clean("123 Main St. Phone: 555-1234", fields.CompanyAddress, rec)

	phone, ok := rec.Get(fields.ContactNumber)
	assert.True(t, ok)
	assert.Equal(t, "5551234", phone)
	assert.NotContains(t, got, "Phone: 555-1234")
	assert.Equal(t, "123 Main St.", got)
}

func TestCleanAddressMovesPhoneAndFax(t *testing.T) {
	rec := record.New()
	got := Clean("1 Bay Rd, Tel: 03-555 Fax: 03-777", fields.CompanyAddress, rec)

	assert.Equal(t, "1 Bay Rd,", got)
	phone, _ := rec.Get(fields.ContactNumber)
	fax, _ := rec.Get(fields.Fax)
	assert.Equal(t, "03555", phone)
	assert.Equal(t, "03777", fax)
}

func TestCleanAddressWithoutRecord(t *testing.T) {
	assert.Equal(t, "12 High St.  London", Clean("12 High St. London Tel: 020-7946", fields.CompanyAddress, nil))
}

func TestFormatAddress(t *testing.T) {
	assert.Equal(t, "1 Main St.  Suite 4,  Boston", FormatAddress("1 Main St. Suite 4, Boston"))
	assert.Equal(t, "a,  b", FormatAddress("a,   b"))
	assert.Equal(t, "3.14,x", FormatAddress("3.14,x"))
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"05/03/2024", "5th March 2024"},
		{"1-1-2020", "1st January 2020"},
		{"2/2/2002", "2nd February 2002"},
		{"3/7/1990", "3rd July 1990"},
		{"11/11/2011", "11th November 2011"},
		{"12/12/2012", "12th December 2012"},
		{"13/05/2001", "13th May 2001"},
		{"21/06/2021", "21st June 2021"},
		{"22/11/1999", "22nd November 1999"},
		{"23/08/2023", "23rd August 2023"},
		{"31/12/2024", "31st December 2024"},
		{"31/02/2024", "31/02/2024"},
		{"05/13/2024", "05/13/2024"},
		{"2024/03", "2024/03"},
		{"not-a-date", "not-a-date"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDate(tt.in))
		})
	}
}

func TestCapitalizeWords(t *testing.T) {
	assert.Equal(t, "Hello World  X", CapitalizeWords("hELLO wORLD  x"))
	assert.Equal(t, "Élan Vital", CapitalizeWords("élan VITAL"))
	assert.Equal(t, "", CapitalizeWords(""))
}

func TestTagAndUntag(t *testing.T) {
	assert.Equal(t, "<B>F1<B>", Tag(fields.FormNumber, "F1"))
	assert.Equal(t, "F1", Untag(fields.FormNumber, "<B>F1<B>"))
	assert.Equal(t, "x", Tag(fields.ZipCode, "x"))
	assert.Equal(t, "<R>Acme<R> Holdings", Untag(fields.CompanyName, "<R>Acme<R> Holdings"))
	assert.Equal(t, "https://www.a.com", Untag(fields.Website, "<I><U>https://www.a.com"))
}
