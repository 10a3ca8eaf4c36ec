package formparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gardar/formscribe/pkg/fields"
	"github.com/gardar/formscribe/pkg/normalize"
)

func TestParseKeepsFirstSeenOrder(t *testing.T) {
	rec := Parse("A: x\nB: y\nC: z")
	assert.Equal(t, []fields.Key{"A", "B", "C"}, rec.Keys())
}

func TestParseModelAnswer(t *testing.T) {
	text := `Here is the extracted data:

FormNumber: F-100
CompanyName: acme ltd
CompanyAddress: 12 High St. Springfield
Boston
Website: Acme.com
Landmark: []
Headquarters: kuala
lumpur
`
	rec := Parse(text)

	assert.Equal(t, []fields.Key{
		fields.FormNumber,
		fields.CompanyName,
		fields.CompanyAddress,
		fields.Website,
		fields.Landmark,
		fields.HeadQuarter,
	}, rec.Keys())

	want := map[fields.Key]string{
		fields.FormNumber:     "<B>F-100<B>",
		fields.CompanyName:    "<R>Acme Limited<R>",
		fields.CompanyAddress: "12 High St.  Springfield Boston",
		fields.Website:        "<I><U>https://www.acme.com",
		fields.Landmark:       normalize.EmptyValue(fields.Landmark),
		fields.HeadQuarter:    "<I><U>Kuala Lumpur<U><I>",
	}
	for k, v := range want {
		got, ok := rec.Get(k)
		require.True(t, ok, k)
		assert.Equal(t, v, got, k)
	}
}

func TestParseResolvesLabels(t *testing.T) {
	rec := Parse("Form No.: f1\nCompany Name: acme\nEmail: Info@Acme.com")

	assert.Equal(t, []fields.Key{fields.FormNumber, fields.CompanyName, fields.EmailId}, rec.Keys())
	email, _ := rec.Get(fields.EmailId)
	assert.Equal(t, "info@acme.com", email)
}

func TestParseAddressFillsContactNumber(t *testing.T) {
	rec := Parse("Company Address: 1 Main St. Phone: 555-1234")

	assert.Equal(t, []fields.Key{fields.ContactNumber, fields.CompanyAddress}, rec.Keys())
	phone, _ := rec.Get(fields.ContactNumber)
	addr, _ := rec.Get(fields.CompanyAddress)
	assert.Equal(t, "5551234", phone)
	assert.Equal(t, "1 Main St.", addr)
}

func TestParseWhitespaceSeparatedLine(t *testing.T) {
	rec := Parse("Sub Classification   retail    goods")
	sub, _ := rec.Get(fields.SubClassification)
	assert.Equal(t, "<I><U>Retail Goods<U><I>", sub)

	// Without a colon, a line after a known field continues that field.
	rec = Parse("Zip Code    12345\nSub Classification   retail")
	assert.Equal(t, []fields.Key{fields.ZipCode}, rec.Keys())
	zip, _ := rec.Get(fields.ZipCode)
	assert.Equal(t, "12345 Sub Classification   Retail", zip)
}

func TestParseContinuationAfterEmptyValue(t *testing.T) {
	rec := Parse("Landmark: [ ]\nnear the park")

	v, _ := rec.Get(fields.Landmark)
	assert.Equal(t, "Near The Park", v)
}

func TestParseNormalizesUnicode(t *testing.T) {
	rec := Parse("Country: Café")

	v, _ := rec.Get(fields.Country)
	assert.Equal(t, "<R><I>Café<I><R>", v)
}

func TestParseSkipsUnrecognizedLines(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	p := NewParser(zap.New(core))

	rec := p.Parse("garbage\n\n   \nWebsite:\nFax: 03-777")

	assert.Equal(t, []fields.Key{fields.Fax}, rec.Keys())
	assert.Equal(t, 2, logs.FilterMessage("skipping unrecognized line").Len())
}

func TestParseEmptyText(t *testing.T) {
	assert.Zero(t, Parse("").Len())
	assert.Zero(t, (*Parser)(nil).Parse("\n\n").Len())
}
