package normalize

import (
	"regexp"
	"strings"

	"github.com/gardar/formscribe/pkg/fields"
	"github.com/gardar/formscribe/pkg/record"
)

var (
	punctSpacing = regexp.MustCompile(`([.,]) +`)
	phonePattern = regexp.MustCompile(`(?i)(?:Phone|Tel|T):\s*([0-9+\s()-]+)`)
	faxPattern   = regexp.MustCompile(`(?i)(?:Fax|F):\s*([0-9+\s()-]+)`)
)

// FormatAddress puts exactly two spaces after every period or comma that is followed by a space.
func FormatAddress(address string) string {
	return punctSpacing.ReplaceAllString(address, "$1  ")
}

// cleanAddress spaces out the address, then moves any embedded phone or fax number into rec.
// Both patterns are matched against the spaced address before either is removed.
func cleanAddress(address string, rec *record.Record) string {
	address = FormatAddress(address)

	phone := phonePattern.FindStringSubmatch(address)
	fax := faxPattern.FindStringSubmatch(address)
	if phone != nil {
		if rec != nil {
			rec.Set(fields.ContactNumber, stripNumber(phone[1]))
		}
		address = strings.Replace(address, phone[0], "", 1)
	}
	if fax != nil {
		if rec != nil {
			rec.Set(fields.Fax, stripNumber(fax[1]))
		}
		address = strings.Replace(address, fax[0], "", 1)
	}
	return strings.TrimSpace(address)
}

func stripNumber(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "-", ""))
}
