package normalize

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// abbreviations maps upper-case abbreviation tokens to their expansion.
var abbreviations = map[string]string{
	"LTD":     "Limited",
	"LLC":     "Limited Liability Company",
	"INC":     "Incorporation",
	"PTE":     "Private Limited",
	"CO":      "Company",
	"CORP":    "Corporation",
	"UAE":     "United Arab Emirates",
	"USA":     "United States Of America",
	"KSA":     "Kingdom of Saudi Arabia",
	"UK":      "United Kingdom",
	"&":       "AND",
	"AUD":     "Australian Dollar",
	"BMD":     "Bermuda Dollar",
	"PVT":     "Private",
	"CAD":     "Canadian Dollar",
	"CD":      "Canadian Dollar",
	"EUA":     "Employees Union Association",
	"CHF":     "Confederazione Helvetica Swiss Franc",
	"EUR":     "Euro",
	"LLP":     "Limited Liability Partnership",
	"GB":      "Great Britain",
	"HK":      "Hong Kong",
	"GBP":     "Great Britain Pound",
	"NIS":     "New Israel Shekel",
	"INR":     "Indian Rupees",
	"PRC":     "Peoples Republic Of China",
	"NZD":     "Newzeland Dollar",
	"RMB":     "Ren Min Bi",
	"SAR":     "South African Rand",
	"TD":      "Taiwanese Dollar",
	"USD":     "United States Dollar",
	"AED":     "Arab Emirates Dirham",
	"MYR":     "Malaysia Ringgit",
	"SGD":     "Singapore Dollar",
	"CNY":     "Chinese Yuan",
	"SDN BHD": "Sendrian Berhad",
	"US":      "United States",
	"JPY":     "Japanese Yan",
	"IND":     "India",
	"DEU":     "Germany",
	"HKD":     "Hong Kong Dollar",
	"PLC":     "Public Limited Company",
	"JPN":     "Japan",
	"THB":     "Thai Baht",
	"BK":      "Bangkok",
}

// abbrevPattern matches any dictionary key as a whole word, optionally followed by a period.
// Alternatives are ordered longest first so overlapping keys resolve to the longest one.
var abbrevPattern = regexp.MustCompile(`(?i)` + abbreviationAlternation())

func abbreviationAlternation() string {
	keys := make([]string, 0, len(abbreviations))
	for k := range abbreviations {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	alts := make([]string, 0, len(keys))
	for _, k := range keys {
		alt := regexp.QuoteMeta(k)
		if first, _ := utf8.DecodeRuneInString(k); isWordRune(first) {
			alt = `\b` + alt
		}
		if last, _ := utf8.DecodeLastRuneInString(k); isWordRune(last) {
			alt += `(?:\.|\b)`
		} else {
			alt += `\.?`
		}
		alts = append(alts, alt)
	}
	return "(?:" + strings.Join(alts, "|") + ")"
}

func isWordRune(r rune) bool {
	return r == '_' || r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

// ExpandAbbreviations replaces every dictionary abbreviation in text with its expansion.
// Matching is case-insensitive; a trailing period is kept after the expansion. Expanded text
// is never scanned again.
func ExpandAbbreviations(text string) string {
	if text == "" {
		return text
	}
	return abbrevPattern.ReplaceAllStringFunc(text, func(match string) string {
		key, dot := match, ""
		if strings.HasSuffix(match, ".") {
			key, dot = strings.TrimSuffix(match, "."), "."
		}
		full, ok := abbreviations[strings.ToUpper(key)]
		if !ok {
			return match
		}
		return full + dot
	})
}
