package normalize

import (
	"strings"

	"github.com/gardar/formscribe/pkg/fields"
)

// tagRule holds the markers placed around a value. Markers are literal tokens consumed by a
// downstream templating tool, not HTML, and several rules are deliberately left open.
type tagRule struct {
	open, close string
}

var tagRules = map[fields.Key]tagRule{
	fields.FormNumber:        {"<B>", "<B>"},
	fields.CompanyName:       {"<R>", "<R>"},
	fields.Website:           {"<I><U>", ""},
	fields.Product:           {"<R><B>", ""},
	fields.HeadQuarter:       {"<I><U>", "<U><I>"},
	fields.Country:           {"<R><I>", "<I><R>"},
	fields.Industry:          {"<B><U>", "<U><B>"},
	fields.BrandAmbassador:   {"<B>", "<B>"},
	fields.Manager:           {"<B>", "<B>"},
	fields.SubClassification: {"<I><U>", "<U><I>"},
}

// HasTag reports whether values of k are wrapped in tag markers.
func HasTag(k fields.Key) bool {
	_, ok := tagRules[k]
	return ok
}

// Tag wraps v in the markers for k. Keys without a rule return v unchanged.
func Tag(k fields.Key, v string) string {
	rule, ok := tagRules[k]
	if !ok {
		return v
	}
	return rule.open + v + rule.close
}

// Untag removes the markers Tag added for k, if v carries both of them.
func Untag(k fields.Key, v string) string {
	rule, ok := tagRules[k]
	if !ok || len(v) < len(rule.open)+len(rule.close) {
		return v
	}
	if !strings.HasPrefix(v, rule.open) || !strings.HasSuffix(v, rule.close) {
		return v
	}
	return v[len(rule.open) : len(v)-len(rule.close)]
}
