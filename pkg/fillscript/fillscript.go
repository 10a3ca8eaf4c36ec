// Package fillscript renders a record as a browser console script that types each value into
// the matching input of a web form.
package fillscript

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/gardar/formscribe/pkg/fields"
	"github.com/gardar/formscribe/pkg/normalize"
	"github.com/gardar/formscribe/pkg/record"
)

const preamble = `// Allow pasting into every field
document.querySelectorAll("input, textarea").forEach(el => {
    el.removeAttribute("onpaste");
    el.removeAttribute("oncopy");
    el.removeAttribute("oncut");
});

// typeInput fills the first element matching selector and fires the events frameworks listen for
function typeInput(selector, text) {
    const input = document.querySelector(selector);
    if (!input) {
        console.log('Input not found:', selector);
        return;
    }
    input.focus();
    input.value = text;
    input.dispatchEvent(new InputEvent('input', { bubbles: true }));
    input.dispatchEvent(new Event('change', { bubbles: true }));
}

console.log("Starting form fill...");
`

const postamble = "\nconsole.log(\"Form filling complete!\");\n"

var (
	// markers splits a value into leading tag markers, body and trailing tag markers.
	markers = regexp.MustCompile(`(?s)^((?:<[^>]+>)*)(.*?)((?:<[^>]+>)*)$`)

	jsString = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`)
)

// Lookup returns the selector for a field.
type Lookup func(fields.Key) (string, bool)

// Generator builds fill scripts.
type Generator struct {
	lookup Lookup
	logger *zap.Logger
}

// New returns a Generator. A nil lookup uses fields.Selector; a nil logger discards output.
func New(lookup Lookup, logger *zap.Logger) *Generator {
	if lookup == nil {
		lookup = fields.Selector
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{lookup: lookup, logger: logger}
}

// Generate renders rec with the default selector table.
func Generate(rec *record.Record) string {
	return New(nil, nil).Generate(rec)
}

// Generate renders one typeInput call per field of rec that has a selector, in record order.
// Fields without a selector are skipped.
func (g *Generator) Generate(rec *record.Record) string {
	var sb strings.Builder
	sb.WriteString(preamble)

	for _, f := range rec.Fields() {
		selector, ok := g.lookup(f.Key)
		if !ok {
			g.logger.Debug("no selector for field", zap.String("field", f.Key.String()))
			continue
		}
		fmt.Fprintf(&sb, "\ntypeInput('%s', '%s');", jsString.Replace(selector), jsString.Replace(Value(f.Value)))
	}

	sb.WriteString(postamble)
	return sb.String()
}

// Value is the text typed into the form for a cleaned value. The "*" markers of an empty
// value are dropped, and a body of "N/A" or one mentioning the sentinel becomes the sentinel.
// Tag markers are kept.
func Value(v string) string {
	if v == "" {
		return normalize.Sentinel
	}
	if len(v) > 1 && strings.HasPrefix(v, normalize.EmptyMarker) && strings.HasSuffix(v, normalize.EmptyMarker) {
		v = v[1 : len(v)-1]
	}

	m := markers.FindStringSubmatch(v)
	head, body, tail := m[1], m[2], m[3]
	if strings.EqualFold(strings.TrimSpace(body), "N/A") || strings.Contains(body, normalize.Sentinel) {
		body = normalize.Sentinel
	}
	return head + body + tail
}
