// Package formparse builds a record from the free-text answer a vision model gives for a form image.
package formparse

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/gardar/formscribe/pkg/fields"
	"github.com/gardar/formscribe/pkg/normalize"
	"github.com/gardar/formscribe/pkg/record"
)

var (
	colonLine  = regexp.MustCompile(`([^:]+):\s*(.+)`)
	multiSpace = regexp.MustCompile(`\s{2,}`)
)

// Parser turns model text into a record. The zero value is ready to use.
type Parser struct {
	Logger *zap.Logger
}

// NewParser returns a Parser that reports skipped lines to logger.
func NewParser(logger *zap.Logger) *Parser {
	return &Parser{Logger: logger}
}

// Parse is a convenience wrapper around a zero Parser.
func Parse(text string) *record.Record {
	return (&Parser{}).Parse(text)
}

// Parse reads text line by line. A line is either "Label: value", a continuation of the
// previous field when it has no colon, or "Label  value" split on runs of whitespace.
// Anything else is skipped. Fields keep the order in which they were first seen.
func (p *Parser) Parse(text string) *record.Record {
	logger := p.logger()
	rec := record.New()
	var current fields.Key

	for _, line := range strings.Split(norm.NFC.String(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := colonLine.FindStringSubmatch(line); m != nil {
			current = fields.Resolve(m[1])
			rec.Set(current, normalize.Clean(strings.TrimSpace(m[2]), current, rec))
			continue
		}

		if current != "" && !strings.Contains(line, ":") {
			rec.Set(current, normalize.Clean(continued(rec, current)+" "+line, current, rec))
			continue
		}

		parts := lo.Compact(lo.Map(multiSpace.Split(line, -1), func(s string, _ int) string {
			return strings.TrimSpace(s)
		}))
		if len(parts) >= 2 {
			current = fields.Resolve(parts[0])
			rec.Set(current, normalize.Clean(strings.Join(parts[1:], " "), current, rec))
			continue
		}

		logger.Debug("skipping unrecognized line", zap.String("line", line))
	}

	logger.Debug("parsed form text", zap.Int("fields", rec.Len()))
	return rec
}

// continued returns the bare text already stored for k, so that a continuation line can be
// appended and the whole value cleaned again.
func continued(rec *record.Record, k fields.Key) string {
	v, _ := rec.Get(k)
	if v == normalize.EmptyValue(k) {
		return ""
	}
	return normalize.Untag(k, v)
}

func (p *Parser) logger() *zap.Logger {
	if p == nil || p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}
