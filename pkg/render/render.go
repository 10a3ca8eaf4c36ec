// Package render presents a record as a two-column (field, value) table in plain text, HTML
// or PDF. Values are shown exactly as stored, tag markers included.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"

	"github.com/gardar/formscribe/pkg/record"
)

// Header labels of the two columns.
const (
	FieldHeader = "Field"
	ValueHeader = "Value"
)

// Row is one line of the table.
type Row struct {
	Field string
	Value string
}

// Rows returns the table rows of rec in record order.
func Rows(rec *record.Record) []Row {
	return lo.Map(rec.Fields(), func(f record.Field, _ int) Row {
		return Row{Field: f.Key.String(), Value: f.Value}
	})
}

// Text writes rec as an aligned plain text table. Multi-line values continue on indented
// lines below their field.
func Text(w io.Writer, rec *record.Record) error {
	rows := Rows(rec)
	width := lo.Max(append(lo.Map(rows, func(r Row, _ int) int { return len(r.Field) }), len(FieldHeader)))

	var sb strings.Builder
	fmt.Fprintf(&sb, "%-*s  %s\n", width, FieldHeader, ValueHeader)
	fmt.Fprintf(&sb, "%s  %s\n", strings.Repeat("-", width), strings.Repeat("-", len(ValueHeader)))
	for _, r := range rows {
		lines := strings.Split(r.Value, "\n")
		fmt.Fprintf(&sb, "%-*s  %s\n", width, r.Field, lines[0])
		for _, l := range lines[1:] {
			fmt.Fprintf(&sb, "%-*s  %s\n", width, "", l)
		}
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	return nil
}
