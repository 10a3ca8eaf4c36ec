package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/gardar/formscribe/pkg/fields"
	"github.com/gardar/formscribe/pkg/guard"
	"github.com/gardar/formscribe/pkg/normalize"
	"github.com/gardar/formscribe/pkg/pipeline"
	"github.com/gardar/formscribe/pkg/render"
)

const (
	copyJSON   = "json"
	copyScript = "script"
)

// clipboardWrite is replaced in tests.
var clipboardWrite = clipboard.WriteAll

// outputs are the destinations shared by extract and parse.
type outputs struct {
	json   string
	script string
	html   string
	pdf    string
	raw    string
	table  bool
	copy   string
}

func (o *outputs) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.json, "json", "", "Path to save the record as JSON")
	f.StringVar(&o.script, "script", "", "Path to save the fill script")
	f.StringVar(&o.html, "html", "", "Path to save the record as an HTML table")
	f.StringVar(&o.pdf, "pdf", "", "Path to save the record as a PDF table")
	f.StringVar(&o.raw, "raw", "", "Path to save the raw model answer")
	f.BoolVar(&o.table, "table", false, "Print the record as a table")
	f.StringVar(&o.copy, "copy", "", `Copy "json" or "script" to the clipboard`)
}

func (o *outputs) validate() error {
	switch o.copy {
	case "", copyJSON, copyScript:
		return nil
	}
	return fmt.Errorf("invalid --copy value %q: want %q or %q", o.copy, copyJSON, copyScript)
}

func (o *outputs) empty() bool {
	return o.json == "" && o.script == "" && o.html == "" && o.pdf == "" &&
		o.raw == "" && !o.table && o.copy == ""
}

// write sends res to every requested destination. title heads the HTML and PDF documents.
func (o *outputs) write(stdout, stderr io.Writer, res *pipeline.Result, title string) error {
	if res.Warning != "" {
		fmt.Fprintln(stderr, "Warning:", res.Warning)
	}

	recordJSON, err := res.JSON()
	if err != nil {
		return fmt.Errorf("failed to convert record to JSON: %w", err)
	}

	if o.empty() {
		fmt.Fprintln(stdout, recordJSON)
		return nil
	}

	if o.json != "" {
		if err := os.WriteFile(o.json, []byte(recordJSON+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write record JSON: %w", err)
		}
		fmt.Fprintln(stdout, "Record JSON saved to:", o.json)
	}

	if o.script != "" {
		if err := os.WriteFile(o.script, []byte(res.Script), 0o644); err != nil {
			return fmt.Errorf("failed to write fill script: %w", err)
		}
		fmt.Fprintln(stdout, "Fill script saved to:", o.script)
	}

	if o.raw != "" {
		if err := os.WriteFile(o.raw, []byte(res.Raw), 0o644); err != nil {
			return fmt.Errorf("failed to write raw answer: %w", err)
		}
		fmt.Fprintln(stdout, "Raw answer saved to:", o.raw)
	}

	if o.html != "" {
		var buf bytes.Buffer
		if err := render.HTML(&buf, res.Record, title); err != nil {
			return fmt.Errorf("failed to render HTML: %w", err)
		}
		if err := os.WriteFile(o.html, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write HTML: %w", err)
		}
		fmt.Fprintln(stdout, "HTML table saved to:", o.html)
	}

	if o.pdf != "" {
		data, err := render.PDF(res.Record, title)
		if err != nil {
			return fmt.Errorf("failed to render PDF: %w", err)
		}
		if err := os.WriteFile(o.pdf, data, 0o644); err != nil {
			return fmt.Errorf("failed to write PDF: %w", err)
		}
		fmt.Fprintln(stdout, "PDF table saved to:", o.pdf)
	}

	if o.table {
		if err := render.Text(stdout, res.Record); err != nil {
			return fmt.Errorf("failed to print table: %w", err)
		}
	}

	switch o.copy {
	case copyJSON:
		if err := clipboardWrite(recordJSON); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		fmt.Fprintln(stdout, "Record JSON copied to clipboard")
	case copyScript:
		if err := clipboardWrite(res.Script); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		fmt.Fprintln(stdout, "Fill script copied to clipboard")
	}
	return nil
}

// title names a form in rendered documents.
func title(res *pipeline.Result, source string) string {
	id := guard.FormID(res.Record)
	if id == "" {
		return source
	}
	return "Form " + normalize.Untag(fields.FormNumber, id)
}
