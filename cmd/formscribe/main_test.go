package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/formscribe/pkg/pipeline"
	"github.com/gardar/formscribe/pkg/record"
)

const answer = `FormNumber: F-100
CompanyName: acme ltd
Website: acme.com
`

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func stubClipboard(t *testing.T) *string {
	t.Helper()
	var copied string
	orig := clipboardWrite
	clipboardWrite = func(s string) error {
		copied = s
		return nil
	}
	t.Cleanup(func() { clipboardWrite = orig })
	return &copied
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "formscribe dev\n", out)
}

func TestParsePrintsJSONByDefault(t *testing.T) {
	out, _, err := execute(t, answer, "parse")
	require.NoError(t, err)
	assert.Contains(t, out, `"FormNumber": "<B>F-100<B>"`)
	assert.Contains(t, out, `"CompanyName": "<R>Acme Limited<R>"`)
}

func TestParseWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	textPath := filepath.Join(dir, "answer.txt")
	require.NoError(t, os.WriteFile(textPath, []byte(answer), 0o644))

	jsonPath := filepath.Join(dir, "form.json")
	scriptPath := filepath.Join(dir, "form.js")
	htmlPath := filepath.Join(dir, "form.html")
	pdfPath := filepath.Join(dir, "form.pdf")

	out, stderr, err := execute(t, "", "parse", "--text", textPath,
		"--json", jsonPath, "--script", scriptPath, "--html", htmlPath, "--pdf", pdfPath, "--table")
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Contains(t, out, "Record JSON saved to: "+jsonPath)
	assert.Contains(t, out, "Fill script saved to: "+scriptPath)
	assert.Contains(t, out, "Field")

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	rec := record.New()
	require.NoError(t, rec.UnmarshalJSON(data))
	assert.Equal(t, 3, rec.Len())

	script, err := os.ReadFile(scriptPath)
	require.NoError(t, err)
	assert.Contains(t, string(script), "typeInput(")

	page, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(page), "Form F-100")

	doc, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestParseWarnsOnStderr(t *testing.T) {
	_, stderr, err := execute(t, "CompanyName: Acme\n", "parse")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Warning:")
}

func TestParseCopiesScript(t *testing.T) {
	copied := stubClipboard(t)
	out, _, err := execute(t, answer, "parse", "--copy", "script")
	require.NoError(t, err)
	assert.Contains(t, out, "Fill script copied to clipboard")
	assert.True(t, strings.HasSuffix(*copied, "console.log(\"Form filling complete!\");\n"))
}

func TestParseRejectsUnknownCopyTarget(t *testing.T) {
	_, _, err := execute(t, answer, "parse", "--copy", "pdf")
	assert.ErrorContains(t, err, `invalid --copy value "pdf"`)
}

func TestScriptFromRecord(t *testing.T) {
	out, _, err := execute(t, `{"FormNumber": "<B>F-1<B>", "Fax": ""}`, "script")
	require.NoError(t, err)
	assert.Contains(t, out, "<B>F-1<B>")
	assert.Contains(t, out, "Data Not Available")
}

func TestScriptRejectsBadRecord(t *testing.T) {
	_, _, err := execute(t, `[1, 2]`, "script")
	assert.ErrorContains(t, err, "failed to parse record JSON")

	_, _, err = execute(t, `{}`, "script")
	assert.ErrorContains(t, err, "record has no fields")
}

func TestExtractRequiresImage(t *testing.T) {
	_, _, err := execute(t, "", "extract")
	assert.ErrorContains(t, err, `required flag(s) "image" not set`)
}

func TestTitle(t *testing.T) {
	rec := record.New()
	assert.Equal(t, "scan.png", title(&pipeline.Result{Record: rec}, "scan.png"))

	rec.Set("FormNumber", "<B>F-9<B>")
	assert.Equal(t, "Form F-9", title(&pipeline.Result{Record: rec}, "scan.png"))

	rec.Set("FormNumber", "*<B>Data Not Available<B>*")
	assert.Equal(t, "scan.png", title(&pipeline.Result{Record: rec}, "scan.png"))
}
