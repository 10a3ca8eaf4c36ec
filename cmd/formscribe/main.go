// formscribe reads company registration forms from images and turns them into clean records
// and browser fill scripts.
//
// The image is sent to a vision model (Gemini, or a Google Document AI form parser), the answer
// is parsed into fields, every value is normalized (abbreviations expanded, dates spelled out,
// phone numbers pulled out of addresses, display markers added) and the result is written as
// JSON, a table, HTML, PDF and a script that types the values into a web form.
//
// Configuration:
//
// An optional YAML file selects the backend; see internal/config for every key:
//
//	backend: gemini
//	gemini:
//	  model: gemini-2.0-flash
//	  api_key_env: GEMINI_API_KEY
//
// Usage:
//
//	formscribe extract --image form.png [output options]
//	formscribe parse --text answer.txt [output options]
//	formscribe script --record form.json
//	formscribe serve [--addr :8080]
//	formscribe watch [--dir inbox] [--out-dir outbox] [--backfill]
//
// Output options:
//
//	--json string       Path to save the record as JSON
//	--script string     Path to save the fill script
//	--html string       Path to save the record as an HTML table
//	--pdf string        Path to save the record as a PDF table
//	--raw string        Path to save the raw model answer
//	--table             Print the record as a table
//	--copy string       Copy "json" or "script" to the clipboard
//
// Without any output option the record JSON is printed.
//
// Example:
//
//	export GEMINI_API_KEY=...
//	formscribe extract --image form.png --json form.json --script form.js --table
package main

import (
	"os"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
