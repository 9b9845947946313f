package csvdoc

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Document is a parsed CSV file: one header row followed by data rows.
// A Document is never mutated once built; projections derive new documents.
type Document struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Build parses raw CSV text into a Document.
//
// Lines are split on "\n" or "\r\n" and blank lines are discarded. The first
// remaining line is the header; rows whose fields are all empty are dropped.
func Build(raw string) (*Document, error) {
	lines := splitLines(raw)
	if len(lines) == 0 {
		return nil, ErrEmptyDocument
	}

	doc := &Document{
		Headers: Tokenize(lines[0]),
		Rows:    make([][]string, 0, len(lines)-1),
	}
	for _, line := range lines[1:] {
		row := Tokenize(line)
		if isBlankRow(row) {
			continue
		}
		doc.Rows = append(doc.Rows, row)
	}
	return doc, nil
}

// BuildBytes decodes raw file bytes (see Decode) and builds a Document from them.
func BuildBytes(raw []byte) (*Document, error) {
	text, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	return Build(text)
}

// Decode converts file bytes to UTF-8 text. A UTF-8, UTF-16LE or UTF-16BE
// byte-order mark selects the encoding and is stripped; without one the input
// is read as UTF-8 with invalid sequences replaced by U+FFFD.
func Decode(raw []byte) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, raw)
	if err != nil {
		return "", fmt.Errorf("decode text: %w", err)
	}
	return string(out), nil
}

// ColumnIndex returns the index of the first header equal to name, or -1.
func (d *Document) ColumnIndex(name string) int {
	for i, h := range d.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Preview returns at most n leading rows. The returned slice shares storage with d.
func (d *Document) Preview(n int) [][]string {
	if n < 0 || n >= len(d.Rows) {
		return d.Rows
	}
	return d.Rows[:n]
}

func splitLines(raw string) []string {
	parts := strings.Split(raw, "\n")
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSuffix(p, "\r")
		if strings.TrimSpace(p) == "" {
			continue
		}
		lines = append(lines, p)
	}
	return lines
}

func isBlankRow(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
