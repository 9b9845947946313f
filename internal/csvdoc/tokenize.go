package csvdoc

import "strings"

// Tokenize splits a single CSV line into its fields.
//
// Quoted fields may contain commas, and a doubled quote inside a quoted field
// is read as a literal quote. Every field is trimmed of surrounding whitespace.
// Tokenize never fails: an unterminated quote simply runs to the end of the line.
// An empty line yields exactly one empty field.
func Tokenize(line string) []string {
	fields := make([]string, 0, strings.Count(line, ",")+1)

	var buf strings.Builder
	inQuotes := false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				buf.WriteByte('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(buf.String()))
			buf.Reset()
		default:
			buf.WriteByte(ch)
		}
	}
	return append(fields, strings.TrimSpace(buf.String()))
}
