package csvdoc

import "strings"

// LineBreak terminates records written by Serialize.
const LineBreak = "\r\n"

// Serialize writes a document as CSV text. Every field is wrapped in double
// quotes with embedded quotes doubled; records are separated by LineBreak.
func Serialize(doc *Document) string {
	var b strings.Builder
	writeRecord(&b, doc.Headers)
	for _, row := range doc.Rows {
		b.WriteString(LineBreak)
		writeRecord(&b, row)
	}
	return b.String()
}

func writeRecord(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
}
