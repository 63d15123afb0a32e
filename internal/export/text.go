package export

import (
	"bytes"
	"strings"
)

// RenderText writes doc as UTF-8 plain text. No wrapping or pagination is applied.
func RenderText(doc Document) []byte {
	var buf bytes.Buffer
	buf.WriteString(doc.Title)
	buf.WriteString("\n\n")

	for _, f := range doc.Fields {
		buf.WriteString(f.Label)
		buf.WriteString(": ")
		buf.WriteString(f.Value)
		buf.WriteByte('\n')
	}

	for _, s := range doc.Sections {
		buf.WriteByte('\n')
		buf.WriteString(s.Heading)
		buf.WriteString(":\n")
		if s.Body != "" {
			buf.WriteString(strings.ReplaceAll(s.Body, "\r\n", "\n"))
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}
