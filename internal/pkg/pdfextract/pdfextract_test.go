package pdfextract

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoPagePDF(t *testing.T) []byte {
	t.Helper()
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetFont("Helvetica", "", 11)
	doc.AddPage()
	doc.Text(100, 100, "primera pagina")
	doc.AddPage()
	doc.Text(100, 100, "segunda pagina")

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestExtractPages(t *testing.T) {
	pages, err := ExtractPages(bytes.NewReader(twoPagePDF(t)))
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Contains(t, pages[0], "primera pagina")
	assert.Contains(t, pages[1], "segunda pagina")
}

func TestEmptyInput(t *testing.T) {
	pages, err := ExtractPages(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Empty(t, pages)
}

func TestRejectsGarbage(t *testing.T) {
	_, err := ExtractPages(strings.NewReader("definitely not a pdf"))
	assert.Error(t, err)
}
