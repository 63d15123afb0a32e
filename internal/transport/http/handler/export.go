package handler

import (
	"github.com/gin-gonic/gin"

	"cronicas-api/internal/export"
	"cronicas-api/internal/platform/metrics"
	"cronicas-api/internal/transport/http/response"
)

const (
	formatPDF = "pdf"
	formatTXT = "txt"
)

// sendDocument renders doc in format and writes it as an attachment.
func sendDocument(c *gin.Context, m *metrics.Metrics, resource, format string, doc export.Document) {
	var (
		body        []byte
		contentType string
	)
	switch format {
	case formatPDF:
		out, err := export.RenderPDF(doc)
		if err != nil {
			writeError(c, err, "Error generando PDF")
			return
		}
		body, contentType = out, "application/pdf"
	default:
		body, contentType = export.RenderText(doc), "text/plain; charset=utf-8"
	}

	if m != nil {
		m.ExportGenerated(resource, format)
	}
	response.Attachment(c, contentType, doc.Filename(format), body)
}
