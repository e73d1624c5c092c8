package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"bqquote/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.ReplaceAll(s, `"`, "")
	return s
}

// sendFile writes body as an attachment download.
func sendFile(e *core.RequestEvent, contentType, filename string, body []byte) error {
	e.Response.Header().Set("Content-Type", contentType)
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	e.Response.WriteHeader(http.StatusOK)
	_, err := e.Response.Write(body)
	return err
}

func exportFilename(data services.ExportData, ext string) string {
	name := sanitizeFilename(data.Title)
	if data.VersionName != "" {
		name += "_" + sanitizeFilename(data.VersionName)
	}
	date := data.QuoteDate
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	return fmt.Sprintf("Quotation_%s_%s.%s", name, date, ext)
}

// HandleQuoteExportExcel downloads a version as an xlsx quotation.
// Route: GET /api/bq/projects/{projectId}/versions/{versionId}/export/excel
func HandleQuoteExportExcel(d Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := d.Store.ExportData(e.Request.PathValue("projectId"), e.Request.PathValue("versionId"), d.CurrencySymbol)
		if err != nil {
			return respondError(e, d.Log, err)
		}

		xlsxBytes, err := services.GenerateQuoteExcel(data)
		if err != nil {
			return respondError(e, d.Log, fmt.Errorf("export excel: %w", err))
		}
		return sendFile(e, xlsxContentType, exportFilename(data, "xlsx"), xlsxBytes)
	}
}

// HandleQuoteExportPDF downloads a version as a PDF quotation.
// Route: GET /api/bq/projects/{projectId}/versions/{versionId}/export/pdf
func HandleQuoteExportPDF(d Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := d.Store.ExportData(e.Request.PathValue("projectId"), e.Request.PathValue("versionId"), d.CurrencySymbol)
		if err != nil {
			return respondError(e, d.Log, err)
		}

		pdfBytes, err := services.GenerateQuotePDF(data)
		if err != nil {
			return respondError(e, d.Log, fmt.Errorf("export pdf: %w", err))
		}
		return sendFile(e, "application/pdf", exportFilename(data, "pdf"), pdfBytes)
	}
}
