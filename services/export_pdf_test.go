package services

import (
	"bytes"
	"testing"
)

func TestGenerateQuotePDF(t *testing.T) {
	out, err := GenerateQuotePDF(sampleExportData())
	if err != nil {
		t.Fatalf("GenerateQuotePDF: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Errorf("output is not a PDF, starts with %q", out[:min(8, len(out))])
	}
}

func TestGenerateQuotePDF_EmptyQuote(t *testing.T) {
	out, err := GenerateQuotePDF(ExportData{Title: "Empty", CurrencySymbol: "₱"})
	if err != nil {
		t.Fatalf("GenerateQuotePDF: %v", err)
	}
	if len(out) == 0 {
		t.Error("expected a document even without rows")
	}
}
