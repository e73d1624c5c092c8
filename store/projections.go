package store

import (
	"bqquote/models"
	"bqquote/services"
)

func totalsInput(lines []models.BQItem) []services.LineForTotals {
	out := make([]services.LineForTotals, len(lines))
	for i, l := range lines {
		out[i] = services.LineForTotals{
			Qty:      l.Qty,
			Price:    l.Price,
			UnitCost: l.Cost.Value,
			Optional: l.IsOptional,
		}
	}
	return out
}

func quoteLines(lines []models.BQItem) []services.QuoteLine {
	out := make([]services.QuoteLine, len(lines))
	for i, l := range lines {
		desc := l.QuotationDescription
		if desc == "" {
			desc = l.Description
		}
		out[i] = services.QuoteLine{
			SortOrder:   l.SortOrder,
			Category:    l.Category,
			ItemName:    l.ItemName,
			Description: desc,
			UOM:         l.UOM,
			Qty:         l.Qty,
			Price:       l.Price,
			Total:       l.Total,
			Optional:    l.IsOptional,
		}
	}
	return out
}

// Totals computes subtotal, discount and grand total of a version using the
// project's discount.
func (s *Store) Totals(projectID, versionID string) (services.QuoteTotals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, _, err := s.versionLocked(projectID, versionID)
	if err != nil {
		return services.QuoteTotals{}, err
	}
	return services.CalcQuoteTotals(totalsInput(s.sortedLinesLocked(versionID)), p.DiscountPercent), nil
}

// RenderRows returns the print-ordered rows of a version.
func (s *Store) RenderRows(projectID, versionID string) ([]services.RenderRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, _, err := s.versionLocked(projectID, versionID); err != nil {
		return nil, err
	}
	return services.BuildRenderRows(quoteLines(s.sortedLinesLocked(versionID))), nil
}

// ExportData gathers everything the Excel and PDF exporters need for one
// version.
func (s *Store) ExportData(projectID, versionID, currencySymbol string) (services.ExportData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, v, err := s.versionLocked(projectID, versionID)
	if err != nil {
		return services.ExportData{}, err
	}
	lines := s.sortedLinesLocked(versionID)
	return services.ExportData{
		Title:           p.Name,
		Client:          p.Client,
		Reference:       p.Reference,
		VersionName:     v.Name,
		QuoteDate:       p.QuoteDate,
		ValidUntil:      p.ValidUntil(),
		CurrencySymbol:  currencySymbol,
		DiscountPercent: p.DiscountPercent,
		Rows:            services.BuildRenderRows(quoteLines(lines)),
		Totals:          services.CalcQuoteTotals(totalsInput(lines), p.DiscountPercent),
	}, nil
}
