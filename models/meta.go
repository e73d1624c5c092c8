package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// QuoteDateLayout is the wire format of ProjectMeta.QuoteDate.
const QuoteDateLayout = "2006-01-02"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validator exposes the shared validator so request bodies are checked
// with the same rules as ProjectMeta.
func Validator() *validator.Validate { return validate }

// ProjectMeta is the user-editable header of a project.
type ProjectMeta struct {
	Name            string  `json:"name" validate:"required,max=200"`
	Client          string  `json:"client" validate:"max=200"`
	Reference       string  `json:"reference" validate:"max=100"`
	QuoteDate       string  `json:"quoteDate" validate:"omitempty,datetime=2006-01-02"`
	ValidityDays    int     `json:"validityDays" validate:"gte=0,lte=365"`
	DiscountPercent float64 `json:"discountPercent" validate:"gte=0,lte=100"`
}

// Normalize trims text fields in place.
func (m *ProjectMeta) Normalize() {
	m.Name = strings.TrimSpace(m.Name)
	m.Client = strings.TrimSpace(m.Client)
	m.Reference = strings.TrimSpace(m.Reference)
	m.QuoteDate = strings.TrimSpace(m.QuoteDate)
}

// Validate checks the metadata against its struct tags.
func (m ProjectMeta) Validate() error {
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("invalid project metadata: %w", err)
	}
	return nil
}

// ValidUntil returns QuoteDate plus ValidityDays, or "" when either is unset.
func (m ProjectMeta) ValidUntil() string {
	if m.QuoteDate == "" || m.ValidityDays <= 0 {
		return ""
	}
	d, err := time.Parse(QuoteDateLayout, m.QuoteDate)
	if err != nil {
		return ""
	}
	return d.AddDate(0, 0, m.ValidityDays).Format(QuoteDateLayout)
}
