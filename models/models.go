// Package models defines the catalog, project and BQ line records shared by
// the store, the PocketBase collections and the HTTP handlers.
package models

import (
	"time"

	"bqquote/services"
)

// MasterItem is one catalog entry. Price always mirrors
// RetailSellingPrice.Value once the item has been recalculated.
type MasterItem struct {
	ID       string `json:"id"`
	RemoteID string `json:"remoteId,omitempty"`

	Category             string `json:"category"`
	ItemName             string `json:"itemName"`
	Description          string `json:"description"`
	QuotationDescription string `json:"quotationDescription,omitempty"`
	UOM                  string `json:"uom"`
	Brand                string `json:"brand,omitempty"`
	SKU                  string `json:"sku,omitempty"`

	FobCost               float64 `json:"fobCost"`
	ForexRate             float64 `json:"forexRate"`
	TaxMultiplier         float64 `json:"taxMultiplier"`
	OperationalAdjustment float64 `json:"operationalAdjustment"`

	Cost               services.PriceField `json:"cost"`
	SellingPrice       services.PriceField `json:"sellingPrice"`
	RetailSellingPrice services.PriceField `json:"retailSellingPrice"`
	Price              float64             `json:"price"`

	Deleted bool `json:"deleted,omitempty"`
}

// Inputs returns the pricing inputs of the item.
func (m MasterItem) Inputs() services.ItemInputs {
	return services.ItemInputs{
		Fob:                m.FobCost,
		Forex:              m.ForexRate,
		TaxMultiplier:      m.TaxMultiplier,
		OpAdjustment:       m.OperationalAdjustment,
		Cost:               m.Cost,
		SellingPrice:       m.SellingPrice,
		RetailSellingPrice: m.RetailSellingPrice,
	}
}

// Recalculate re-runs the pricing chain and stores the derived fields.
// It returns the strategy ids that had no formula.
func (m *MasterItem) Recalculate() []services.StrategyID {
	r := services.Resolve(m.Inputs())
	m.Cost = r.Cost
	m.SellingPrice = r.SellingPrice
	m.RetailSellingPrice = r.RetailSellingPrice
	m.Price = r.Price
	return r.UnknownStrategies
}

// Active reports whether the item is visible in the catalog.
func (m MasterItem) Active() bool { return !m.Deleted }

// Clone returns a copy that shares no override pointers with m.
func (m MasterItem) Clone() MasterItem {
	out := m
	out.Cost = m.Cost.Clone()
	out.SellingPrice = m.SellingPrice.Clone()
	out.RetailSellingPrice = m.RetailSellingPrice.Clone()
	return out
}

// BQItem is one line of a version's bill of quantities. Total equals
// Price*Qty after every mutation.
type BQItem struct {
	ID       string `json:"id"`
	RemoteID string `json:"remoteId,omitempty"`

	ProjectID string `json:"projectId"`
	VersionID string `json:"versionId"`
	MasterID  string `json:"masterId,omitempty"`

	Category             string `json:"category"`
	ItemName             string `json:"itemName"`
	Description          string `json:"description"`
	QuotationDescription string `json:"quotationDescription,omitempty"`
	UOM                  string `json:"uom"`

	Price float64 `json:"price"`
	Qty   float64 `json:"qty"`
	Total float64 `json:"total"`

	FobCost               float64             `json:"fobCost"`
	ForexRate             float64             `json:"forexRate"`
	TaxMultiplier         float64             `json:"taxMultiplier"`
	OperationalAdjustment float64             `json:"operationalAdjustment"`
	Cost                  services.PriceField `json:"cost"`
	SellingPrice          services.PriceField `json:"sellingPrice"`
	RetailSellingPrice    services.PriceField `json:"retailSellingPrice"`

	IsOptional bool `json:"isOptional"`
	SortOrder  int  `json:"sortOrder"`

	Deleted bool `json:"deleted,omitempty"`
}

// RecalcTotal restores Total == Price*Qty.
func (b *BQItem) RecalcTotal() {
	b.Total = services.CalcLineTotal(b.Price, b.Qty)
}

// Clone returns a copy that shares no override pointers with b.
func (b BQItem) Clone() BQItem {
	out := b
	out.Cost = b.Cost.Clone()
	out.SellingPrice = b.SellingPrice.Clone()
	out.RetailSellingPrice = b.RetailSellingPrice.Clone()
	return out
}

// CopyMasterPricing refreshes the line's cost drivers, price fields and
// price from a snapshot entry. Text edited on the line is kept.
func (b *BQItem) CopyMasterPricing(m MasterItem) {
	b.FobCost = m.FobCost
	b.ForexRate = m.ForexRate
	b.TaxMultiplier = m.TaxMultiplier
	b.OperationalAdjustment = m.OperationalAdjustment
	b.Cost = m.Cost.Clone()
	b.SellingPrice = m.SellingPrice.Clone()
	b.RetailSellingPrice = m.RetailSellingPrice.Clone()
	b.Price = m.Price
	b.RecalcTotal()
}

// CopyMasterFields overwrites the line's descriptive and pricing fields with
// the catalog entry's. Qty and line identity are left alone.
func (b *BQItem) CopyMasterFields(m MasterItem) {
	b.MasterID = m.ID
	b.Category = m.Category
	b.ItemName = m.ItemName
	b.Description = m.Description
	b.QuotationDescription = m.QuotationDescription
	b.UOM = m.UOM
	b.CopyMasterPricing(m)
}

// NewLineFromMaster builds an unsaved line cloned from a catalog entry.
func NewLineFromMaster(m MasterItem, projectID, versionID string, qty float64) BQItem {
	line := BQItem{ProjectID: projectID, VersionID: versionID, Qty: qty}
	line.CopyMasterFields(m)
	return line
}

// Project is a client engagement holding one or more versions.
type Project struct {
	ID       string `json:"id"`
	RemoteID string `json:"remoteId,omitempty"`

	ProjectMeta

	ActiveVersionID string    `json:"activeVersionId"`
	Versions        []string  `json:"versions"`
	Deleted         bool      `json:"deleted,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ProjectVersion is a named quotation whose MasterSnapshot is an
// independent copy of the catalog.
type ProjectVersion struct {
	ID       string `json:"id"`
	RemoteID string `json:"remoteId,omitempty"`

	ProjectID      string       `json:"projectId"`
	Name           string       `json:"name"`
	CreatedAt      time.Time    `json:"createdAt"`
	MasterSnapshot []MasterItem `json:"masterSnapshot"`
	Deleted        bool         `json:"deleted,omitempty"`
}

// SnapshotItem returns the snapshot entry cloned from masterID.
func (v ProjectVersion) SnapshotItem(masterID string) (MasterItem, bool) {
	for _, m := range v.MasterSnapshot {
		if m.ID == masterID {
			return m, true
		}
	}
	return MasterItem{}, false
}
