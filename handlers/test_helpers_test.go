package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/rs/zerolog"

	"bqquote/models"
	"bqquote/services"
	"bqquote/store"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.Request = req
	e.Response = rec
	return e
}

// newTestDeps returns handler deps over a store without a remote. Ids are
// id-1, id-2, ... in creation order.
func newTestDeps(t *testing.T) Deps {
	t.Helper()
	seq := 0
	s := store.New(store.Options{
		Logger: zerolog.Nop(),
		Now:    func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) },
		NewID: func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		},
	})
	return Deps{Store: s, Log: zerolog.Nop(), CurrencySymbol: "₱"}
}

// jsonRequest builds a request with body encoded as JSON. A nil body sends
// no content.
func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// serve runs handler against req and returns the recorder.
func serve(t *testing.T, handler func(*core.RequestEvent) error, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

// wallbox resolves to 106920.00 cost and 152743 price.
func wallbox() models.MasterItem {
	return models.MasterItem{
		Category:              "Chargers",
		ItemName:              "7kW Wallbox",
		Description:           "Type 2 socket",
		UOM:                   "pc",
		FobCost:               99000,
		ForexRate:             1,
		TaxMultiplier:         1.08,
		OperationalAdjustment: 1,
		Cost:                  services.FormulaPrice(services.CostRoundCents),
		SellingPrice:          services.FormulaPrice(services.SellingFactorID(0.7, 1)),
		RetailSellingPrice:    services.FormulaPrice(services.CopySelling),
	}
}

// cable has a manual cost of 200 and resolves to a price of 400.
func cable() models.MasterItem {
	return models.MasterItem{
		Category:           "Cables",
		ItemName:           "6mm Cable",
		UOM:                "m",
		ForexRate:          1,
		TaxMultiplier:      1,
		Cost:               services.ManualPrice(200),
		SellingPrice:       services.FormulaPrice(services.SellingFactorID(0.5, 1)),
		RetailSellingPrice: services.FormulaPrice(services.CopySelling),
	}
}

// seedProject adds both fixtures to the catalog, creates a project and
// syncs qty of each item into its first version.
func seedProject(t *testing.T, d Deps, qty float64) (models.Project, []models.MasterItem) {
	t.Helper()
	items := []models.MasterItem{d.Store.AddItem(wallbox()), d.Store.AddItem(cable())}
	p, err := d.Store.CreateProject(models.ProjectMeta{
		Name:         "Depot",
		Client:       "Acme",
		QuoteDate:    "2026-10-19",
		ValidityDays: 30,
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	for _, m := range items {
		if _, err := d.Store.SyncCatalogQty(p.ID, p.ActiveVersionID, m.ID, qty); err != nil {
			t.Fatalf("sync %s: %v", m.ID, err)
		}
	}
	return p, items
}
