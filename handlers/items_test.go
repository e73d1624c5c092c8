package handlers

import (
	"net/http"
	"testing"

	"bqquote/models"
	"bqquote/services"
)

func TestHandleItemList_Filters(t *testing.T) {
	d := newTestDeps(t)
	d.Store.AddItem(wallbox())
	d.Store.AddItem(cable())

	tests := []struct {
		name   string
		target string
		want   []string
	}{
		{"all", "/api/bq/items", []string{"7kW Wallbox", "6mm Cable"}},
		{"search", "/api/bq/items?q=wallbox", []string{"7kW Wallbox"}},
		{"category", "/api/bq/items?category=Cables", []string{"6mm Cable"}},
		{"no match", "/api/bq/items?q=inverter", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, HandleItemList(d), jsonRequest(t, http.MethodGet, tt.target, nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			body := decodeBody[struct {
				Items []models.MasterItem `json:"items"`
				Count int                 `json:"count"`
			}](t, rec)
			if body.Count != len(tt.want) {
				t.Fatalf("count = %d, want %d", body.Count, len(tt.want))
			}
			for i, name := range tt.want {
				if body.Items[i].ItemName != name {
					t.Errorf("items[%d] = %q, want %q", i, body.Items[i].ItemName, name)
				}
			}
		})
	}
}

func TestHandleItemCategoriesAndOptions(t *testing.T) {
	d := newTestDeps(t)
	d.Store.AddItem(wallbox())
	d.Store.AddItem(cable())

	rec := serve(t, HandleItemCategories(d), jsonRequest(t, http.MethodGet, "/api/bq/items/categories", nil))
	cats := decodeBody[map[string][]string](t, rec)["categories"]
	if len(cats) != 2 {
		t.Fatalf("categories = %v, want 2", cats)
	}

	rec = serve(t, HandleItemOptions(d), jsonRequest(t, http.MethodGet, "/api/bq/items/options", nil))
	opts := decodeBody[struct {
		UOM        []string                 `json:"uom"`
		Strategies services.StrategyOptions `json:"strategies"`
	}](t, rec)
	if len(opts.UOM) != len(services.UOMOptions) {
		t.Errorf("uom options = %d, want %d", len(opts.UOM), len(services.UOMOptions))
	}
	if len(opts.Strategies.Selling) == 0 {
		t.Error("expected selling strategies")
	}
}

func TestHandleItemCreate(t *testing.T) {
	d := newTestDeps(t)

	req := jsonRequest(t, http.MethodPost, "/api/bq/items", map[string]any{
		"itemName":              "7kW Wallbox",
		"category":              "Chargers",
		"fobCost":               99000,
		"forexRate":             1,
		"taxMultiplier":         1.08,
		"operationalAdjustment": 1,
		"cost":                  map[string]any{"strategy": string(services.CostRoundCents)},
		"sellingPrice":          map[string]any{"strategy": string(services.SellingFactorID(0.7, 1))},
		"retailSellingPrice":    map[string]any{"strategy": string(services.CopySelling)},
	})
	rec := serve(t, HandleItemCreate(d), req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	item := decodeBody[models.MasterItem](t, rec)
	if item.ID == "" {
		t.Fatal("expected an id")
	}
	if item.Cost.Value != 106920 {
		t.Errorf("cost = %v, want 106920", item.Cost.Value)
	}
	if item.Price != 152743 {
		t.Errorf("price = %v, want 152743", item.Price)
	}
	if rec.Header().Get("HX-Trigger") == "" {
		t.Error("expected a success toast")
	}
}

func TestHandleItemCreate_Rejects(t *testing.T) {
	d := newTestDeps(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"category": "Chargers"}},
		{"blank name", map[string]any{"itemName": "   "}},
		{"unknown field", map[string]any{"itemName": "X", "colour": "red"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, HandleItemCreate(d), jsonRequest(t, http.MethodPost, "/api/bq/items", tt.body))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
	if n := len(d.Store.ActiveItems()); n != 0 {
		t.Errorf("catalog has %d items, want 0", n)
	}
}

func TestHandleItemUpdate(t *testing.T) {
	d := newTestDeps(t)
	item := d.Store.AddItem(cable())

	req := jsonRequest(t, http.MethodPatch, "/api/bq/items/"+item.ID, map[string]any{
		"cost": map[string]any{"strategy": "MANUAL", "manualOverride": 300},
	})
	req.SetPathValue("id", item.ID)
	rec := serve(t, HandleItemUpdate(d), req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	updated := decodeBody[models.MasterItem](t, rec)
	if updated.Price != 600 {
		t.Errorf("price = %v, want 600", updated.Price)
	}
}

func TestHandleItemUpdate_Errors(t *testing.T) {
	d := newTestDeps(t)
	item := d.Store.AddItem(cable())

	tests := []struct {
		name string
		id   string
		body map[string]any
		want int
	}{
		{"unknown item", "missing", map[string]any{"itemName": "X"}, http.StatusNotFound},
		{"unknown field", item.ID, map[string]any{"colour": "red"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := jsonRequest(t, http.MethodPatch, "/api/bq/items/"+tt.id, tt.body)
			req.SetPathValue("id", tt.id)
			rec := serve(t, HandleItemUpdate(d), req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHandleItemDeleteAndView(t *testing.T) {
	d := newTestDeps(t)
	item := d.Store.AddItem(wallbox())

	view := jsonRequest(t, http.MethodGet, "/api/bq/items/"+item.ID, nil)
	view.SetPathValue("id", item.ID)
	if rec := serve(t, HandleItemView(d), view); rec.Code != http.StatusOK {
		t.Fatalf("view status = %d, want 200", rec.Code)
	}

	del := jsonRequest(t, http.MethodDelete, "/api/bq/items/"+item.ID, nil)
	del.SetPathValue("id", item.ID)
	if rec := serve(t, HandleItemDelete(d), del); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}

	again := jsonRequest(t, http.MethodDelete, "/api/bq/items/"+item.ID, nil)
	again.SetPathValue("id", item.ID)
	if rec := serve(t, HandleItemDelete(d), again); rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}

	view = jsonRequest(t, http.MethodGet, "/api/bq/items/"+item.ID, nil)
	view.SetPathValue("id", item.ID)
	if rec := serve(t, HandleItemView(d), view); rec.Code != http.StatusNotFound {
		t.Errorf("view after delete status = %d, want 404", rec.Code)
	}
}
