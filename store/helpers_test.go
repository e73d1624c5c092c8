package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"bqquote/models"
	"bqquote/services"
)

var testNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

type fakeRemote struct {
	mu      sync.Mutex
	seq     int
	records map[string]map[string]map[string]any
	fail    map[string]error // collection → error returned by every call
	calls   []string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		records: make(map[string]map[string]map[string]any),
		fail:    make(map[string]error),
	}
}

func (f *fakeRemote) Insert(_ context.Context, collection string, record map[string]any) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "insert "+collection)
	if err := f.fail[collection]; err != nil {
		return "", err
	}
	f.seq++
	id := fmt.Sprintf("r%d", f.seq)
	rec := make(map[string]any, len(record)+1)
	for k, v := range record {
		rec[k] = v
	}
	rec["id"] = id
	if f.records[collection] == nil {
		f.records[collection] = make(map[string]map[string]any)
	}
	f.records[collection][id] = rec
	return id, nil
}

func (f *fakeRemote) Update(_ context.Context, collection, id string, patch map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "update "+collection)
	if err := f.fail[collection]; err != nil {
		return err
	}
	rec, ok := f.records[collection][id]
	if !ok {
		return errors.New("no such record " + id)
	}
	for k, v := range patch {
		rec[k] = v
	}
	return nil
}

func (f *fakeRemote) SoftDelete(_ context.Context, collection, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "delete "+collection)
	if err := f.fail[collection]; err != nil {
		return err
	}
	rec, ok := f.records[collection][id]
	if !ok {
		return errors.New("no such record " + id)
	}
	rec["deleted"] = true
	return nil
}

func (f *fakeRemote) BulkFetch(_ context.Context, collection, _ string) ([]map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail[collection]; err != nil {
		return nil, err
	}
	var out []map[string]any
	for _, rec := range f.records[collection] {
		if deleted, _ := rec["deleted"].(bool); deleted {
			continue
		}
		cp := make(map[string]any, len(rec))
		for k, v := range rec {
			cp[k] = v
		}
		out = append(out, cp)
	}
	return out, nil
}

func (f *fakeRemote) record(collection, id string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records[collection][id]
}

func (f *fakeRemote) count(collection string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records[collection])
}

func (f *fakeRemote) seed(collection, id string, rec map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.records[collection] == nil {
		f.records[collection] = make(map[string]map[string]any)
	}
	rec["id"] = id
	f.records[collection][id] = rec
}

// newTestStore builds a store with deterministic ids and clock. remote may
// be nil.
func newTestStore(t *testing.T, remote Remote) (*Store, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	seq := 0
	s := New(Options{
		Logger: zerolog.New(buf).Level(zerolog.DebugLevel),
		Remote: remote,
		Now:    func() time.Time { return testNow },
		NewID: func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		},
	})
	return s, buf
}

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

// projectWithLines creates a project over the given catalog and syncs qty
// for every item into version-1.
func projectWithLines(t *testing.T, s *Store, qty float64) (models.Project, []models.MasterItem) {
	t.Helper()
	items := []models.MasterItem{s.AddItem(wallbox()), s.AddItem(cable())}
	p, err := s.CreateProject(models.ProjectMeta{Name: "Depot", Client: "Acme", QuoteDate: "2026-10-19", ValidityDays: 30})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	for _, m := range items {
		if _, err := s.SyncCatalogQty(p.ID, p.ActiveVersionID, m.ID, qty); err != nil {
			t.Fatalf("sync %s: %v", m.ID, err)
		}
	}
	return p, items
}
