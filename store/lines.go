package store

import (
	"fmt"
	"strings"

	"bqquote/models"
	"bqquote/services"
)

// SyncAction is the outcome of reconciling a catalog quantity into a
// version's lines.
type SyncAction string

const (
	SyncNone   SyncAction = "none"
	SyncInsert SyncAction = "insert"
	SyncUpdate SyncAction = "update"
	SyncDelete SyncAction = "delete"
)

// DecideSync maps an existing line (nil when absent) and a requested
// quantity to the action SyncCatalogQty takes.
func DecideSync(existing *models.BQItem, qty float64) SyncAction {
	switch {
	case existing == nil && qty <= 0:
		return SyncNone
	case existing == nil:
		return SyncInsert
	case qty <= 0:
		return SyncDelete
	default:
		return SyncUpdate
	}
}

// versionLinesLocked returns the live pointers of a version's active lines
// in insertion order.
func (s *Store) versionLinesLocked(versionID string) []*models.BQItem {
	var out []*models.BQItem
	for _, id := range s.lineOrder {
		if l := s.lines[id]; l.VersionID == versionID && !l.Deleted {
			out = append(out, l)
		}
	}
	return out
}

func (s *Store) nextSortOrderLocked(versionID string) int {
	highest := 0
	for _, l := range s.versionLinesLocked(versionID) {
		if l.SortOrder > highest {
			highest = l.SortOrder
		}
	}
	return highest + 1
}

func (s *Store) insertLineLocked(l *models.BQItem) {
	l.RecalcTotal()
	s.lines[l.ID] = l
	s.lineOrder = append(s.lineOrder, l.ID)
	s.enqueue(OpInsert, CollectionBQItems, l.ID, "", models.LineRecord(*l))
}

func (s *Store) deleteLineLocked(l *models.BQItem) {
	l.Deleted = true
	s.enqueue(OpSoftDelete, CollectionBQItems, l.ID, l.RemoteID, nil)
}

func (s *Store) lineLocked(id string) (*models.BQItem, error) {
	l, ok := s.lines[id]
	if !ok || l.Deleted {
		return nil, fmt.Errorf("line %s: %w", id, ErrLineNotFound)
	}
	return l, nil
}

// Lines returns a version's active lines ordered by SortOrder.
func (s *Store) Lines(projectID, versionID string) ([]models.BQItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, _, err := s.versionLocked(projectID, versionID); err != nil {
		return nil, err
	}
	return s.sortedLinesLocked(versionID), nil
}

func (s *Store) sortedLinesLocked(versionID string) []models.BQItem {
	live := s.versionLinesLocked(versionID)
	out := make([]models.BQItem, len(live))
	for i, l := range live {
		out[i] = l.Clone()
	}
	sortLines(out)
	return out
}

// Line returns an active line.
func (s *Store) Line(id string) (models.BQItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.lineLocked(id)
	if err != nil {
		return models.BQItem{}, err
	}
	return l.Clone(), nil
}

// AddCustomLine adds a line that is not linked to the catalog.
func (s *Store) AddCustomLine(projectID, versionID string, line models.BQItem) (models.BQItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, _, err := s.versionLocked(projectID, versionID); err != nil {
		return models.BQItem{}, err
	}

	l := line.Clone()
	l.ID = s.newID()
	l.RemoteID = ""
	l.ProjectID = projectID
	l.VersionID = versionID
	l.MasterID = ""
	l.Deleted = false
	l.Category = strings.TrimSpace(l.Category)
	if l.Category == "" {
		l.Category = services.UncategorizedLabel
	}
	for _, p := range []*services.PriceField{&l.Cost, &l.SellingPrice, &l.RetailSellingPrice} {
		if p.Strategy == "" {
			*p = services.ManualPrice(p.Value)
		}
	}
	if l.SortOrder == 0 {
		l.SortOrder = s.nextSortOrderLocked(versionID)
	}
	s.insertLineLocked(&l)
	return l.Clone(), nil
}

// RemoveLine soft-deletes a line.
func (s *Store) RemoveLine(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.lineLocked(id)
	if err != nil {
		return err
	}
	s.deleteLineLocked(l)
	return nil
}

// UpdateLineField sets one field of a line and recomputes its total.
// Setting qty to zero or below deletes the line; the returned copy then has
// Deleted set.
func (s *Store) UpdateLineField(id, field string, value any) (models.BQItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.lineLocked(id)
	if err != nil {
		return models.BQItem{}, err
	}

	next := l.Clone()
	if err := models.ApplyToLine(&next, models.Patch{field: value}); err != nil {
		return models.BQItem{}, fmt.Errorf("update line %s: %w", id, err)
	}
	if field == models.FieldQty && next.Qty <= 0 {
		s.deleteLineLocked(l)
		return l.Clone(), nil
	}

	*l = next
	s.enqueue(OpUpdate, CollectionBQItems, l.ID, l.RemoteID, models.LineRecord(*l))
	return l.Clone(), nil
}

// SyncCatalogQty reconciles a requested catalog quantity into the version's
// line for masterID. An existing line keeps its price; a new line is cloned
// from the version snapshot entry, or from the live catalog when the item
// was added after the snapshot was taken, in which case the item joins the
// snapshot so later resyncs reach the line. An unknown master is a no-op.
func (s *Store) SyncCatalogQty(projectID, versionID, masterID string, qty float64) (SyncAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, v, err := s.versionLocked(projectID, versionID)
	if err != nil {
		return SyncNone, err
	}

	var existing *models.BQItem
	for _, l := range s.versionLinesLocked(versionID) {
		if l.MasterID == masterID {
			existing = l
			break
		}
	}

	action := DecideSync(existing, qty)
	switch action {
	case SyncInsert:
		master, ok := v.SnapshotItem(masterID)
		if !ok {
			live, found := s.items[masterID]
			if !found || live.Deleted {
				s.log.Debug().Str("master_id", masterID).Msg("sync skipped: master not found")
				return SyncNone, nil
			}
			master = live.Clone()
			v.MasterSnapshot = append(v.MasterSnapshot, live.Clone())
			s.enqueueSnapshotUpdate(v)
		}
		line := models.NewLineFromMaster(master, projectID, versionID, qty)
		line.ID = s.newID()
		line.SortOrder = s.nextSortOrderLocked(versionID)
		s.insertLineLocked(&line)

	case SyncUpdate:
		existing.Qty = qty
		existing.RecalcTotal()
		s.enqueue(OpUpdate, CollectionBQItems, existing.ID, existing.RemoteID, models.LineRecord(*existing))

	case SyncDelete:
		s.deleteLineLocked(existing)
	}
	return action, nil
}
