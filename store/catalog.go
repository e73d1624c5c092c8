package store

import (
	"fmt"
	"sort"
	"strings"

	"bqquote/models"
	"bqquote/services"
)

// AddItem stores a new catalog item with freshly resolved prices and
// returns it with its assigned id.
func (s *Store) AddItem(item models.MasterItem) models.MasterItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := item.Clone()
	m.ID = s.newID()
	m.RemoteID = ""
	m.Deleted = false
	m.Category = strings.TrimSpace(m.Category)
	if m.Category == "" {
		m.Category = services.UncategorizedLabel
	}
	s.warnUnknown(m.ID, m.Recalculate())

	s.items[m.ID] = &m
	s.itemOrder = append(s.itemOrder, m.ID)
	s.enqueue(OpInsert, CollectionMasterItems, m.ID, "", models.MasterRecord(m))

	s.log.Debug().Str("item_id", m.ID).Str("item_name", m.ItemName).Msg("catalog item added")
	return m.Clone()
}

// UpdateItem merges patch into the item. Prices are re-resolved when the
// patch touches a pricing input.
func (s *Store) UpdateItem(id string, patch models.Patch) (models.MasterItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.updateItemLocked(id, patch)
	if err != nil {
		return models.MasterItem{}, err
	}
	return m.Clone(), nil
}

func (s *Store) updateItemLocked(id string, patch models.Patch) (*models.MasterItem, error) {
	current, ok := s.items[id]
	if !ok || current.Deleted {
		return nil, fmt.Errorf("update item %s: %w", id, ErrItemNotFound)
	}

	next := current.Clone()
	if err := models.ApplyToMaster(&next, patch); err != nil {
		return nil, fmt.Errorf("update item %s: %w", id, err)
	}
	if next.Category == "" {
		next.Category = services.UncategorizedLabel
	}
	if patch.TouchesPricing() {
		s.warnUnknown(id, next.Recalculate())
	}

	*current = next
	s.enqueue(OpUpdate, CollectionMasterItems, id, current.RemoteID, models.MasterRecord(next))
	return current, nil
}

// DeleteItem soft-deletes a catalog item. Version snapshots and BQ lines
// that reference it are untouched.
func (s *Store) DeleteItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.items[id]
	if !ok || m.Deleted {
		return fmt.Errorf("delete item %s: %w", id, ErrItemNotFound)
	}
	m.Deleted = true
	s.enqueue(OpSoftDelete, CollectionMasterItems, id, m.RemoteID, nil)
	return nil
}

// Item returns an active catalog item.
func (s *Store) Item(id string) (models.MasterItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.items[id]
	if !ok || m.Deleted {
		return models.MasterItem{}, fmt.Errorf("item %s: %w", id, ErrItemNotFound)
	}
	return m.Clone(), nil
}

func (s *Store) activeItemsLocked() []models.MasterItem {
	out := make([]models.MasterItem, 0, len(s.itemOrder))
	for _, id := range s.itemOrder {
		if m := s.items[id]; !m.Deleted {
			out = append(out, m.Clone())
		}
	}
	return out
}

// ActiveItems lists non-deleted catalog items in insertion order.
func (s *Store) ActiveItems() []models.MasterItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeItemsLocked()
}

// FilteredCatalog returns active items whose text fields contain query
// (case-insensitive). A non-empty category must match exactly, ignoring
// case.
func (s *Store) FilteredCatalog(query, category string) []models.MasterItem {
	q := strings.ToLower(strings.TrimSpace(query))
	category = strings.TrimSpace(category)

	var out []models.MasterItem
	for _, m := range s.ActiveItems() {
		if category != "" && !strings.EqualFold(m.Category, category) {
			continue
		}
		if q != "" && !matchesQuery(m, q) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func matchesQuery(m models.MasterItem, q string) bool {
	for _, field := range []string{m.ItemName, m.Description, m.Category, m.Brand, m.SKU} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Categories lists the distinct categories of active items, sorted.
func (s *Store) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range s.ActiveItems() {
		if !seen[m.Category] {
			seen[m.Category] = true
			out = append(out, m.Category)
		}
	}
	sort.Strings(out)
	return out
}
