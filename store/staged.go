package store

import (
	"fmt"
	"sort"
	"sync"

	"bqquote/models"
)

// EditTarget is the backing store of a StagedEdits buffer.
type EditTarget[T any] interface {
	// Lookup returns the committed entity.
	Lookup(id string) (T, error)
	// Accepts reports whether field may be staged.
	Accepts(field string) bool
	// Apply writes a patch onto a copy of an entity.
	Apply(entity *T, patch models.Patch) error
	// Derive returns the fields that follow from pending, to be folded
	// into the same pending record. nil means nothing to fold.
	Derive(committed T, pending models.Patch) (models.Patch, error)
	// ApplyEdits writes every delta in one pass and returns how many were
	// applied. Ids that no longer exist are skipped.
	ApplyEdits(deltas map[string]models.Patch) int
}

// StagedEdits buffers field-level edits per entity id until Commit or
// Discard. Each pending record is a complete delta: derived fields are
// recomputed at Stage time.
type StagedEdits[T any] struct {
	mu      sync.Mutex
	target  EditTarget[T]
	pending map[string]models.Patch
}

func NewStagedEdits[T any](target EditTarget[T]) *StagedEdits[T] {
	return &StagedEdits[T]{target: target, pending: make(map[string]models.Patch)}
}

// Stage merges field=value into the pending record for id.
func (e *StagedEdits[T]) Stage(id, field string, value any) error {
	if !e.target.Accepts(field) {
		return fmt.Errorf("stage %s.%s: %w", id, field, ErrInvalidField)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	committed, err := e.target.Lookup(id)
	if err != nil {
		return err
	}

	merged := e.pending[id].Merge(models.Patch{field: value})

	// Reject values the target cannot take before they reach the buffer.
	probe := committed
	if err := e.target.Apply(&probe, merged); err != nil {
		return fmt.Errorf("stage %s.%s: %w", id, field, err)
	}

	derived, err := e.target.Derive(committed, merged)
	if err != nil {
		return fmt.Errorf("stage %s.%s: %w", id, field, err)
	}
	for k, v := range derived {
		merged[k] = v
	}
	e.pending[id] = merged
	return nil
}

// Commit applies every pending delta and clears the buffer. It returns the
// number of entities updated.
func (e *StagedEdits[T]) Commit() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.pending) == 0 {
		return 0
	}
	deltas := e.pending
	e.pending = make(map[string]models.Patch)
	return e.target.ApplyEdits(deltas)
}

// Discard drops every pending edit.
func (e *StagedEdits[T]) Discard() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = make(map[string]models.Patch)
}

func (e *StagedEdits[T]) HasPendingChanges() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending) > 0
}

// Pending returns a copy of the pending record for id.
func (e *StagedEdits[T]) Pending(id string) (models.Patch, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.pending[id]
	if !ok {
		return nil, false
	}
	return p.Merge(nil), true
}

// PendingIDs lists the ids with pending edits, sorted.
func (e *StagedEdits[T]) PendingIDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids := make([]string, 0, len(e.pending))
	for id := range e.pending {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Preview returns the committed entity with its pending edits applied.
func (e *StagedEdits[T]) Preview(id string) (T, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entity, err := e.target.Lookup(id)
	if err != nil {
		return entity, err
	}
	if p, ok := e.pending[id]; ok {
		if err := e.target.Apply(&entity, p); err != nil {
			return entity, err
		}
	}
	return entity, nil
}

func sortedIDs(deltas map[string]models.Patch) []string {
	ids := make([]string, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// catalogTarget stages edits against catalog items.
type catalogTarget struct{ s *Store }

func (t catalogTarget) Lookup(id string) (models.MasterItem, error) { return t.s.Item(id) }

func (catalogTarget) Accepts(field string) bool {
	var probe models.MasterItem
	return field != models.FieldID && field != models.FieldPrice &&
		models.ApplyToMaster(&probe, models.Patch{field: nil}) == nil
}

func (catalogTarget) Apply(m *models.MasterItem, p models.Patch) error {
	if err := models.ApplyToMaster(m, p); err != nil {
		return err
	}
	if p.TouchesPricing() {
		m.Recalculate()
	}
	return nil
}

func (catalogTarget) Derive(committed models.MasterItem, pending models.Patch) (models.Patch, error) {
	if !pending.TouchesPricing() {
		return nil, nil
	}
	next := committed.Clone()
	if err := models.ApplyToMaster(&next, pending); err != nil {
		return nil, err
	}
	next.Recalculate()
	return models.Patch{
		models.FieldCost:               next.Cost,
		models.FieldSellingPrice:       next.SellingPrice,
		models.FieldRetailSellingPrice: next.RetailSellingPrice,
		models.FieldPrice:              next.Price,
	}, nil
}

func (t catalogTarget) ApplyEdits(deltas map[string]models.Patch) int {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	applied := 0
	for _, id := range sortedIDs(deltas) {
		if _, err := s.updateItemLocked(id, deltas[id]); err != nil {
			s.log.Debug().Err(err).Str("item_id", id).Msg("staged catalog edit skipped")
			continue
		}
		applied++
	}
	s.log.Info().Int("applied", applied).Int("staged", len(deltas)).Msg("catalog edits committed")
	return applied
}

var quoteFields = map[string]bool{
	models.FieldQuotationDescription: true,
	models.FieldDescription:          true,
	models.FieldItemName:             true,
	models.FieldCategory:             true,
	models.FieldUOM:                  true,
	models.FieldIsOptional:           true,
	models.FieldPrice:                true,
}

// quoteTarget stages text and price edits against BQ lines.
type quoteTarget struct{ s *Store }

func (t quoteTarget) Lookup(id string) (models.BQItem, error) { return t.s.Line(id) }

func (quoteTarget) Accepts(field string) bool { return quoteFields[field] }

func (quoteTarget) Apply(l *models.BQItem, p models.Patch) error {
	return models.ApplyToLine(l, p)
}

func (quoteTarget) Derive(committed models.BQItem, pending models.Patch) (models.Patch, error) {
	if _, ok := pending[models.FieldPrice]; !ok {
		return nil, nil
	}
	next := committed.Clone()
	if err := models.ApplyToLine(&next, pending); err != nil {
		return nil, err
	}
	return models.Patch{models.FieldTotal: next.Total}, nil
}

func (t quoteTarget) ApplyEdits(deltas map[string]models.Patch) int {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	applied := 0
	for _, id := range sortedIDs(deltas) {
		l, err := s.lineLocked(id)
		if err != nil {
			s.log.Debug().Err(err).Str("line_id", id).Msg("staged quote edit skipped")
			continue
		}
		next := l.Clone()
		if err := models.ApplyToLine(&next, deltas[id]); err != nil {
			s.log.Debug().Err(err).Str("line_id", id).Msg("staged quote edit skipped")
			continue
		}
		*l = next
		s.enqueue(OpUpdate, CollectionBQItems, l.ID, l.RemoteID, models.LineRecord(*l))
		applied++
	}
	s.log.Info().Int("applied", applied).Int("staged", len(deltas)).Msg("quote edits committed")
	return applied
}
