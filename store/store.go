// Package store holds the in-memory catalog, projects, versions and BQ
// lines. Every mutation is applied locally first and then mirrored to the
// remote through the outbox.
package store

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"bqquote/models"
	"bqquote/services"
)

// Options configures a Store. Remote may be nil, in which case nothing is
// persisted.
type Options struct {
	Logger        zerolog.Logger
	Remote        Remote
	RemoteTimeout time.Duration
	// OutboxBacklog is the queue depth above which a warning is logged.
	OutboxBacklog int
	Now           func() time.Time
	NewID         func() string
}

type Store struct {
	mu    sync.Mutex
	log   zerolog.Logger
	now   func() time.Time
	newID func() string

	items     map[string]*models.MasterItem
	itemOrder []string

	projects     map[string]*models.Project
	projectOrder []string
	versions     map[string]*models.ProjectVersion

	lines     map[string]*models.BQItem
	lineOrder []string

	outbox  *Outbox
	started atomic.Bool

	CatalogEdits *StagedEdits[models.MasterItem]
	QuoteEdits   *StagedEdits[models.BQItem]
}

func New(opts Options) *Store {
	s := &Store{
		log:      opts.Logger,
		now:      opts.Now,
		newID:    opts.NewID,
		items:    make(map[string]*models.MasterItem),
		projects: make(map[string]*models.Project),
		versions: make(map[string]*models.ProjectVersion),
		lines:    make(map[string]*models.BQItem),
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if opts.Remote != nil {
		s.outbox = newOutbox(opts.Remote, opts.Logger, opts.RemoteTimeout, opts.OutboxBacklog, s.assignRemoteID)
	}
	s.CatalogEdits = NewStagedEdits[models.MasterItem](catalogTarget{s})
	s.QuoteEdits = NewStagedEdits[models.BQItem](quoteTarget{s})
	return s
}

// Start launches the outbox worker. It returns immediately; the worker
// stops when ctx is done.
func (s *Store) Start(ctx context.Context) {
	if s.outbox == nil || !s.started.CompareAndSwap(false, true) {
		return
	}
	go s.outbox.run(ctx)
}

// Wait blocks until all queued remote writes have finished and returns the
// failures seen since the last call. Before Start it returns nil at once and
// queued writes stay pending.
func (s *Store) Wait() error {
	if s.outbox == nil || !s.started.Load() {
		return nil
	}
	return s.outbox.Wait()
}

// OutboxStats reports queued remote writes per state.
func (s *Store) OutboxStats() map[OpState]int {
	if s.outbox == nil {
		return map[OpState]int{}
	}
	return s.outbox.Stats()
}

// enqueue must be called with s.mu held so ops keep mutation order.
func (s *Store) enqueue(kind OpKind, collection, localID, remoteID string, record map[string]any) {
	if s.outbox == nil {
		return
	}
	s.outbox.enqueue(&Op{
		Kind:       kind,
		Collection: collection,
		LocalID:    localID,
		RemoteID:   remoteID,
		Record:     record,
	})
}

func (s *Store) assignRemoteID(collection, localID, remoteID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch collection {
	case CollectionMasterItems:
		if m, ok := s.items[localID]; ok {
			m.RemoteID = remoteID
			return !m.Deleted
		}
	case CollectionProjects:
		if p, ok := s.projects[localID]; ok {
			p.RemoteID = remoteID
			return !p.Deleted
		}
	case CollectionProjectVersions:
		if v, ok := s.versions[localID]; ok {
			v.RemoteID = remoteID
			return !v.Deleted
		}
	case CollectionBQItems:
		if l, ok := s.lines[localID]; ok {
			l.RemoteID = remoteID
			return !l.Deleted
		}
	}
	return false
}

func (s *Store) warnUnknown(id string, unknown []services.StrategyID) {
	if len(unknown) == 0 {
		return
	}
	ids := make([]string, len(unknown))
	for i, u := range unknown {
		ids[i] = string(u)
	}
	s.log.Warn().Str("item_id", id).Strs("strategies", ids).Msg("unknown pricing strategy resolved to 0")
}

// sortLines orders lines by SortOrder, keeping insertion order for ties.
func sortLines(lines []models.BQItem) {
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].SortOrder < lines[j].SortOrder
	})
}
