package store

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"bqquote/models"
)

// Load replaces the in-memory state with the remote's non-deleted records.
// The four collections are fetched concurrently; any fetch failure leaves
// the current state untouched.
func (s *Store) Load(ctx context.Context) error {
	if s.outbox == nil {
		return nil
	}
	remote := s.outbox.remote

	collections := []string{CollectionMasterItems, CollectionProjects, CollectionProjectVersions, CollectionBQItems}
	results := make([][]map[string]any, len(collections))
	errs := make([]error, len(collections))

	var g errgroup.Group
	for i, name := range collections {
		g.Go(func() error {
			recs, err := remote.BulkFetch(ctx, name, "")
			if err != nil {
				errs[i] = fmt.Errorf("fetch %s: %w", name, err)
				return nil
			}
			results[i] = recs
			return nil
		})
	}
	_ = g.Wait()
	if err := multierr.Combine(errs...); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]*models.MasterItem)
	s.itemOrder = nil
	for _, rec := range results[0] {
		m := models.SanitizeMasterItem(rec)
		if m.ID == "" || m.Deleted {
			continue
		}
		m.RemoteID = m.ID
		s.warnUnknown(m.ID, m.Recalculate())
		s.items[m.ID] = &m
		s.itemOrder = append(s.itemOrder, m.ID)
	}

	s.projects = make(map[string]*models.Project)
	s.projectOrder = nil
	for _, rec := range results[1] {
		p := models.SanitizeProject(rec)
		if p.ID == "" || p.Deleted {
			continue
		}
		p.RemoteID = p.ID
		s.projects[p.ID] = &p
		s.projectOrder = append(s.projectOrder, p.ID)
	}

	s.versions = make(map[string]*models.ProjectVersion)
	var versions []*models.ProjectVersion
	for _, rec := range results[2] {
		v := models.SanitizeVersion(rec)
		if v.ID == "" || v.Deleted {
			continue
		}
		if _, ok := s.projects[v.ProjectID]; !ok {
			continue
		}
		v.RemoteID = v.ID
		s.versions[v.ID] = &v
		versions = append(versions, &v)
	}
	sort.SliceStable(versions, func(i, j int) bool {
		return versions[i].CreatedAt.Before(versions[j].CreatedAt)
	})
	for _, v := range versions {
		p := s.projects[v.ProjectID]
		p.Versions = append(p.Versions, v.ID)
	}

	// Projects without any version are unusable; drop them locally.
	kept := s.projectOrder[:0]
	for _, id := range s.projectOrder {
		p := s.projects[id]
		if len(p.Versions) == 0 {
			s.log.Warn().Str("project_id", id).Msg("project has no versions, skipped")
			delete(s.projects, id)
			continue
		}
		if _, ok := s.versions[p.ActiveVersionID]; !ok || s.versions[p.ActiveVersionID].ProjectID != id {
			p.ActiveVersionID = p.Versions[0]
		}
		kept = append(kept, id)
	}
	s.projectOrder = kept

	s.lines = make(map[string]*models.BQItem)
	s.lineOrder = nil
	for _, rec := range results[3] {
		l := models.SanitizeBQItem(rec)
		if l.ID == "" || l.Deleted {
			continue
		}
		if v, ok := s.versions[l.VersionID]; !ok || v.ProjectID != l.ProjectID {
			continue
		}
		l.RemoteID = l.ID
		s.lines[l.ID] = &l
		s.lineOrder = append(s.lineOrder, l.ID)
	}

	s.log.Info().
		Int("items", len(s.items)).
		Int("projects", len(s.projects)).
		Int("versions", len(s.versions)).
		Int("lines", len(s.lines)).
		Msg("store loaded from remote")
	return nil
}
