package store

import (
	"fmt"
	"sort"
	"strings"

	"bqquote/models"
	"bqquote/services"
)

func cloneProject(p *models.Project) models.Project {
	out := *p
	out.Versions = append([]string(nil), p.Versions...)
	return out
}

func (s *Store) projectLocked(id string) (*models.Project, error) {
	p, ok := s.projects[id]
	if !ok || p.Deleted {
		return nil, fmt.Errorf("project %s: %w", id, ErrProjectNotFound)
	}
	return p, nil
}

// versionLocked returns an active version that belongs to projectID.
func (s *Store) versionLocked(projectID, versionID string) (*models.Project, *models.ProjectVersion, error) {
	p, err := s.projectLocked(projectID)
	if err != nil {
		return nil, nil, err
	}
	v, ok := s.versions[versionID]
	if !ok || v.Deleted || v.ProjectID != projectID {
		return nil, nil, fmt.Errorf("version %s of project %s: %w", versionID, projectID, ErrVersionNotFound)
	}
	return p, v, nil
}

func (s *Store) versionNamesLocked(p *models.Project) []string {
	names := make([]string, 0, len(p.Versions))
	for _, id := range p.Versions {
		if v, ok := s.versions[id]; ok && !v.Deleted {
			names = append(names, v.Name)
		}
	}
	return names
}

// CreateProject stores a project with one version, version-1, whose
// snapshot is a deep copy of the active catalog.
func (s *Store) CreateProject(meta models.ProjectMeta) (models.Project, error) {
	meta.Normalize()
	if err := meta.Validate(); err != nil {
		return models.Project{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := models.CloneItems(s.activeItemsLocked())
	if err != nil {
		return models.Project{}, fmt.Errorf("snapshot catalog: %w", err)
	}

	now := s.now()
	p := &models.Project{
		ID:          s.newID(),
		ProjectMeta: meta,
		CreatedAt:   now,
	}
	v := &models.ProjectVersion{
		ID:             s.newID(),
		ProjectID:      p.ID,
		Name:           services.FirstVersionName,
		CreatedAt:      now,
		MasterSnapshot: snapshot,
	}
	p.Versions = []string{v.ID}
	p.ActiveVersionID = v.ID

	s.projects[p.ID] = p
	s.projectOrder = append(s.projectOrder, p.ID)
	s.versions[v.ID] = v

	// The project goes first without its active version; the update
	// below links it once the version id can be translated.
	rec := models.ProjectRecord(*p)
	rec[models.FieldActiveVersionID] = ""
	s.enqueue(OpInsert, CollectionProjects, p.ID, "", rec)
	s.enqueueVersionInsert(v)
	s.enqueue(OpUpdate, CollectionProjects, p.ID, "", map[string]any{models.FieldActiveVersionID: v.ID})

	s.log.Info().Str("project_id", p.ID).Int("snapshot_items", len(snapshot)).Msg("project created")
	return cloneProject(p), nil
}

func (s *Store) enqueueVersionInsert(v *models.ProjectVersion) {
	if s.outbox == nil {
		return
	}
	rec, err := versionRecord(v)
	if err != nil {
		s.log.Error().Err(err).Str("version_id", v.ID).Msg("version not queued for remote insert")
		return
	}
	s.enqueue(OpInsert, CollectionProjectVersions, v.ID, "", rec)
}

// versionRecord copies the snapshot so the worker never reads memory the
// store keeps mutating.
func versionRecord(v *models.ProjectVersion) (map[string]any, error) {
	snapshot, err := models.CloneItems(v.MasterSnapshot)
	if err != nil {
		return nil, err
	}
	cp := *v
	cp.MasterSnapshot = snapshot
	return models.VersionRecord(cp), nil
}

// UpdateProject replaces the project's metadata.
func (s *Store) UpdateProject(id string, meta models.ProjectMeta) (models.Project, error) {
	meta.Normalize()
	if err := meta.Validate(); err != nil {
		return models.Project{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.projectLocked(id)
	if err != nil {
		return models.Project{}, err
	}
	p.ProjectMeta = meta
	s.enqueue(OpUpdate, CollectionProjects, p.ID, p.RemoteID, models.ProjectRecord(*p))
	return cloneProject(p), nil
}

// DeleteProject soft-deletes a project with all its versions and lines.
func (s *Store) DeleteProject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.projectLocked(id)
	if err != nil {
		return err
	}
	for _, vid := range p.Versions {
		if v, ok := s.versions[vid]; ok && !v.Deleted {
			s.deleteVersionLocked(v)
		}
	}
	p.Deleted = true
	s.enqueue(OpSoftDelete, CollectionProjects, p.ID, p.RemoteID, nil)
	return nil
}

// Project returns an active project.
func (s *Store) Project(id string) (models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.projectLocked(id)
	if err != nil {
		return models.Project{}, err
	}
	return cloneProject(p), nil
}

// Projects lists active projects in creation order.
func (s *Store) Projects() []models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Project, 0, len(s.projectOrder))
	for _, id := range s.projectOrder {
		if p := s.projects[id]; !p.Deleted {
			out = append(out, cloneProject(p))
		}
	}
	return out
}

// SetActiveVersion marks versionID as the project's working version.
func (s *Store) SetActiveVersion(projectID, versionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, v, err := s.versionLocked(projectID, versionID)
	if err != nil {
		return err
	}
	p.ActiveVersionID = v.ID
	s.enqueue(OpUpdate, CollectionProjects, p.ID, p.RemoteID, map[string]any{models.FieldActiveVersionID: v.ID})
	return nil
}

func cloneVersion(v *models.ProjectVersion) (models.ProjectVersion, error) {
	snapshot, err := models.CloneItems(v.MasterSnapshot)
	if err != nil {
		return models.ProjectVersion{}, err
	}
	out := *v
	out.MasterSnapshot = snapshot
	return out, nil
}

// Version returns a deep copy of an active version.
func (s *Store) Version(projectID, versionID string) (models.ProjectVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, v, err := s.versionLocked(projectID, versionID)
	if err != nil {
		return models.ProjectVersion{}, err
	}
	return cloneVersion(v)
}

// Versions lists a project's active versions in creation order.
func (s *Store) Versions(projectID string) ([]models.ProjectVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.projectLocked(projectID)
	if err != nil {
		return nil, err
	}
	out := make([]models.ProjectVersion, 0, len(p.Versions))
	for _, id := range p.Versions {
		v, ok := s.versions[id]
		if !ok || v.Deleted {
			continue
		}
		cp, err := cloneVersion(v)
		if err != nil {
			return nil, err
		}
		out = append(out, cp)
	}
	return out, nil
}

// SuggestVersionName proposes the name a duplicate of sourceVersionID
// would get.
func (s *Store) SuggestVersionName(projectID, sourceVersionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, v, err := s.versionLocked(projectID, sourceVersionID)
	if err != nil {
		return "", err
	}
	return services.SuggestVersionName(v.Name, s.versionNamesLocked(p)), nil
}

// CreateVersion duplicates sourceVersionID: the snapshot and every line are
// deep-copied, lines get new ids. An empty name is replaced by
// SuggestVersionName. The copy becomes the active version.
func (s *Store) CreateVersion(projectID, sourceVersionID, name string) (models.ProjectVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, src, err := s.versionLocked(projectID, sourceVersionID)
	if err != nil {
		return models.ProjectVersion{}, err
	}

	names := s.versionNamesLocked(p)
	name = strings.TrimSpace(name)
	if name == "" {
		name = services.SuggestVersionName(src.Name, names)
	}
	for _, existing := range names {
		if existing == name {
			return models.ProjectVersion{}, fmt.Errorf("create version %q: %w", name, ErrVersionNameTaken)
		}
	}

	snapshot, err := models.CloneItems(src.MasterSnapshot)
	if err != nil {
		return models.ProjectVersion{}, fmt.Errorf("clone snapshot: %w", err)
	}
	srcLines := s.versionLinesLocked(src.ID)
	lines := make([]*models.BQItem, 0, len(srcLines))
	for _, l := range srcLines {
		cp, err := models.CloneLine(*l)
		if err != nil {
			return models.ProjectVersion{}, fmt.Errorf("clone line %s: %w", l.ID, err)
		}
		lines = append(lines, &cp)
	}

	v := &models.ProjectVersion{
		ID:             s.newID(),
		ProjectID:      p.ID,
		Name:           name,
		CreatedAt:      s.now(),
		MasterSnapshot: snapshot,
	}
	s.versions[v.ID] = v
	p.Versions = append(p.Versions, v.ID)
	p.ActiveVersionID = v.ID
	s.enqueueVersionInsert(v)

	for _, l := range lines {
		l.ID = s.newID()
		l.RemoteID = ""
		l.VersionID = v.ID
		s.insertLineLocked(l)
	}
	s.enqueue(OpUpdate, CollectionProjects, p.ID, p.RemoteID, map[string]any{models.FieldActiveVersionID: v.ID})

	s.log.Info().
		Str("project_id", p.ID).
		Str("source_version_id", src.ID).
		Str("version_id", v.ID).
		Str("name", name).
		Int("lines", len(lines)).
		Msg("version duplicated")
	return cloneVersion(v)
}

// RenameVersion changes a version's name; names are unique per project.
func (s *Store) RenameVersion(projectID, versionID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, v, err := s.versionLocked(projectID, versionID)
	if err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("rename version %s: empty name: %w", versionID, ErrInvalidField)
	}
	if name == v.Name {
		return nil
	}
	for _, existing := range s.versionNamesLocked(p) {
		if existing == name {
			return fmt.Errorf("rename version %s to %q: %w", versionID, name, ErrVersionNameTaken)
		}
	}
	v.Name = name
	s.enqueue(OpUpdate, CollectionProjectVersions, v.ID, v.RemoteID, map[string]any{models.FieldName: name})
	return nil
}

// DeleteVersion soft-deletes a version and its lines. The last remaining
// version of a project cannot be deleted. Deleting the active version
// activates the newest remaining one.
func (s *Store) DeleteVersion(projectID, versionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, v, err := s.versionLocked(projectID, versionID)
	if err != nil {
		return err
	}
	if len(s.versionNamesLocked(p)) <= 1 {
		return fmt.Errorf("delete version %s: %w", versionID, ErrLastVersion)
	}

	s.deleteVersionLocked(v)

	remaining := p.Versions[:0]
	for _, id := range p.Versions {
		if id != v.ID {
			remaining = append(remaining, id)
		}
	}
	p.Versions = remaining
	if p.ActiveVersionID == v.ID {
		p.ActiveVersionID = p.Versions[len(p.Versions)-1]
		s.enqueue(OpUpdate, CollectionProjects, p.ID, p.RemoteID, map[string]any{models.FieldActiveVersionID: p.ActiveVersionID})
	}
	return nil
}

func (s *Store) deleteVersionLocked(v *models.ProjectVersion) {
	for _, l := range s.versionLinesLocked(v.ID) {
		s.deleteLineLocked(l)
	}
	v.Deleted = true
	s.enqueue(OpSoftDelete, CollectionProjectVersions, v.ID, v.RemoteID, nil)
}

// ResyncSnapshot applies catalog-shaped patches (each carrying "id") to a
// version's snapshot and refreshes the pricing of every line cloned from a
// patched entry. Patches for ids absent from the snapshot are skipped. It
// returns the number of lines repriced.
func (s *Store) ResyncSnapshot(projectID, versionID string, updates []models.Patch) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resyncLocked(projectID, versionID, updates)
}

func (s *Store) resyncLocked(projectID, versionID string, updates []models.Patch) (int, error) {
	_, v, err := s.versionLocked(projectID, versionID)
	if err != nil {
		return 0, err
	}

	index := make(map[string]int, len(v.MasterSnapshot))
	for i, m := range v.MasterSnapshot {
		index[m.ID] = i
	}

	// Validate the whole batch before touching anything.
	next := make(map[int]models.MasterItem, len(updates))
	for _, patch := range updates {
		i, ok := index[patch.ID()]
		if !ok {
			continue
		}
		entry, seen := next[i]
		if !seen {
			entry = v.MasterSnapshot[i].Clone()
		}
		if err := models.ApplyToMaster(&entry, patch); err != nil {
			return 0, fmt.Errorf("resync %s: %w", patch.ID(), err)
		}
		next[i] = entry
	}
	if len(next) == 0 {
		return 0, nil
	}

	order := make([]int, 0, len(next))
	for i := range next {
		order = append(order, i)
	}
	sort.Ints(order)

	repriced := 0
	lines := s.versionLinesLocked(v.ID)
	for _, i := range order {
		entry := next[i]
		s.warnUnknown(entry.ID, entry.Recalculate())
		v.MasterSnapshot[i] = entry
		for _, l := range lines {
			if l.MasterID != entry.ID {
				continue
			}
			l.CopyMasterPricing(entry)
			s.enqueue(OpUpdate, CollectionBQItems, l.ID, l.RemoteID, models.LineRecord(*l))
			repriced++
		}
	}

	s.enqueueSnapshotUpdate(v)

	s.log.Info().
		Str("version_id", v.ID).
		Int("entries", len(next)).
		Int("lines", repriced).
		Msg("version snapshot resynced")
	return repriced, nil
}

func (s *Store) enqueueSnapshotUpdate(v *models.ProjectVersion) {
	if s.outbox == nil {
		return
	}
	rec, err := versionRecord(v)
	if err != nil {
		s.log.Error().Err(err).Str("version_id", v.ID).Msg("encode snapshot failed")
		return
	}
	s.enqueue(OpUpdate, CollectionProjectVersions, v.ID, v.RemoteID, map[string]any{
		models.FieldMasterSnapshot: rec[models.FieldMasterSnapshot],
	})
}

// ResyncFromCatalog pulls the current catalog values of every snapshot
// entry that still exists in the catalog into the version.
func (s *Store) ResyncFromCatalog(projectID, versionID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, v, err := s.versionLocked(projectID, versionID)
	if err != nil {
		return 0, err
	}
	var updates []models.Patch
	for _, entry := range v.MasterSnapshot {
		if m, ok := s.items[entry.ID]; ok && !m.Deleted {
			updates = append(updates, models.MasterPatch(*m))
		}
	}
	return s.resyncLocked(projectID, versionID, updates)
}
