package record

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tu-graz-library/invenio-records-lom-sub000/lom"
	"github.com/tu-graz-library/invenio-records-lom-sub000/relation"
)

// Options configures a Service.
type Options struct {
	// Catalog is the identifier catalog of this repository (default repo-pid)
	Catalog string

	// DOIPrefix enables DOI minting as <prefix>/<id> when set
	DOIPrefix   string
	DOIProvider string

	// OAIPrefix names the repository in oai:<prefix>:<id> identifiers
	OAIPrefix string

	// ResourceTypes restricts the resource types accepted on publish
	ResourceTypes []string

	// MaxDepth bounds relation traversal in Related; zero means unbounded
	MaxDepth int

	Logger *slog.Logger
	Now    func() time.Time
	NewID  func() string
}

// Service implements draft, publish and edit workflows on a Store.
type Service struct {
	store Store
	opts  Options
}

// NewService creates a service. Zero options get defaults.
func NewService(store Store, opts Options) *Service {
	if opts.Catalog == "" {
		opts.Catalog = lom.CatalogRepoPID
	}
	if opts.DOIProvider == "" {
		opts.DOIProvider = "datacite"
	}
	if opts.OAIPrefix == "" {
		opts.OAIPrefix = "lom"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.NewString() }
	}
	return &Service{store: store, opts: opts}
}

// CreateDraft stores md as a new draft with fresh record and parent ids and
// a repository identifier in general.identifier.
func (s *Service) CreateDraft(ctx context.Context, md *lom.Metadata) (*lom.Metadata, error) {
	id := s.opts.NewID()
	md.SetID(id)
	if md.ParentID() == "" {
		if err := md.SetParentID(s.opts.NewID()); err != nil {
			return nil, err
		}
	}
	md.Document()["is_published"] = false
	if err := md.AppendIdentifier(id, s.opts.Catalog); err != nil {
		return nil, err
	}
	saved, err := s.save(ctx, id, md)
	if err != nil {
		return nil, fmt.Errorf("creating draft: %w", err)
	}
	s.opts.Logger.Info("draft created", "id", id, "parent", md.ParentID())
	return lom.New(saved, true), nil
}

// UpdateDraft replaces the stored draft with md.
func (s *Service) UpdateDraft(ctx context.Context, md *lom.Metadata) (*lom.Metadata, error) {
	current, err := s.Read(ctx, md.ID())
	if err != nil {
		return nil, err
	}
	if current.IsPublished() {
		return nil, fmt.Errorf("updating %s: %w", md.ID(), ErrPublished)
	}
	saved, err := s.save(ctx, md.ID(), md)
	if err != nil {
		return nil, fmt.Errorf("updating draft %s: %w", md.ID(), err)
	}
	return lom.New(saved, true), nil
}

// Import stores a draft that already carries an id, e.g. one exported by
// another instance. Published records, stored or given, are not replaced.
func (s *Service) Import(ctx context.Context, md *lom.Metadata) error {
	id := md.ID()
	if id == "" {
		return fmt.Errorf("importing: record has no id")
	}
	if md.IsPublished() {
		return fmt.Errorf("importing %s: %w", id, ErrPublished)
	}
	current, err := s.Read(ctx, id)
	switch {
	case err == nil && current.IsPublished():
		return fmt.Errorf("importing %s: %w", id, ErrPublished)
	case err != nil && !errors.Is(err, ErrNotFound):
		return err
	}
	if md.ParentID() == "" {
		if err := md.SetParentID(s.opts.NewID()); err != nil {
			return err
		}
	}
	if _, err := s.save(ctx, id, md); err != nil {
		return fmt.Errorf("importing %s: %w", id, err)
	}
	return nil
}

// save strips attached relation records from md and stores it.
func (s *Service) save(ctx context.Context, id string, md *lom.Metadata) (map[string]any, error) {
	relation.Clean(md.Document())
	return s.store.Save(ctx, id, md.Document())
}

// Read loads a record.
func (s *Service) Read(ctx context.Context, id string) (*lom.Metadata, error) {
	doc, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return lom.New(doc, true), nil
}

// Publish validates the draft id, rejects duplicate external identifiers,
// mints its persistent identifiers and stores it as published.
func (s *Service) Publish(ctx context.Context, id string) (*lom.Metadata, error) {
	md, err := s.Read(ctx, id)
	if err != nil {
		return nil, err
	}
	if md.IsPublished() {
		return nil, fmt.Errorf("publishing %s: %w", id, ErrPublished)
	}

	result := Validate(md, ValidationOptions{ResourceTypes: s.opts.ResourceTypes})
	for _, w := range result.Warnings {
		s.opts.Logger.Warn("validation warning", "id", id, "field", w.Field, "message", w.Message)
	}
	if err := result.Error(); err != nil {
		return nil, fmt.Errorf("publishing %s: %w", id, err)
	}

	if err := s.checkDuplicates(ctx, md); err != nil {
		return nil, err
	}

	s.mintPIDs(md)
	md.Document()["is_published"] = true
	if md.GetStatus() == "" || md.GetStatus() == "draft" {
		if err := md.SetStatus("final"); err != nil {
			return nil, err
		}
	}

	saved, err := s.save(ctx, id, md)
	if err != nil {
		return nil, fmt.Errorf("publishing %s: %w", id, err)
	}
	s.opts.Logger.Info("record published", "id", id, "pids", len(md.PIDs()))
	return lom.New(saved, true), nil
}

// checkDuplicates fails when an external general identifier of md is
// already used by a published record of another parent.
func (s *Service) checkDuplicates(ctx context.Context, md *lom.Metadata) error {
	for _, raw := range md.GetIdentifiers() {
		idm, _ := raw.(map[string]any)
		catalog, _ := idm["catalog"].(string)
		entry := lom.GetText(idm["entry"])
		if catalog == s.opts.Catalog || entry == "" {
			continue
		}
		others, err := s.store.FindByIdentifier(ctx, catalog, entry)
		if err != nil {
			return fmt.Errorf("checking identifier %s:%s: %w", catalog, entry, err)
		}
		for _, doc := range others {
			other := lom.New(doc, false)
			if other.IsPublished() && other.ParentID() != md.ParentID() {
				return &lom.DuplicateIdentifierError{Catalog: catalog, Value: entry, RecordID: other.ID()}
			}
		}
	}
	return nil
}

// mintPIDs registers the doi and oai PIDs. The record id itself is already
// carried as a repository identifier in general.identifier.
func (s *Service) mintPIDs(md *lom.Metadata) {
	id := md.ID()
	if s.opts.DOIPrefix != "" {
		md.SetPID("doi", s.opts.DOIPrefix+"/"+id, s.opts.DOIProvider)
	}
	md.SetPID("oai", "oai:"+s.opts.OAIPrefix+":"+id, "oai")
}

// EditPublished starts a new version of the published record id: a draft
// copy with a new id under the same parent. The published record is left
// untouched. A draft id is returned as is.
func (s *Service) EditPublished(ctx context.Context, id string) (*lom.Metadata, error) {
	published, err := s.Read(ctx, id)
	if err != nil {
		return nil, err
	}
	if !published.IsPublished() {
		return published, nil
	}

	doc, err := Snapshot(published.Document())
	if err != nil {
		return nil, err
	}
	for _, k := range []string{"id", "created", "updated"} {
		delete(doc, k)
	}
	doc["pids"] = map[string]any{}
	doc["is_published"] = false

	draft := lom.New(doc, true)
	if err := removeIdentifier(draft, s.opts.Catalog, id); err != nil {
		return nil, err
	}
	if err := draft.SetStatus("draft"); err != nil {
		return nil, err
	}

	newID := s.opts.NewID()
	draft.SetID(newID)
	if err := draft.AppendIdentifier(newID, s.opts.Catalog); err != nil {
		return nil, err
	}
	saved, err := s.save(ctx, newID, draft)
	if err != nil {
		return nil, fmt.Errorf("editing %s: %w", id, err)
	}
	s.opts.Logger.Info("new version drafted", "id", newID, "from", id, "parent", draft.ParentID())
	return lom.New(saved, true), nil
}

func removeIdentifier(md *lom.Metadata, catalog, entry string) error {
	var kept []any
	for _, raw := range md.GetIdentifiers() {
		idm, _ := raw.(map[string]any)
		if c, _ := idm["catalog"].(string); c == catalog && lom.GetText(idm["entry"]) == entry {
			continue
		}
		kept = append(kept, raw)
	}
	if kept == nil {
		kept = []any{}
	}
	return md.Set("metadata.general.identifier", kept)
}

// Versions returns the records sharing the parent of id, oldest first.
func (s *Service) Versions(ctx context.Context, id string) ([]*lom.Metadata, error) {
	md, err := s.Read(ctx, id)
	if err != nil {
		return nil, err
	}
	docs, err := s.store.List(ctx, md.ParentID())
	if err != nil {
		return nil, err
	}
	out := make([]*lom.Metadata, len(docs))
	for i, doc := range docs {
		out[i] = lom.New(doc, true)
	}
	return out, nil
}

// Dereference implements relation.Dereferencer over the store. Identifiers
// outside the repository catalog and missing records resolve to nil.
func (s *Service) Dereference(ctx context.Context, id relation.Identifier) (map[string]any, error) {
	if id.Catalog != s.opts.Catalog {
		return nil, nil
	}
	doc, err := s.store.Load(ctx, id.Entry)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return doc, err
}

// Related resolves the records reachable from id over tag, breadth first and
// bounded by Options.MaxDepth.
func (s *Service) Related(ctx context.Context, id string, tag relation.Tag) ([]relation.Resolved, error) {
	md, err := s.Read(ctx, id)
	if err != nil {
		return nil, err
	}
	return relation.New(md.Document(), tag, s.opts.Catalog).Dereference(ctx, s,
		relation.WithMaxDepth(s.opts.MaxDepth),
		relation.WithLogger(s.opts.Logger),
	)
}

// LinkCourseUnit records that the course contains the unit: a haspart
// relation on the course and an ispartof relation on the unit. Both records
// must be drafts.
func (s *Service) LinkCourseUnit(ctx context.Context, courseID, unitID string) error {
	course, err := s.Read(ctx, courseID)
	if err != nil {
		return err
	}
	unit, err := s.Read(ctx, unitID)
	if err != nil {
		return err
	}
	for _, md := range []*lom.Metadata{course, unit} {
		if md.IsPublished() {
			return fmt.Errorf("linking %s: %w", md.ID(), ErrPublished)
		}
	}

	if err := course.AppendRelation(unitID, "haspart"); err != nil {
		return err
	}
	if err := unit.AppendRelation(courseID, "ispartof"); err != nil {
		return err
	}
	if _, err := s.save(ctx, courseID, course); err != nil {
		return fmt.Errorf("linking %s: %w", courseID, err)
	}
	if _, err := s.save(ctx, unitID, unit); err != nil {
		return fmt.Errorf("linking %s: %w", unitID, err)
	}
	return nil
}
