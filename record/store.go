// Package record manages the lifecycle of LOM records: drafts, publishing,
// persistent identifiers and new versions of published records.
package record

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tu-graz-library/invenio-records-lom-sub000/lom"
	"github.com/tu-graz-library/invenio-records-lom-sub000/value"
)

// Errors returned by stores and the service.
var (
	ErrNotFound  = errors.New("record not found")
	ErrPublished = errors.New("record is published")
)

// Store persists record envelopes by id. Documents returned by a Store are
// copies; mutating them does not change stored state.
type Store interface {
	// Load returns the document stored under id, or ErrNotFound.
	Load(ctx context.Context, id string) (map[string]any, error)

	// Save stores doc under id, setting id, created (first save only) and
	// updated, and returns the stored copy.
	Save(ctx context.Context, id string, doc map[string]any) (map[string]any, error)

	// Delete removes id, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// FindByIdentifier returns the records with a general identifier of
	// catalog and entry.
	FindByIdentifier(ctx context.Context, catalog, entry string) ([]map[string]any, error)

	// List returns the versions sharing parentID, oldest first.
	List(ctx context.Context, parentID string) ([]map[string]any, error)
}

// Timestamp formats t as stored in created and updated.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Snapshot deep-copies doc through structpb. It fails for values that have
// no JSON representation.
func Snapshot(doc map[string]any) (map[string]any, error) {
	s, err := structpb.NewStruct(doc)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	return s.AsMap(), nil
}

// MemoryStore keeps immutable structpb snapshots in memory.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*structpb.Struct
	now  func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*structpb.Struct), now: time.Now}
}

// Load implements Store.
func (s *MemoryStore) Load(_ context.Context, id string) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return doc.AsMap(), nil
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, id string, doc map[string]any) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := Timestamp(s.now())
	snapshot, err := structpb.NewStruct(doc)
	if err != nil {
		return nil, fmt.Errorf("saving %s: %w", id, err)
	}
	snapshot.Fields["id"] = structpb.NewStringValue(id)
	snapshot.Fields["updated"] = structpb.NewStringValue(ts)
	if prev, ok := s.docs[id]; ok && prev.Fields["created"] != nil {
		snapshot.Fields["created"] = prev.Fields["created"]
	} else {
		snapshot.Fields["created"] = structpb.NewStringValue(ts)
	}
	s.docs[id] = snapshot
	return snapshot.AsMap(), nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	delete(s.docs, id)
	return nil
}

// FindByIdentifier implements Store.
func (s *MemoryStore) FindByIdentifier(_ context.Context, catalog, entry string) ([]map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []map[string]any
	for _, id := range s.sortedIDs() {
		doc := s.docs[id].AsMap()
		if HasIdentifier(doc, catalog, entry) {
			out = append(out, doc)
		}
	}
	return out, nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context, parentID string) ([]map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []map[string]any
	for _, id := range s.sortedIDs() {
		doc := s.docs[id].AsMap()
		if lom.New(doc, false).ParentID() == parentID {
			out = append(out, doc)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return value.Text(out[i]["created"]) < value.Text(out[j]["created"])
	})
	return out, nil
}

func (s *MemoryStore) sortedIDs() []string {
	ids := make([]string, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// HasIdentifier reports whether doc carries the general identifier
// (catalog, entry).
func HasIdentifier(doc map[string]any, catalog, entry string) bool {
	for _, raw := range lom.New(doc, false).GetIdentifiers() {
		idm := value.Map(raw)
		if value.Text(idm["catalog"]) == catalog && lom.GetText(idm["entry"]) == entry {
			return true
		}
	}
	return false
}
