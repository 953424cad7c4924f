// Package relation reads the relation graph between LOM records.
//
// An Accessor selects the relation entries of one document that carry a given
// kind (Tag) and point into a given identifier catalog, and follows them
// breadth-first through a caller-supplied Dereferencer. Traversal keeps a
// visited set keyed by (catalog, entry) and an optional depth bound, so cyclic
// "ispartof"/"haspart" graphs terminate.
package relation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tu-graz-library/invenio-records-lom-sub000/lom"
	"github.com/tu-graz-library/invenio-records-lom-sub000/value"
)

// ErrUnsupported is reported by the mutation methods of Accessor.
var ErrUnsupported = errors.New("operation not supported by relation accessor")

// Tag identifies a relation kind by its vocabulary source and value.
type Tag struct {
	Source string
	Value  string
}

// Common tags.
var (
	HasPart  = Tag{Source: lom.SourceLOMv1, Value: "haspart"}
	IsPartOf = Tag{Source: lom.SourceLOMv1, Value: "ispartof"}
)

// Identifier addresses a related record.
type Identifier struct {
	Catalog string
	Entry   string
}

func (id Identifier) String() string {
	return id.Catalog + ":" + id.Entry
}

// Resolved is one dereferenced record. Depth is 1 for records referenced by
// the root document.
type Resolved struct {
	Identifier Identifier
	Depth      int
	Document   map[string]any
}

// Dereferencer fetches the document behind an identifier. A nil document
// with a nil error means the record is gone and is skipped.
type Dereferencer interface {
	Dereference(ctx context.Context, id Identifier) (map[string]any, error)
}

// DereferencerFunc adapts a function to Dereferencer.
type DereferencerFunc func(ctx context.Context, id Identifier) (map[string]any, error)

// Dereference calls f.
func (f DereferencerFunc) Dereference(ctx context.Context, id Identifier) (map[string]any, error) {
	return f(ctx, id)
}

// Option configures a traversal.
type Option func(*traversal)

type traversal struct {
	maxDepth int
	logger   *slog.Logger
}

// WithMaxDepth bounds the traversal. Zero means unbounded.
func WithMaxDepth(n int) Option {
	return func(t *traversal) {
		t.maxDepth = n
	}
}

// WithLogger sets the logger used for traversal cut-offs.
func WithLogger(l *slog.Logger) Option {
	return func(t *traversal) {
		t.logger = l
	}
}

// Accessor reads relations of one kind from a document.
type Accessor struct {
	doc     map[string]any
	tag     Tag
	catalog string
}

// New returns an accessor over doc's relations tagged tag whose identifiers
// are in catalog. An empty catalog means lom.CatalogRepoPID.
func New(doc map[string]any, tag Tag, catalog string) *Accessor {
	if catalog == "" {
		catalog = lom.CatalogRepoPID
	}
	return &Accessor{doc: doc, tag: tag, catalog: catalog}
}

// Identifiers returns the matching identifiers in document order.
func (a *Accessor) Identifiers() []Identifier {
	return identifiers(a.doc, a.tag, a.catalog)
}

func matches(rel any, tag Tag) bool {
	kind := value.Map(value.Map(rel)["kind"])
	return lom.GetText(kind["source"]) == tag.Source && lom.GetText(kind["value"]) == tag.Value
}

func relations(doc map[string]any) []any {
	return value.List(value.Map(doc["metadata"])["relation"])
}

func identifiers(doc map[string]any, tag Tag, catalog string) []Identifier {
	var out []Identifier
	for _, rel := range relations(doc) {
		if !matches(rel, tag) {
			continue
		}
		for _, raw := range lom.RelationIdentifiers(rel) {
			idm := value.Map(raw)
			if value.Text(idm["catalog"]) != catalog {
				continue
			}
			if entry := lom.GetText(idm["entry"]); entry != "" {
				out = append(out, Identifier{Catalog: catalog, Entry: entry})
			}
		}
	}
	return out
}

type queued struct {
	id    Identifier
	depth int
}

// Dereference resolves the matching identifiers breadth-first. Each resolved
// document is scanned for further matches with the same tag and catalog.
// Every identifier is fetched at most once, and the root document's own id
// counts as visited. Errors from d abort the traversal.
func (a *Accessor) Dereference(ctx context.Context, d Dereferencer, opts ...Option) ([]Resolved, error) {
	t := &traversal{logger: slog.Default()}
	for _, opt := range opts {
		opt(t)
	}

	visited := make(map[Identifier]bool)
	if id := value.Text(a.doc["id"]); id != "" {
		visited[Identifier{Catalog: a.catalog, Entry: id}] = true
	}

	var queue []queued
	enqueue := func(ids []Identifier, depth int) {
		for _, id := range ids {
			if visited[id] {
				continue
			}
			if t.maxDepth > 0 && depth > t.maxDepth {
				t.logger.Warn("relation traversal depth limit reached",
					"relation", a.tag.Value,
					"identifier", id.String(),
					"max_depth", t.maxDepth,
				)
				continue
			}
			visited[id] = true
			queue = append(queue, queued{id: id, depth: depth})
		}
	}
	enqueue(a.Identifiers(), 1)

	var resolved []Resolved
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return resolved, err
		}
		next := queue[0]
		queue = queue[1:]

		doc, err := d.Dereference(ctx, next.id)
		if err != nil {
			return resolved, fmt.Errorf("dereferencing %s: %w", next.id, err)
		}
		if doc == nil {
			t.logger.Debug("related record not found", "identifier", next.id.String())
			continue
		}
		resolved = append(resolved, Resolved{Identifier: next.id, Depth: next.depth, Document: doc})
		enqueue(identifiers(doc, a.tag, a.catalog), next.depth+1)
	}
	return resolved, nil
}

// Attach stores each directly referenced record under the "record" key of
// its identifier in the document. Call Clean before persisting.
func (a *Accessor) Attach(resolved []Resolved) {
	byID := make(map[Identifier]map[string]any, len(resolved))
	for _, r := range resolved {
		if r.Depth == 1 {
			byID[r.Identifier] = r.Document
		}
	}
	for _, rel := range relations(a.doc) {
		if !matches(rel, a.tag) {
			continue
		}
		for _, raw := range lom.RelationIdentifiers(rel) {
			idm := value.Map(raw)
			id := Identifier{Catalog: value.Text(idm["catalog"]), Entry: lom.GetText(idm["entry"])}
			if doc, ok := byID[id]; ok {
				idm["record"] = doc
			}
		}
	}
}

// Clean strips every relation identifier of doc down to its catalog and
// entry keys, dropping attached records.
func Clean(doc map[string]any) {
	for _, rel := range relations(doc) {
		for _, raw := range lom.RelationIdentifiers(rel) {
			idm := value.Map(raw)
			for k := range idm {
				if k != "catalog" && k != "entry" {
					delete(idm, k)
				}
			}
		}
	}
}

// Clean strips the accessor's document. See the package function.
func (a *Accessor) Clean() {
	Clean(a.doc)
}

// Result is the outcome of a mutation request on an Accessor.
type Result struct {
	Err error
}

// Unsupported reports whether the operation is not available.
func (r Result) Unsupported() bool {
	return errors.Is(r.Err, ErrUnsupported)
}

// Append is not supported; relations are added through lom.Metadata.
func (a *Accessor) Append(Identifier) Result {
	return Result{Err: fmt.Errorf("append: %w", ErrUnsupported)}
}

// Insert is not supported; relations are added through lom.Metadata.
func (a *Accessor) Insert(int, Identifier) Result {
	return Result{Err: fmt.Errorf("insert: %w", ErrUnsupported)}
}

// Set is not supported; relations are added through lom.Metadata.
func (a *Accessor) Set(int, Identifier) Result {
	return Result{Err: fmt.Errorf("set: %w", ErrUnsupported)}
}
