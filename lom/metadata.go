// Package lom models Learning Object Metadata records.
//
// A record is an envelope document ({id, metadata, pids, resource_type,
// access, files}) whose metadata key holds the nine LOM categories plus the
// repository's courses extension. Metadata wraps such a document by
// reference: every mutation writes through to the wrapped map.
//
// Getters treat absence as normal and return empty values. Mutations surface
// the structural errors of the underlying dotaccess wrapper unchanged.
package lom

import (
	"reflect"

	"github.com/tu-graz-library/invenio-records-lom-sub000/dotaccess"
	"github.com/tu-graz-library/invenio-records-lom-sub000/value"
)

// Resource types known to the repository.
const (
	ResourceTypeCourse = "course"
	ResourceTypeFile   = "file"
	ResourceTypeLink   = "link"
	ResourceTypeUnit   = "unit"
	ResourceTypeUpload = "upload"
)

// PID is a persistent identifier registered for a record.
type PID struct {
	Identifier string `json:"identifier"`
	Provider   string `json:"provider"`
	Client     string `json:"client,omitempty"`
}

// Metadata is the typed facade over a record envelope.
type Metadata struct {
	doc map[string]any
	w   *dotaccess.Wrapper
}

// New wraps doc. A nil doc is replaced by an empty envelope.
func New(doc map[string]any, overwritable bool) *Metadata {
	if doc == nil {
		doc = map[string]any{}
	}
	return &Metadata{
		doc: doc,
		w:   dotaccess.New(doc, dotaccess.WithOverwritable(overwritable)),
	}
}

// Create returns an empty, publicly accessible record of resourceType.
func Create(resourceType string, overwritable bool) *Metadata {
	return New(map[string]any{
		"metadata": map[string]any{},
		"pids":     map[string]any{},
		"access": map[string]any{
			"record":  "public",
			"files":   "public",
			"embargo": map[string]any{},
		},
		"files":         map[string]any{"enabled": true},
		"resource_type": resourceType,
	}, overwritable)
}

// Document returns the wrapped envelope.
func (m *Metadata) Document() map[string]any {
	return m.doc
}

// Get returns the value at path, or nil when it does not resolve.
func (m *Metadata) Get(path string) any {
	v, err := m.w.Get(path)
	if err != nil {
		return nil
	}
	return v
}

// Has reports whether path resolves.
func (m *Metadata) Has(path string) bool {
	return m.w.Has(path)
}

// Set stores v at path.
func (m *Metadata) Set(path string, v any) error {
	return m.w.Set(path, v)
}

// Delete removes the value at path.
func (m *Metadata) Delete(path string) error {
	return m.w.Delete(path)
}

// Append adds v to the list at path unless a structurally equal element is
// already present.
func (m *Metadata) Append(path string, v any) error {
	for _, existing := range m.list(path) {
		if reflect.DeepEqual(existing, v) {
			return nil
		}
	}
	return m.w.Append(path, v)
}

func (m *Metadata) list(path string) []any {
	return value.List(m.Get(path))
}

func (m *Metadata) text(path string) string {
	return GetText(m.Get(path))
}

func (m *Metadata) texts(path string) []string {
	var out []string
	for _, v := range m.list(path) {
		if t := GetText(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ID returns the record id.
func (m *Metadata) ID() string {
	return value.Text(m.doc["id"])
}

// SetID sets the record id.
func (m *Metadata) SetID(id string) {
	m.doc["id"] = id
}

// ParentID returns the version-independent parent id.
func (m *Metadata) ParentID() string {
	return value.Text(m.Get("parent.id"))
}

// SetParentID sets the parent id.
func (m *Metadata) SetParentID(id string) error {
	return m.w.Set("parent.id", id)
}

// ResourceType returns the repository resource type.
func (m *Metadata) ResourceType() string {
	return value.Text(m.doc["resource_type"])
}

// SetResourceType sets the repository resource type.
func (m *Metadata) SetResourceType(rt string) {
	m.doc["resource_type"] = rt
}

// PIDs returns the registered persistent identifiers by scheme.
func (m *Metadata) PIDs() map[string]PID {
	raw := value.Map(m.doc["pids"])
	pids := make(map[string]PID, len(raw))
	for scheme, v := range raw {
		p := value.Map(v)
		pids[scheme] = PID{
			Identifier: value.Text(p["identifier"]),
			Provider:   value.Text(p["provider"]),
			Client:     value.Text(p["client"]),
		}
	}
	return pids
}

// SetPID registers identifier under scheme.
func (m *Metadata) SetPID(scheme, identifier, provider string) {
	pids, ok := m.doc["pids"].(map[string]any)
	if !ok {
		pids = map[string]any{}
		m.doc["pids"] = pids
	}
	pids[scheme] = map[string]any{"identifier": identifier, "provider": provider}
}

// SetAccess sets record and file visibility ("public" or "restricted").
func (m *Metadata) SetAccess(record, files string) {
	access, ok := m.doc["access"].(map[string]any)
	if !ok {
		access = map[string]any{"embargo": map[string]any{}}
		m.doc["access"] = access
	}
	access["record"] = record
	access["files"] = files
}

// SetFilesEnabled toggles file attachment.
func (m *Metadata) SetFilesEnabled(enabled bool) {
	m.doc["files"] = map[string]any{"enabled": enabled}
}

// IsPublished reports whether the record has been published.
func (m *Metadata) IsPublished() bool {
	return value.Bool(m.doc["is_published"])
}
