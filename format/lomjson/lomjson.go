// Package lomjson reads and writes records in their native JSON envelope.
package lomjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tu-graz-library/invenio-records-lom-sub000/format"
	"github.com/tu-graz-library/invenio-records-lom-sub000/lom"
)

// Format implements the native LOM JSON format.
type Format struct{}

var (
	_ format.Parser     = (*Format)(nil)
	_ format.Serializer = (*Format)(nil)
)

// categories are the top-level keys of a bare LOM metadata document.
var categories = []string{
	"general", "lifecycle", "metametadata", "technical", "educational",
	"rights", "relation", "annotation", "classification", "courses",
}

// Name returns the format identifier.
func (f *Format) Name() string {
	return "lom"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "LOM record JSON (envelope with metadata, pids, resource_type)"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"json"}
}

// CanParse returns true if the input looks like a LOM record or metadata
// document.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	if len(peek) == 0 || (peek[0] != '{' && peek[0] != '[') {
		return false
	}
	for _, key := range []string{`"metadata"`, `"general"`, `"lifecycle"`} {
		if bytes.Contains(peek, []byte(key)) {
			return true
		}
	}
	return false
}

// Parse reads one record object or an array of them. A bare metadata
// document (general, lifecycle, ...) is wrapped into an envelope.
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) ([]*lom.Metadata, error) {
	if opts == nil {
		opts = format.NewParseOptions()
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	data = bytes.TrimSpace(data)

	var docs []map[string]any
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &docs); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", sourceName(opts), err)
		}
	} else {
		var doc map[string]any
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", sourceName(opts), err)
		}
		docs = []map[string]any{doc}
	}

	records := make([]*lom.Metadata, 0, len(docs))
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		records = append(records, lom.New(envelope(doc), opts.Overwritable))
	}
	return records, nil
}

func envelope(doc map[string]any) map[string]any {
	if _, ok := doc["metadata"]; ok {
		return doc
	}
	for _, c := range categories {
		if _, ok := doc[c]; ok {
			return map[string]any{"metadata": doc}
		}
	}
	return doc
}

func sourceName(opts *format.ParseOptions) string {
	if opts.SourceName != "" {
		return opts.SourceName
	}
	return "input"
}

// Serialize writes the record envelopes as JSON.
func (f *Format) Serialize(w io.Writer, records []*lom.Metadata, opts *format.SerializeOptions) error {
	if opts == nil {
		opts = format.NewSerializeOptions()
	}
	encoder := json.NewEncoder(w)
	if opts.Pretty {
		encoder.SetIndent("", "  ")
	}
	if len(records) == 1 {
		return encoder.Encode(records[0].Document())
	}
	docs := make([]map[string]any, len(records))
	for i, r := range records {
		docs[i] = r.Document()
	}
	return encoder.Encode(docs)
}

func init() {
	format.Register(&Format{})
}
