// Package oai writes LOM records as the XML served over OAI-PMH.
//
// The metadata document is first projected through an ordered schema that
// keeps the general, lifecycle, technical, educational, rights and
// classification categories and drops unknown keys. The projection is then
// walked into an element tree: mapping keys become lower-cased elements,
// lists become repeated siblings and langstrings become
// <langstring xml:lang="..."> leaves. Malformed langstrings, including text
// with characters XML cannot carry, are written as "N/A" and logged instead
// of failing the export.
package oai

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tu-graz-library/invenio-records-lom-sub000/format"
	"github.com/tu-graz-library/invenio-records-lom-sub000/format/xmltree"
	"github.com/tu-graz-library/invenio-records-lom-sub000/lom"
	"github.com/tu-graz-library/invenio-records-lom-sub000/value"
)

// XML namespaces of the lom element.
const (
	Namespace      = "https://oer-repo.uibk.ac.at/lom"
	NamespaceXSI   = "http://www.w3.org/2001/XMLSchema-instance"
	SchemaLocation = Namespace + " " + Namespace + "/latest/schema.xsd"
)

// Placeholder is written for langstrings without usable text.
const Placeholder = "N/A"

// DefaultPrefix names the repository in OAI identifiers when none is set.
const DefaultPrefix = "lom"

// Format implements the OAI-PMH LOM XML format.
type Format struct{}

var _ format.Serializer = (*Format)(nil)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "oai"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "LOM XML in OAI-PMH record envelopes"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"xml"}
}

// CanParse returns true if the input looks like LOM XML.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	return len(peek) > 0 && peek[0] == '<' && bytes.Contains(peek, []byte(Namespace))
}

// Serialize writes one <record>, or a <ListRecords> element for several.
func (f *Format) Serialize(w io.Writer, records []*lom.Metadata, opts *format.SerializeOptions) error {
	if opts == nil {
		opts = format.NewSerializeOptions()
	}
	var root *xmltree.Element
	if len(records) == 1 {
		root = RecordElement(records[0], opts)
	} else {
		root = xmltree.New("ListRecords")
		for _, r := range records {
			root.Append(RecordElement(r, opts))
		}
	}
	if err := xmltree.WriteTo(w, root); err != nil {
		return fmt.Errorf("writing oai xml: %w", err)
	}
	return nil
}

// Identifier returns the OAI identifier of md: its registered oai PID, or
// oai:<prefix>:<id>.
func Identifier(md *lom.Metadata, opts *format.SerializeOptions) string {
	if pid, ok := md.PIDs()["oai"]; ok && pid.Identifier != "" {
		return pid.Identifier
	}
	prefix := DefaultPrefix
	if opts != nil && opts.OAIPrefix != "" {
		prefix = opts.OAIPrefix
	}
	return "oai:" + prefix + ":" + md.ID()
}

// RecordElement wraps the lom element of md in an OAI-PMH record with header.
func RecordElement(md *lom.Metadata, opts *format.SerializeOptions) *xmltree.Element {
	record := xmltree.New("record")
	header := record.AddChild("header")
	header.AddChild("identifier").SetText(Identifier(md, opts))
	header.AddChild("datestamp").SetText(datestamp(md, opts))
	record.AddChild("metadata").Append(LOMElement(md, opts))
	return record
}

// datestamp formats the record's update time as UTC seconds, falling back
// to the options clock.
func datestamp(md *lom.Metadata, opts *format.SerializeOptions) string {
	const layout = "2006-01-02T15:04:05Z"
	if raw := value.Text(md.Document()["updated"]); raw != "" {
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			return t.UTC().Format(layout)
		}
		return raw
	}
	return opts.Clock().UTC().Format(layout)
}

// LOMElement builds the <lom> element of md.
func LOMElement(md *lom.Metadata, opts *format.SerializeOptions) *xmltree.Element {
	if opts == nil {
		opts = format.NewSerializeOptions()
	}
	root := xmltree.New("lom").
		SetAttr("xmlns", Namespace).
		SetAttr("xmlns:xsi", NamespaceXSI).
		SetAttr("xsi:schemaLocation", SchemaLocation)

	w := &walker{logger: slog.Default(), record: md.ID()}
	w.fill(root, filter(exportable(md, opts), lomSchema), "")
	return root
}

// exportable returns a shallow copy of the metadata whose general
// identifiers start with the repository id and the DOI.
func exportable(md *lom.Metadata, opts *format.SerializeOptions) map[string]any {
	metadata := make(map[string]any)
	for k, v := range value.Map(md.Document()["metadata"]) {
		metadata[k] = v
	}
	general := make(map[string]any)
	for k, v := range value.Map(metadata["general"]) {
		general[k] = v
	}

	catalog := opts.Catalog
	if catalog == "" {
		catalog = lom.CatalogRepoPID
	}
	var injected []any
	if id := md.ID(); id != "" {
		injected = append(injected, lom.Catalogify(id, catalog))
	}
	if doi, ok := md.PIDs()["doi"]; ok && doi.Identifier != "" {
		injected = append(injected, lom.Catalogify(doi.Identifier, "DOI"))
	}
	if ids := withIdentifiers(injected, general["identifier"]); len(ids) > 0 {
		general["identifier"] = ids
	}
	metadata["general"] = general
	return metadata
}

type walker struct {
	logger *slog.Logger
	record string
}

// element writes v under parent as one or more <key> elements.
func (w *walker) element(parent *xmltree.Element, key string, v any, path string) {
	switch val := v.(type) {
	case nil:
		return
	case []any:
		for _, el := range val {
			w.element(parent, key, el, path)
		}
		return
	}

	switch key {
	case "langstring":
		w.langstring(parent, v, path)
	case "location":
		parent.AddChild("location").SetText(locationText(v))
	default:
		w.fill(parent.AddChild(strings.ToLower(key)), v, path)
	}
}

// fill writes the content of v into el.
func (w *walker) fill(el *xmltree.Element, v any, path string) {
	switch val := v.(type) {
	case []kv:
		for _, entry := range val {
			w.element(el, entry.key, entry.value, join(path, entry.key))
		}
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if k == "#text" {
				el.SetText(value.Text(val[k]))
				continue
			}
			w.element(el, k, val[k], join(path, k))
		}
	default:
		el.SetText(value.Text(val))
	}
}

func (w *walker) langstring(parent *xmltree.Element, v any, path string) {
	inner := value.Map(v)
	text, ok := inner["#text"].(string)
	lang, _ := inner["lang"].(string)
	if !ok || strings.TrimSpace(text) == "" || !xmlChars(text) {
		w.logger.Warn("invalid langstring, writing placeholder",
			"record", w.record,
			"path", path,
			"value", inner["#text"],
		)
		text, lang = Placeholder, lom.LangNone
	}
	if lang == "" {
		lang = lom.LangNone
	}
	parent.AddChild("langstring").SetAttr("xml:lang", lang).SetText(text)
}

// xmlChars reports whether s is valid UTF-8 made only of characters XML 1.0
// allows.
func xmlChars(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
		case r >= 0x20 && r <= 0xD7FF:
		case r >= 0xE000 && r <= 0xFFFD:
		case r >= 0x10000 && r <= 0x10FFFF:
		default:
			return false
		}
	}
	return true
}

func locationText(v any) string {
	if m := value.Map(v); m != nil {
		return value.Text(m["#text"])
	}
	return value.Text(v)
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func init() {
	format.Register(&Format{})
}
