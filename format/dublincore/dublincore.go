// Package dublincore provides format plugins for Dublin Core metadata:
// "dublincore" writes oai_dc XML and "dublincore-json" writes the flat JSON
// projection.
package dublincore

import (
	"bytes"

	"github.com/tu-graz-library/invenio-records-lom-sub000/format"
)

// Version documents the Dublin Core specification this implementation targets.
const Version = "2020-01-20"

// Namespaces of the oai_dc container.
const (
	NamespaceOAIDC = "http://www.openarchives.org/OAI/2.0/oai_dc/"
	NamespaceDC    = "http://purl.org/dc/elements/1.1/"
	NamespaceXSI   = "http://www.w3.org/2001/XMLSchema-instance"
	SchemaLocation = NamespaceOAIDC + " http://www.openarchives.org/OAI/2.0/oai_dc.xsd"
)

// Format implements Dublin Core as oai_dc XML.
type Format struct{}

// JSONFormat implements the Dublin Core JSON projection.
type JSONFormat struct{}

// Ensure the formats implement the interfaces
var (
	_ format.Serializer = (*Format)(nil)
	_ format.Serializer = (*JSONFormat)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "dublincore"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "Dublin Core Metadata Element Set as oai_dc XML (v" + Version + ")"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"xml", "dc"}
}

// CanParse returns true if the input looks like Dublin Core XML.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	if len(peek) == 0 || peek[0] != '<' {
		return false
	}
	dcPatterns := [][]byte{
		[]byte("purl.org/dc/elements"),
		[]byte("oai_dc:dc"),
	}
	for _, pattern := range dcPatterns {
		if bytes.Contains(peek, pattern) {
			return true
		}
	}
	return false
}

// Name returns the format identifier.
func (f *JSONFormat) Name() string {
	return "dublincore-json"
}

// Description returns a human-readable format description.
func (f *JSONFormat) Description() string {
	return "Dublin Core Metadata Element Set as JSON (v" + Version + ")"
}

// Extensions returns file extensions associated with this format.
func (f *JSONFormat) Extensions() []string {
	return []string{"json"}
}

// CanParse returns true if the input looks like Dublin Core JSON.
func (f *JSONFormat) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	if len(peek) == 0 || peek[0] != '{' {
		return false
	}
	return bytes.Contains(peek, []byte(`"titles"`)) && bytes.Contains(peek, []byte(`"creators"`))
}

func init() {
	format.Register(&Format{})
	format.Register(&JSONFormat{})
}
