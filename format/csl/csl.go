// Package csl provides format plugins for CSL-JSON (Citation Style Language)
// and for formatted citation strings.
package csl

import (
	"bytes"

	"github.com/tu-graz-library/invenio-records-lom-sub000/format"
)

// Version documents the CSL specification this implementation targets.
const Version = "1.0.2"

// Defaults for citation rendering.
const (
	DefaultStyle  = "harvard1"
	DefaultLocale = "en-US"
)

// Format implements the CSL-JSON format.
type Format struct{}

// CitationFormat writes one formatted citation per record.
type CitationFormat struct{}

// Ensure the formats implement the interfaces
var (
	_ format.Serializer = (*Format)(nil)
	_ format.Serializer = (*CitationFormat)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "csl"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "CSL-JSON (Citation Style Language v" + Version + ")"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"json", "csl"}
}

// CanParse returns true if the input looks like CSL-JSON.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	if len(peek) == 0 {
		return false
	}

	// CSL-JSON starts with [ or { and contains type field
	if peek[0] != '[' && peek[0] != '{' {
		return false
	}

	patterns := [][]byte{
		[]byte(`"type"`),
		[]byte(`"id"`),
		[]byte(`"title"`),
		[]byte(`"author"`),
	}

	matchCount := 0
	for _, pattern := range patterns {
		if bytes.Contains(peek, pattern) {
			matchCount++
		}
	}

	return matchCount >= 2
}

// Name returns the format identifier.
func (f *CitationFormat) Name() string {
	return "citation"
}

// Description returns a human-readable format description.
func (f *CitationFormat) Description() string {
	return "Formatted citation text (styles: harvard1, apa)"
}

// Extensions returns file extensions associated with this format.
func (f *CitationFormat) Extensions() []string {
	return []string{"txt"}
}

// CanParse always returns false; citations are output only.
func (f *CitationFormat) CanParse([]byte) bool {
	return false
}

func init() {
	format.Register(&Format{})
	format.Register(&CitationFormat{})
}
