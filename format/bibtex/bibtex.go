// Package bibtex provides a format plugin for BibTeX bibliography entries.
package bibtex

import (
	"bytes"

	"github.com/tu-graz-library/invenio-records-lom-sub000/format"
)

// Version documents the BibTeX specification this implementation targets.
const Version = "bibtex-1988+biblatex"

// Format implements the BibTeX format.
type Format struct{}

// Ensure Format implements the interfaces
var (
	_ format.Format     = (*Format)(nil)
	_ format.Serializer = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "bibtex"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "BibTeX bibliography format"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"bib", "bibtex"}
}

// CanParse returns true if the input looks like a BibTeX entry written by
// this package.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.ToLower(bytes.TrimSpace(peek))
	for _, pattern := range [][]byte{[]byte("@misc{"), []byte("@online{"), []byte("@book{")} {
		if bytes.HasPrefix(peek, pattern) {
			return true
		}
	}
	return false
}

func init() {
	format.Register(&Format{})
}
