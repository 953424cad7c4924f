// Package csv provides a format plugin for tabular exports of LOM records.
package csv

import (
	"bytes"

	"github.com/tu-graz-library/invenio-records-lom-sub000/format"
)

// Format implements the CSV format.
type Format struct{}

// Ensure Format implements the interfaces
var (
	_ format.Format     = (*Format)(nil)
	_ format.Serializer = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "csv"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "Comma-separated values (CSV) record listing"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"csv"}
}

// CanParse returns true if the input starts with this format's header row.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	return bytes.HasPrefix(peek, []byte("id,")) && bytes.Contains(peek, []byte("\n"))
}

func init() {
	format.Register(&Format{})
}
