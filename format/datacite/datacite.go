// Package datacite provides a format plugin for DataCite JSON.
package datacite

import (
	"bytes"

	"github.com/tu-graz-library/invenio-records-lom-sub000/format"
)

// Version documents the DataCite specification this implementation targets.
const Version = "4.4"

// SchemaVersion is written to every resource.
const SchemaVersion = "http://datacite.org/schema/kernel-4"

// Format implements the DataCite JSON format.
type Format struct{}

// Ensure Format implements the interfaces
var (
	_ format.Format     = (*Format)(nil)
	_ format.Serializer = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "datacite"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "DataCite Metadata Schema JSON (v" + Version + ")"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"json"}
}

// CanParse returns true if the input looks like DataCite JSON.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	if len(peek) == 0 || peek[0] != '{' {
		return false
	}
	return bytes.Contains(peek, []byte(`"schemaVersion"`)) &&
		bytes.Contains(peek, []byte("datacite.org/schema"))
}

func init() {
	format.Register(&Format{})
}
