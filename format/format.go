// Package format defines the interface for LOM serialization plugins.
package format

import (
	"io"
	"strings"
	"time"

	"github.com/tu-graz-library/invenio-records-lom-sub000/lom"
	"github.com/tu-graz-library/invenio-records-lom-sub000/relation"
)

// Format defines the interface that all format plugins must implement.
type Format interface {
	// Name returns the format identifier (e.g., "datacite", "oai", "csl")
	Name() string

	// Description returns a human-readable format description
	Description() string

	// Extensions returns file extensions associated with this format
	Extensions() []string

	// CanParse returns true if this format can parse the given input
	CanParse(peek []byte) bool
}

// Parser is a format that can read records.
type Parser interface {
	Format

	// Parse reads input and returns LOM records.
	Parse(r io.Reader, opts *ParseOptions) ([]*lom.Metadata, error)
}

// Serializer is a format that can write records to output.
type Serializer interface {
	Format

	// Serialize writes records to the output.
	// Options is format-specific configuration.
	Serialize(w io.Writer, records []*lom.Metadata, opts *SerializeOptions) error
}

// ParseOptions contains options for parsing.
type ParseOptions struct {
	// Overwritable controls whether setters on parsed records may replace values
	Overwritable bool

	// SourceName is an identifier for the source (for error messages)
	SourceName string
}

// SerializeOptions contains options for serialization.
type SerializeOptions struct {
	// Pretty enables pretty-printing (for JSON/XML formats)
	Pretty bool

	// BaseURL is the public URL of the repository (e.g., "https://repository.tugraz.at").
	// Used to build landing-page URLs from record ids.
	BaseURL string

	// Catalog is the identifier catalog of records in this repository
	Catalog string

	// Publisher is used when a record names no publisher
	Publisher string

	// OAIPrefix is the namespace part of OAI identifiers (oai:<prefix>:<id>)
	OAIPrefix string

	// Style and Locale select the citation style for citation formats
	Style  string
	Locale string

	// Resolver dereferences related records (course units for the UI view)
	Resolver relation.Dereferencer

	// Columns selects the columns of tabular formats
	Columns []string

	// MultiValueSeparator joins multiple values in one tabular cell
	MultiValueSeparator string

	// Now is the clock used for defaults such as the publication year
	Now func() time.Time
}

// NewParseOptions creates ParseOptions with defaults.
func NewParseOptions() *ParseOptions {
	return &ParseOptions{Overwritable: true}
}

// NewSerializeOptions creates SerializeOptions with defaults.
func NewSerializeOptions() *SerializeOptions {
	return &SerializeOptions{
		Catalog:             lom.CatalogRepoPID,
		Style:               "harvard1",
		Locale:              "en-US",
		MultiValueSeparator: "|",
		Now:                 time.Now,
	}
}

// Clock returns opts.Now, falling back to time.Now.
func (o *SerializeOptions) Clock() time.Time {
	if o == nil || o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// RecordURL returns the landing page of record id, or "" without a base URL.
func (o *SerializeOptions) RecordURL(id string) string {
	if o == nil || o.BaseURL == "" || id == "" {
		return ""
	}
	return strings.TrimRight(o.BaseURL, "/") + "/records/" + id
}
