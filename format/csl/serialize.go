package csl

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/tu-graz-library/invenio-records-lom-sub000/format"
	"github.com/tu-graz-library/invenio-records-lom-sub000/helpers"
	"github.com/tu-graz-library/invenio-records-lom-sub000/lom"
	"github.com/tu-graz-library/invenio-records-lom-sub000/value"
)

// Role texts matched exactly, as stored by the upload form.
const (
	roleAuthor    = "Author"
	rolePublisher = "Publisher"
)

// Serialize writes records as CSL-JSON.
func (f *Format) Serialize(w io.Writer, records []*lom.Metadata, opts *format.SerializeOptions) error {
	if opts == nil {
		opts = format.NewSerializeOptions()
	}

	items := make([]*JSONItem, 0, len(records))
	for i, record := range records {
		item, err := FromRecord(record, opts)
		if err != nil {
			return fmt.Errorf("converting record %d: %w", i, err)
		}
		items = append(items, item)
	}

	encoder := json.NewEncoder(w)
	if opts.Pretty {
		encoder.SetIndent("", "  ")
	}

	if len(items) == 1 {
		return encoder.Encode(items[0])
	}
	return encoder.Encode(items)
}

// Serialize writes one citation line per record.
func (f *CitationFormat) Serialize(w io.Writer, records []*lom.Metadata, opts *format.SerializeOptions) error {
	for i, record := range records {
		citation, err := Citation(record, opts)
		if err != nil {
			return fmt.Errorf("citing record %d: %w", i, err)
		}
		if _, err := io.WriteString(w, citation+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// FromRecord maps a record onto a CSL-JSON item. The author names come from
// the first "Author" contribution and the publisher from the first
// "Publisher" contribution, whose date is the issued date. Role matching is
// case-sensitive.
func FromRecord(md *lom.Metadata, opts *format.SerializeOptions) (*JSONItem, error) {
	if opts == nil {
		opts = format.NewSerializeOptions()
	}
	item := &JSONItem{
		ID:    md.ID(),
		Type:  "document",
		Title: md.GetTitleText(),
	}

	var issued string
	for _, c := range md.GetContributors("") {
		switch lom.ContributeRole(c) {
		case roleAuthor:
			if item.Author == nil {
				for _, name := range lom.ContributeEntities(c) {
					item.Author = append(item.Author, nameToJSON(name))
				}
				if issued == "" {
					issued = lom.ContributeDate(c)
				}
			}
		case rolePublisher:
			if item.Publisher == "" {
				if names := lom.ContributeEntities(c); len(names) > 0 {
					item.Publisher = names[0]
				}
				if date := lom.ContributeDate(c); date != "" {
					issued = date
				}
			}
		}
	}

	if issued != "" {
		d, err := value.ParseDate(issued)
		if err != nil {
			return nil, fmt.Errorf("issued date: %w", err)
		}
		parts := []int{d.Year}
		if d.Month > 0 {
			parts = append(parts, d.Month)
			if d.Day > 0 {
				parts = append(parts, d.Day)
			}
		}
		item.Issued = &JSONDate{DateParts: [][]int{parts}}
	}

	if doi, ok := md.PIDs()["doi"]; ok {
		item.DOI = doi.Identifier
	}
	item.URL = opts.RecordURL(md.ID())

	if texts := md.GetDescriptionTexts(); len(texts) > 0 {
		item.Abstract = helpers.StripHTML(texts[0])
	}
	for _, code := range md.GetLanguages() {
		if code != lom.LangNone && code != "none" {
			item.Language = code
			break
		}
	}
	item.Version = md.GetVersion()

	if item.ID == "" {
		item.ID = generateID(item)
	}
	return item, nil
}

func nameToJSON(name string) JSONName {
	n := helpers.ParseName(name)
	if n == nil || n.Given == "" {
		return JSONName{Literal: strings.TrimSpace(name)}
	}
	return JSONName{Family: n.Family, Given: n.Given, Suffix: n.Suffix}
}

// generateID creates an ID from the first author and the issued year.
func generateID(item *JSONItem) string {
	author := "unknown"
	if len(item.Author) > 0 {
		a := item.Author[0]
		if a.Family != "" {
			author = a.Family
		} else if parts := strings.Fields(a.Literal); len(parts) > 0 {
			author = parts[len(parts)-1]
		}
	}

	year := "nd"
	if item.Issued != nil && len(item.Issued.DateParts) > 0 && len(item.Issued.DateParts[0]) > 0 {
		year = fmt.Sprintf("%d", item.Issued.DateParts[0][0])
	}

	author = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return r
		}
		return -1
	}, author)
	if author == "" {
		author = "unknown"
	}

	return strings.ToLower(author) + year
}

// JSON types for CSL-JSON output.

type JSONItem struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title,omitempty"`
	Abstract  string     `json:"abstract,omitempty"`
	Language  string     `json:"language,omitempty"`
	Author    []JSONName `json:"author,omitempty"`
	Issued    *JSONDate  `json:"issued,omitempty"`
	DOI       string     `json:"DOI,omitempty"`
	URL       string     `json:"URL,omitempty"`
	Publisher string     `json:"publisher,omitempty"`
	Version   string     `json:"version,omitempty"`
}

type JSONName struct {
	Family  string `json:"family,omitempty"`
	Given   string `json:"given,omitempty"`
	Suffix  string `json:"suffix,omitempty"`
	Literal string `json:"literal,omitempty"`
}

type JSONDate struct {
	DateParts [][]int `json:"date-parts,omitempty"`
}
