package dublincore

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/tu-graz-library/invenio-records-lom-sub000/format"
	"github.com/tu-graz-library/invenio-records-lom-sub000/format/xmltree"
	"github.com/tu-graz-library/invenio-records-lom-sub000/helpers"
	"github.com/tu-graz-library/invenio-records-lom-sub000/lom"
	"github.com/tu-graz-library/invenio-records-lom-sub000/value"
)

// Record is the flat Dublin Core projection of a LOM record. Every element
// is a list; sources and locations have no LOM counterpart and stay empty.
type Record struct {
	Titles       []string `json:"titles"`
	Creators     []string `json:"creators"`
	Subjects     []string `json:"subjects"`
	Descriptions []string `json:"descriptions"`
	Publishers   []string `json:"publishers"`
	Contributors []string `json:"contributors"`
	Dates        []string `json:"dates"`
	Types        []string `json:"types"`
	Formats      []string `json:"formats"`
	Identifiers  []string `json:"identifiers"`
	Sources      []string `json:"sources"`
	Languages    []string `json:"languages"`
	Relations    []string `json:"relations"`
	Rights       []string `json:"rights"`
	Locations    []string `json:"locations"`
	Coverage     []string `json:"coverage"`
}

// FromRecord maps a LOM record onto Dublin Core.
func FromRecord(md *lom.Metadata, opts *format.SerializeOptions) *Record {
	if opts == nil {
		opts = format.NewSerializeOptions()
	}
	dc := &Record{}

	if title := md.GetTitleText(); title != "" {
		dc.Titles = append(dc.Titles, title)
	}

	for _, c := range md.GetContributors("") {
		names := lom.ContributeEntities(c)
		switch helpers.NormalizeRole(lom.ContributeRole(c)) {
		case "author":
			dc.Creators = append(dc.Creators, names...)
		case "publisher":
			dc.Publishers = append(dc.Publishers, names...)
		default:
			dc.Contributors = append(dc.Contributors, names...)
		}
	}

	dc.Subjects = append(dc.Subjects, md.GetKeywordTexts()...)
	dc.Subjects = append(dc.Subjects, md.GetOEFOSNames("en")...)

	for _, d := range md.GetDescriptionTexts() {
		if text := helpers.StripHTML(d); text != "" {
			dc.Descriptions = append(dc.Descriptions, text)
		}
	}

	for _, raw := range md.GetContributorDates("") {
		if d, err := value.ParseDate(raw); err == nil && !d.IsZero() {
			dc.Dates = append(dc.Dates, d.String())
		}
	}

	dc.Types = md.GetLearningResourceTypeNames("en")
	if len(dc.Types) == 0 && md.ResourceType() != "" {
		dc.Types = []string{md.ResourceType()}
	}

	dc.Formats = md.GetFormats()

	if url := opts.RecordURL(md.ID()); url != "" {
		dc.Identifiers = append(dc.Identifiers, url)
	}
	if doi, ok := md.PIDs()["doi"]; ok && doi.Identifier != "" {
		dc.Identifiers = append(dc.Identifiers, "https://doi.org/"+doi.Identifier)
	}
	dc.Identifiers = append(dc.Identifiers, md.GetIdentifierTexts()...)

	for _, code := range md.GetLanguages() {
		if code != "" && code != lom.LangNone && code != "none" {
			dc.Languages = append(dc.Languages, code)
		}
	}

	for _, rel := range md.GetRelations("") {
		for _, raw := range lom.RelationIdentifiers(rel) {
			idm := value.Map(raw)
			entry := lom.GetText(idm["entry"])
			if entry == "" {
				continue
			}
			if value.Text(idm["catalog"]) == opts.Catalog {
				if url := opts.RecordURL(entry); url != "" {
					entry = url
				}
			}
			dc.Relations = append(dc.Relations, entry)
		}
	}

	if url := md.GetRightsURL(); url != "" {
		dc.Rights = append(dc.Rights, url)
	}

	for _, c := range value.List(md.Get("metadata.general.coverage")) {
		if text := lom.GetText(c); text != "" {
			dc.Coverage = append(dc.Coverage, text)
		}
	}

	dc.normalize()
	return dc
}

// normalize removes duplicates and replaces nil slices with empty ones so
// JSON output always carries lists.
func (dc *Record) normalize() {
	all := append(dc.fields(), field{"location", &dc.Locations})
	for _, f := range all {
		*f.values = value.Unique(*f.values)
		if *f.values == nil {
			*f.values = []string{}
		}
	}
}

type field struct {
	element string
	values  *[]string
}

// fields lists the record's elements in oai_dc order.
func (dc *Record) fields() []field {
	return []field{
		{"title", &dc.Titles},
		{"creator", &dc.Creators},
		{"subject", &dc.Subjects},
		{"description", &dc.Descriptions},
		{"publisher", &dc.Publishers},
		{"contributor", &dc.Contributors},
		{"date", &dc.Dates},
		{"type", &dc.Types},
		{"format", &dc.Formats},
		{"identifier", &dc.Identifiers},
		{"source", &dc.Sources},
		{"language", &dc.Languages},
		{"relation", &dc.Relations},
		{"coverage", &dc.Coverage},
		{"rights", &dc.Rights},
	}
}

// ToXML builds the oai_dc:dc element. Locations have no dc element and are
// not written.
func ToXML(dc *Record) *xmltree.Element {
	root := xmltree.New("oai_dc:dc").
		SetAttr("xmlns:oai_dc", NamespaceOAIDC).
		SetAttr("xmlns:dc", NamespaceDC).
		SetAttr("xmlns:xsi", NamespaceXSI).
		SetAttr("xsi:schemaLocation", SchemaLocation)
	for _, f := range dc.fields() {
		for _, v := range *f.values {
			if strings.TrimSpace(v) != "" {
				root.AddChild("dc:" + f.element).SetText(v)
			}
		}
	}
	return root
}

// Serialize writes records as oai_dc XML documents, one root element per
// record after a single XML declaration.
func (f *Format) Serialize(w io.Writer, records []*lom.Metadata, opts *format.SerializeOptions) error {
	for i, record := range records {
		output, err := xmltree.MarshalWithOptions(ToXML(FromRecord(record, opts)), xmltree.MarshalOptions{
			Indent: "  ",
			Header: i == 0,
		})
		if err != nil {
			return fmt.Errorf("marshaling record %d: %w", i, err)
		}
		if _, err := w.Write(output); err != nil {
			return err
		}
	}
	return nil
}

// Serialize writes records as Dublin Core JSON.
func (f *JSONFormat) Serialize(w io.Writer, records []*lom.Metadata, opts *format.SerializeOptions) error {
	if opts == nil {
		opts = format.NewSerializeOptions()
	}
	out := make([]*Record, len(records))
	for i, record := range records {
		out[i] = FromRecord(record, opts)
	}

	encoder := json.NewEncoder(w)
	if opts.Pretty {
		encoder.SetIndent("", "  ")
	}
	if len(out) == 1 {
		return encoder.Encode(out[0])
	}
	return encoder.Encode(out)
}
