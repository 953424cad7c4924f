// Package ui projects records into the JSON consumed by the record landing
// page. The projection depends on the resource type: courses carry little
// metadata of their own and borrow contributors and descriptions from the
// units they contain.
package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/text/language"

	"github.com/tu-graz-library/invenio-records-lom-sub000/format"
	"github.com/tu-graz-library/invenio-records-lom-sub000/helpers"
	"github.com/tu-graz-library/invenio-records-lom-sub000/lom"
	"github.com/tu-graz-library/invenio-records-lom-sub000/relation"
)

// View is the landing page projection of one record.
type View struct {
	ID                    string        `json:"id"`
	ResourceType          string        `json:"resource_type"`
	Title                 string        `json:"title"`
	Version               string        `json:"version,omitempty"`
	Status                string        `json:"status,omitempty"`
	Descriptions          []Text        `json:"descriptions"`
	Contributors          []Contributor `json:"contributors"`
	Keywords              []string      `json:"keywords,omitempty"`
	Languages             []string      `json:"languages,omitempty"`
	LearningResourceTypes []string      `json:"learning_resource_types,omitempty"`
	Disciplines           []string      `json:"disciplines,omitempty"`
	License               string        `json:"license,omitempty"`
	DOI                   string        `json:"doi,omitempty"`
	URL                   string        `json:"url,omitempty"`
	Formats               []string      `json:"formats,omitempty"`
	Size                  string        `json:"size,omitempty"`
	Locations             []string      `json:"locations,omitempty"`
	Thumbnail             string        `json:"thumbnail,omitempty"`
	Duration              string        `json:"duration,omitempty"`
	Courses               []Course      `json:"courses,omitempty"`
	Units                 []Unit        `json:"units,omitempty"`
}

// Text is a description with its language.
type Text struct {
	Text string `json:"text"`
	Lang string `json:"lang,omitempty"`
}

// Contributor is one contributing entity.
type Contributor struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Course is a course a unit belongs to.
type Course struct {
	Title   string `json:"title"`
	Version string `json:"version,omitempty"`
}

// Unit is a unit listed on a course page.
type Unit struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Format implements the UI JSON projection.
type Format struct{}

var _ format.Serializer = (*Format)(nil)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "ui"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "Landing page JSON view"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"json"}
}

// CanParse returns true if the input looks like a UI view.
func (f *Format) CanParse(peek []byte) bool {
	peek = bytes.TrimSpace(peek)
	return len(peek) > 0 && peek[0] == '{' && bytes.Contains(peek, []byte(`"learning_resource_types"`))
}

// Serialize writes the views of records as JSON.
func (f *Format) Serialize(w io.Writer, records []*lom.Metadata, opts *format.SerializeOptions) error {
	if opts == nil {
		opts = format.NewSerializeOptions()
	}
	ctx := context.Background()
	views := make([]*View, 0, len(records))
	for i, record := range records {
		v, err := FromRecord(ctx, record, opts)
		if err != nil {
			return fmt.Errorf("converting record %d: %w", i, err)
		}
		views = append(views, v)
	}

	encoder := json.NewEncoder(w)
	if opts.Pretty {
		encoder.SetIndent("", "  ")
	}
	if len(views) == 1 {
		return encoder.Encode(views[0])
	}
	return encoder.Encode(views)
}

// FromRecord builds the view of md. Course views dereference their units
// through opts.Resolver; without a resolver they have no contributors or
// descriptions.
func FromRecord(ctx context.Context, md *lom.Metadata, opts *format.SerializeOptions) (*View, error) {
	if opts == nil {
		opts = format.NewSerializeOptions()
	}
	lang := baseLanguage(opts.Locale)

	v := &View{
		ID:           md.ID(),
		ResourceType: md.ResourceType(),
		Title:        md.GetTitleText(),
		Version:      md.GetVersion(),
		Status:       md.GetStatus(),
		URL:          opts.RecordURL(md.ID()),
		License:      md.GetRightsURL(),
		Keywords:     md.GetKeywordTexts(),
		Disciplines:  md.GetOEFOSNames(lang),
	}
	if doi, ok := md.PIDs()["doi"]; ok {
		v.DOI = doi.Identifier
	}
	for _, code := range md.GetLanguages() {
		if code != lom.LangNone {
			v.Languages = append(v.Languages, code)
		}
	}
	v.LearningResourceTypes = md.GetLearningResourceTypeNames(lang)

	switch md.ResourceType() {
	case lom.ResourceTypeCourse:
		if err := v.fromUnits(ctx, md, opts); err != nil {
			return nil, err
		}
	case lom.ResourceTypeLink:
		v.Descriptions = descriptions(md)
		v.Contributors = contributors(md)
		v.Locations = md.GetLocations()
	case lom.ResourceTypeFile:
		v.Contributors = contributors(md)
		v.technical(md)
	default:
		v.Descriptions = descriptions(md)
		v.Contributors = contributors(md)
		v.technical(md)
		for _, c := range md.GetCourses() {
			v.Courses = append(v.Courses, Course{Title: c.Title(), Version: c.Version()})
		}
	}

	if v.Descriptions == nil {
		v.Descriptions = []Text{}
	}
	if v.Contributors == nil {
		v.Contributors = []Contributor{}
	}
	return v, nil
}

func (v *View) technical(md *lom.Metadata) {
	v.Formats = md.GetFormats()
	v.Size = md.GetSize()
	v.Locations = md.GetLocations()
	v.Thumbnail = md.GetThumbnail()
	v.Duration = md.GetDuration()
}

// fromUnits fills a course view from its haspart units: contributors of all
// units and the descriptions of the most recently added one.
func (v *View) fromUnits(ctx context.Context, md *lom.Metadata, opts *format.SerializeOptions) error {
	if opts.Resolver == nil {
		return nil
	}
	resolved, err := relation.New(md.Document(), relation.HasPart, opts.Catalog).
		Dereference(ctx, opts.Resolver, relation.WithMaxDepth(1))
	if err != nil {
		return fmt.Errorf("resolving course units: %w", err)
	}

	seen := make(map[Contributor]bool)
	for _, r := range resolved {
		unit := lom.New(r.Document, false)
		v.Units = append(v.Units, Unit{ID: r.Identifier.Entry, Title: unit.GetTitleText()})
		for _, c := range contributors(unit) {
			if !seen[c] {
				seen[c] = true
				v.Contributors = append(v.Contributors, c)
			}
		}
	}
	if len(resolved) > 0 {
		v.Descriptions = descriptions(lom.New(resolved[len(resolved)-1].Document, false))
	}
	return nil
}

func descriptions(md *lom.Metadata) []Text {
	var out []Text
	for _, d := range md.GetDescriptions() {
		if text := helpers.StripHTML(lom.GetText(d)); text != "" {
			out = append(out, Text{Text: text, Lang: lom.GetLang(d)})
		}
	}
	return out
}

func contributors(md *lom.Metadata) []Contributor {
	var out []Contributor
	for _, c := range md.GetContributors("") {
		role := helpers.RoleLabel(lom.ContributeRole(c))
		for _, name := range lom.ContributeEntities(c) {
			out = append(out, Contributor{Name: name, Role: role})
		}
	}
	return out
}

// baseLanguage reduces a locale such as "de-DE" to "de", defaulting to "en".
func baseLanguage(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return "en"
	}
	base, _ := tag.Base()
	return base.String()
}

func init() {
	format.Register(&Format{})
}
