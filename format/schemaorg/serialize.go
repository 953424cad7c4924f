package schemaorg

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/tu-graz-library/invenio-records-lom-sub000/format"
	"github.com/tu-graz-library/invenio-records-lom-sub000/helpers"
	"github.com/tu-graz-library/invenio-records-lom-sub000/lom"
	"github.com/tu-graz-library/invenio-records-lom-sub000/value"
)

// Serialize writes LOM records as schema.org JSON-LD.
func (f *Format) Serialize(w io.Writer, records []*lom.Metadata, opts *format.SerializeOptions) error {
	if opts == nil {
		opts = format.NewSerializeOptions()
	}

	jsonldDocs := make([]any, 0, len(records))
	for _, record := range records {
		doc, err := FromRecord(record, opts)
		if err != nil {
			return fmt.Errorf("converting record: %w", err)
		}
		jsonldDocs = append(jsonldDocs, doc)
	}

	encoder := json.NewEncoder(w)
	if opts.Pretty {
		encoder.SetIndent("", "  ")
	}

	// Single record outputs object; multiple outputs array
	if len(jsonldDocs) == 1 {
		return encoder.Encode(jsonldDocs[0])
	}
	return encoder.Encode(jsonldDocs)
}

// FromRecord converts a LOM record to a schema.org CreativeWork.
func FromRecord(md *lom.Metadata, opts *format.SerializeOptions) (*CreativeWork, error) {
	if opts == nil {
		opts = format.NewSerializeOptions()
	}
	cw := &CreativeWork{
		Thing: Thing{
			Context: "https://schema.org",
			Type:    determineSchemaType(md.ResourceType()),
			Name:    md.GetTitleText(),
			URL:     opts.RecordURL(md.ID()),
		},
		Keywords:           md.GetKeywordTexts(),
		Version:            md.GetVersion(),
		CreativeWorkStatus: md.GetStatus(),
		License:            md.GetRightsURL(),
		ContentSize:        md.GetSize(),
		TimeRequired:       md.GetDuration(),
		ThumbnailURL:       md.GetThumbnail(),
		DateCreated:        value.Text(md.Get("created")),
		DateModified:       value.Text(md.Get("updated")),
	}
	cw.ID = cw.URL

	if descs := md.GetDescriptionTexts(); len(descs) > 0 {
		cw.Description = helpers.StripHTML(descs[0])
	}

	if langs := languages(md); len(langs) == 1 {
		cw.InLanguage = langs[0]
	} else if len(langs) > 1 {
		cw.InLanguage = langs
	}

	if formats := md.GetFormats(); len(formats) == 1 {
		cw.EncodingFormat = formats[0]
	} else if len(formats) > 1 {
		cw.EncodingFormat = formats
	}
	if locs := md.GetLocations(); len(locs) > 0 {
		cw.ContentURL = locs[0]
		if cw.URL == "" {
			cw.URL = locs[0]
		}
	}

	if access := value.Text(md.Get("access.record")); access != "" {
		free := access == "public"
		cw.IsAccessibleForFree = &free
	}

	if err := applyContributors(cw, md); err != nil {
		return nil, err
	}
	if cw.Publisher == nil && opts.Publisher != "" {
		cw.Publisher = organization(opts.Publisher)
	}

	cw.About = oefosTerms(md)
	cw.LearningResourceType = learningResourceTypes(md)
	if ids := buildIdentifiers(md); len(ids) > 0 {
		cw.Identifier = ids
	}

	cw.IsPartOf = relationsToWorks(md, "ispartof", opts)
	cw.HasPart = relationsToWorks(md, "haspart", opts)

	return cw, nil
}

// determineSchemaType maps repository resource types to schema.org @type.
func determineSchemaType(resourceType string) SchemaType {
	switch resourceType {
	case lom.ResourceTypeCourse:
		return TypeCourse
	case lom.ResourceTypeLink:
		return TypeWebPage
	case lom.ResourceTypeUpload, lom.ResourceTypeFile, lom.ResourceTypeUnit:
		return TypeLearningResource
	default:
		return TypeCreativeWork
	}
}

func languages(md *lom.Metadata) []string {
	var out []string
	for _, code := range md.GetLanguages() {
		if code != lom.LangNone && code != "none" {
			out = append(out, code)
		}
	}
	return out
}

// applyContributors sorts lifecycle contributions into author, editor,
// publisher and contributor. The publisher's date becomes datePublished.
func applyContributors(cw *CreativeWork, md *lom.Metadata) error {
	var authors, editors, others []any
	for _, c := range md.GetContributors("") {
		role := helpers.NormalizeRole(lom.ContributeRole(c))
		names := lom.ContributeEntities(c)

		switch role {
		case "author":
			for _, n := range names {
				authors = append(authors, personOrOrg(n))
			}
		case "editor":
			for _, n := range names {
				editors = append(editors, personOrOrg(n))
			}
		case "publisher":
			if cw.Publisher == nil && len(names) > 0 {
				cw.Publisher = organization(names[0])
				if dt := lom.ContributeDate(c); dt != "" {
					d, err := value.ParseDate(dt)
					if err != nil {
						return fmt.Errorf("publication date: %w", err)
					}
					cw.DatePublished = d.String()
				}
			}
		default:
			for _, n := range names {
				others = append(others, personOrOrg(n))
			}
		}
	}

	if len(authors) > 0 {
		cw.Author = authors
	}
	if len(editors) > 0 {
		cw.Editor = editors
	}
	if len(others) > 0 {
		cw.Contributor = others
	}
	return nil
}

// personOrOrg treats "Family, Given" names as persons and everything else
// as organizations.
func personOrOrg(name string) any {
	parsed := helpers.ParseName(name)
	if parsed == nil || !strings.Contains(name, ",") || parsed.Given == "" {
		return organization(name)
	}
	return &Person{
		Thing: Thing{
			Type: TypePerson,
			Name: strings.TrimSpace(parsed.Given + " " + parsed.Family),
		},
		GivenName:       parsed.Given,
		FamilyName:      parsed.Family,
		HonorificSuffix: parsed.Suffix,
	}
}

func organization(name string) *Organization {
	return &Organization{Thing: Thing{Type: TypeOrganization, Name: name}}
}

// oefosTerms renders the leaf OEFOS classifications as DefinedTerms.
func oefosTerms(md *lom.Metadata) []DefinedTerm {
	codes := md.GetOEFOSLeafIDs()
	if len(codes) == 0 {
		return nil
	}
	table, _ := lom.OEFOSTable("en")
	vocab := KnownVocabularies["oefos"]
	set := &DefinedTermSet{Type: "DefinedTermSet", Name: vocab.Name, URL: vocab.URL}

	terms := make([]DefinedTerm, 0, len(codes))
	for _, code := range codes {
		terms = append(terms, DefinedTerm{
			Type:             "DefinedTerm",
			Name:             table[code],
			TermCode:         code,
			URL:              vocab.URL + "/" + code,
			InDefinedTermSet: set,
		})
	}
	return terms
}

func learningResourceTypes(md *lom.Metadata) []DefinedTerm {
	codes := md.GetLearningResourceTypeIDs()
	if len(codes) == 0 {
		return nil
	}
	names := md.GetLearningResourceTypeNames("en")
	vocab := KnownVocabularies["oer"]
	set := &DefinedTermSet{Type: "DefinedTermSet", Name: vocab.Name, URL: vocab.URL}

	terms := make([]DefinedTerm, 0, len(codes))
	for i, id := range codes {
		term := DefinedTerm{
			Type:             "DefinedTerm",
			TermCode:         lom.LearningResourceTypeCode(id),
			URL:              id,
			InDefinedTermSet: set,
		}
		if i < len(names) {
			term.Name = names[i]
		}
		terms = append(terms, term)
	}
	return terms
}

// buildIdentifiers renders general.identifier entries and minted PIDs.
func buildIdentifiers(md *lom.Metadata) []PropertyValue {
	var out []PropertyValue
	seen := map[string]bool{}
	add := func(scheme, id string) {
		if id == "" || seen[scheme+"\x00"+id] {
			return
		}
		seen[scheme+"\x00"+id] = true
		out = append(out, PropertyValue{Type: "PropertyValue", PropertyID: scheme, Value: id})
	}

	for _, id := range md.GetIdentifiers() {
		m := value.Map(id)
		add(value.Text(m["catalog"]), lom.GetText(m["entry"]))
	}
	pids := md.PIDs()
	schemes := make([]string, 0, len(pids))
	for scheme := range pids {
		schemes = append(schemes, scheme)
	}
	sort.Strings(schemes)
	for _, scheme := range schemes {
		add(scheme, pids[scheme].Identifier)
	}
	return out
}

// relationsToWorks links related records by URL when they are repository
// records and by bare identifier otherwise.
func relationsToWorks(md *lom.Metadata, kind string, opts *format.SerializeOptions) []*CreativeWork {
	var out []*CreativeWork
	for _, r := range md.GetRelations(kind) {
		for _, id := range lom.RelationIdentifiers(r) {
			m := value.Map(id)
			entry := lom.GetText(m["entry"])
			if entry == "" {
				continue
			}
			work := &CreativeWork{Thing: Thing{Type: TypeCreativeWork}}
			if value.Text(m["catalog"]) == lom.CatalogRepoPID && opts.RecordURL(entry) != "" {
				work.ID = opts.RecordURL(entry)
				work.URL = work.ID
			} else {
				work.Identifier = entry
			}
			out = append(out, work)
		}
	}
	return out
}
