package datacite

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/tu-graz-library/invenio-records-lom-sub000/format"
	"github.com/tu-graz-library/invenio-records-lom-sub000/helpers"
	"github.com/tu-graz-library/invenio-records-lom-sub000/lom"
	"github.com/tu-graz-library/invenio-records-lom-sub000/value"
)

// ErrMissingTitle is returned for records without a general title.
var ErrMissingTitle = errors.New("record has no title")

// relationTypes maps LOM relation kinds to DataCite relationType.
var relationTypes = map[string]string{
	"ispartof":       "IsPartOf",
	"haspart":        "HasPart",
	"isversionof":    "IsVersionOf",
	"hasversion":     "HasVersion",
	"isformatof":     "IsVariantFormOf",
	"hasformat":      "HasVariantFormOf",
	"references":     "References",
	"isreferencedby": "IsReferencedBy",
	"isbasedon":      "IsDerivedFrom",
	"isbasisfor":     "IsSourceOf",
	"requires":       "Requires",
	"isrequiredby":   "IsRequiredBy",
}

// identifierTypes maps identifier catalogs (lower-cased) to DataCite types.
var identifierTypes = map[string]string{
	"ark":    "ARK",
	"arxiv":  "arXiv",
	"doi":    "DOI",
	"handle": "Handle",
	"isbn":   "ISBN",
	"issn":   "ISSN",
	"purl":   "PURL",
	"url":    "URL",
	"urn":    "URN",
}

// Serialize writes records as DataCite JSON.
func (f *Format) Serialize(w io.Writer, records []*lom.Metadata, opts *format.SerializeOptions) error {
	if opts == nil {
		opts = format.NewSerializeOptions()
	}

	resources := make([]*Resource, 0, len(records))
	for i, record := range records {
		r, err := FromRecord(record, opts)
		if err != nil {
			return fmt.Errorf("converting record %d: %w", i, err)
		}
		resources = append(resources, r)
	}

	encoder := json.NewEncoder(w)
	if opts.Pretty {
		encoder.SetIndent("", "  ")
	}
	if len(resources) == 1 {
		return encoder.Encode(resources[0])
	}
	return encoder.Encode(resources)
}

// FromRecord maps a record onto a DataCite resource. Malformed contribution
// dates and languages are errors.
func FromRecord(md *lom.Metadata, opts *format.SerializeOptions) (*Resource, error) {
	if opts == nil {
		opts = format.NewSerializeOptions()
	}
	title := md.GetTitleText()
	if title == "" {
		return nil, ErrMissingTitle
	}

	r := &Resource{
		Titles:        []Title{{Title: title, Lang: textLang(md.GetTitle())}},
		Identifiers:   identifiers(md),
		Formats:       md.GetFormats(),
		Version:       md.GetVersion(),
		URL:           opts.RecordURL(md.ID()),
		SchemaVersion: SchemaVersion,
		Types: Types{
			ResourceTypeGeneral: "InteractiveResource",
			ResourceType:        resourceType(md),
		},
	}
	if size := md.GetSize(); size != "" {
		r.Sizes = []string{size + " bytes"}
	}

	contributes := md.GetContributors("")
	for _, c := range contributes {
		role := strings.ToLower(lom.ContributeRole(c))
		for _, name := range lom.ContributeEntities(c) {
			switch role {
			case "author":
				r.Creators = append(r.Creators, creator(name))
			case "publisher":
				if r.Publisher == "" {
					r.Publisher = name
				}
			default:
				r.Contributors = append(r.Contributors, Contributor{
					Name:            name,
					ContributorType: helpers.DataCiteContributorType(role),
				})
			}
		}
	}
	if r.Publisher == "" {
		r.Publisher = opts.Publisher
	}

	dates, pubYear, err := contributionDates(contributes)
	if err != nil {
		return nil, err
	}
	r.Dates = dates
	if pubYear == 0 {
		pubYear = opts.Clock().Year()
	}
	r.PublicationYear = strconv.Itoa(pubYear)

	lang, err := firstLanguage(md.GetLanguages())
	if err != nil {
		return nil, err
	}
	r.Language = lang

	for _, d := range md.GetDescriptions() {
		if text := helpers.StripHTML(lom.GetText(d)); text != "" {
			r.Descriptions = append(r.Descriptions, Description{
				Description:     text,
				DescriptionType: "Abstract",
				Lang:            textLang(d),
			})
		}
	}

	for _, k := range md.GetKeywords() {
		if text := lom.GetText(k); text != "" {
			r.Subjects = append(r.Subjects, Subject{Subject: text, Lang: textLang(k)})
		}
	}
	table, _ := lom.OEFOSTable("en")
	for _, code := range md.GetOEFOSIDs() {
		name, ok := table[code]
		if !ok {
			continue
		}
		r.Subjects = append(r.Subjects, Subject{
			Subject:       name,
			SubjectScheme: "ÖFOS 2012",
			SchemeURI:     lom.OEFOSSource,
			ValueURI:      lom.OEFOSSource + "/" + code,
			Lang:          "en",
		})
	}

	if url := md.GetRightsURL(); url != "" {
		r.RightsList = []Rights{{Rights: url, RightsURI: url, RightsIdentifier: ccIdentifier(url)}}
		if r.RightsList[0].RightsIdentifier != "" {
			r.RightsList[0].RightsIdentifierScheme = "SPDX"
		}
	}

	r.RelatedIdentifiers = relatedIdentifiers(md, opts)
	return r, nil
}

// identifiers lists the record PIDs followed by the general identifiers.
// Identifiers with the same value and a type differing only in case are
// listed once.
func identifiers(md *lom.Metadata) []Identifier {
	var out []Identifier
	add := func(id Identifier) {
		for _, existing := range out {
			if existing.Identifier == id.Identifier && strings.EqualFold(existing.IdentifierType, id.IdentifierType) {
				return
			}
		}
		out = append(out, id)
	}

	pids := md.PIDs()
	for _, scheme := range sortedSchemes(pids) {
		add(Identifier{Identifier: pids[scheme].Identifier, IdentifierType: strings.ToUpper(scheme)})
	}
	for _, raw := range md.GetIdentifiers() {
		idm := value.Map(raw)
		entry := lom.GetText(idm["entry"])
		if entry == "" {
			continue
		}
		add(Identifier{Identifier: entry, IdentifierType: value.Text(idm["catalog"])})
	}
	return out
}

// sortedSchemes puts doi and oai first, then the remaining schemes by name.
func sortedSchemes(pids map[string]lom.PID) []string {
	var out []string
	for _, s := range []string{"doi", "oai"} {
		if _, ok := pids[s]; ok {
			out = append(out, s)
		}
	}
	var rest []string
	for s := range pids {
		if s != "doi" && s != "oai" {
			rest = append(rest, s)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func creator(name string) Creator {
	c := Creator{Name: name}
	if strings.Contains(name, ",") {
		if n := helpers.ParseName(name); n != nil && n.Given != "" {
			c.NameType = "Personal"
			c.GivenName = n.Given
			c.FamilyName = n.Family
		}
	}
	return c
}

// contributionDates returns the Created date (single or start/end range)
// and the earliest year among publisher contributions.
func contributionDates(contributes []any) ([]Date, int, error) {
	var earliest, latest value.Date
	pubYear := 0
	for _, c := range contributes {
		raw := lom.ContributeDate(c)
		if raw == "" {
			continue
		}
		d, err := value.ParseDate(raw)
		if err != nil {
			return nil, 0, fmt.Errorf("contribution date: %w", err)
		}
		if earliest.IsZero() || d.Before(earliest) {
			earliest = d
		}
		if latest.IsZero() || latest.Before(d) {
			latest = d
		}
		if strings.EqualFold(lom.ContributeRole(c), "publisher") && (pubYear == 0 || d.Year < pubYear) {
			pubYear = d.Year
		}
	}
	if earliest.IsZero() {
		return nil, pubYear, nil
	}
	date := earliest.String()
	if earliest.String() != latest.String() {
		date += "/" + latest.String()
	}
	return []Date{{Date: date, DateType: "Created"}}, pubYear, nil
}

func firstLanguage(codes []string) (string, error) {
	for _, code := range codes {
		if code == "" || code == "none" || code == lom.LangNone {
			continue
		}
		tag, err := language.Parse(code)
		if err != nil {
			return "", fmt.Errorf("language %q: %w", code, err)
		}
		return tag.String(), nil
	}
	return "", nil
}

func relatedIdentifiers(md *lom.Metadata, opts *format.SerializeOptions) []RelatedIdentifier {
	var out []RelatedIdentifier
	for _, rel := range md.GetRelations("") {
		relType, ok := relationTypes[lom.RelationKind(rel)]
		if !ok {
			continue
		}
		for _, raw := range lom.RelationIdentifiers(rel) {
			idm := value.Map(raw)
			catalog := value.Text(idm["catalog"])
			entry := lom.GetText(idm["entry"])
			if entry == "" {
				continue
			}
			ri := RelatedIdentifier{RelatedIdentifier: entry, RelationType: relType}
			if catalog == lom.CatalogRepoPID || (opts.Catalog != "" && catalog == opts.Catalog) {
				ri.RelatedIdentifier = opts.RecordURL(entry)
				ri.RelatedIdentifierType = "URL"
				if ri.RelatedIdentifier == "" {
					continue
				}
			} else if t, ok := identifierTypes[strings.ToLower(catalog)]; ok {
				ri.RelatedIdentifierType = t
			} else {
				continue
			}
			out = append(out, ri)
		}
	}
	return out
}

func resourceType(md *lom.Metadata) string {
	if names := md.GetLearningResourceTypeNames("en"); len(names) > 0 {
		return names[0]
	}
	if rt := md.ResourceType(); rt != "" {
		return strings.ToUpper(rt[:1]) + rt[1:]
	}
	return "Learning Object"
}

// ccIdentifier derives an SPDX id such as "CC-BY-4.0" from a Creative
// Commons licence URL.
func ccIdentifier(url string) string {
	const marker = "creativecommons.org/licenses/"
	i := strings.Index(url, marker)
	if i < 0 {
		if strings.Contains(url, "creativecommons.org/publicdomain/zero/1.0") {
			return "CC0-1.0"
		}
		return ""
	}
	parts := strings.Split(strings.Trim(url[i+len(marker):], "/"), "/")
	if len(parts) < 2 {
		return ""
	}
	return "CC-" + strings.ToUpper(parts[0]) + "-" + parts[1]
}

func textLang(ls any) string {
	lang := lom.GetLang(ls)
	if lang == lom.LangNone {
		return ""
	}
	return lang
}

// JSON types for DataCite output.

type Resource struct {
	Types              Types               `json:"types"`
	Creators           []Creator           `json:"creators"`
	Titles             []Title             `json:"titles"`
	Publisher          string              `json:"publisher"`
	PublicationYear    string              `json:"publicationYear"`
	Subjects           []Subject           `json:"subjects,omitempty"`
	Contributors       []Contributor       `json:"contributors,omitempty"`
	Dates              []Date              `json:"dates,omitempty"`
	Language           string              `json:"language,omitempty"`
	Identifiers        []Identifier        `json:"identifiers,omitempty"`
	RelatedIdentifiers []RelatedIdentifier `json:"relatedIdentifiers,omitempty"`
	Sizes              []string            `json:"sizes,omitempty"`
	Formats            []string            `json:"formats,omitempty"`
	Version            string              `json:"version,omitempty"`
	RightsList         []Rights            `json:"rightsList,omitempty"`
	Descriptions       []Description       `json:"descriptions,omitempty"`
	URL                string              `json:"url,omitempty"`
	SchemaVersion      string              `json:"schemaVersion"`
}

type Types struct {
	ResourceTypeGeneral string `json:"resourceTypeGeneral"`
	ResourceType        string `json:"resourceType,omitempty"`
}

type Creator struct {
	Name       string `json:"name"`
	NameType   string `json:"nameType,omitempty"`
	GivenName  string `json:"givenName,omitempty"`
	FamilyName string `json:"familyName,omitempty"`
}

type Contributor struct {
	Name            string `json:"name"`
	ContributorType string `json:"contributorType"`
}

type Title struct {
	Title string `json:"title"`
	Lang  string `json:"lang,omitempty"`
}

type Subject struct {
	Subject       string `json:"subject"`
	SubjectScheme string `json:"subjectScheme,omitempty"`
	SchemeURI     string `json:"schemeUri,omitempty"`
	ValueURI      string `json:"valueUri,omitempty"`
	Lang          string `json:"lang,omitempty"`
}

type Date struct {
	Date     string `json:"date"`
	DateType string `json:"dateType"`
}

type Identifier struct {
	Identifier     string `json:"identifier"`
	IdentifierType string `json:"identifierType"`
}

type RelatedIdentifier struct {
	RelatedIdentifier     string `json:"relatedIdentifier"`
	RelatedIdentifierType string `json:"relatedIdentifierType"`
	RelationType          string `json:"relationType"`
}

type Rights struct {
	Rights                 string `json:"rights"`
	RightsURI              string `json:"rightsUri,omitempty"`
	RightsIdentifier       string `json:"rightsIdentifier,omitempty"`
	RightsIdentifierScheme string `json:"rightsIdentifierScheme,omitempty"`
}

type Description struct {
	Description     string `json:"description"`
	DescriptionType string `json:"descriptionType"`
	Lang            string `json:"lang,omitempty"`
}
