package lom

import (
	"fmt"
	"strings"

	"github.com/tu-graz-library/invenio-records-lom-sub000/value"
)

// metametadata

// AppendMetaIdentifier adds an identifier to metametadata.identifier.
func (m *Metadata) AppendMetaIdentifier(id, catalog string) error {
	return m.Append("metadata.metametadata.identifier", Catalogify(id, catalog))
}

// AppendMetaContribute adds a contribution ("creator" or "validator") to
// metametadata.contribute.
func (m *Metadata) AppendMetaContribute(name, role, datetime string) error {
	return m.AppendContributeWithDate(name, role, datetime, PathMetametadataContribute)
}

// AppendMetadataSchema adds a schema name such as "LOMv1.0".
func (m *Metadata) AppendMetadataSchema(schema string) error {
	return m.Append("metadata.metametadata.metadataschema", schema)
}

// SetMetaLanguage sets metametadata.language.
func (m *Metadata) SetMetaLanguage(lang string) error {
	return m.Set("metadata.metametadata.language", lang)
}

// technical

// AppendFormat adds a MIME type to technical.format.
func (m *Metadata) AppendFormat(mimetype string) error {
	return m.Append("metadata.technical.format", mimetype)
}

// GetFormats returns technical.format.
func (m *Metadata) GetFormats() []string {
	return value.TextSlice(m.Get("metadata.technical.format"))
}

// SetSize sets technical.size in bytes.
func (m *Metadata) SetSize(size string) error {
	return m.Set("metadata.technical.size", size)
}

// GetSize returns technical.size.
func (m *Metadata) GetSize() string {
	return value.Text(m.Get("metadata.technical.size"))
}

// AppendLocation adds a URI location.
func (m *Metadata) AppendLocation(url string) error {
	return m.Append("metadata.technical.location", map[string]any{"#text": url, "type": "URI"})
}

// GetLocations returns the location URIs.
func (m *Metadata) GetLocations() []string {
	var out []string
	for _, loc := range m.list("metadata.technical.location") {
		switch l := loc.(type) {
		case string:
			out = append(out, l)
		case map[string]any:
			if t := value.Text(l["#text"]); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}

// SetThumbnail sets the preview image url.
func (m *Metadata) SetThumbnail(url string) error {
	return m.Set("metadata.technical.thumbnail.url", url)
}

// GetThumbnail returns the preview image url.
func (m *Metadata) GetThumbnail() string {
	return value.Text(m.Get("metadata.technical.thumbnail.url"))
}

// SetDuration sets technical.duration as an ISO 8601 duration.
func (m *Metadata) SetDuration(duration string) error {
	return m.Set("metadata.technical.duration.duration", duration)
}

// GetDuration returns technical.duration.
func (m *Metadata) GetDuration() string {
	return value.Text(m.Get("metadata.technical.duration.duration"))
}

// educational

const pathLearningResourceType = "metadata.educational.learningresourcetype"

// AppendLearningResourceType adds the learning-resource type code with its
// labels in every known language.
func (m *Metadata) AppendLearningResourceType(code string) error {
	table, err := LearningResourceTypes()
	if err != nil {
		return err
	}
	labels, ok := table[code]
	if !ok {
		return fmt.Errorf("learning resource type %q: %w", code, ErrUnknownCode)
	}
	entries := make([]any, 0, len(labels))
	for _, lang := range sortedKeys(labels) {
		entries = append(entries, Langstringify(labels[lang], lang))
	}
	return m.Append(pathLearningResourceType, map[string]any{
		"source": Langstringify(HCRTSource, LangNone),
		"id":     HCRTBase + code,
		"entry":  entries,
	})
}

// LearningResourceTypeCode returns the vocabulary code of a learning-resource
// type id.
func LearningResourceTypeCode(id string) string {
	return strings.TrimPrefix(id, HCRTBase)
}

// GetLearningResourceTypes returns the raw learning-resource types.
func (m *Metadata) GetLearningResourceTypes() []any {
	return m.list(pathLearningResourceType)
}

// GetLearningResourceTypeIDs returns the learning-resource type ids.
func (m *Metadata) GetLearningResourceTypeIDs() []string {
	var out []string
	for _, lrt := range m.GetLearningResourceTypes() {
		if id := value.Text(value.Map(lrt)["id"]); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// GetLearningResourceTypeNames returns the labels in lang.
func (m *Metadata) GetLearningResourceTypeNames(lang string) []string {
	var out []string
	for _, lrt := range m.GetLearningResourceTypes() {
		for _, e := range value.List(value.Map(lrt)["entry"]) {
			if GetLang(e) == lang {
				out = append(out, GetText(e))
			}
		}
	}
	return out
}

// AppendIntendedEndUserRole adds a LOMv1.0 end-user role ("learner", ...).
func (m *Metadata) AppendIntendedEndUserRole(role string) error {
	return m.Append("metadata.educational.intendedenduserrole", Vocabularify(role))
}

// AppendContext adds a LOMv1.0 educational context ("higher education", ...).
func (m *Metadata) AppendContext(context string) error {
	return m.Append("metadata.educational.context", Vocabularify(context))
}

// SetInteractivityType sets educational.interactivitytype.
func (m *Metadata) SetInteractivityType(t string) error {
	return m.Set("metadata.educational.interactivitytype", Vocabularify(t))
}

// AppendEducationalDescription adds a description of intended use.
func (m *Metadata) AppendEducationalDescription(text, lang string) error {
	return m.Append("metadata.educational.description", Langstringify(text, lang))
}

// AppendEducationalLanguage adds a learner language code.
func (m *Metadata) AppendEducationalLanguage(code string) error {
	return m.Append("metadata.educational.language", code)
}

// AppendTypicalAgeRange adds a typical age range such as "18-".
func (m *Metadata) AppendTypicalAgeRange(text, lang string) error {
	return m.Append("metadata.educational.typicalagerange", Langstringify(text, lang))
}

// rights

// SetRightsURL stores a licence URL. Creative Commons URLs are tagged with
// LangCCURL.
func (m *Metadata) SetRightsURL(url string) error {
	url = StandardizeURL(url)
	lang := ""
	if strings.Contains(url, "creativecommons.org") {
		lang = LangCCURL
	}
	return m.Set("metadata.rights", map[string]any{
		"copyrightandotherrestrictions": Vocabularify("yes"),
		"url":                           url,
		"description":                   Langstringify(url, lang),
	})
}

// GetRights returns the rights category.
func (m *Metadata) GetRights() map[string]any {
	return value.Map(m.Get("metadata.rights"))
}

// GetRightsURL returns the licence URL.
func (m *Metadata) GetRightsURL() string {
	rights := m.GetRights()
	if u := value.Text(rights["url"]); u != "" {
		return u
	}
	return GetText(rights["description"])
}

// SetCost sets rights.cost.
func (m *Metadata) SetCost(cost bool) error {
	v := "no"
	if cost {
		v = "yes"
	}
	return m.Set("metadata.rights.cost", Vocabularify(v))
}

// relation

// AppendRelation links this record to pid with kind ("haspart", ...).
func (m *Metadata) AppendRelation(pid, kind string) error {
	return m.Append("metadata.relation", map[string]any{
		"kind": Vocabularify(kind),
		"resource": map[string]any{
			"identifier": []any{Catalogify(pid, CatalogRepoPID)},
		},
	})
}

// GetRelations returns the relation entries of kind, or all when kind is "".
func (m *Metadata) GetRelations(kind string) []any {
	var out []any
	for _, r := range m.list("metadata.relation") {
		if kind == "" || RelationKind(r) == kind {
			out = append(out, r)
		}
	}
	return out
}

// RelationKind returns the kind value of a relation entry.
func RelationKind(r any) string {
	return vocabularyValue(value.Map(r)["kind"])
}

// RelationIdentifiers returns the identifiers of a relation's resource.
func RelationIdentifiers(r any) []any {
	return value.List(value.Map(value.Map(r)["resource"])["identifier"])
}

// annotation

// AppendAnnotation adds an annotation by entity.
func (m *Metadata) AppendAnnotation(entity, datetime, description string) error {
	a := map[string]any{"entity": entity}
	if datetime != "" {
		a["date"] = map[string]any{"datetime": datetime}
	}
	if description != "" {
		a["description"] = Langstringify(description, LangNone)
	}
	return m.Append("metadata.annotation", a)
}

// GetAnnotations returns the annotation entries.
func (m *Metadata) GetAnnotations() []any {
	return m.list("metadata.annotation")
}
