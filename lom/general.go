package lom

import (
	"github.com/tu-graz-library/invenio-records-lom-sub000/value"
)

const (
	pathIdentifier  = "metadata.general.identifier"
	pathTitle       = "metadata.general.title"
	pathLanguage    = "metadata.general.language"
	pathDescription = "metadata.general.description"
	pathKeyword     = "metadata.general.keyword"
)

// AppendIdentifier adds an identifier in catalog to general.identifier.
func (m *Metadata) AppendIdentifier(id, catalog string) error {
	return m.Append(pathIdentifier, Catalogify(id, catalog))
}

// GetIdentifiers returns the raw general identifiers.
func (m *Metadata) GetIdentifiers() []any {
	return m.list(pathIdentifier)
}

// GetIdentifierTexts returns the entries of all general identifiers.
func (m *Metadata) GetIdentifierTexts() []string {
	var out []string
	for _, id := range m.GetIdentifiers() {
		if t := GetText(value.Map(id)["entry"]); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// GetIdentifier returns the first identifier entry in catalog, or "".
func (m *Metadata) GetIdentifier(catalog string) string {
	for _, id := range m.GetIdentifiers() {
		idm := value.Map(id)
		if value.Text(idm["catalog"]) == catalog {
			return GetText(idm["entry"])
		}
	}
	return ""
}

// SetTitle sets general.title.
func (m *Metadata) SetTitle(title, lang string) error {
	return m.Set(pathTitle, Langstringify(title, lang))
}

// GetTitle returns the raw title langstring, or nil.
func (m *Metadata) GetTitle() map[string]any {
	return value.Map(m.Get(pathTitle))
}

// GetTitleText returns the title text.
func (m *Metadata) GetTitleText() string {
	return m.text(pathTitle)
}

// AppendLanguage adds a language code to general.language.
func (m *Metadata) AppendLanguage(code string) error {
	return m.Append(pathLanguage, code)
}

// GetLanguages returns the general language codes.
func (m *Metadata) GetLanguages() []string {
	return value.TextSlice(m.Get(pathLanguage))
}

// AppendDescription adds a description langstring.
func (m *Metadata) AppendDescription(text, lang string) error {
	return m.Append(pathDescription, Langstringify(text, lang))
}

// GetDescriptions returns the raw description langstrings.
func (m *Metadata) GetDescriptions() []any {
	return m.list(pathDescription)
}

// GetDescriptionTexts returns the description texts.
func (m *Metadata) GetDescriptionTexts() []string {
	return m.texts(pathDescription)
}

// AppendKeyword adds a keyword langstring.
func (m *Metadata) AppendKeyword(text, lang string) error {
	return m.Append(pathKeyword, Langstringify(text, lang))
}

// GetKeywords returns the raw keyword langstrings.
func (m *Metadata) GetKeywords() []any {
	return m.list(pathKeyword)
}

// GetKeywordTexts returns the keyword texts.
func (m *Metadata) GetKeywordTexts() []string {
	return m.texts(pathKeyword)
}

// SetAggregationLevel sets general.aggregationlevel (LOMv1.0 "1" to "4").
func (m *Metadata) SetAggregationLevel(level string) error {
	return m.Set("metadata.general.aggregationlevel", Vocabularify(level))
}

// SetStructure sets general.structure, e.g. "atomic" or "hierarchical".
func (m *Metadata) SetStructure(structure string) error {
	return m.Set("metadata.general.structure", Vocabularify(structure))
}
