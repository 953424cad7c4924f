package schemaorg

import "github.com/tu-graz-library/invenio-records-lom-sub000/lom"

// SchemaType represents supported schema.org @type values.
type SchemaType string

const (
	TypeLearningResource SchemaType = "LearningResource"
	TypeCourse           SchemaType = "Course"
	TypeWebPage          SchemaType = "WebPage"
	TypePerson           SchemaType = "Person"
	TypeOrganization     SchemaType = "Organization"
	TypeCreativeWork     SchemaType = "CreativeWork" // Fallback type
)

// Thing is the base schema.org type.
type Thing struct {
	Context     any    `json:"@context,omitempty"`
	Type        any    `json:"@type"`
	ID          string `json:"@id,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	Identifier  any    `json:"identifier,omitempty"` // string, []string, or []PropertyValue
	SameAs      any    `json:"sameAs,omitempty"`     // string or []string
}

// CreativeWork extends Thing with the properties LOM records populate.
type CreativeWork struct {
	Thing

	// Authorship
	Author      any `json:"author,omitempty"`
	Contributor any `json:"contributor,omitempty"`
	Editor      any `json:"editor,omitempty"`
	Publisher   any `json:"publisher,omitempty"`

	// Dates
	DateCreated   string `json:"dateCreated,omitempty"`
	DatePublished string `json:"datePublished,omitempty"`
	DateModified  string `json:"dateModified,omitempty"`

	// Classification
	About                []DefinedTerm `json:"about,omitempty"`
	Keywords             []string      `json:"keywords,omitempty"`
	InLanguage           any           `json:"inLanguage,omitempty"`
	LearningResourceType []DefinedTerm `json:"learningResourceType,omitempty"`
	Version              string        `json:"version,omitempty"`
	CreativeWorkStatus   string        `json:"creativeWorkStatus,omitempty"`

	// Rights
	License             string `json:"license,omitempty"`
	IsAccessibleForFree *bool  `json:"isAccessibleForFree,omitempty"`

	// Relations
	IsPartOf []*CreativeWork `json:"isPartOf,omitempty"`
	HasPart  []*CreativeWork `json:"hasPart,omitempty"`

	// Digital description
	EncodingFormat any    `json:"encodingFormat,omitempty"`
	ContentSize    string `json:"contentSize,omitempty"`
	ContentURL     string `json:"contentUrl,omitempty"`
	TimeRequired   string `json:"timeRequired,omitempty"` // ISO 8601 duration
	ThumbnailURL   string `json:"thumbnailUrl,omitempty"`
}

// Person represents a person.
type Person struct {
	Thing

	GivenName       string `json:"givenName,omitempty"`
	FamilyName      string `json:"familyName,omitempty"`
	HonorificSuffix string `json:"honorificSuffix,omitempty"`
}

// Organization represents an organization.
type Organization struct {
	Thing
}

// PropertyValue represents a property-value pair for identifiers.
type PropertyValue struct {
	Type       string `json:"@type,omitempty"`
	PropertyID string `json:"propertyID,omitempty"`
	Value      string `json:"value,omitempty"`
}

// DefinedTerm represents a term from a controlled vocabulary.
type DefinedTerm struct {
	Type             string          `json:"@type,omitempty"`
	Name             string          `json:"name,omitempty"`
	TermCode         string          `json:"termCode,omitempty"`
	URL              string          `json:"url,omitempty"`
	InDefinedTermSet *DefinedTermSet `json:"inDefinedTermSet,omitempty"`
}

// DefinedTermSet represents a controlled vocabulary.
type DefinedTermSet struct {
	Type string `json:"@type,omitempty"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

// VocabularyInfo holds metadata about a controlled vocabulary.
type VocabularyInfo struct {
	Name string
	URL  string
}

// KnownVocabularies maps the vocabularies LOM records classify with.
var KnownVocabularies = map[string]VocabularyInfo{
	"oefos": {
		Name: "Österreichische Systematik der Wissenschaftszweige 2012",
		URL:  lom.OEFOSSource,
	},
	"oer": {
		Name: "HCRT Learning Resource Types",
		URL:  lom.HCRTSource,
	},
}
