package oai

import (
	"reflect"

	"github.com/tu-graz-library/invenio-records-lom-sub000/value"
)

// field is one allowed key of the export schema. A nil fields list copies
// the value unchanged.
type field struct {
	name   string
	fields []field
}

// kv is one entry of a filtered mapping. Filtered mappings keep schema order.
type kv struct {
	key   string
	value any
}

var (
	vocabulary = []field{{name: "source"}, {name: "value"}}
	identifier = []field{{name: "catalog"}, {name: "entry"}}
	datetime   = []field{{name: "datetime"}, {name: "description"}}
)

// lomSchema lists the exported categories and their keys in output order.
// Keys missing from the schema (repository extensions such as rights.url or
// technical.thumbnail) are excluded.
var lomSchema = []field{
	{name: "general", fields: []field{
		{name: "identifier", fields: identifier},
		{name: "title"},
		{name: "language"},
		{name: "description"},
		{name: "keyword"},
		{name: "coverage"},
		{name: "structure", fields: vocabulary},
		{name: "aggregationlevel", fields: vocabulary},
	}},
	{name: "lifecycle", fields: []field{
		{name: "version"},
		{name: "status", fields: vocabulary},
		{name: "contribute", fields: []field{
			{name: "role", fields: vocabulary},
			{name: "entity"},
			{name: "date", fields: datetime},
		}},
	}},
	{name: "technical", fields: []field{
		{name: "format"},
		{name: "size"},
		{name: "location"},
		{name: "requirement"},
		{name: "installationremarks"},
		{name: "otherplatformrequirements"},
		{name: "duration", fields: []field{{name: "duration"}, {name: "description"}}},
	}},
	{name: "educational", fields: []field{
		{name: "interactivitytype", fields: vocabulary},
		{name: "learningresourcetype", fields: []field{{name: "source"}, {name: "id"}, {name: "entry"}}},
		{name: "interactivitylevel", fields: vocabulary},
		{name: "semanticdensity", fields: vocabulary},
		{name: "intendedenduserrole", fields: vocabulary},
		{name: "context", fields: vocabulary},
		{name: "typicalagerange"},
		{name: "difficulty", fields: vocabulary},
		{name: "typicallearningtime", fields: []field{{name: "duration"}, {name: "description"}}},
		{name: "description"},
		{name: "language"},
	}},
	{name: "rights", fields: []field{
		{name: "cost", fields: vocabulary},
		{name: "copyrightandotherrestrictions", fields: vocabulary},
		{name: "description"},
	}},
	{name: "classification", fields: []field{
		{name: "purpose", fields: vocabulary},
		{name: "taxonpath", fields: []field{
			{name: "source"},
			{name: "taxon", fields: []field{{name: "id"}, {name: "entry"}}},
		}},
		{name: "description"},
		{name: "keyword"},
	}},
}

// filter projects v onto fields. Mappings become ordered []kv, lists are
// filtered element-wise and scalars pass through.
func filter(v any, fields []field) any {
	if fields == nil {
		return v
	}
	switch val := v.(type) {
	case map[string]any:
		out := make([]kv, 0, len(fields))
		for _, f := range fields {
			child, ok := val[f.name]
			if !ok || child == nil {
				continue
			}
			out = append(out, kv{key: f.name, value: filter(child, f.fields)})
		}
		return out
	case []any:
		out := make([]any, 0, len(val))
		for _, el := range val {
			out = append(out, filter(el, fields))
		}
		return out
	default:
		return v
	}
}

// withIdentifiers prepends the injected identifiers to the stored list,
// dropping stored entries equal to an injected one.
func withIdentifiers(injected []any, stored any) []any {
	out := append([]any{}, injected...)
	for _, s := range value.List(stored) {
		dup := false
		for _, i := range injected {
			if reflect.DeepEqual(i, s) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, s)
		}
	}
	return out
}
