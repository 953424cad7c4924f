package record

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/tu-graz-library/invenio-records-lom-sub000/helpers"
	"github.com/tu-graz-library/invenio-records-lom-sub000/lom"
	"github.com/tu-graz-library/invenio-records-lom-sub000/value"
)

// ValidationError represents a validation failure with context.
type ValidationError struct {
	Field   string // Field path (e.g., "metadata.general.title")
	Code    string // Error code (e.g., "required", "invalid_language")
	Message string // Human-readable message
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult contains all validation errors for a record.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError // Non-fatal issues such as unparseable contribution dates
}

// IsValid returns true if there are no errors.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Error returns a combined error message, or nil if valid.
func (r *ValidationResult) Error() error {
	if r.IsValid() {
		return nil
	}
	var msgs []string
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}

func (r *ValidationResult) addError(field, code, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Code: code, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) addWarning(field, code, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Code: code, Message: fmt.Sprintf(format, args...)})
}

// ValidationOptions configures validation behavior.
type ValidationOptions struct {
	// ResourceTypes restricts resource_type; empty allows any non-empty value
	ResourceTypes []string
}

// Validate checks md field by field and collects every violation.
func Validate(md *lom.Metadata, opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{}

	if strings.TrimSpace(md.GetTitleText()) == "" {
		result.addError("metadata.general.title", "required", "title is required")
	}

	rt := md.ResourceType()
	switch {
	case rt == "":
		result.addError("resource_type", "required", "resource type is required")
	case len(opts.ResourceTypes) > 0 && !containsString(opts.ResourceTypes, rt):
		result.addError("resource_type", "invalid_value", "unknown resource type %q", rt)
	}

	walk(md.Document()["metadata"], "metadata", func(path string, m map[string]any) {
		if ls, ok := m["langstring"]; ok {
			validateLangstring(result, path+".langstring", ls)
		}
		if _, hasValue := m["value"]; hasValue {
			if src, hasSource := m["source"]; hasSource {
				if s := lom.GetText(src); s != lom.SourceLOMv1 {
					result.addError(path+".source", "invalid_vocabulary", "vocabulary source must be %s, got %q", lom.SourceLOMv1, s)
				}
			}
		}
	})

	validateContributes(result, md, lom.PathLifecycleContribute, helpers.IsContributeRole)
	validateContributes(result, md, lom.PathMetametadataContribute, helpers.IsMetaContributeRole)
	validateRights(result, md)
	return result
}

func validateLangstring(result *ValidationResult, path string, v any) {
	inner, ok := v.(map[string]any)
	if !ok {
		result.addError(path, "invalid_langstring", "langstring must be a mapping")
		return
	}
	text, ok := inner["#text"].(string)
	if !ok || strings.TrimSpace(text) == "" {
		result.addError(path+".#text", "invalid_langstring", "langstring text must be a non-empty string")
	}
	raw, present := inner["lang"]
	if !present {
		return
	}
	lang, ok := raw.(string)
	if !ok || !validLanguage(lang) {
		result.addError(path+".lang", "invalid_language", "invalid language tag %v", raw)
	}
}

// validLanguage accepts BCP 47 tags and private-use tags such as x-none.
func validLanguage(lang string) bool {
	if strings.HasPrefix(lang, "x-") && len(lang) > 2 {
		return true
	}
	_, err := language.Parse(lang)
	return err == nil
}

func validateContributes(result *ValidationResult, md *lom.Metadata, path string, allowed func(string) bool) {
	for i, c := range md.GetContributors(path) {
		field := path + "." + strconv.Itoa(i)
		if role := lom.ContributeRole(c); !allowed(role) {
			result.addError(field+".role", "invalid_role", "unknown contribute role %q", role)
		}
		if len(lom.ContributeEntities(c)) == 0 {
			result.addError(field+".entity", "required", "contribution needs an entity")
		}
		if dt := lom.ContributeDate(c); dt != "" {
			if _, err := value.ParseDate(dt); err != nil {
				result.addWarning(field+".date.datetime", "invalid_date", "%v", err)
			}
		}
	}
}

// validateRights checks that Creative Commons licences and only those carry
// the x-t-cc-url description language.
func validateRights(result *ValidationResult, md *lom.Metadata) {
	rights := md.GetRights()
	if rights == nil {
		return
	}
	desc := rights["description"]
	isCC := strings.Contains(md.GetRightsURL(), "creativecommons.org")
	tagged := lom.GetLang(desc) == lom.LangCCURL
	switch {
	case isCC && !tagged:
		result.addError("metadata.rights.description", "license_language", "creative commons licence needs lang %s", lom.LangCCURL)
	case !isCC && tagged:
		result.addError("metadata.rights.description", "license_language", "lang %s requires a creative commons licence url", lom.LangCCURL)
	}
}

// walk calls fn for every mapping below v with its dotted path.
func walk(v any, path string, fn func(path string, m map[string]any)) {
	switch val := v.(type) {
	case map[string]any:
		fn(path, val)
		for k, child := range val {
			if k == "langstring" {
				continue
			}
			walk(child, path+"."+k, fn)
		}
	case []any:
		for i, child := range val {
			walk(child, path+"."+strconv.Itoa(i), fn)
		}
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
