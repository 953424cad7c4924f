package lom

import (
	"strings"
)

const (
	// LangNone tags values that have no natural language.
	LangNone = "x-none"

	// LangCCURL tags rights descriptions that hold a Creative Commons URL.
	LangCCURL = "x-t-cc-url"

	// SourceLOMv1 is the source of the LOMv1.0 controlled vocabularies.
	SourceLOMv1 = "LOMv1.0"

	// CatalogRepoPID is the identifier catalog of records in this repository.
	CatalogRepoPID = "repo-pid"
)

// Langstringify wraps text as a LOM langstring. The lang key is omitted when
// lang is empty. Record-building code passes LangNone; raw callers pass "".
func Langstringify(text, lang string) map[string]any {
	inner := map[string]any{"#text": text}
	if lang != "" {
		inner["lang"] = lang
	}
	return map[string]any{"langstring": inner}
}

// Vocabularify builds a LOMv1.0 vocabulary value.
func Vocabularify(value string) map[string]any {
	return VocabularifyWithSource(value, SourceLOMv1)
}

// VocabularifyWithSource builds a vocabulary value from an arbitrary source.
func VocabularifyWithSource(value, source string) map[string]any {
	return map[string]any{
		"source": Langstringify(source, LangNone),
		"value":  Langstringify(value, LangNone),
	}
}

// Catalogify builds an identifier in the given catalog.
func Catalogify(value, catalog string) map[string]any {
	return map[string]any{
		"catalog": catalog,
		"entry":   Langstringify(value, LangNone),
	}
}

// StandardizeURL forces https and a single trailing slash on http(s) URLs so
// that http://x and https://x/ compare equal. Other values are returned
// unchanged.
func StandardizeURL(url string) string {
	lower := strings.ToLower(url)
	var rest string
	switch {
	case strings.HasPrefix(lower, "https://"):
		rest = url[len("https://"):]
	case strings.HasPrefix(lower, "http://"):
		rest = url[len("http://"):]
	default:
		return url
	}
	return "https://" + strings.TrimRight(rest, "/") + "/"
}

// GetText returns the #text of a langstring. It accepts the
// {"langstring": {...}} wrapper or the inner mapping and returns "" for
// anything malformed.
func GetText(v any) string {
	s, _ := inner(v)["#text"].(string)
	return s
}

// GetLang returns the lang of a langstring, or "".
func GetLang(v any) string {
	s, _ := inner(v)["lang"].(string)
	return s
}

func inner(v any) map[string]any {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	if ls, ok := m["langstring"]; ok {
		in, _ := ls.(map[string]any)
		return in
	}
	return m
}

// vocabularyValue returns the text of a vocabulary's value.
func vocabularyValue(v any) string {
	m, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	return GetText(m["value"])
}
