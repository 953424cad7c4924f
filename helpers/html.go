package helpers

import (
	"html"
	"regexp"
	"strings"
)

var (
	htmlTagRegex     = regexp.MustCompile(`<[^>]*>`)
	htmlCommentRegex = regexp.MustCompile(`<!--[\s\S]*?-->`)
	blockEndRegex    = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|blockquote)>`)
	brTagRegex       = regexp.MustCompile(`(?i)<br\s*/?>`)
	multiSpaceRegex  = regexp.MustCompile(`[ \t]+`)
	multiLineRegex   = regexp.MustCompile(`\n\s*\n`)
)

// StripHTML removes markup from rich-text descriptions entered through the
// upload form and decodes entities.
func StripHTML(s string) string {
	if s == "" || !IsHTML(s) && !strings.Contains(s, "&") {
		return strings.TrimSpace(s)
	}
	s = htmlCommentRegex.ReplaceAllString(s, "")
	s = blockEndRegex.ReplaceAllString(s, "\n")
	s = brTagRegex.ReplaceAllString(s, "\n")
	s = htmlTagRegex.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = multiSpaceRegex.ReplaceAllString(s, " ")
	s = multiLineRegex.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// IsHTML checks if a string appears to contain HTML markup.
func IsHTML(s string) bool {
	return htmlTagRegex.MatchString(s)
}

// TruncateText truncates text to at most maxLen runes, cutting at a word
// boundary when one is close and adding an ellipsis.
func TruncateText(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	truncated := string(r[:maxLen-3])
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > len(truncated)/2 {
		truncated = truncated[:lastSpace]
	}
	return truncated + "..."
}
