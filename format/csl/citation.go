package csl

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/tu-graz-library/invenio-records-lom-sub000/format"
	"github.com/tu-graz-library/invenio-records-lom-sub000/helpers"
	"github.com/tu-graz-library/invenio-records-lom-sub000/lom"
)

//go:embed styles/*.yaml locales/*.yaml
var dataFS embed.FS

// Errors for unknown citation settings.
var (
	ErrUnknownStyle  = errors.New("unknown citation style")
	ErrUnknownLocale = errors.New("unknown citation locale")
)

// Style is a citation style loaded from styles/<name>.yaml.
type Style struct {
	Title string `yaml:"title"`
	Names struct {
		Initials  bool   `yaml:"initials"`
		Delimiter string `yaml:"delimiter"`
		// And is "term" for the locale's word or "symbol" for "&".
		And string `yaml:"and"`
	} `yaml:"names"`
	Template string `yaml:"template"`

	tmpl *template.Template
}

// Locale holds the terms of one citation language.
type Locale struct {
	Lang  string            `yaml:"lang"`
	Terms map[string]string `yaml:"terms"`
}

var (
	loadOnce  sync.Once
	styles    map[string]*Style
	locales   map[string]*Locale
	errLoaded error
)

func load() error {
	loadOnce.Do(func() {
		styles = make(map[string]*Style)
		locales = make(map[string]*Locale)
		errLoaded = loadDir("styles", func(name string, data []byte) error {
			var s Style
			if err := yaml.Unmarshal(data, &s); err != nil {
				return err
			}
			tmpl, err := template.New(name).Funcs(template.FuncMap{
				"term": func(string) string { return "" },
			}).Parse(s.Template)
			if err != nil {
				return err
			}
			s.tmpl = tmpl
			styles[name] = &s
			return nil
		})
		if errLoaded != nil {
			return
		}
		errLoaded = loadDir("locales", func(name string, data []byte) error {
			var l Locale
			if err := yaml.Unmarshal(data, &l); err != nil {
				return err
			}
			locales[name] = &l
			return nil
		})
	})
	return errLoaded
}

func loadDir(dir string, fn func(name string, data []byte) error) error {
	entries, err := dataFS.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}
	for _, e := range entries {
		data, err := dataFS.ReadFile(path.Join(dir, e.Name()))
		if err != nil {
			return fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		name := strings.TrimSuffix(e.Name(), ".yaml")
		if err := fn(name, data); err != nil {
			return fmt.Errorf("loading %s/%s: %w", dir, e.Name(), err)
		}
	}
	return nil
}

// Styles returns the available style names.
func Styles() []string {
	if err := load(); err != nil {
		return nil
	}
	return sortedNames(styles)
}

// Locales returns the available locale names.
func Locales() []string {
	if err := load(); err != nil {
		return nil
	}
	return sortedNames(locales)
}

func sortedNames[T any](m map[string]T) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Citation renders md with the style and locale of opts, defaulting to
// harvard1 and en-US.
func Citation(md *lom.Metadata, opts *format.SerializeOptions) (string, error) {
	if opts == nil {
		opts = format.NewSerializeOptions()
	}
	item, err := FromRecord(md, opts)
	if err != nil {
		return "", err
	}
	return Render(item, opts.Style, opts.Locale)
}

// Render formats item as a citation string. Empty style or locale select
// the defaults; unknown ones are errors.
func Render(item *JSONItem, style, locale string) (string, error) {
	if err := load(); err != nil {
		return "", err
	}
	if style == "" {
		style = DefaultStyle
	}
	if locale == "" {
		locale = DefaultLocale
	}
	s, ok := styles[style]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownStyle, style)
	}
	l, ok := locales[locale]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownLocale, locale)
	}

	tmpl, err := s.tmpl.Clone()
	if err != nil {
		return "", err
	}
	tmpl.Funcs(template.FuncMap{"term": l.term})

	data := struct {
		Authors   string
		Year      string
		Title     string
		Publisher string
		Link      string
	}{
		Authors:   s.authors(item.Author, l),
		Year:      l.term("no_date"),
		Title:     item.Title,
		Publisher: item.Publisher,
		Link:      item.URL,
	}
	if item.Issued != nil && len(item.Issued.DateParts) > 0 && len(item.Issued.DateParts[0]) > 0 {
		data.Year = strconv.Itoa(item.Issued.DateParts[0][0])
	}
	if item.DOI != "" {
		data.Link = "https://doi.org/" + item.DOI
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s citation: %w", style, err)
	}
	return strings.Join(strings.Fields(buf.String()), " "), nil
}

func (l *Locale) term(name string) string {
	if t, ok := l.Terms[name]; ok {
		return t
	}
	return name
}

// authors joins the formatted author names of a citation.
func (s *Style) authors(names []JSONName, l *Locale) string {
	formatted := make([]string, 0, len(names))
	for _, n := range names {
		formatted = append(formatted, s.name(n))
	}
	switch len(formatted) {
	case 0:
		return l.term("anonymous")
	case 1:
		return formatted[0]
	}

	last := " " + l.term("and") + " "
	if s.Names.And == "symbol" {
		last = s.Names.Delimiter + "& "
	}
	head := strings.Join(formatted[:len(formatted)-1], s.Names.Delimiter)
	return head + last + formatted[len(formatted)-1]
}

func (s *Style) name(n JSONName) string {
	if n.Literal != "" {
		return n.Literal
	}
	given := n.Given
	if s.Names.Initials {
		given = (&helpers.Name{Given: n.Given}).Initials()
	}
	out := n.Family
	if given != "" {
		out += ", " + given
	}
	if n.Suffix != "" {
		out += ", " + n.Suffix
	}
	return out
}
