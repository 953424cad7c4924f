package bibtex

import (
	"fmt"
	"io"
	"strings"

	"github.com/tu-graz-library/invenio-records-lom-sub000/format"
	"github.com/tu-graz-library/invenio-records-lom-sub000/helpers"
	"github.com/tu-graz-library/invenio-records-lom-sub000/lom"
	"github.com/tu-graz-library/invenio-records-lom-sub000/value"
)

// Entry is one BibTeX entry.
type Entry struct {
	EntryType    string
	CitationKey  string
	Title        string
	Author       []Person
	Editor       []Person
	Year         string
	Month        string
	Publisher    string
	Edition      string
	Howpublished string
	DOI          string
	URL          string
	ISBN         string
	Keywords     []string
	Abstract     string
	Language     string
	Note         string
}

// Person is an author or editor.
type Person struct {
	Name   string // literal name, used when Family is empty
	Given  string
	Family string
	Suffix string
}

// Serialize writes records as BibTeX entries.
func (f *Format) Serialize(w io.Writer, records []*lom.Metadata, opts *format.SerializeOptions) error {
	for i, record := range records {
		entry, err := FromRecord(record, opts)
		if err != nil {
			return fmt.Errorf("converting record %d: %w", i, err)
		}

		if _, err := io.WriteString(w, entry.String()); err != nil {
			return err
		}
		if i < len(records)-1 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}

	return nil
}

// FromRecord maps a LOM record onto a BibTeX entry. Lifecycle authors become
// author, editors become editor and the first publisher names the
// publisher. The year comes from the publisher contribution, else the first
// author contribution.
func FromRecord(md *lom.Metadata, opts *format.SerializeOptions) (*Entry, error) {
	entry := &Entry{
		EntryType: entryType(md.ResourceType()),
		Title:     md.GetTitleText(),
		Edition:   md.GetVersion(),
		URL:       opts.RecordURL(md.ID()),
		Keywords:  md.GetKeywordTexts(),
	}
	if descs := md.GetDescriptionTexts(); len(descs) > 0 {
		entry.Abstract = helpers.StripHTML(descs[0])
	}
	for _, code := range md.GetLanguages() {
		if code != lom.LangNone && code != "none" {
			entry.Language = code
			break
		}
	}
	if doi, ok := md.PIDs()["doi"]; ok {
		entry.DOI = doi.Identifier
	}
	entry.ISBN = md.GetIdentifier("isbn")
	if locs := md.GetLocations(); entry.URL == "" && len(locs) > 0 {
		entry.URL = locs[0]
	}
	if md.ResourceType() == lom.ResourceTypeCourse {
		entry.Howpublished = "Course"
	}

	var issued, authored string
	for _, c := range md.GetContributors("") {
		role := helpers.NormalizeRole(lom.ContributeRole(c))
		names := lom.ContributeEntities(c)
		switch role {
		case "author":
			for _, n := range names {
				entry.Author = append(entry.Author, person(n))
			}
			if authored == "" {
				authored = lom.ContributeDate(c)
			}
		case "editor":
			for _, n := range names {
				entry.Editor = append(entry.Editor, person(n))
			}
		case "publisher":
			if entry.Publisher == "" && len(names) > 0 {
				entry.Publisher = names[0]
				issued = lom.ContributeDate(c)
			}
		}
	}
	if entry.Publisher == "" && opts != nil {
		entry.Publisher = opts.Publisher
	}

	if issued == "" {
		issued = authored
	}
	if issued != "" {
		d, err := value.ParseDate(issued)
		if err != nil {
			return nil, fmt.Errorf("issued date: %w", err)
		}
		entry.Year = fmt.Sprintf("%d", d.Year)
		entry.Month = monthToString(d.Month)
	}

	if id := md.GetIdentifier(lom.CatalogRepoPID); id != "" {
		entry.CitationKey = id
	} else {
		entry.CitationKey = generateCitationKey(entry)
	}
	return entry, nil
}

// person splits "Family, Given" names. Other names, such as organisations,
// stay literal.
func person(name string) Person {
	parsed := helpers.ParseName(name)
	if parsed == nil || !strings.Contains(name, ",") || parsed.Given == "" {
		return Person{Name: name}
	}
	return Person{Given: parsed.Given, Family: parsed.Family, Suffix: parsed.Suffix}
}

// entryType maps repository resource types to BibTeX entry types.
func entryType(resourceType string) string {
	switch resourceType {
	case lom.ResourceTypeLink:
		return "online"
	default:
		return "misc"
	}
}

// generateCitationKey creates a citation key from the first author and year.
func generateCitationKey(entry *Entry) string {
	var author string
	if len(entry.Author) > 0 {
		a := entry.Author[0]
		if a.Family != "" {
			author = a.Family
		} else if parts := strings.Fields(a.Name); len(parts) > 0 {
			author = parts[len(parts)-1]
		}
	}
	if author == "" {
		author = "unknown"
	}

	year := entry.Year
	if year == "" {
		year = "nd"
	}

	author = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return r
		}
		return -1
	}, author)

	return strings.ToLower(author) + year
}

// monthToString converts month number to BibTeX month abbreviation.
func monthToString(month int) string {
	months := []string{"", "jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}
	if month >= 1 && month <= 12 {
		return months[month]
	}
	return ""
}

// String renders the entry as BibTeX text.
func (e *Entry) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "@%s{%s,\n", e.EntryType, e.CitationKey)

	field := func(name, v string) {
		if v != "" {
			fmt.Fprintf(&sb, "  %s = {%s},\n", name, v)
		}
	}

	field("title", escapeBibtex(e.Title))
	field("author", formatPersons(e.Author))
	field("editor", formatPersons(e.Editor))
	field("year", e.Year)
	if e.Month != "" {
		fmt.Fprintf(&sb, "  month = %s,\n", e.Month)
	}
	field("publisher", escapeBibtex(e.Publisher))
	field("edition", escapeBibtex(e.Edition))
	field("howpublished", e.Howpublished)
	field("doi", e.DOI)
	field("isbn", e.ISBN)
	field("url", e.URL)
	field("keywords", escapeBibtex(strings.Join(e.Keywords, ", ")))
	field("abstract", escapeBibtex(e.Abstract))
	field("note", escapeBibtex(e.Note))
	field("language", e.Language)

	sb.WriteString("}\n")
	return sb.String()
}

// formatPersons formats a list of persons for BibTeX.
func formatPersons(persons []Person) string {
	var names []string
	for _, p := range persons {
		if name := formatPerson(p); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, " and ")
}

// formatPerson formats a single person for BibTeX. Literal names are
// braced so BibTeX does not split them.
func formatPerson(p Person) string {
	if p.Family == "" {
		if p.Name == "" {
			return ""
		}
		return "{" + escapeBibtex(p.Name) + "}"
	}
	name := p.Family
	if p.Given != "" {
		name += ", " + p.Given
		if p.Suffix != "" {
			name = p.Family + ", " + p.Suffix + ", " + p.Given
		}
	}
	return escapeBibtex(name)
}

// escapeBibtex escapes special characters for BibTeX.
func escapeBibtex(s string) string {
	s = strings.ReplaceAll(s, "&", "\\&")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "$", "\\$")
	s = strings.ReplaceAll(s, "#", "\\#")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
