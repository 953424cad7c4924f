package helpers

import (
	"regexp"
	"strings"
)

// Name is a contributor name split into its parts. Names that cannot be
// split (single tokens such as organisations) only carry Family.
type Name struct {
	Full   string
	Given  string
	Family string
	Suffix string
}

var (
	suffixes = []string{"Jr.", "Jr", "Sr.", "Sr", "III", "II", "IV", "PhD", "Ph.D.", "MSc", "BSc", "Dipl.-Ing."}

	// nobiliary particles that belong to the family name
	particles = []string{"van", "von", "de", "del", "della", "di", "da", "le", "la", "du", "des", "den", "der", "ter", "ten", "zu"}

	invertedNameRegex = regexp.MustCompile(`^([^,]+),\s*(.+)$`)
	spaceRegex        = regexp.MustCompile(`\s+`)
)

// ParseName splits "Family, Given" or "Given Family" forms. It returns nil
// for empty input.
func ParseName(name string) *Name {
	name = strings.TrimSpace(spaceRegex.ReplaceAllString(name, " "))
	if name == "" {
		return nil
	}
	result := &Name{Full: name}

	if m := invertedNameRegex.FindStringSubmatch(name); m != nil {
		result.Family = strings.TrimSpace(m[1])
		result.Given, result.Suffix = extractSuffix(strings.TrimSpace(m[2]))
		return result
	}

	name, result.Suffix = extractSuffix(name)
	parts := strings.Fields(name)
	if len(parts) == 1 {
		result.Family = parts[0]
		return result
	}

	familyStart := len(parts) - 1
	for familyStart > 1 && isParticle(parts[familyStart-1]) {
		familyStart--
	}
	result.Given = strings.Join(parts[:familyStart], " ")
	result.Family = strings.Join(parts[familyStart:], " ")
	return result
}

// Inverted formats the name as "Family, Given Suffix".
func (n *Name) Inverted() string {
	if n.Given == "" {
		return strings.TrimSpace(n.Family + " " + n.Suffix)
	}
	s := n.Family + ", " + n.Given
	if n.Suffix != "" {
		s += " " + n.Suffix
	}
	return s
}

// Initials returns the given names abbreviated, e.g. "Jane Ann" -> "J. A.".
func (n *Name) Initials() string {
	var parts []string
	for _, g := range strings.Fields(n.Given) {
		for _, hyphenated := range strings.Split(g, "-") {
			r := []rune(hyphenated)
			if len(r) == 0 {
				continue
			}
			parts = append(parts, string(r[0])+".")
		}
	}
	return strings.Join(parts, " ")
}

func extractSuffix(name string) (string, string) {
	for _, suffix := range suffixes {
		if strings.HasSuffix(name, ", "+suffix) {
			return strings.TrimSuffix(name, ", "+suffix), suffix
		}
		if strings.HasSuffix(name, " "+suffix) {
			return strings.TrimSuffix(name, " "+suffix), suffix
		}
	}
	return name, ""
}

func isParticle(word string) bool {
	lower := strings.ToLower(word)
	for _, p := range particles {
		if lower == p {
			return true
		}
	}
	return false
}
