package lom

import (
	"sort"
	"strings"

	"github.com/tu-graz-library/invenio-records-lom-sub000/value"
)

const (
	pathClassification = "metadata.classification"
	purposeDiscipline  = "discipline"
)

// GetOEFOSClassification returns the classification whose purpose is
// "discipline", appending an empty one first if there is none. The returned
// map is live: changes to it write through to the document.
func (m *Metadata) GetOEFOSClassification() (map[string]any, error) {
	if c := m.findOEFOSClassification(); c != nil {
		return c, nil
	}
	c := map[string]any{
		"purpose":   Vocabularify(purposeDiscipline),
		"taxonpath": []any{},
	}
	if err := m.w.Append(pathClassification, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (m *Metadata) findOEFOSClassification() map[string]any {
	for _, c := range m.list(pathClassification) {
		cm := value.Map(c)
		if vocabularyValue(cm["purpose"]) == purposeDiscipline {
			return cm
		}
	}
	return nil
}

// CreateOEFOSTaxonpath builds the root-to-leaf taxonpath for oefosID with
// names in lang. Every prefix of the code found in the table contributes one
// taxon. The result is nil when no prefix is known.
func CreateOEFOSTaxonpath(oefosID, lang string) (map[string]any, error) {
	table, err := OEFOSTable(lang)
	if err != nil {
		return nil, err
	}
	var taxons []any
	for i := 1; i <= len(oefosID); i++ {
		prefix := oefosID[:i]
		name, ok := table[prefix]
		if !ok {
			continue
		}
		taxons = append(taxons, map[string]any{
			"id":    OEFOSSource + "/" + prefix,
			"entry": Langstringify(name, lang),
		})
	}
	if len(taxons) == 0 {
		return nil, nil
	}
	return map[string]any{
		"source": Langstringify(OEFOSSource, LangNone),
		"taxon":  taxons,
	}, nil
}

// CreateOEFOSTaxonpath is the method form of the package function.
func (m *Metadata) CreateOEFOSTaxonpath(oefosID, lang string) (map[string]any, error) {
	return CreateOEFOSTaxonpath(oefosID, lang)
}

// AppendOEFOSID records oefosID in the discipline classification while keeping
// only maximal taxonpaths: a path already covered by an existing one is
// skipped, and existing paths covered by the new one are dropped.
func (m *Metadata) AppendOEFOSID(oefosID, lang string) error {
	candidate, err := CreateOEFOSTaxonpath(oefosID, lang)
	if err != nil || candidate == nil {
		return err
	}
	classification, err := m.GetOEFOSClassification()
	if err != nil {
		return err
	}

	newIDs := taxonIDs(candidate)
	existing := value.List(classification["taxonpath"])
	kept := make([]any, 0, len(existing)+1)
	for _, tp := range existing {
		ids := taxonIDs(tp)
		if isSubset(newIDs, ids) {
			return nil
		}
		if !isSubset(ids, newIDs) {
			kept = append(kept, tp)
		}
	}
	classification["taxonpath"] = append(kept, candidate)
	return nil
}

// GetOEFOSIDs returns the OEFOS codes of every recorded taxon, without
// duplicates, in document order.
func (m *Metadata) GetOEFOSIDs() []string {
	var codes []string
	for _, tp := range m.oefosTaxonpaths() {
		for _, t := range value.List(value.Map(tp)["taxon"]) {
			id := value.Text(value.Map(t)["id"])
			if code := strings.TrimPrefix(id, OEFOSSource+"/"); code != "" && code != id {
				codes = append(codes, code)
			}
		}
	}
	return value.Unique(codes)
}

// GetOEFOSLeafIDs returns the most specific code of each taxonpath.
func (m *Metadata) GetOEFOSLeafIDs() []string {
	var codes []string
	for _, tp := range m.oefosTaxonpaths() {
		taxons := value.List(value.Map(tp)["taxon"])
		if len(taxons) == 0 {
			continue
		}
		id := value.Text(value.Map(taxons[len(taxons)-1])["id"])
		codes = append(codes, strings.TrimPrefix(id, OEFOSSource+"/"))
	}
	return codes
}

// GetOEFOSNames returns the names of all recorded taxons in lang. Codes
// missing from the table fall back to the stored entry text.
func (m *Metadata) GetOEFOSNames(lang string) []string {
	table, _ := OEFOSTable(lang)
	var names []string
	for _, tp := range m.oefosTaxonpaths() {
		for _, t := range value.List(value.Map(tp)["taxon"]) {
			tm := value.Map(t)
			code := strings.TrimPrefix(value.Text(tm["id"]), OEFOSSource+"/")
			if name, ok := table[code]; ok {
				names = append(names, name)
			} else if text := GetText(tm["entry"]); text != "" {
				names = append(names, text)
			}
		}
	}
	return value.Unique(names)
}

func (m *Metadata) oefosTaxonpaths() []any {
	return value.List(m.findOEFOSClassification()["taxonpath"])
}

func taxonIDs(taxonpath any) map[string]bool {
	ids := make(map[string]bool)
	for _, t := range value.List(value.Map(taxonpath)["taxon"]) {
		if id := value.Text(value.Map(t)["id"]); id != "" {
			ids[id] = true
		}
	}
	return ids
}

// isSubset reports whether a is a (not necessarily strict) subset of b.
func isSubset(a, b map[string]bool) bool {
	if len(a) > len(b) {
		return false
	}
	for id := range a {
		if !b[id] {
			return false
		}
	}
	return true
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
