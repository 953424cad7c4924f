package lom

import (
	"strings"

	"github.com/tu-graz-library/invenio-records-lom-sub000/value"
)

// Contribute list locations.
const (
	PathLifecycleContribute    = "metadata.lifecycle.contribute"
	PathMetametadataContribute = "metadata.metametadata.contribute"
)

// SetVersion sets lifecycle.version.
func (m *Metadata) SetVersion(version string) error {
	return m.Set("metadata.lifecycle.version", Langstringify(version, LangNone))
}

// GetVersion returns lifecycle.version.
func (m *Metadata) GetVersion() string {
	return m.text("metadata.lifecycle.version")
}

// SetStatus sets lifecycle.status, e.g. "draft" or "final".
func (m *Metadata) SetStatus(status string) error {
	return m.Set("metadata.lifecycle.status", Vocabularify(status))
}

// GetStatus returns the lifecycle.status value.
func (m *Metadata) GetStatus() string {
	return vocabularyValue(m.Get("metadata.lifecycle.status"))
}

// contribution builds one contribute entry.
func contribution(name, role, datetime string) map[string]any {
	c := map[string]any{
		"role":   Vocabularify(role),
		"entity": []any{name},
	}
	if datetime != "" {
		c["date"] = map[string]any{"datetime": datetime}
	}
	return c
}

// AppendContribute adds a contribution to the list at path. An empty path
// means lifecycle.contribute.
func (m *Metadata) AppendContribute(name, role, path string) error {
	return m.AppendContributeWithDate(name, role, "", path)
}

// AppendContributeWithDate adds a dated contribution to the list at path.
func (m *Metadata) AppendContributeWithDate(name, role, datetime, path string) error {
	if path == "" {
		path = PathLifecycleContribute
	}
	return m.Append(path, contribution(name, role, datetime))
}

// GetContributors returns the raw contribute entries at path (default
// lifecycle.contribute).
func (m *Metadata) GetContributors(path string) []any {
	if path == "" {
		path = PathLifecycleContribute
	}
	return m.list(path)
}

// GetContributorNames flattens the entity lists of all contributions at path.
func (m *Metadata) GetContributorNames(path string) []string {
	var out []string
	for _, c := range m.GetContributors(path) {
		out = append(out, ContributeEntities(c)...)
	}
	return out
}

// GetContributorDates returns every date.datetime of the contributions at
// path.
func (m *Metadata) GetContributorDates(path string) []string {
	var out []string
	for _, c := range m.GetContributors(path) {
		if dt := ContributeDate(c); dt != "" {
			out = append(out, dt)
		}
	}
	return out
}

// GetContributorsByRole returns the lifecycle contributions whose role
// matches role case-insensitively.
func (m *Metadata) GetContributorsByRole(role string) []any {
	var out []any
	for _, c := range m.GetContributors("") {
		if strings.EqualFold(ContributeRole(c), role) {
			out = append(out, c)
		}
	}
	return out
}

// ContributeRole returns the role text of a contribute entry as stored.
func ContributeRole(c any) string {
	return vocabularyValue(value.Map(c)["role"])
}

// ContributeEntities returns the entity names of a contribute entry.
func ContributeEntities(c any) []string {
	return value.TextSlice(value.Map(c)["entity"])
}

// ContributeDate returns the datetime of a contribute entry, or "".
func ContributeDate(c any) string {
	return value.Text(value.Map(value.Map(c)["date"])["datetime"])
}
