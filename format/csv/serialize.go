package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/tu-graz-library/invenio-records-lom-sub000/format"
	"github.com/tu-graz-library/invenio-records-lom-sub000/helpers"
	"github.com/tu-graz-library/invenio-records-lom-sub000/lom"
)

// Serialize writes one row per record under a header row.
func (f *Format) Serialize(w io.Writer, records []*lom.Metadata, opts *format.SerializeOptions) error {
	if opts == nil {
		opts = format.NewSerializeOptions()
	}

	sep := opts.MultiValueSeparator
	if sep == "" {
		sep = "|"
	}

	columns := opts.Columns
	if len(columns) == 0 {
		columns = DefaultColumns()
	}
	for _, col := range columns {
		if !knownColumn(col) {
			return fmt.Errorf("unknown column %q", col)
		}
	}

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(columns); err != nil {
		return err
	}

	for _, record := range records {
		row := recordToRow(record, columns, sep, opts)
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func recordToRow(record *lom.Metadata, columns []string, sep string, opts *format.SerializeOptions) []string {
	row := make([]string, len(columns))

	for i, col := range columns {
		row[i] = getColumnValue(record, col, sep, opts)
	}

	return row
}

var columnNames = []string{
	"id",
	"parent_id",
	"resource_type",
	"title",
	"version",
	"status",
	"contributors",
	"contributor_roles",
	"publisher",
	"date",
	"language",
	"description",
	"keywords",
	"learning_resource_types",
	"oefos",
	"oefos_labels",
	"license",
	"doi",
	"url",
	"identifiers",
	"formats",
	"size",
	"locations",
	"is_published",
}

func knownColumn(col string) bool {
	for _, name := range columnNames {
		if name == col {
			return true
		}
	}
	return false
}

func getColumnValue(record *lom.Metadata, column string, sep string, opts *format.SerializeOptions) string {
	switch column {
	case "id":
		return record.ID()

	case "parent_id":
		return record.ParentID()

	case "resource_type":
		return record.ResourceType()

	case "title":
		return record.GetTitleText()

	case "version":
		return record.GetVersion()

	case "status":
		return record.GetStatus()

	case "contributors":
		return strings.Join(record.GetContributorNames(""), sep)

	case "contributor_roles":
		var roles []string
		for _, c := range record.GetContributors("") {
			role := helpers.RoleLabel(lom.ContributeRole(c))
			for range lom.ContributeEntities(c) {
				roles = append(roles, role)
			}
		}
		return strings.Join(roles, sep)

	case "publisher":
		for _, c := range record.GetContributorsByRole("publisher") {
			if names := lom.ContributeEntities(c); len(names) > 0 {
				return names[0]
			}
		}
		return opts.Publisher

	case "date":
		if dates := record.GetContributorDates(""); len(dates) > 0 {
			return dates[0]
		}
		return ""

	case "language":
		var langs []string
		for _, code := range record.GetLanguages() {
			if code != lom.LangNone {
				langs = append(langs, code)
			}
		}
		return strings.Join(langs, sep)

	case "description":
		if descs := record.GetDescriptionTexts(); len(descs) > 0 {
			return helpers.StripHTML(descs[0])
		}
		return ""

	case "keywords":
		return strings.Join(record.GetKeywordTexts(), sep)

	case "learning_resource_types":
		return strings.Join(record.GetLearningResourceTypeIDs(), sep)

	case "oefos":
		return strings.Join(record.GetOEFOSLeafIDs(), sep)

	case "oefos_labels":
		return strings.Join(record.GetOEFOSNames("en"), sep)

	case "license":
		return record.GetRightsURL()

	case "doi":
		return record.PIDs()["doi"].Identifier

	case "url":
		return opts.RecordURL(record.ID())

	case "identifiers":
		return strings.Join(record.GetIdentifierTexts(), sep)

	case "formats":
		return strings.Join(record.GetFormats(), sep)

	case "size":
		return record.GetSize()

	case "locations":
		return strings.Join(record.GetLocations(), sep)

	case "is_published":
		if record.IsPublished() {
			return "true"
		}
		return "false"

	default:
		return ""
	}
}

// DefaultColumns returns the standard column set for CSV output.
func DefaultColumns() []string {
	return []string{
		"id",
		"resource_type",
		"title",
		"contributors",
		"contributor_roles",
		"publisher",
		"date",
		"language",
		"keywords",
		"oefos",
		"license",
		"doi",
		"url",
	}
}
