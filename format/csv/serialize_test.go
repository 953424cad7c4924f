package csv

import (
	"bytes"
	"encoding/csv"
	"maps"
	"strings"
	"testing"

	"github.com/tu-graz-library/invenio-records-lom-sub000/format"
	"github.com/tu-graz-library/invenio-records-lom-sub000/lom"
)

func testRecord(t *testing.T) *lom.Metadata {
	t.Helper()
	md := lom.Create(lom.ResourceTypeUpload, true)
	md.SetID("r1")
	for _, err := range []error{
		md.SetTitle("Orbits, Part 1", "en"),
		md.AppendContributeWithDate("Rivera, Alex", "Author", "2022-06-01", ""),
		md.AppendContribute("TU Graz", "publisher", ""),
		md.AppendLanguage("x-none"),
		md.AppendLanguage("en"),
		md.AppendKeyword("orbits", "en"),
		md.AppendKeyword("geodesy", "en"),
		md.SetRightsURL("https://creativecommons.org/licenses/by/4.0/"),
	} {
		if err != nil {
			t.Fatalf("building record: %v", err)
		}
	}
	md.SetPID("doi", "10.1234/r1", "datacite")
	return md
}

func parse(t *testing.T, data []byte) []map[string]string {
	t.Helper()
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV output: %v", err)
	}
	if len(rows) == 0 {
		t.Fatal("expected a header row")
	}

	var out []map[string]string
	for _, row := range rows[1:] {
		m := map[string]string{}
		for i, col := range rows[0] {
			m[col] = row[i]
		}
		out = append(out, m)
	}
	return out
}

func TestSerializeDefaultColumns(t *testing.T) {
	opts := format.NewSerializeOptions()
	opts.BaseURL = "https://repo.example.org"

	var buf bytes.Buffer
	if err := (&Format{}).Serialize(&buf, []*lom.Metadata{testRecord(t)}, opts); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	rows := parse(t, buf.Bytes())
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	row := rows[0]

	tests := map[string]string{
		"id":                "r1",
		"title":             "Orbits, Part 1",
		"contributors":      "Rivera, Alex|TU Graz",
		"contributor_roles": "Author|Publisher",
		"publisher":         "TU Graz",
		"date":              "2022-06-01",
		"language":          "en",
		"keywords":          "orbits|geodesy",
		"doi":               "10.1234/r1",
		"url":               "https://repo.example.org/records/r1",
	}
	for col, want := range tests {
		if row[col] != want {
			t.Errorf("%s = %q, want %q", col, row[col], want)
		}
	}
	if !(&Format{}).CanParse(buf.Bytes()) {
		t.Error("CanParse should accept serialized output")
	}
}

func TestSerializeCustomColumns(t *testing.T) {
	opts := format.NewSerializeOptions()
	opts.Columns = []string{"id", "keywords", "is_published"}
	opts.MultiValueSeparator = "; "

	var buf bytes.Buffer
	if err := (&Format{}).Serialize(&buf, []*lom.Metadata{testRecord(t)}, opts); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	rows := parse(t, buf.Bytes())
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	want := map[string]string{
		"id":           "r1",
		"keywords":     "orbits; geodesy",
		"is_published": "false",
	}
	if !maps.Equal(rows[0], want) {
		t.Errorf("row = %v, want %v", rows[0], want)
	}
}

func TestSerializeUnknownColumn(t *testing.T) {
	opts := format.NewSerializeOptions()
	opts.Columns = []string{"id", "shoe_size"}

	var buf bytes.Buffer
	err := (&Format{}).Serialize(&buf, nil, opts)
	if err == nil {
		t.Fatal("expected error for unknown column")
	}
	if !strings.Contains(err.Error(), "shoe_size") {
		t.Errorf("error %q should name the column", err)
	}
}

func TestSerializeEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := (&Format{}).Serialize(&buf, nil, nil); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if rows := parse(t, buf.Bytes()); len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}
