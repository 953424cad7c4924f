package bibtex

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tu-graz-library/invenio-records-lom-sub000/format"
	"github.com/tu-graz-library/invenio-records-lom-sub000/lom"
)

func record(t *testing.T) *lom.Metadata {
	t.Helper()
	md := lom.Create(lom.ResourceTypeUpload, true)
	steps := []error{
		md.SetTitle("Orbits & Geodesy", "en"),
		md.AppendContributeWithDate("Rivera, Alex", "Author", "2021-03-04", ""),
		md.AppendContribute("Geodesy Lab", "author", ""),
		md.AppendContribute("Lee, Jordan", "Editor", ""),
		md.AppendContributeWithDate("TU Graz", "Publisher", "2022-06-01", ""),
		md.AppendKeyword("orbits", "en"),
		md.AppendLanguage("x-none"),
		md.AppendLanguage("en"),
	}
	for _, err := range steps {
		if err != nil {
			t.Fatalf("building record: %v", err)
		}
	}
	return md
}

func TestFromRecordRoles(t *testing.T) {
	entry, err := FromRecord(record(t), nil)
	if err != nil {
		t.Fatalf("FromRecord failed: %v", err)
	}

	if len(entry.Author) != 2 {
		t.Fatalf("author count = %d, want 2", len(entry.Author))
	}
	if entry.Author[0].Family != "Rivera" || entry.Author[0].Given != "Alex" {
		t.Errorf("author[0] = %+v, want Rivera, Alex", entry.Author[0])
	}
	if entry.Author[1].Name != "Geodesy Lab" {
		t.Errorf("author[1].Name = %q, want literal name", entry.Author[1].Name)
	}
	if len(entry.Editor) != 1 || entry.Editor[0].Family != "Lee" {
		t.Errorf("editor = %+v, want Lee", entry.Editor)
	}
	if entry.Publisher != "TU Graz" {
		t.Errorf("publisher = %q, want TU Graz", entry.Publisher)
	}
	if entry.Year != "2022" || entry.Month != "jun" {
		t.Errorf("date = %s/%s, want 2022/jun", entry.Year, entry.Month)
	}
	if entry.Language != "en" {
		t.Errorf("language = %q, want en", entry.Language)
	}
	if entry.CitationKey != "rivera2022" {
		t.Errorf("citation key = %q, want rivera2022", entry.CitationKey)
	}
}

func TestCitationKeyFromRepoID(t *testing.T) {
	md := record(t)
	if err := md.AppendIdentifier("abcd-1234", lom.CatalogRepoPID); err != nil {
		t.Fatal(err)
	}
	entry, err := FromRecord(md, nil)
	if err != nil {
		t.Fatal(err)
	}
	if entry.CitationKey != "abcd-1234" {
		t.Errorf("citation key = %q, want abcd-1234", entry.CitationKey)
	}
}

func TestInvalidDate(t *testing.T) {
	md := lom.Create(lom.ResourceTypeUpload, true)
	if err := md.AppendContributeWithDate("TU Graz", "Publisher", "someday", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := FromRecord(md, nil); err == nil {
		t.Error("expected error for invalid date")
	}
}

func TestSerialize(t *testing.T) {
	md := record(t)
	md.SetID("r1")
	opts := format.NewSerializeOptions()
	opts.BaseURL = "https://repo.example.org"

	var buf bytes.Buffer
	if err := (&Format{}).Serialize(&buf, []*lom.Metadata{md, md}, opts); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"@misc{rivera2022,\n",
		"  title = {Orbits \\& Geodesy},\n",
		"  author = {Rivera, Alex and {Geodesy Lab}},\n",
		"  month = jun,\n",
		"  url = {https://repo.example.org/records/r1},\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "@misc{"); n != 2 {
		t.Errorf("entries = %d, want 2", n)
	}
	if !(&Format{}).CanParse(buf.Bytes()) {
		t.Error("CanParse rejected own output")
	}
}
