package datacite

import (
	"bytes"
	"encoding/json"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/tu-graz-library/invenio-records-lom-sub000/format"
	"github.com/tu-graz-library/invenio-records-lom-sub000/lom"
)

func record(t *testing.T) *lom.Metadata {
	t.Helper()
	md := lom.Create(lom.ResourceTypeUpload, true)
	md.SetID("abcd-1234")
	if err := md.SetTitle("Satellite Orbits", "en"); err != nil {
		t.Fatal(err)
	}
	return md
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func fixedClock() time.Time {
	return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
}

func TestPublicationYearFromLowercasePublisher(t *testing.T) {
	md := record(t)
	must(t, md.AppendContributeWithDate("TU Graz", "publisher", "2020-05-01T00:00:00", ""))

	opts := format.NewSerializeOptions()
	opts.Now = fixedClock
	r, err := FromRecord(md, opts)
	if err != nil {
		t.Fatalf("FromRecord failed: %v", err)
	}

	if r.PublicationYear != "2020" {
		t.Errorf("PublicationYear = %q, want %q", r.PublicationYear, "2020")
	}
	if r.Publisher != "TU Graz" {
		t.Errorf("Publisher = %q, want %q", r.Publisher, "TU Graz")
	}
	want := []Date{{Date: "2020-05-01", DateType: "Created"}}
	if !slices.Equal(r.Dates, want) {
		t.Errorf("Dates = %v, want %v", r.Dates, want)
	}
}

func TestPublicationYearFallsBackToClock(t *testing.T) {
	opts := format.NewSerializeOptions()
	opts.Now = fixedClock
	opts.Publisher = "Repository"

	r, err := FromRecord(record(t), opts)
	if err != nil {
		t.Fatalf("FromRecord failed: %v", err)
	}
	if r.PublicationYear != "2024" {
		t.Errorf("PublicationYear = %q, want %q", r.PublicationYear, "2024")
	}
	if r.Publisher != "Repository" {
		t.Errorf("Publisher = %q, want %q", r.Publisher, "Repository")
	}
	if len(r.Dates) != 0 {
		t.Errorf("Dates = %v, want none", r.Dates)
	}
}

func TestCreatedDateRange(t *testing.T) {
	md := record(t)
	must(t, md.AppendContributeWithDate("Doe, Jane", "Author", "2021-02-03", ""))
	must(t, md.AppendContributeWithDate("Roe, Rick", "Editor", "2019", ""))

	r, err := FromRecord(md, nil)
	if err != nil {
		t.Fatalf("FromRecord failed: %v", err)
	}

	dates := []Date{{Date: "2019/2021-02-03", DateType: "Created"}}
	if !slices.Equal(r.Dates, dates) {
		t.Errorf("Dates = %v, want %v", r.Dates, dates)
	}
	creators := []Creator{{Name: "Doe, Jane", NameType: "Personal", GivenName: "Jane", FamilyName: "Doe"}}
	if !slices.Equal(r.Creators, creators) {
		t.Errorf("Creators = %v, want %v", r.Creators, creators)
	}
	contributors := []Contributor{{Name: "Roe, Rick", ContributorType: "Editor"}}
	if !slices.Equal(r.Contributors, contributors) {
		t.Errorf("Contributors = %v, want %v", r.Contributors, contributors)
	}
}

func TestInvalidDateIsError(t *testing.T) {
	md := record(t)
	must(t, md.AppendContributeWithDate("Doe", "Author", "yesterday", ""))

	if _, err := FromRecord(md, nil); err == nil {
		t.Error("expected error for unparseable date")
	}
}

func TestMissingTitle(t *testing.T) {
	_, err := FromRecord(lom.Create(lom.ResourceTypeUpload, true), nil)
	if !errors.Is(err, ErrMissingTitle) {
		t.Errorf("err = %v, want %v", err, ErrMissingTitle)
	}
}

func TestLanguage(t *testing.T) {
	md := record(t)
	must(t, md.AppendLanguage(lom.LangNone))
	must(t, md.AppendLanguage("de"))

	r, err := FromRecord(md, nil)
	if err != nil {
		t.Fatalf("FromRecord failed: %v", err)
	}
	if r.Language != "de" {
		t.Errorf("Language = %q, want %q", r.Language, "de")
	}

	bad := record(t)
	must(t, bad.AppendLanguage("not a language"))
	if _, err := FromRecord(bad, nil); err == nil {
		t.Error("expected error for invalid language")
	}
}

func TestIdentifiers(t *testing.T) {
	md := record(t)
	md.SetPID("oai", "oai:repo:abcd-1234", "oai")
	md.SetPID("doi", "10.1234/abcd-1234", "datacite")
	md.SetPID("recid", "abcd-1234", "local")
	must(t, md.AppendIdentifier("10.1234/abcd-1234", "DOI"))
	must(t, md.AppendIdentifier("978-3-16-148410-0", "ISBN"))

	r, err := FromRecord(md, nil)
	if err != nil {
		t.Fatalf("FromRecord failed: %v", err)
	}
	want := []Identifier{
		{Identifier: "10.1234/abcd-1234", IdentifierType: "DOI"},
		{Identifier: "oai:repo:abcd-1234", IdentifierType: "OAI"},
		{Identifier: "abcd-1234", IdentifierType: "RECID"},
		{Identifier: "978-3-16-148410-0", IdentifierType: "ISBN"},
	}
	if !slices.Equal(r.Identifiers, want) {
		t.Errorf("Identifiers = %v, want %v", r.Identifiers, want)
	}
}

func TestIdentifiersCaseInsensitiveType(t *testing.T) {
	md := record(t)
	md.SetPID(lom.CatalogRepoPID, "abcd-1234", "local")
	must(t, md.AppendIdentifier("abcd-1234", lom.CatalogRepoPID))

	r, err := FromRecord(md, nil)
	if err != nil {
		t.Fatalf("FromRecord failed: %v", err)
	}

	var n int
	for _, id := range r.Identifiers {
		if id.Identifier == "abcd-1234" {
			n++
		}
	}
	if n != 1 {
		t.Errorf("abcd-1234 listed %d times, want 1: %v", n, r.Identifiers)
	}
}

func TestRelatedIdentifiers(t *testing.T) {
	md := record(t)
	must(t, md.AppendRelation("unit-1", "haspart"))
	must(t, md.Append("metadata.relation", map[string]any{
		"kind":     lom.Vocabularify("references"),
		"resource": map[string]any{"identifier": []any{lom.Catalogify("10.5555/ref", "doi")}},
	}))
	must(t, md.AppendRelation("x", "unknownkind"))

	r, err := FromRecord(md, nil)
	if err != nil {
		t.Fatalf("FromRecord failed: %v", err)
	}
	want := []RelatedIdentifier{
		{RelatedIdentifier: "10.5555/ref", RelatedIdentifierType: "DOI", RelationType: "References"},
	}
	if !slices.Equal(r.RelatedIdentifiers, want) {
		t.Errorf("RelatedIdentifiers = %v, want %v", r.RelatedIdentifiers, want)
	}

	opts := format.NewSerializeOptions()
	opts.BaseURL = "https://repo.example.org/"
	r, err = FromRecord(md, opts)
	if err != nil {
		t.Fatalf("FromRecord failed: %v", err)
	}
	if len(r.RelatedIdentifiers) == 0 {
		t.Fatal("expected related identifiers")
	}
	first := RelatedIdentifier{
		RelatedIdentifier:     "https://repo.example.org/records/unit-1",
		RelatedIdentifierType: "URL",
		RelationType:          "HasPart",
	}
	if r.RelatedIdentifiers[0] != first {
		t.Errorf("RelatedIdentifiers[0] = %v, want %v", r.RelatedIdentifiers[0], first)
	}
	if r.URL != "https://repo.example.org/records/abcd-1234" {
		t.Errorf("URL = %q", r.URL)
	}
}

func TestSubjectsAndRights(t *testing.T) {
	md := record(t)
	must(t, md.AppendKeyword("orbits", "en"))
	must(t, md.AppendOEFOSID("207413", "en"))
	must(t, md.SetRightsURL("https://creativecommons.org/licenses/by/4.0/"))
	must(t, md.AppendDescription("<p>About <b>orbits</b></p>", "en"))

	r, err := FromRecord(md, nil)
	if err != nil {
		t.Fatalf("FromRecord failed: %v", err)
	}

	if len(r.Subjects) == 0 {
		t.Fatal("expected subjects")
	}
	if got, want := r.Subjects[0], (Subject{Subject: "orbits", Lang: "en"}); got != want {
		t.Errorf("Subjects[0] = %v, want %v", got, want)
	}
	last := r.Subjects[len(r.Subjects)-1]
	if last.Subject != "Satellite geodesy" {
		t.Errorf("last subject = %q, want %q", last.Subject, "Satellite geodesy")
	}
	if last.ValueURI != lom.OEFOSSource+"/207413" {
		t.Errorf("ValueURI = %q", last.ValueURI)
	}

	if len(r.RightsList) != 1 {
		t.Fatalf("RightsList has %d entries, want 1", len(r.RightsList))
	}
	if r.RightsList[0].RightsIdentifier != "CC-BY-4.0" {
		t.Errorf("RightsIdentifier = %q, want %q", r.RightsList[0].RightsIdentifier, "CC-BY-4.0")
	}
	if r.RightsList[0].RightsIdentifierScheme != "SPDX" {
		t.Errorf("RightsIdentifierScheme = %q, want SPDX", r.RightsList[0].RightsIdentifierScheme)
	}

	if len(r.Descriptions) != 1 {
		t.Fatalf("Descriptions has %d entries, want 1", len(r.Descriptions))
	}
	if r.Descriptions[0].Description != "About orbits" {
		t.Errorf("Description = %q, want %q", r.Descriptions[0].Description, "About orbits")
	}
}

func TestCCIdentifier(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://creativecommons.org/licenses/by-sa/4.0/", "CC-BY-SA-4.0"},
		{"https://creativecommons.org/publicdomain/zero/1.0/", "CC0-1.0"},
		{"https://example.org/licence", ""},
	}
	for _, tt := range tests {
		if got := ccIdentifier(tt.url); got != tt.want {
			t.Errorf("ccIdentifier(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestSerialize(t *testing.T) {
	f := &Format{}
	var buf bytes.Buffer
	if err := f.Serialize(&buf, []*lom.Metadata{record(t)}, nil); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var single map[string]any
	if err := json.Unmarshal(buf.Bytes(), &single); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	if single["schemaVersion"] != SchemaVersion {
		t.Errorf("schemaVersion = %v, want %v", single["schemaVersion"], SchemaVersion)
	}
	if !f.CanParse(buf.Bytes()) {
		t.Error("CanParse should accept serialized output")
	}

	buf.Reset()
	if err := f.Serialize(&buf, []*lom.Metadata{record(t), record(t)}, nil); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	var many []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &many); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	if len(many) != 2 {
		t.Errorf("got %d documents, want 2", len(many))
	}

	buf.Reset()
	err := f.Serialize(&buf, []*lom.Metadata{lom.Create(lom.ResourceTypeUpload, true)}, nil)
	if !errors.Is(err, ErrMissingTitle) {
		t.Errorf("err = %v, want %v", err, ErrMissingTitle)
	}
}
