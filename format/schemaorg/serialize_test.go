package schemaorg

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/tu-graz-library/invenio-records-lom-sub000/format"
	"github.com/tu-graz-library/invenio-records-lom-sub000/lom"
)

func testRecord(t *testing.T) *lom.Metadata {
	t.Helper()
	md := lom.Create(lom.ResourceTypeUpload, true)
	md.SetID("r1")
	for _, err := range []error{
		md.SetTitle("Orbits", "en"),
		md.AppendDescription("<p>Intro to <b>orbits</b></p>", "en"),
		md.AppendContribute("Rivera, Alex", "Author", ""),
		md.AppendContribute("Geodesy Lab", "Author", ""),
		md.AppendContributeWithDate("TU Graz", "Publisher", "2022-06-01", ""),
		md.AppendLanguage("en"),
		md.AppendOEFOSID("101001", "en"),
		md.AppendLearningResourceType("video"),
		md.AppendRelation("parent-1", "ispartof"),
		md.SetRightsURL("https://creativecommons.org/licenses/by/4.0/"),
	} {
		if err != nil {
			t.Fatalf("building record: %v", err)
		}
	}
	md.SetPID("doi", "10.1234/r1", "datacite")
	return md
}

func TestFromRecord(t *testing.T) {
	opts := format.NewSerializeOptions()
	opts.BaseURL = "https://repo.example.org"

	cw, err := FromRecord(testRecord(t), opts)
	if err != nil {
		t.Fatalf("FromRecord failed: %v", err)
	}

	if cw.Type != TypeLearningResource {
		t.Errorf("Type = %v, want %v", cw.Type, TypeLearningResource)
	}
	if cw.Name != "Orbits" {
		t.Errorf("Name = %q, want %q", cw.Name, "Orbits")
	}
	if cw.Description != "Intro to orbits" {
		t.Errorf("Description = %q, want %q", cw.Description, "Intro to orbits")
	}
	if cw.URL != "https://repo.example.org/records/r1" {
		t.Errorf("URL = %q", cw.URL)
	}
	if cw.InLanguage != "en" {
		t.Errorf("InLanguage = %v, want en", cw.InLanguage)
	}
	if cw.DatePublished != "2022-06-01" {
		t.Errorf("DatePublished = %q, want %q", cw.DatePublished, "2022-06-01")
	}
	if cw.License != "https://creativecommons.org/licenses/by/4.0/" {
		t.Errorf("License = %q", cw.License)
	}
	if cw.IsAccessibleForFree == nil || !*cw.IsAccessibleForFree {
		t.Errorf("IsAccessibleForFree = %v, want true", cw.IsAccessibleForFree)
	}

	authors, ok := cw.Author.([]any)
	if !ok || len(authors) != 2 {
		t.Fatalf("Author = %#v, want 2 entries", cw.Author)
	}
	person, ok := authors[0].(*Person)
	if !ok {
		t.Fatalf("first author is %T, want *Person", authors[0])
	}
	if person.FamilyName != "Rivera" || person.GivenName != "Alex" {
		t.Errorf("person = %q %q, want Alex Rivera", person.GivenName, person.FamilyName)
	}
	org, ok := authors[1].(*Organization)
	if !ok {
		t.Fatalf("second author is %T, want *Organization", authors[1])
	}
	if org.Name != "Geodesy Lab" {
		t.Errorf("organization = %q, want %q", org.Name, "Geodesy Lab")
	}

	publisher, ok := cw.Publisher.(*Organization)
	if !ok || publisher.Name != "TU Graz" {
		t.Errorf("Publisher = %#v, want TU Graz", cw.Publisher)
	}

	if len(cw.About) != 1 {
		t.Fatalf("About has %d terms, want 1", len(cw.About))
	}
	if cw.About[0].TermCode != "101001" || cw.About[0].Name != "Algebra" {
		t.Errorf("About[0] = %q %q, want 101001 Algebra", cw.About[0].TermCode, cw.About[0].Name)
	}

	if len(cw.LearningResourceType) != 1 {
		t.Fatalf("LearningResourceType has %d terms, want 1", len(cw.LearningResourceType))
	}
	lrt := cw.LearningResourceType[0]
	if lrt.TermCode != "video" {
		t.Errorf("TermCode = %q, want %q", lrt.TermCode, "video")
	}
	if lrt.URL != lom.HCRTBase+"video" {
		t.Errorf("URL = %q, want %q", lrt.URL, lom.HCRTBase+"video")
	}
	if lrt.Name != "Video" {
		t.Errorf("Name = %q, want %q", lrt.Name, "Video")
	}

	if len(cw.IsPartOf) != 1 {
		t.Fatalf("IsPartOf has %d works, want 1", len(cw.IsPartOf))
	}
	if cw.IsPartOf[0].URL != "https://repo.example.org/records/parent-1" {
		t.Errorf("IsPartOf[0].URL = %q", cw.IsPartOf[0].URL)
	}
	if len(cw.HasPart) != 0 {
		t.Errorf("HasPart = %v, want empty", cw.HasPart)
	}
}

func TestDetermineSchemaType(t *testing.T) {
	tests := map[string]SchemaType{
		lom.ResourceTypeCourse: TypeCourse,
		lom.ResourceTypeLink:   TypeWebPage,
		lom.ResourceTypeUpload: TypeLearningResource,
		lom.ResourceTypeUnit:   TypeLearningResource,
		"other":                TypeCreativeWork,
	}
	for rt, want := range tests {
		if got := determineSchemaType(rt); got != want {
			t.Errorf("determineSchemaType(%q) = %v, want %v", rt, got, want)
		}
	}
}

func TestSerialize(t *testing.T) {
	f := &Format{}

	var one bytes.Buffer
	if err := f.Serialize(&one, []*lom.Metadata{testRecord(t)}, nil); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var obj map[string]any
	if err := json.Unmarshal(one.Bytes(), &obj); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	if obj["@context"] != "https://schema.org" {
		t.Errorf("@context = %v", obj["@context"])
	}
	if obj["@type"] != "LearningResource" {
		t.Errorf("@type = %v, want LearningResource", obj["@type"])
	}
	if _, ok := obj["hasPart"]; ok {
		t.Error("hasPart should be omitted")
	}
	if !f.CanParse(one.Bytes()) {
		t.Error("CanParse should accept serialized output")
	}

	var many bytes.Buffer
	if err := f.Serialize(&many, []*lom.Metadata{testRecord(t), testRecord(t)}, nil); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	var arr []map[string]any
	if err := json.Unmarshal(many.Bytes(), &arr); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	if len(arr) != 2 {
		t.Errorf("got %d documents, want 2", len(arr))
	}
}

func TestInvalidPublicationDate(t *testing.T) {
	md := lom.Create(lom.ResourceTypeUpload, true)
	if err := md.AppendContributeWithDate("TU Graz", "Publisher", "someday", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := FromRecord(md, nil); err == nil {
		t.Error("expected error for unparseable publication date")
	}
}
