package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"github.com/tu-graz-library/invenio-records-lom-sub000/format"
	"github.com/tu-graz-library/invenio-records-lom-sub000/lom"
	"github.com/tu-graz-library/invenio-records-lom-sub000/relation"
)

type store map[string]map[string]any

func (s store) Dereference(_ context.Context, id relation.Identifier) (map[string]any, error) {
	return s[id.Entry], nil
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func unit(t *testing.T, id, author, description string) *lom.Metadata {
	t.Helper()
	md := lom.Create(lom.ResourceTypeUnit, true)
	md.SetID(id)
	must(t, md.SetTitle("Unit "+id, "en"))
	must(t, md.AppendContribute(author, "Author", ""))
	must(t, md.AppendContribute("TU Graz", "publisher", ""))
	must(t, md.AppendDescription(description, "en"))
	return md
}

func TestCourseBorrowsFromUnits(t *testing.T) {
	u1 := unit(t, "u1", "Doe, Jane", "<p>First run</p>")
	u2 := unit(t, "u2", "Roe, Rick", "Second run")

	course := lom.Create(lom.ResourceTypeCourse, true)
	course.SetID("c1")
	must(t, course.SetTitle("Geodesy", "en"))
	must(t, course.AppendDescription("own description", "en"))
	must(t, course.AppendContribute("Ignored, Person", "Author", ""))
	must(t, course.AppendRelation("u1", "haspart"))
	must(t, course.AppendRelation("gone", "haspart"))
	must(t, course.AppendRelation("u2", "haspart"))

	opts := format.NewSerializeOptions()
	opts.Resolver = store{"u1": u1.Document(), "u2": u2.Document()}

	v, err := FromRecord(context.Background(), course, opts)
	if err != nil {
		t.Fatalf("FromRecord failed: %v", err)
	}

	contributors := []Contributor{
		{Name: "Doe, Jane", Role: "Author"},
		{Name: "TU Graz", Role: "Publisher"},
		{Name: "Roe, Rick", Role: "Author"},
	}
	if !slices.Equal(v.Contributors, contributors) {
		t.Errorf("Contributors = %v, want %v", v.Contributors, contributors)
	}
	descriptions := []Text{{Text: "Second run", Lang: "en"}}
	if !slices.Equal(v.Descriptions, descriptions) {
		t.Errorf("Descriptions = %v, want %v", v.Descriptions, descriptions)
	}
	units := []Unit{{ID: "u1", Title: "Unit u1"}, {ID: "u2", Title: "Unit u2"}}
	if !slices.Equal(v.Units, units) {
		t.Errorf("Units = %v, want %v", v.Units, units)
	}
}

func TestCourseWithoutResolver(t *testing.T) {
	course := lom.Create(lom.ResourceTypeCourse, true)
	must(t, course.AppendDescription("own description", "en"))
	must(t, course.AppendRelation("u1", "haspart"))

	v, err := FromRecord(context.Background(), course, nil)
	if err != nil {
		t.Fatalf("FromRecord failed: %v", err)
	}
	if v.Descriptions == nil || len(v.Descriptions) != 0 {
		t.Errorf("Descriptions = %#v, want empty non-nil", v.Descriptions)
	}
	if len(v.Contributors) != 0 {
		t.Errorf("Contributors = %v, want none", v.Contributors)
	}
}

func TestCourseResolverError(t *testing.T) {
	course := lom.Create(lom.ResourceTypeCourse, true)
	must(t, course.AppendRelation("u1", "haspart"))

	boom := errors.New("store down")
	opts := format.NewSerializeOptions()
	opts.Resolver = relation.DereferencerFunc(func(context.Context, relation.Identifier) (map[string]any, error) {
		return nil, boom
	})
	if _, err := FromRecord(context.Background(), course, opts); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}

func TestUploadView(t *testing.T) {
	md := unit(t, "x1", "Doe, Jane", "About <b>orbits</b>")
	md.SetResourceType(lom.ResourceTypeUpload)
	md.SetPID("doi", "10.1234/x1", "datacite")
	must(t, md.AppendFormat("application/pdf"))
	must(t, md.SetSize("2048"))
	must(t, md.AppendLearningResourceType("slide"))
	must(t, md.AppendOEFOSID("207413", "de"))
	must(t, md.AppendLanguage("de"))

	course := lom.NewCourse(nil, true)
	must(t, course.SetTitle("Geodesy", "en"))
	must(t, course.SetVersion("SS 2024"))
	must(t, md.AppendCourse(course))

	opts := format.NewSerializeOptions()
	opts.Locale = "de-DE"
	opts.BaseURL = "https://repo.example.org"
	v, err := FromRecord(context.Background(), md, opts)
	if err != nil {
		t.Fatalf("FromRecord failed: %v", err)
	}

	if len(v.Descriptions) == 0 || v.Descriptions[0].Text != "About orbits" {
		t.Errorf("Descriptions = %v, want stripped HTML", v.Descriptions)
	}
	if v.DOI != "10.1234/x1" {
		t.Errorf("DOI = %q", v.DOI)
	}
	if v.URL != "https://repo.example.org/records/x1" {
		t.Errorf("URL = %q", v.URL)
	}
	if !slices.Equal(v.Formats, []string{"application/pdf"}) {
		t.Errorf("Formats = %v", v.Formats)
	}
	if v.Size != "2048" {
		t.Errorf("Size = %q, want 2048", v.Size)
	}
	if !slices.Equal(v.Languages, []string{"de"}) {
		t.Errorf("Languages = %v", v.Languages)
	}
	if !slices.Contains(v.Disciplines, "Satellitengeodäsie") {
		t.Errorf("Disciplines = %v, missing German OEFOS label", v.Disciplines)
	}
	if len(v.LearningResourceTypes) != 1 {
		t.Errorf("LearningResourceTypes = %v, want one", v.LearningResourceTypes)
	}
	courses := []Course{{Title: "Geodesy", Version: "SS 2024"}}
	if !slices.Equal(v.Courses, courses) {
		t.Errorf("Courses = %v, want %v", v.Courses, courses)
	}
}

func TestLinkAndFileViews(t *testing.T) {
	link := unit(t, "l1", "Doe, Jane", "A link")
	link.SetResourceType(lom.ResourceTypeLink)
	must(t, link.AppendLocation("https://example.org/page"))
	must(t, link.AppendFormat("text/html"))

	v, err := FromRecord(context.Background(), link, nil)
	if err != nil {
		t.Fatalf("FromRecord failed: %v", err)
	}
	if !slices.Equal(v.Locations, []string{"https://example.org/page"}) {
		t.Errorf("Locations = %v", v.Locations)
	}
	if len(v.Formats) != 0 {
		t.Errorf("Formats = %v, want none for links", v.Formats)
	}

	file := unit(t, "f1", "Doe, Jane", "A file")
	file.SetResourceType(lom.ResourceTypeFile)
	must(t, file.AppendFormat("image/png"))

	v, err = FromRecord(context.Background(), file, nil)
	if err != nil {
		t.Fatalf("FromRecord failed: %v", err)
	}
	if !slices.Equal(v.Formats, []string{"image/png"}) {
		t.Errorf("Formats = %v", v.Formats)
	}
	if len(v.Descriptions) != 0 {
		t.Errorf("Descriptions = %v, want none for files", v.Descriptions)
	}
}

func TestBaseLanguage(t *testing.T) {
	tests := map[string]string{
		"de-DE": "de",
		"en-US": "en",
		"":      "en",
	}
	for locale, want := range tests {
		if got := baseLanguage(locale); got != want {
			t.Errorf("baseLanguage(%q) = %q, want %q", locale, got, want)
		}
	}
}

func TestSerialize(t *testing.T) {
	f := &Format{}
	var buf bytes.Buffer
	if err := f.Serialize(&buf, []*lom.Metadata{unit(t, "u1", "Doe, Jane", "d")}, nil); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	if got["id"] != "u1" {
		t.Errorf("id = %v, want u1", got["id"])
	}
	if got["resource_type"] != lom.ResourceTypeUnit {
		t.Errorf("resource_type = %v, want %v", got["resource_type"], lom.ResourceTypeUnit)
	}
}
