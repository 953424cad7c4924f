package oai

import (
	"bytes"
	"encoding/xml"
	"io"
	"log/slog"
	"reflect"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/tu-graz-library/invenio-records-lom-sub000/format"
	"github.com/tu-graz-library/invenio-records-lom-sub000/format/xmltree"
	"github.com/tu-graz-library/invenio-records-lom-sub000/lom"
)

func sample(t *testing.T) *lom.Metadata {
	t.Helper()
	md := lom.Create(lom.ResourceTypeUpload, true)
	md.SetID("abcd-1234")
	for _, err := range []error{
		md.SetTitle("Orbits", "en"),
		md.AppendIdentifier("abcd-1234", lom.CatalogRepoPID),
		md.AppendIdentifier("978-3-16-148410-0", "ISBN"),
		md.AppendLanguage("en"),
		md.AppendKeyword("geodesy", "en"),
		md.AppendKeyword("satellites", "en"),
		md.AppendContributeWithDate("Doe, Jane", "Author", "2021-01-01", ""),
		md.AppendLocation("https://example.org/file.pdf"),
		md.SetThumbnail("https://example.org/thumb.png"),
		md.SetRightsURL("https://creativecommons.org/licenses/by/4.0/"),
		md.AppendOEFOSID("207413", "en"),
		md.AppendRelation("unit-1", "haspart"),
	} {
		if err != nil {
			t.Fatalf("building record: %v", err)
		}
	}
	return md
}

// captureLogs routes the default logger into a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &logs
}

// charData returns the text tokens of data, failing on malformed XML.
func charData(t *testing.T, data []byte) []string {
	t.Helper()
	var texts []string
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return texts
		}
		if err != nil {
			t.Fatalf("output not well-formed: %v", err)
		}
		if cd, ok := tok.(xml.CharData); ok {
			texts = append(texts, string(cd))
		}
	}
}

func TestLOMElementStructure(t *testing.T) {
	root := LOMElement(sample(t), nil)

	if root.Name != "lom" {
		t.Errorf("root = %q, want lom", root.Name)
	}
	var order []string
	for _, c := range root.Children {
		order = append(order, c.Name)
	}
	wantOrder := []string{"general", "lifecycle", "technical", "rights", "classification"}
	if !slices.Equal(order, wantOrder) {
		t.Errorf("categories = %v, want %v", order, wantOrder)
	}

	title := root.Find("general/title/langstring")
	if title == nil {
		t.Fatal("missing general/title/langstring")
	}
	if title.Text != "Orbits" {
		t.Errorf("title = %q, want Orbits", title.Text)
	}
	if lang, _ := title.Attr("xml:lang"); lang != "en" {
		t.Errorf("title xml:lang = %q, want en", lang)
	}

	if n := len(root.FindAll("general/keyword")); n != 2 {
		t.Errorf("got %d keywords, want 2", n)
	}
	if lang := root.Find("general/language"); lang == nil || lang.Text != "en" {
		t.Errorf("general/language = %v, want en", lang)
	}

	location := root.Find("technical/location")
	if location == nil {
		t.Fatal("missing technical/location")
	}
	if location.Text != "https://example.org/file.pdf" {
		t.Errorf("location = %q", location.Text)
	}
	if len(location.Attrs) != 0 {
		t.Errorf("location attrs = %v, want none", location.Attrs)
	}

	// Repository extensions are excluded.
	for _, path := range []string{"technical/thumbnail", "rights/url", "relation"} {
		if root.Find(path) != nil {
			t.Errorf("%s should be excluded", path)
		}
	}

	if n := len(root.FindAll("classification/taxonpath/taxon")); n != 4 {
		t.Errorf("got %d taxons, want 4", n)
	}
}

func TestVocabularyLangDefaultsToNone(t *testing.T) {
	root := LOMElement(sample(t), nil)

	role := root.Find("lifecycle/contribute/role/value/langstring")
	if role == nil {
		t.Fatal("missing role langstring")
	}
	if role.Text != "Author" {
		t.Errorf("role = %q, want Author", role.Text)
	}
	if lang, _ := role.Attr("xml:lang"); lang != lom.LangNone {
		t.Errorf("role xml:lang = %q, want %q", lang, lom.LangNone)
	}

	desc := root.Find("rights/description/langstring")
	if desc == nil {
		t.Fatal("missing rights description langstring")
	}
	if lang, _ := desc.Attr("xml:lang"); lang != lom.LangCCURL {
		t.Errorf("rights xml:lang = %q, want %q", lang, lom.LangCCURL)
	}
}

func TestIdentifierInjection(t *testing.T) {
	md := sample(t)
	md.SetPID("doi", "10.1234/abcd-1234", "datacite")

	ids := LOMElement(md, nil).FindAll("general/identifier")
	if len(ids) != 3 {
		t.Fatalf("got %d identifiers, want 3", len(ids))
	}

	var got []string
	for _, id := range ids {
		got = append(got, id.Find("catalog").Text+"="+id.Find("entry/langstring").Text)
	}
	want := []string{
		"repo-pid=abcd-1234",
		"DOI=10.1234/abcd-1234",
		"ISBN=978-3-16-148410-0",
	}
	if !slices.Equal(got, want) {
		t.Errorf("identifiers = %v, want %v", got, want)
	}
}

func TestIdentifierInjectionWithoutStored(t *testing.T) {
	md := lom.Create(lom.ResourceTypeUpload, true)
	md.SetID("xyz")

	ids := LOMElement(md, nil).FindAll("general/identifier")
	if len(ids) != 1 {
		t.Fatalf("got %d identifiers, want 1", len(ids))
	}
	if got := ids[0].Find("entry/langstring").Text; got != "xyz" {
		t.Errorf("entry = %q, want xyz", got)
	}
}

func TestInvalidLangstringPlaceholder(t *testing.T) {
	md := sample(t)
	if err := md.Set("metadata.general.title", map[string]any{
		"langstring": map[string]any{"#text": 42, "lang": "en"},
	}); err != nil {
		t.Fatal(err)
	}
	logs := captureLogs(t)

	root := LOMElement(md, nil)

	title := root.Find("general/title/langstring")
	if title == nil {
		t.Fatal("missing general/title/langstring")
	}
	if title.Text != Placeholder {
		t.Errorf("title = %q, want %q", title.Text, Placeholder)
	}
	if lang, _ := title.Attr("xml:lang"); lang != lom.LangNone {
		t.Errorf("title xml:lang = %q, want %q", lang, lom.LangNone)
	}
	if !strings.Contains(logs.String(), "general.title.langstring") {
		t.Errorf("warning should name the path:\n%s", logs)
	}

	// The rest of the document is still exported.
	if root.Find("general/keyword") == nil {
		t.Error("keywords should still be exported")
	}
	if _, err := xmltree.Marshal(root); err != nil {
		t.Errorf("Marshal failed: %v", err)
	}
}

func TestIllegalCharactersPlaceholder(t *testing.T) {
	md := sample(t)
	if err := md.Set("metadata.general.title", map[string]any{
		"langstring": map[string]any{"#text": "Orbits\x0bPart 1", "lang": "en"},
	}); err != nil {
		t.Fatal(err)
	}
	if err := md.Set("metadata.general.description", []any{
		lom.Langstringify("bad \xff byte", "en"),
	}); err != nil {
		t.Fatal(err)
	}
	logs := captureLogs(t)

	var buf bytes.Buffer
	if err := (&Format{}).Serialize(&buf, []*lom.Metadata{md}, nil); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	texts := charData(t, buf.Bytes())
	if strings.Contains(strings.Join(texts, ""), "Orbits") {
		t.Error("title with a control character should be replaced")
	}
	if !slices.Contains(texts, Placeholder) {
		t.Errorf("expected %q placeholder in %q", Placeholder, texts)
	}
	for _, path := range []string{"general.title.langstring", "general.description.langstring"} {
		if !strings.Contains(logs.String(), path) {
			t.Errorf("no warning for %s:\n%s", path, logs)
		}
	}
}

func TestXMLChars(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"Tab\tand\nnewline ü 🚀", true},
		{"vertical\x0btab", false},
		{"nul\x00", false},
		{"\xff", false},
		{"\uFFFE", false},
	}
	for _, tt := range tests {
		if got := xmlChars(tt.input); got != tt.want {
			t.Errorf("xmlChars(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestRecordElement(t *testing.T) {
	opts := format.NewSerializeOptions()
	opts.OAIPrefix = "repo.example.org"
	opts.Now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }

	md := sample(t)
	record := RecordElement(md, opts)
	if got := record.Find("header/identifier").Text; got != "oai:repo.example.org:abcd-1234" {
		t.Errorf("identifier = %q", got)
	}
	if got := record.Find("header/datestamp").Text; got != "2024-05-06T07:08:09Z" {
		t.Errorf("datestamp = %q", got)
	}
	if record.Find("metadata/lom") == nil {
		t.Error("missing metadata/lom")
	}

	md.Document()["updated"] = "2023-01-02T03:04:05.123456+01:00"
	md.SetPID("oai", "oai:other:abcd-1234", "oai")
	record = RecordElement(md, opts)
	if got := record.Find("header/identifier").Text; got != "oai:other:abcd-1234" {
		t.Errorf("identifier = %q, want minted oai PID", got)
	}
	if got := record.Find("header/datestamp").Text; got != "2023-01-02T02:04:05Z" {
		t.Errorf("datestamp = %q, want updated time in UTC", got)
	}
}

func TestSerialize(t *testing.T) {
	f := &Format{}
	var buf bytes.Buffer
	if err := f.Serialize(&buf, []*lom.Metadata{sample(t), sample(t)}, nil); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "<?xml") {
		t.Error("missing XML declaration")
	}
	if n := strings.Count(out, "<record>"); n != 2 {
		t.Errorf("got %d records, want 2", n)
	}
	if !f.CanParse(buf.Bytes()) {
		t.Error("CanParse should accept serialized output")
	}
	charData(t, buf.Bytes())
}

func TestFilterKeepsSchemaOrder(t *testing.T) {
	got := filter(map[string]any{
		"value":   "b",
		"unknown": "x",
		"source":  "a",
	}, vocabulary)
	want := []kv{{key: "source", value: "a"}, {key: "value", value: "b"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("filter = %v, want %v", got, want)
	}
}
