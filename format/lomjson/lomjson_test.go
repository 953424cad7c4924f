package lomjson_test

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/tu-graz-library/invenio-records-lom-sub000/format"
	"github.com/tu-graz-library/invenio-records-lom-sub000/format/lomjson"
)

func TestParseEnvelope(t *testing.T) {
	input := `{"id": "abc", "resource_type": "upload", "metadata": {"general": {"title": {"langstring": {"#text": "T", "lang": "en"}}}}}`
	records, err := (&lomjson.Format{}).Parse(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].ID() != "abc" {
		t.Errorf("ID = %q, want abc", records[0].ID())
	}
	if got := records[0].GetTitleText(); got != "T" {
		t.Errorf("title = %q, want T", got)
	}
}

func TestParseBareMetadata(t *testing.T) {
	input := `[{"general": {"title": {"langstring": {"#text": "One"}}}}, {"lifecycle": {}}]`
	records, err := (&lomjson.Format{}).Parse(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if got := records[0].GetTitleText(); got != "One" {
		t.Errorf("title = %q, want One", got)
	}
	if _, ok := records[1].Document()["metadata"]; !ok {
		t.Error("bare metadata should be wrapped under metadata")
	}
}

func TestParseError(t *testing.T) {
	opts := format.NewParseOptions()
	opts.SourceName = "broken.json"
	_, err := (&lomjson.Format{}).Parse(strings.NewReader(`{"metadata":`), opts)
	if err == nil {
		t.Fatal("expected error for truncated JSON")
	}
	if !strings.Contains(err.Error(), "broken.json") {
		t.Errorf("error %q should name the source", err)
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	input := `{"id":"x","metadata":{"general":{"language":["de"]}}}`
	f := &lomjson.Format{}
	records, err := f.Parse(strings.NewReader(input), nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var buf bytes.Buffer
	if err := f.Serialize(&buf, records, nil); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	var got, want map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	if err := json.Unmarshal([]byte(input), &want); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip = %v, want %v", got, want)
	}
}

func TestCanParse(t *testing.T) {
	f := &lomjson.Format{}
	tests := []struct {
		input string
		want  bool
	}{
		{`{"metadata": {}}`, true},
		{`<lom/>`, false},
		{`{"titles": []}`, false},
	}
	for _, tt := range tests {
		if got := f.CanParse([]byte(tt.input)); got != tt.want {
			t.Errorf("CanParse(%s) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
