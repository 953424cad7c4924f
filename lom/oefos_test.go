package lom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oefosTaxonpaths(t *testing.T, md *Metadata) [][]string {
	t.Helper()
	var out [][]string
	for _, tp := range md.oefosTaxonpaths() {
		var ids []string
		for _, taxon := range tp.(map[string]any)["taxon"].([]any) {
			ids = append(ids, taxon.(map[string]any)["id"].(string))
		}
		out = append(out, ids)
	}
	return out
}

func chain(codes ...string) []string {
	ids := make([]string, len(codes))
	for i, c := range codes {
		ids[i] = OEFOSSource + "/" + c
	}
	return ids
}

func TestCreateOEFOSTaxonpath(t *testing.T) {
	tp, err := CreateOEFOSTaxonpath("207413", "en")
	require.NoError(t, err)
	require.NotNil(t, tp)

	assert.Equal(t, OEFOSSource, GetText(tp["source"]))
	assert.Equal(t, LangNone, GetLang(tp["source"]))

	taxons := tp["taxon"].([]any)
	require.Len(t, taxons, 4)
	leaf := taxons[3].(map[string]any)
	assert.Equal(t, OEFOSSource+"/207413", leaf["id"])
	assert.Equal(t, "Satellite geodesy", GetText(leaf["entry"]))
	assert.Equal(t, "en", GetLang(leaf["entry"]))

	tp, err = CreateOEFOSTaxonpath("999999", "en")
	require.NoError(t, err)
	assert.Nil(t, tp)

	_, err = CreateOEFOSTaxonpath("207", "fr")
	require.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestAppendOEFOSIDSpecificFirst(t *testing.T) {
	md := New(nil, false)
	require.NoError(t, md.AppendOEFOSID("207413", "de"))
	require.NoError(t, md.AppendOEFOSID("207", "de"))

	assert.Equal(t, [][]string{chain("2", "207", "2074", "207413")}, oefosTaxonpaths(t, md))
}

func TestAppendOEFOSIDGeneralFirst(t *testing.T) {
	md := New(nil, false)
	require.NoError(t, md.AppendOEFOSID("207", "de"))
	require.NoError(t, md.AppendOEFOSID("207413", "de"))

	assert.Equal(t, [][]string{chain("2", "207", "2074", "207413")}, oefosTaxonpaths(t, md))
}

func TestAppendOEFOSIDKeepsUnrelatedPaths(t *testing.T) {
	md := New(nil, false)
	require.NoError(t, md.AppendOEFOSID("101", "en"))
	require.NoError(t, md.AppendOEFOSID("503008", "en"))
	require.NoError(t, md.AppendOEFOSID("101018", "en"))
	require.NoError(t, md.AppendOEFOSID("503008", "en"))
	require.NoError(t, md.AppendOEFOSID("unknown", "en"))

	assert.Equal(t, [][]string{
		chain("5", "503", "5030", "503008"),
		chain("1", "101", "1010", "101018"),
	}, oefosTaxonpaths(t, md))
	assert.Equal(t, []string{"503008", "101018"}, md.GetOEFOSLeafIDs())
	assert.Equal(t, []string{"5", "503", "5030", "503008", "1", "101", "1010", "101018"}, md.GetOEFOSIDs())
	assert.Contains(t, md.GetOEFOSNames("de"), "E-Learning")
}

func TestTaxonpathMaximality(t *testing.T) {
	sequences := [][]string{
		{"2", "207", "2074", "207413", "207412", "20741"},
		{"101018", "1", "102019", "102", "1020", "101"},
		{"503", "5", "503008", "503006", "5030"},
	}
	for _, seq := range sequences {
		md := New(nil, false)
		for _, code := range seq {
			require.NoError(t, md.AppendOEFOSID(code, "en"))
		}
		paths := md.oefosTaxonpaths()
		for i := range paths {
			for j := range paths {
				if i == j {
					continue
				}
				a, b := taxonIDs(paths[i]), taxonIDs(paths[j])
				assert.False(t, isSubset(a, b) && len(a) < len(b), "path %d is a strict subset of path %d for %v", i, j, seq)
			}
		}
	}
}

func TestGetOEFOSClassificationIsUnique(t *testing.T) {
	md := New(nil, false)
	c1, err := md.GetOEFOSClassification()
	require.NoError(t, err)
	c2, err := md.GetOEFOSClassification()
	require.NoError(t, err)

	c1["marker"] = true
	assert.Equal(t, true, c2["marker"])
	assert.Len(t, md.list(pathClassification), 1)
}
