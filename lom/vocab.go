package lom

import (
	"embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/*
var dataFS embed.FS

const (
	// OEFOSSource is the taxonpath source of OEFOS 2012 classifications.
	OEFOSSource = "https://w3id.org/oerbase/vocabs/oefos2012"

	// HCRTSource is the source of learning-resource types.
	HCRTSource = "https://w3id.org/kim/hcrt/scheme"

	// HCRTBase prefixes the ids of learning-resource types.
	HCRTBase = "https://w3id.org/kim/hcrt/"
)

var (
	// ErrUnknownCode is returned for codes missing from a static vocabulary.
	ErrUnknownCode = errors.New("unknown vocabulary code")

	// ErrUnsupportedLanguage is returned for languages without an OEFOS table.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// OEFOSLanguages lists the languages with an OEFOS name table.
var OEFOSLanguages = []string{"de", "en"}

var (
	oefosOnce   sync.Once
	oefosTables map[string]map[string]string
	oefosErr    error

	lrtOnce  sync.Once
	lrtTable map[string]map[string]string
	lrtErr   error
)

// OEFOSTable returns the code -> name table for lang.
func OEFOSTable(lang string) (map[string]string, error) {
	oefosOnce.Do(func() {
		oefosTables = make(map[string]map[string]string, len(OEFOSLanguages))
		for _, l := range OEFOSLanguages {
			t, err := loadOEFOS("data/oefos_" + l + ".txt")
			if err != nil {
				oefosErr = err
				return
			}
			oefosTables[l] = t
		}
	})
	if oefosErr != nil {
		return nil, oefosErr
	}
	t, ok := oefosTables[lang]
	if !ok {
		return nil, fmt.Errorf("oefos table %q: %w", lang, ErrUnsupportedLanguage)
	}
	return t, nil
}

func loadOEFOS(name string) (map[string]string, error) {
	f, err := dataFS.Open(name)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.FieldsPerRecord = 2
	r.LazyQuotes = true

	table := make(map[string]string)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		table[rec[0]] = rec[1]
	}
	return table, nil
}

// LearningResourceTypes returns the code -> {lang: label} table.
func LearningResourceTypes() (map[string]map[string]string, error) {
	lrtOnce.Do(func() {
		data, err := dataFS.ReadFile("data/learningresourcetypes.yaml")
		if err != nil {
			lrtErr = fmt.Errorf("reading learning resource types: %w", err)
			return
		}
		if err := yaml.Unmarshal(data, &lrtTable); err != nil {
			lrtErr = fmt.Errorf("parsing learning resource types: %w", err)
		}
	})
	return lrtTable, lrtErr
}

// LearningResourceTypeCodes returns the known codes in sorted order.
func LearningResourceTypeCodes() []string {
	table, err := LearningResourceTypes()
	if err != nil {
		return nil
	}
	codes := make([]string, 0, len(table))
	for code := range table {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
