package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tu-graz-library/invenio-records-lom-sub000/format"
	"github.com/tu-graz-library/invenio-records-lom-sub000/format/lomjson"
	"github.com/tu-graz-library/invenio-records-lom-sub000/lom"
	"github.com/tu-graz-library/invenio-records-lom-sub000/record"
	"github.com/tu-graz-library/invenio-records-lom-sub000/record/pgstore"
)

// readRecords parses LOM JSON records from path, or stdin when path is "".
func readRecords(path string) (records []*lom.Metadata, err error) {
	var input io.Reader
	name := "stdin"
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening input file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing input file: %w", cerr)
			}
		}()
		input = f
		name = path
	} else {
		input = os.Stdin
	}

	opts := format.NewParseOptions()
	opts.SourceName = name
	records, err = (&lomjson.Format{}).Parse(input, opts)
	if err != nil {
		return nil, fmt.Errorf("parsing input: %w", err)
	}
	slog.Debug("parsed records", "source", name, "count", len(records))
	return records, nil
}

// withOutput calls fn with path opened for writing, or stdout when path is "".
func withOutput(path string, fn func(io.Writer) error) (err error) {
	if path == "" {
		return fn(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing output file: %w", cerr)
		}
	}()
	return fn(f)
}

// writeRecords writes records as LOM JSON.
func writeRecords(path string, records []*lom.Metadata, pretty bool) error {
	opts := serializeOptions()
	opts.Pretty = pretty
	return withOutput(path, func(w io.Writer) error {
		return (&lomjson.Format{}).Serialize(w, records, opts)
	})
}

// serializeOptions builds serializer defaults from the loaded configuration.
func serializeOptions() *format.SerializeOptions {
	opts := format.NewSerializeOptions()
	if cfg == nil {
		return opts
	}
	opts.BaseURL = cfg.BaseURL
	opts.Catalog = cfg.Catalog
	opts.OAIPrefix = cfg.OAIPrefix
	opts.Style = cfg.Citation.Style
	opts.Locale = cfg.Citation.Locale
	return opts
}

// openService opens the configured store for command: Postgres when a
// database URL is set, memory otherwise. The returned func releases it.
func openService(ctx context.Context, command string) (*record.Service, func(), error) {
	var store record.Store
	closeFn := func() {}
	if cfg.DatabaseURL != "" {
		pg, err := pgstore.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		store = pg
		closeFn = pg.Close
	} else {
		slog.Warn("no database configured, using in-memory store",
			"command", command,
			"effect", memoryStoreEffect(command),
		)
		store = record.NewMemoryStore()
	}

	svc := record.NewService(store, record.Options{
		Catalog:       cfg.Catalog,
		DOIPrefix:     cfg.DOIPrefix(),
		DOIProvider:   cfg.DOIProvider(),
		OAIPrefix:     cfg.OAIPrefix,
		ResourceTypes: cfg.ResourceTypes,
		MaxDepth:      cfg.Relations.MaxDepth,
		Logger:        slog.Default(),
	})
	return svc, closeFn, nil
}

// memoryStoreEffect describes what command loses without a database.
func memoryStoreEffect(command string) string {
	switch command {
	case "export", "relations", "stats":
		return "stored records are not available, related records and versions resolve to nothing"
	default:
		return "records are discarded when the command exits"
	}
}
