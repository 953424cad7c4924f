// Package pgstore persists record envelopes as JSONB documents in
// PostgreSQL.
package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tu-graz-library/invenio-records-lom-sub000/lom"
	"github.com/tu-graz-library/invenio-records-lom-sub000/record"
)

const schema = `
CREATE TABLE IF NOT EXISTS lom_records (
	id         text PRIMARY KEY,
	parent_id  text NOT NULL DEFAULT '',
	doc        jsonb NOT NULL,
	created    timestamptz NOT NULL,
	updated    timestamptz NOT NULL
);
CREATE INDEX IF NOT EXISTS lom_records_parent_idx ON lom_records (parent_id);
CREATE INDEX IF NOT EXISTS lom_records_doc_idx ON lom_records USING gin (doc jsonb_path_ops);
`

const upsert = `
INSERT INTO lom_records (id, parent_id, doc, created, updated)
VALUES ($1, $2, $3::jsonb, $4, $4)
ON CONFLICT (id) DO UPDATE SET
	parent_id = EXCLUDED.parent_id,
	doc = jsonb_set(EXCLUDED.doc, '{created}', lom_records.doc->'created'),
	updated = EXCLUDED.updated
RETURNING doc`

// Store implements record.Store on a pgx pool.
type Store struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

var _ record.Store = (*Store)(nil)

// Open connects to connString and creates the schema if needed.
func Open(ctx context.Context, connString string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	s := New(pool)
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing pool. Call Migrate before first use.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, now: time.Now}
}

// Migrate creates the records table and its indexes.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Load implements record.Store.
func (s *Store) Load(ctx context.Context, id string) (map[string]any, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT doc FROM lom_records WHERE id = $1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", id, record.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", id, err)
	}
	return decode(raw)
}

// Save implements record.Store.
func (s *Store) Save(ctx context.Context, id string, doc map[string]any) (map[string]any, error) {
	now := s.now()
	ts := record.Timestamp(now)

	snapshot, err := structpb.NewStruct(doc)
	if err != nil {
		return nil, fmt.Errorf("saving %s: %w", id, err)
	}
	snapshot.Fields["id"] = structpb.NewStringValue(id)
	snapshot.Fields["updated"] = structpb.NewStringValue(ts)
	snapshot.Fields["created"] = structpb.NewStringValue(ts)

	encoded, err := protojson.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", id, err)
	}

	parent := lom.New(snapshot.AsMap(), false).ParentID()
	var raw []byte
	if err := s.pool.QueryRow(ctx, upsert, id, parent, string(encoded), now).Scan(&raw); err != nil {
		return nil, fmt.Errorf("saving %s: %w", id, err)
	}
	return decode(raw)
}

// Delete implements record.Store.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM lom_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", id, record.ErrNotFound)
	}
	return nil
}

// FindByIdentifier implements record.Store with a JSONB containment query.
func (s *Store) FindByIdentifier(ctx context.Context, catalog, entry string) ([]map[string]any, error) {
	probe, err := json.Marshal(map[string]any{
		"metadata": map[string]any{
			"general": map[string]any{
				"identifier": []any{map[string]any{
					"catalog": catalog,
					"entry":   map[string]any{"langstring": map[string]any{"#text": entry}},
				}},
			},
		},
	})
	if err != nil {
		return nil, err
	}
	return s.query(ctx, `SELECT doc FROM lom_records WHERE doc @> $1::jsonb ORDER BY id`, string(probe))
}

// List implements record.Store.
func (s *Store) List(ctx context.Context, parentID string) ([]map[string]any, error) {
	return s.query(ctx, `SELECT doc FROM lom_records WHERE parent_id = $1 ORDER BY created, id`, parentID)
}

func (s *Store) query(ctx context.Context, sql string, args ...any) ([]map[string]any, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	raws, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}
	out := make([]map[string]any, 0, len(raws))
	for _, raw := range raws {
		doc, err := decode(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func decode(raw []byte) (map[string]any, error) {
	var s structpb.Struct
	if err := protojson.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	return s.AsMap(), nil
}
