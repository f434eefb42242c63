// Package store implements the Identity & Reconciliation Layer (spec
// §2, §4.4): merge-upsert writes against the generic documents table,
// keyed by the external id embedded in source URLs. Grounded in the
// teacher's internal/seed/upsert.go COALESCE-partial-preserve pattern,
// adapted from per-sport relational tables to one JSONB-bodied table per
// collection, realizing Firestore's merge-write semantics (the original
// system's document store) on the teacher's Postgres/pgx stack.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mentone-hv/hv-sync/internal/config"
)

// Queryer is satisfied by *pgxpool.Pool and by a pgx.Tx, so callers can
// batch writes inside a transaction when a stage wants all-or-nothing
// commit semantics.
type Queryer interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgx.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Store is the shared document-store client every stage worker writes
// through. It must be safe to call from a worker pool (spec §4.6's
// shared-resource policy) — Queryer implementations (pgxpool.Pool) are.
type Store struct {
	db Queryer
}

// New wraps a Queryer (typically *db.Pool) as a Store.
func New(db Queryer) *Store {
	return &Store{db: db}
}

// MergeUpsert writes body into collection/id, merging it into any existing
// document via `jsonb || jsonb` so that fields outside the caller's
// responsibility are preserved — spec §4.4's "preserves fields outside
// each stage's responsibility". touchedAt stamps last_checked, the field
// the staleness selector reads.
func (s *Store) MergeUpsert(ctx context.Context, collection, id string, body map[string]interface{}, touchedAt time.Time) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", collection, id, err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO documents (collection, id, body, last_checked, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, $4, NOW(), NOW())
		ON CONFLICT (collection, id) DO UPDATE SET
			body = documents.body || EXCLUDED.body,
			last_checked = EXCLUDED.last_checked,
			updated_at = NOW()`,
		collection, id, string(payload), touchedAt,
	)
	if err != nil {
		return fmt.Errorf("merge-upsert %s/%s: %w", collection, id, err)
	}
	return nil
}

// Get reads one document's body, unmarshaled into dest. Returns
// pgx.ErrNoRows (wrapped) when the document does not exist.
func (s *Store) Get(ctx context.Context, collection, id string, dest interface{}) error {
	var raw []byte
	err := s.db.QueryRow(ctx, "get_document", collection, id).Scan(&raw)
	if err != nil {
		return fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return json.Unmarshal(raw, dest)
}

// List reads every document in a collection, decoded in source order via
// decodeOne for each row.
func (s *Store) List(ctx context.Context, collection string, decodeOne func(id string, body []byte) error) error {
	rows, err := s.db.Query(ctx, "list_documents", collection)
	if err != nil {
		return fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var body []byte
		if err := rows.Scan(&id, &body); err != nil {
			return fmt.Errorf("scan %s row: %w", collection, err)
		}
		if err := decodeOne(id, body); err != nil {
			return err
		}
	}
	return rows.Err()
}

// Stale reads every document in collection whose last_checked predates
// before, implementing one half of the Staleness Selector (spec §4.7).
func (s *Store) Stale(ctx context.Context, collection string, before time.Time, decodeOne func(id string, body []byte) error) error {
	rows, err := s.db.Query(ctx, "stale_documents", collection, before)
	if err != nil {
		return fmt.Errorf("stale %s: %w", collection, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var body []byte
		if err := rows.Scan(&id, &body); err != nil {
			return fmt.Errorf("scan stale %s row: %w", collection, err)
		}
		if err := decodeOne(id, body); err != nil {
			return err
		}
	}
	return rows.Err()
}

// structToBody round-trips a domain struct through JSON into a
// map[string]interface{} suitable for MergeUpsert, so every per-entity
// helper writes through the same merge path instead of hand-building maps.
func structToBody(v interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Collections re-exported for convenience so callers don't need to import
// config just for the string constants.
var (
	Competitions = config.CompetitionsCollection
	Grades       = config.GradesCollection
	Teams        = config.TeamsCollection
	Clubs        = config.ClubsCollection
	Games        = config.GamesCollection
	Players      = config.PlayersCollection
	Venues       = config.VenuesCollection
)
