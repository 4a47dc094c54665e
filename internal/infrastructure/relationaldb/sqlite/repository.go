// Package sqlite provides a SQLite implementation of the FamilyStore interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ersonp/family-core/internal/domain/entities"
	"github.com/ersonp/family-core/internal/domain/ports"
	"github.com/ersonp/family-core/internal/infrastructure/config"
	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// generateUUID returns a new UUID string.
func generateUUID() string {
	return uuid.New().String()
}

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Repository implements ports.FamilyStore using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

var _ ports.FamilyStore = (*Repository)(nil)

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Pragmas and in-memory databases live on a single connection.
	db.SetMaxOpenConns(1)

	pragmas := []struct {
		stmt string
		what string
	}{
		{"PRAGMA foreign_keys = ON", "enabling foreign keys"},
		{"PRAGMA journal_mode = WAL", "enabling WAL mode"},
		{"PRAGMA busy_timeout = 5000", "setting busy timeout"},
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p.stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p.what, err)
		}
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Families (one save document each)
	CREATE TABLE IF NOT EXISTS families (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		root_sim TEXT,
		family_name TEXT,
		current_day INTEGER NOT NULL DEFAULT 0,
		age_spans TEXT,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- Persons, in document order
	CREATE TABLE IF NOT EXISTS persons (
		family_id TEXT NOT NULL REFERENCES families(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		id TEXT NOT NULL,
		name TEXT NOT NULL,
		birthday INTEGER NOT NULL DEFAULT 0,
		deathday INTEGER,
		traits TEXT,
		career TEXT,
		place TEXT,
		image_url TEXT,
		parents TEXT,
		adopted_parents TEXT,
		is_complete INTEGER NOT NULL DEFAULT 0,
		is_favourite INTEGER NOT NULL DEFAULT 0,
		stage_override INTEGER,
		age_spans_override TEXT,
		PRIMARY KEY (family_id, id)
	);
	CREATE INDEX IF NOT EXISTS idx_persons_position ON persons(family_id, position);

	-- Events, in log order
	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		family_id TEXT NOT NULL REFERENCES families(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		type TEXT NOT NULL,
		date INTEGER NOT NULL,
		sims TEXT,
		parents TEXT,
		UNIQUE(family_id, seq)
	);
	CREATE INDEX IF NOT EXISTS idx_events_family ON events(family_id);

	-- Audit log (outlives deleted families)
	CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		family_id TEXT,
		details TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_audit_log_family ON audit_log(family_id);
	CREATE INDEX IF NOT EXISTS idx_audit_log_created ON audit_log(created_at);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// SaveDocument replaces the stored document of family inside a single
// transaction, creating the family row on first save.
func (r *Repository) SaveDocument(ctx context.Context, family string, doc *entities.Document) (string, error) {
	ageSpans, err := encodeList(doc.AgeSpans)
	if err != nil {
		return "", err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var id string
	err = tx.QueryRowContext(ctx, `SELECT id FROM families WHERE name = ?`, family).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id = generateUUID()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO families (id, name, root_sim, family_name, current_day, age_spans, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, id, family, doc.RootSim, doc.FamilyName, doc.CurrentDay, ageSpans, timeNow())
		if err != nil {
			return "", fmt.Errorf("inserting family: %w", err)
		}
	case err != nil:
		return "", fmt.Errorf("finding family: %w", err)
	default:
		_, err = tx.ExecContext(ctx, `
			UPDATE families
			SET root_sim = ?, family_name = ?, current_day = ?, age_spans = ?, updated_at = ?
			WHERE id = ?
		`, doc.RootSim, doc.FamilyName, doc.CurrentDay, ageSpans, timeNow(), id)
		if err != nil {
			return "", fmt.Errorf("updating family: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM persons WHERE family_id = ?`, id); err != nil {
			return "", fmt.Errorf("clearing persons: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE family_id = ?`, id); err != nil {
			return "", fmt.Errorf("clearing events: %w", err)
		}
	}

	if err := insertPersons(ctx, tx, id, doc.Sims); err != nil {
		return "", err
	}
	if err := insertEvents(ctx, tx, id, doc.Events); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing family: %w", err)
	}
	return id, nil
}

func insertPersons(ctx context.Context, tx *sql.Tx, familyID string, sims []entities.PersonRecord) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO persons (
			family_id, position, id, name, birthday, deathday, traits, career, place, image_url,
			parents, adopted_parents, is_complete, is_favourite, stage_override, age_spans_override
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing person insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range sims {
		traits, err := encodeList(p.Traits)
		if err != nil {
			return err
		}
		parents, err := encodeList(p.Parents)
		if err != nil {
			return err
		}
		adopted, err := encodeList(p.AdoptedParents)
		if err != nil {
			return err
		}
		spans, err := encodeList(p.AgeSpansOverride)
		if err != nil {
			return err
		}

		_, err = stmt.ExecContext(ctx,
			familyID, i, p.ID, p.Name, p.Birthday, nullInt(p.Deathday), traits,
			p.Career, p.Place, p.ImageURL, parents, adopted,
			p.IsComplete, p.IsFavourite, nullInt(p.StageOverride), spans,
		)
		if err != nil {
			return fmt.Errorf("saving person %s: %w", p.ID, err)
		}
	}
	return nil
}

func insertEvents(ctx context.Context, tx *sql.Tx, familyID string, events []entities.EventRecord) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events (id, family_id, seq, type, date, sims, parents)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing event insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range events {
		sims, err := encodeList(e.Sims)
		if err != nil {
			return err
		}
		parents, err := encodeList(e.Parents)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, generateUUID(), familyID, i, e.Type, e.Date, sims, parents); err != nil {
			return fmt.Errorf("saving %s event: %w", e.Type, err)
		}
	}
	return nil
}

// LoadDocument returns the stored document of family, or nil if the family
// does not exist.
func (r *Repository) LoadDocument(ctx context.Context, family string) (*entities.Document, error) {
	var (
		id       string
		doc      entities.Document
		rootSim  sql.NullString
		name     sql.NullString
		ageSpans sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, root_sim, family_name, current_day, age_spans
		FROM families
		WHERE name = ?
	`, family).Scan(&id, &rootSim, &name, &doc.CurrentDay, &ageSpans)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning family: %w", err)
	}
	doc.RootSim = rootSim.String
	doc.FamilyName = name.String
	if err := decodeList(ageSpans, &doc.AgeSpans); err != nil {
		return nil, err
	}

	if doc.Sims, err = r.loadPersons(ctx, id); err != nil {
		return nil, err
	}
	if doc.Events, err = r.loadEvents(ctx, id); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *Repository) loadPersons(ctx context.Context, familyID string) ([]entities.PersonRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, birthday, deathday, traits, career, place, image_url,
			parents, adopted_parents, is_complete, is_favourite, stage_override, age_spans_override
		FROM persons
		WHERE family_id = ?
		ORDER BY position ASC
	`, familyID)
	if err != nil {
		return nil, fmt.Errorf("querying persons: %w", err)
	}
	defer rows.Close()

	persons := make([]entities.PersonRecord, 0, 16)
	for rows.Next() {
		var (
			p                             entities.PersonRecord
			deathday, stage               sql.NullInt64
			career, place, image          sql.NullString
			traits, parents, adopted, ags sql.NullString
		)
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Birthday, &deathday, &traits, &career, &place, &image,
			&parents, &adopted, &p.IsComplete, &p.IsFavourite, &stage, &ags,
		); err != nil {
			return nil, fmt.Errorf("scanning person: %w", err)
		}

		p.Deathday = intPtr(deathday)
		p.StageOverride = intPtr(stage)
		p.Career = career.String
		p.Place = place.String
		p.ImageURL = image.String
		for _, list := range []struct {
			raw sql.NullString
			dst any
		}{
			{traits, &p.Traits},
			{parents, &p.Parents},
			{adopted, &p.AdoptedParents},
			{ags, &p.AgeSpansOverride},
		} {
			if err := decodeList(list.raw, list.dst); err != nil {
				return nil, fmt.Errorf("person %s: %w", p.ID, err)
			}
		}
		persons = append(persons, p)
	}
	return persons, rows.Err()
}

func (r *Repository) loadEvents(ctx context.Context, familyID string) ([]entities.EventRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT type, date, sims, parents
		FROM events
		WHERE family_id = ?
		ORDER BY seq ASC
	`, familyID)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	events := make([]entities.EventRecord, 0, 32)
	for rows.Next() {
		var (
			e             entities.EventRecord
			sims, parents sql.NullString
		)
		if err := rows.Scan(&e.Type, &e.Date, &sims, &parents); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		if err := decodeList(sims, &e.Sims); err != nil {
			return nil, err
		}
		if err := decodeList(parents, &e.Parents); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// ListFamilies lists the stored families by name.
func (r *Repository) ListFamilies(ctx context.Context) ([]ports.FamilySummary, error) {
	query := `
		SELECT f.id, f.name, f.current_day, f.updated_at,
			(SELECT COUNT(*) FROM persons p WHERE p.family_id = f.id),
			(SELECT COUNT(*) FROM events e WHERE e.family_id = f.id)
		FROM families f
		ORDER BY f.name ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying families: %w", err)
	}
	defer rows.Close()

	var families []ports.FamilySummary
	for rows.Next() {
		var f ports.FamilySummary
		if err := rows.Scan(&f.ID, &f.Name, &f.CurrentDay, &f.UpdatedAt, &f.Persons, &f.Events); err != nil {
			return nil, fmt.Errorf("scanning family: %w", err)
		}
		families = append(families, f)
	}
	return families, rows.Err()
}

// DeleteFamily deletes a family with all its persons and events.
func (r *Repository) DeleteFamily(ctx context.Context, family string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM families WHERE name = ?`, family)
	if err != nil {
		return fmt.Errorf("deleting family: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("family not found: %s", family)
	}
	return nil
}

// LogAction logs an action to the audit log.
func (r *Repository) LogAction(ctx context.Context, action string, familyID string, details map[string]any) error {
	var detailsJSON sql.NullString
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshaling details: %w", err)
		}
		detailsJSON = sql.NullString{String: string(data), Valid: true}
	}

	var familyIDPtr sql.NullString
	if familyID != "" {
		familyIDPtr = sql.NullString{String: familyID, Valid: true}
	}

	query := `INSERT INTO audit_log (action, family_id, details, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, action, familyIDPtr, detailsJSON, timeNow())
	if err != nil {
		return fmt.Errorf("logging action: %w", err)
	}
	return nil
}

// FindAuditLog finds audit log entries for a family, newest first. A
// non-positive limit returns every entry.
func (r *Repository) FindAuditLog(ctx context.Context, familyID string, limit int) ([]entities.AuditEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `
		SELECT id, action, family_id, details, created_at
		FROM audit_log
		WHERE family_id = ?
		ORDER BY id DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, familyID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	var entries []entities.AuditEntry
	if limit > 0 {
		entries = make([]entities.AuditEntry, 0, limit)
	}

	for rows.Next() {
		var entry entities.AuditEntry
		var family, details sql.NullString

		if err := rows.Scan(
			&entry.ID,
			&entry.Action,
			&family,
			&details,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}

		entry.FamilyID = family.String

		if details.Valid && details.String != "" {
			if err := json.Unmarshal([]byte(details.String), &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshaling details: %w", err)
			}
		}

		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// encodeList stores a slice as a JSON column; nil stays NULL.
func encodeList[T any](list []T) (sql.NullString, error) {
	if list == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(list)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshaling list: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func decodeList(raw sql.NullString, dst any) error {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw.String), dst); err != nil {
		return fmt.Errorf("unmarshaling list: %w", err)
	}
	return nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
