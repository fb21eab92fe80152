package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/jimbaxley/codaframer/internal/adapters/driven/collection/sqlite/migrations"
	"github.com/jimbaxley/codaframer/internal/core/domain"
	"github.com/jimbaxley/codaframer/internal/core/ports/driven"
)

// Store is a SQLite-backed collection registry.
type Store struct {
	db   *sql.DB
	path string
}

// Ensure Store implements the interface.
var _ driven.CollectionRegistry = (*Store)(nil)

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.codaframer/data/collections.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".codaframer", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "collections.db")

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Create registers a new empty collection with a minted ID.
func (s *Store) Create(ctx context.Context, name string) (driven.Collection, error) {
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (id, name, fields, created_at, updated_at)
		VALUES (?, ?, '[]', ?, ?)
	`, id, name, now, now)
	if err != nil {
		return nil, fmt.Errorf("creating collection: %w", err)
	}
	return &collection{store: s, id: id, name: name}, nil
}

// Get returns a collection by ID, or domain.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (driven.Collection, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, name FROM collections WHERE id = ?", id)
	c := &collection{store: s}
	if err := row.Scan(&c.id, &c.name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning collection: %w", err)
	}
	return c, nil
}

// List returns all known collections ordered by name.
func (s *Store) List(ctx context.Context) ([]driven.Collection, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM collections ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	defer rows.Close()

	var out []driven.Collection
	for rows.Next() {
		c := &collection{store: s}
		if err := rows.Scan(&c.id, &c.name); err != nil {
			return nil, fmt.Errorf("scanning collection: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating collections: %w", err)
	}
	return out, nil
}

// Delete removes a collection, its items, and its bookkeeping.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM collections WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// collection implements driven.Collection over a row in the store.
type collection struct {
	store *Store
	id    string
	name  string
}

var _ driven.Collection = (*collection)(nil)

func (c *collection) ID() string {
	return c.id
}

func (c *collection) Name() string {
	return c.name
}

// Fields returns the current field schema.
func (c *collection) Fields(ctx context.Context) ([]domain.Field, error) {
	row := c.store.db.QueryRowContext(ctx, "SELECT fields FROM collections WHERE id = ?", c.id)
	var fieldsJSON string
	if err := row.Scan(&fieldsJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning fields: %w", err)
	}

	var fields []domain.Field
	if err := json.Unmarshal([]byte(fieldsJSON), &fields); err != nil {
		return nil, fmt.Errorf("unmarshaling fields: %w", err)
	}
	return fields, nil
}

// SetFields replaces the field schema.
func (c *collection) SetFields(ctx context.Context, fields []domain.Field) error {
	if fields == nil {
		fields = []domain.Field{}
	}
	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshalling fields: %w", err)
	}

	res, err := c.store.db.ExecContext(ctx, `
		UPDATE collections SET fields = ?, updated_at = ? WHERE id = ?
	`, string(fieldsJSON), time.Now().UTC(), c.id)
	if err != nil {
		return fmt.Errorf("saving fields: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("saving fields: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ItemIDs returns the IDs of all items in the collection.
func (c *collection) ItemIDs(ctx context.Context) ([]string, error) {
	rows, err := c.store.db.QueryContext(ctx,
		"SELECT id FROM items WHERE collection_id = ? ORDER BY id", c.id)
	if err != nil {
		return nil, fmt.Errorf("listing item IDs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning item ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating item IDs: %w", err)
	}
	return ids, nil
}

// AddItems upserts items by ID in a single transaction.
func (c *collection) AddItems(ctx context.Context, items []domain.Item) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := c.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, item := range items {
		entriesJSON, err := json.Marshal(item.Entries)
		if err != nil {
			return fmt.Errorf("marshalling entries for %s: %w", item.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO items (collection_id, id, slug, draft, entries)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(collection_id, id) DO UPDATE SET
				slug = excluded.slug,
				draft = excluded.draft,
				entries = excluded.entries
		`, c.id, item.ID, item.Slug, item.Draft, string(entriesJSON))
		if err != nil {
			return fmt.Errorf("upserting item %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing items: %w", err)
	}
	return nil
}

// RemoveItems deletes items by ID. Unknown IDs are ignored.
func (c *collection) RemoveItems(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := c.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM items WHERE collection_id = ? AND id = ?", c.id, id); err != nil {
			return fmt.Errorf("deleting item %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing deletes: %w", err)
	}
	return nil
}

// PluginData reads a bookkeeping value. Returns "" when unset.
func (c *collection) PluginData(ctx context.Context, key string) (string, error) {
	row := c.store.db.QueryRowContext(ctx,
		"SELECT value FROM plugin_data WHERE collection_id = ? AND key = ?", c.id, key)
	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("scanning plugin data: %w", err)
	}
	return value, nil
}

// SetPluginData writes a bookkeeping value.
func (c *collection) SetPluginData(ctx context.Context, key, value string) error {
	_, err := c.store.db.ExecContext(ctx, `
		INSERT INTO plugin_data (collection_id, key, value)
		VALUES (?, ?, ?)
		ON CONFLICT(collection_id, key) DO UPDATE SET value = excluded.value
	`, c.id, key, value)
	if err != nil {
		return fmt.Errorf("saving plugin data: %w", err)
	}
	return nil
}

// Item reads one stored item back. Used by tests and dry-run output.
func (c *collection) Item(ctx context.Context, id string) (*domain.Item, error) {
	row := c.store.db.QueryRowContext(ctx,
		"SELECT id, slug, draft, entries FROM items WHERE collection_id = ? AND id = ?", c.id, id)

	var item domain.Item
	var entriesJSON string
	if err := row.Scan(&item.ID, &item.Slug, &item.Draft, &entriesJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning item: %w", err)
	}
	if err := json.Unmarshal([]byte(entriesJSON), &item.Entries); err != nil {
		return nil, fmt.Errorf("unmarshaling entries: %w", err)
	}
	return &item, nil
}
