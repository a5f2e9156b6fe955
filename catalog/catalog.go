// Package catalog stores inspected library shapes in a local SQLite
// database, keyed by library name, version and content hash. Tooling saves
// a shape once and can later run compatibility checks against it without
// having the library artifact around.
package catalog

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/wirelayer/abiguard/errors"
	"github.com/wirelayer/abiguard/shape"
)

const schemaSQL = `CREATE TABLE IF NOT EXISTS shapes (
    shape_id TEXT PRIMARY KEY,
    library TEXT NOT NULL,
    version TEXT NOT NULL,
    content_hash TEXT NOT NULL,
    created_at TEXT NOT NULL,
    document TEXT NOT NULL,
    UNIQUE (library, version, content_hash)
);
CREATE INDEX IF NOT EXISTS shapes_by_library ON shapes (library, version);`

// Catalog is an open shape store.
type Catalog struct {
	db *sql.DB
}

// Entry is one stored shape.
type Entry struct {
	ID        string
	Library   string
	Version   string
	Hash      string
	CreatedAt time.Time
	Shape     *shape.Document
}

// Open opens or creates a catalog database at path.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Load("open catalog "+path, err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, errors.Load("initialize catalog schema", err)
	}
	return &Catalog{db: db}, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Save stores a shape under a library name and version. Saving identical
// content again returns the existing entry instead of duplicating it.
func (c *Catalog) Save(ctx context.Context, library, version string, doc *shape.Document) (*Entry, error) {
	if library == "" || version == "" {
		return nil, errors.InvalidInput(errors.PhaseInspect, "catalog: library and version are required")
	}
	payload, err := doc.Encode()
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(payload)
	hash := hex.EncodeToString(sum[:])

	if existing, err := c.lookup(ctx, library, version, hash); err == nil {
		return existing, nil
	}

	e := &Entry{
		ID:        uuid.NewString(),
		Library:   library,
		Version:   version,
		Hash:      hash,
		CreatedAt: time.Now().UTC(),
		Shape:     doc,
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO shapes (shape_id, library, version, content_hash, created_at, document)
         VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Library, e.Version, e.Hash, e.CreatedAt.Format(time.RFC3339Nano), string(payload))
	if err != nil {
		return nil, errors.Load("save shape of "+library, err)
	}
	return e, nil
}

// Load returns the most recent shape stored for a library version.
func (c *Catalog) Load(ctx context.Context, library, version string) (*Entry, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT shape_id, library, version, content_hash, created_at, document
         FROM shapes WHERE library = ? AND version = ?
         ORDER BY created_at DESC LIMIT 1`,
		library, version)
	return scanEntry(row, library+"@"+version)
}

// lookup finds an exact (library, version, hash) entry.
func (c *Catalog) lookup(ctx context.Context, library, version, hash string) (*Entry, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT shape_id, library, version, content_hash, created_at, document
         FROM shapes WHERE library = ? AND version = ? AND content_hash = ?`,
		library, version, hash)
	return scanEntry(row, library+"@"+version)
}

// List returns every stored entry, newest first, without decoding the
// shape payloads.
func (c *Catalog) List(ctx context.Context) ([]Entry, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT shape_id, library, version, content_hash, created_at
         FROM shapes ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.Load("list catalog", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var created string
		if err := rows.Scan(&e.ID, &e.Library, &e.Version, &e.Hash, &created); err != nil {
			return nil, errors.Load("scan catalog row", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanEntry(row *sql.Row, what string) (*Entry, error) {
	var e Entry
	var created, document string
	err := row.Scan(&e.ID, &e.Library, &e.Version, &e.Hash, &created, &document)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound(errors.PhaseInspect, "shape", what)
	}
	if err != nil {
		return nil, errors.Load("scan shape "+what, err)
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	doc, err := shape.Decode([]byte(document))
	if err != nil {
		return nil, err
	}
	e.Shape = doc
	return &e, nil
}
