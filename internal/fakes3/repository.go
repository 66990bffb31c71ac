package fakes3

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations
var migrationsFS embed.FS

// Item is a persisted object row: the serialized metadata record plus the
// raw content bytes, uniquely identified by (bucket, key). Timestamps are
// maintained by the repository on insert and update.
type Item struct {
	ID         int64
	Bucket     string
	Key        string
	Metadata   string
	Content    []byte
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// ItemKey identifies a persisted item without its payload.
type ItemKey struct {
	Bucket string
	Key    string
}

// OpenDB opens the sqlite database at path and ensures the schema exists.
func OpenDB(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := initSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// initSchema initializes the metadata database schema by applying all SQL
// files in the embedded migrations in lexicographical order. Every
// migration is written to be idempotent (CREATE ... IF NOT EXISTS), so
// re-running against an existing database is safe; genuine failures are
// returned, not swallowed.
func initSchema(ctx context.Context, db *sql.DB) error {
	return fs.WalkDir(migrationsFS, "migrations", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		content, readError := migrationsFS.ReadFile(path)
		if readError != nil {
			return fmt.Errorf("error reading SQL file: %w", readError)
		}

		slog.Info("Running migration", "path", path)
		_, execError := db.ExecContext(ctx, string(content))
		return execError
	})
}

// ItemRepository is the persistence boundary for items. All operations are
// single-row and rely on sqlite's per-statement atomicity; there is no
// cross-statement transaction around a store operation's read-then-upsert
// sequence.
type ItemRepository struct {
	db *sql.DB
}

// NewItemRepository wraps an open database handle.
func NewItemRepository(db *sql.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// FindItem loads the item stored under (bucket, key), or ErrNotFound.
func (r *ItemRepository) FindItem(ctx context.Context, bucket string, key string) (*Item, error) {
	var item Item
	err := r.db.QueryRowContext(ctx,
		`SELECT id, bucket, key, metadata, content, created_at, modified_at
		 FROM items WHERE bucket = ? AND key = ?`,
		bucket, key,
	).Scan(&item.ID, &item.Bucket, &item.Key, &item.Metadata, &item.Content, &item.CreatedAt, &item.ModifiedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, bucket, key)
	}
	if err != nil {
		return nil, fmt.Errorf("find item %s/%s: %w", bucket, key, err)
	}

	return &item, nil
}

// UpsertItem creates the item for (bucket, key) or, when a row already
// exists, replaces its metadata and content in place while refreshing
// modified_at and leaving created_at untouched. It returns the row as
// persisted.
func (r *ItemRepository) UpsertItem(ctx context.Context, bucket string, key string, metadata string, content []byte) (*Item, error) {
	now := time.Now().UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO items(bucket, key, metadata, content, created_at, modified_at)
		 VALUES(?, ?, ?, ?, ?, ?)
		 ON CONFLICT(bucket, key) DO UPDATE SET
		 	metadata=excluded.metadata,
		 	content=excluded.content,
		 	modified_at=excluded.modified_at`,
		bucket, key, metadata, content, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert item %s/%s: %w", bucket, key, err)
	}

	return r.FindItem(ctx, bucket, key)
}

// DeleteItem removes the item stored under (bucket, key). Deleting an
// absent item reports ErrNotFound; callers that want idempotent deletes can
// treat that as success.
func (r *ItemRepository) DeleteItem(ctx context.Context, bucket string, key string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE bucket = ? AND key = ?`, bucket, key)
	if err != nil {
		return fmt.Errorf("delete item %s/%s: %w", bucket, key, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete item %s/%s: %w", bucket, key, err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, bucket, key)
	}

	return nil
}

// WalkItems invokes fn for every persisted item in (bucket, key) order,
// loading one full row at a time. Iteration stops at the first error.
func (r *ItemRepository) WalkItems(ctx context.Context, fn func(item *Item) error) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, bucket, key, metadata, content, created_at, modified_at
		 FROM items ORDER BY bucket, key`)
	if err != nil {
		return fmt.Errorf("walk items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.Bucket, &item.Key, &item.Metadata, &item.Content, &item.CreatedAt, &item.ModifiedAt); err != nil {
			return fmt.Errorf("scan item: %w", err)
		}
		if err := fn(&item); err != nil {
			return err
		}
	}

	return rows.Err()
}

// CountItems returns the number of persisted items.
func (r *ItemRepository) CountItems(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return count, nil
}
