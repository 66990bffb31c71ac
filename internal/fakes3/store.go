package fakes3

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// FileStore is the persistence and object-lifecycle layer of the emulator.
// It owns the items table and exposes the object operations the wire layer
// calls into. Buckets are deliberately not persisted: the registry methods
// hand out ephemeral handles and never consult the database.
type FileStore struct {
	cfg   Config
	db    *sql.DB
	items *ItemRepository
}

// NewFileStore opens (and idempotently migrates) the backing database and
// returns a ready store.
func NewFileStore(ctx context.Context, cfg Config) (*FileStore, error) {
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath
	}

	db, err := OpenDB(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}

	return &FileStore{
		cfg:   cfg,
		db:    db,
		items: NewItemRepository(db),
	}, nil
}

// Close closes any resources held by the store.
func (s *FileStore) Close() error {
	return s.db.Close()
}

// Items exposes the underlying repository for read-only tooling such as the
// verifier and the CLI.
func (s *FileStore) Items() *ItemRepository {
	return s.items
}

// StoreObject ingests the upload payload, derives its metadata, and upserts
// the item at (bucket, key). A malformed multipart upload surfaces as
// ErrBadRequest; any other failure is an internal error, logged here and
// returned wrapped so the caller can distinguish it from a miss.
func (s *FileStore) StoreObject(ctx context.Context, bucket string, key string, req Request) (*Object, error) {
	payload, err := ingestPayload(req.ContentType, req.Body)
	if err != nil {
		return nil, err
	}

	meta := extractMetadata(payload, req.Header)

	text, err := encodeMetadata(meta)
	if err != nil {
		slog.Error("Encode object metadata", "bucket", bucket, "key", key, "err", err)
		return nil, err
	}

	item, err := s.items.UpsertItem(ctx, bucket, key, text, payload)
	if err != nil {
		slog.Error("Upsert item", "bucket", bucket, "key", key, "err", err)
		return nil, err
	}

	return newObject(key, meta, item), nil
}

// GetObject loads the item at (bucket, key), decodes its metadata record,
// and rebuilds the descriptor. A miss is ErrNotFound; a row with corrupt
// metadata is an internal error, not a miss.
func (s *FileStore) GetObject(ctx context.Context, bucket string, key string) (*Object, error) {
	item, err := s.items.FindItem(ctx, bucket, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Error("Lookup item", "bucket", bucket, "key", key, "err", err)
		}
		return nil, err
	}

	meta, err := decodeMetadata(item.Metadata)
	if err != nil {
		slog.Error("Decode item metadata", "bucket", bucket, "key", key, "err", err)
		return nil, fmt.Errorf("metadata for %s/%s: %w", bucket, key, err)
	}

	return newObject(key, meta, item), nil
}

// CopyObject copies the source item's serialized metadata and content
// verbatim to (dstBucket, dstKey). The digest, size, and content type are
// not recomputed; the destination inherits them unchanged. The destination
// row is created if absent and updated in place otherwise.
func (s *FileStore) CopyObject(ctx context.Context, srcBucket string, srcKey string, dstBucket string, dstKey string) (*Object, error) {
	src, err := s.items.FindItem(ctx, srcBucket, srcKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Error("Lookup copy source", "bucket", srcBucket, "key", srcKey, "err", err)
		}
		return nil, err
	}

	srcMeta, err := decodeMetadata(src.Metadata)
	if err != nil {
		slog.Error("Decode copy source metadata", "bucket", srcBucket, "key", srcKey, "err", err)
		return nil, fmt.Errorf("metadata for %s/%s: %w", srcBucket, srcKey, err)
	}

	dst, err := s.items.UpsertItem(ctx, dstBucket, dstKey, src.Metadata, src.Content)
	if err != nil {
		slog.Error("Upsert copy destination", "bucket", dstBucket, "key", dstKey, "err", err)
		return nil, err
	}

	// Resolve ephemeral handles for both sides, mirroring the upload path.
	// The registry is a stub, so this has no effect on persistence.
	_ = s.GetBucket(srcBucket)
	_ = s.GetBucket(dstBucket)

	return newObject(dstKey, srcMeta, dst), nil
}

// DeleteObject removes the item at (bucket, key). Deleting an absent object
// reports ErrNotFound; callers that want S3-style idempotent deletes can
// treat that as success.
func (s *FileStore) DeleteObject(ctx context.Context, bucket string, key string) error {
	err := s.items.DeleteItem(ctx, bucket, key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		slog.Error("Delete item", "bucket", bucket, "key", key, "err", err)
	}
	return err
}

// Part identifies one previously uploaded piece of a multipart upload.
type Part struct {
	PartNumber int
	ETag       string
}

// CombineObjectParts would assemble a completed multipart upload into a
// single object. Multipart assembly is not implemented by this store and
// always fails with ErrNotSupported.
func (s *FileStore) CombineObjectParts(ctx context.Context, bucket string, uploadID string, key string, parts []Part) (*Object, error) {
	return nil, fmt.Errorf("%w: multipart upload assembly", ErrNotSupported)
}

// ------ Bucket registry (stub) ------
//
// Buckets are not tracked as first-class persisted entities. The methods
// below hand out freshly constructed handles regardless of what items
// exist, and never touch the database.

// ListBuckets returns the list of known buckets, which is always empty.
func (s *FileStore) ListBuckets() []Bucket {
	return []Bucket{}
}

// GetBucket returns an ephemeral handle for the named bucket.
func (s *FileStore) GetBucket(name string) Bucket {
	return Bucket{Name: name, CreationDate: time.Now().UTC()}
}

// CreateBucket returns an ephemeral handle for the named bucket.
func (s *FileStore) CreateBucket(name string) Bucket {
	return Bucket{Name: name, CreationDate: time.Now().UTC()}
}

// DeleteBucket is a no-op.
func (s *FileStore) DeleteBucket(name string) {
}

// SetRateLimit accepts a transfer rate in bytes per second for interface
// compatibility with rate-limited stores. The value is ignored.
func (s *FileStore) SetRateLimit(bytesPerSecond int64) {
}
