package fakes3

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// newTestStore creates a FileStore backed by a temporary sqlite database.
func newTestStore(t *testing.T) *FileStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "fakes3.db")

	store, err := NewFileStore(context.Background(), NewConfig(WithDBPath(dbPath)))
	require.NoError(t, err, "NewFileStore error")
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func rawRequest(contentType string, header http.Header, payload []byte) Request {
	return NewRequest(contentType, header, bytes.NewReader(payload))
}

func TestStoreAndGetRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	header := http.Header{}
	header.Set("Content-Type", "text/plain")
	header.Set("x-amz-meta-owner", "alice")

	stored, err := store.StoreObject(ctx, "bucket1", "a.txt", rawRequest("text/plain", header, []byte("hello")))
	require.NoError(t, err, "StoreObject error")

	// md5("hello")
	require.Equal(t, "5d41402abc4b2a76b9719d911017c592", stored.MD5, "stored digest")
	require.Equal(t, int64(5), stored.Size, "stored size")
	require.Equal(t, "text/plain", stored.ContentType, "stored content type")
	require.Equal(t, map[string]string{"owner": "alice"}, stored.CustomMetadata, "stored custom metadata")

	got, err := store.GetObject(ctx, "bucket1", "a.txt")
	require.NoError(t, err, "GetObject error")

	require.Equal(t, stored.MD5, got.MD5, "round-trip digest")
	require.Equal(t, stored.Size, got.Size, "round-trip size")
	require.Equal(t, stored.ContentType, got.ContentType, "round-trip content type")
	require.Equal(t, stored.CustomMetadata, got.CustomMetadata, "round-trip custom metadata")
	require.Equal(t, []byte("hello"), got.Item.Content, "round-trip content")
	require.NotNil(t, got.Item, "descriptor item back-reference")
}

func TestStoreDefaultContentType(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	obj, err := store.StoreObject(ctx, "bucket", "blob", rawRequest("", nil, []byte{0x01, 0x02}))
	require.NoError(t, err, "StoreObject error")
	require.Equal(t, "application/octet-stream", obj.ContentType, "fallback content type")
}

func TestStoreOverwrite(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.StoreObject(ctx, "bucket", "key", rawRequest("", nil, []byte("one")))
	require.NoError(t, err, "first StoreObject error")

	// Make sure the second write lands on a strictly later clock reading.
	time.Sleep(10 * time.Millisecond)

	second, err := store.StoreObject(ctx, "bucket", "key", rawRequest("", nil, []byte("second payload")))
	require.NoError(t, err, "second StoreObject error")

	count, err := store.Items().CountItems(ctx)
	require.NoError(t, err, "CountItems error")
	require.Equal(t, int64(1), count, "expected a single persisted item after overwrite")

	got, err := store.GetObject(ctx, "bucket", "key")
	require.NoError(t, err, "GetObject error")
	require.Equal(t, second.MD5, got.MD5, "overwritten digest")
	require.Equal(t, int64(len("second payload")), got.Size, "overwritten size")
	require.Equal(t, []byte("second payload"), got.Item.Content, "overwritten content")

	require.True(t, got.ModifiedDate.After(first.ModifiedDate), "modified date must be refreshed by the overwrite")
	require.True(t, got.Item.ModifiedAt.After(got.Item.CreatedAt), "row modified_at must advance past created_at")
}

func TestGetObjectMissing(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	_, err := store.GetObject(context.Background(), "nope", "missing")
	require.ErrorIs(t, err, ErrNotFound, "expected ErrNotFound for a missing object")
}

func TestGetObjectCorruptMetadata(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	// Plant a row whose metadata record does not decode.
	_, err := store.Items().UpsertItem(ctx, "bucket", "broken", "not json {", []byte("payload"))
	require.NoError(t, err, "UpsertItem error")

	_, err = store.GetObject(ctx, "bucket", "broken")
	require.Error(t, err, "expected an error for corrupt metadata")
	require.NotErrorIs(t, err, ErrNotFound, "corrupt metadata must not be reported as a miss")
}

func TestCopyObject(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	header := http.Header{}
	header.Set("Content-Type", "text/plain")
	header.Set("x-amz-meta-origin", "unit-test")

	src, err := store.StoreObject(ctx, "src-bucket", "src.txt", rawRequest("text/plain", header, []byte("copy me")))
	require.NoError(t, err, "StoreObject error")

	copied, err := store.CopyObject(ctx, "src-bucket", "src.txt", "dst-bucket", "dst.txt")
	require.NoError(t, err, "CopyObject error")

	require.Equal(t, "dst.txt", copied.Name, "destination name")
	require.Equal(t, src.MD5, copied.MD5, "copied digest")
	require.Equal(t, src.Size, copied.Size, "copied size")
	require.Equal(t, src.ContentType, copied.ContentType, "copied content type")
	require.Equal(t, src.CustomMetadata, copied.CustomMetadata, "copied custom metadata")

	// The serialized record and content are carried over verbatim, never
	// re-derived.
	dst, err := store.Items().FindItem(ctx, "dst-bucket", "dst.txt")
	require.NoError(t, err, "FindItem error")
	require.Equal(t, src.Item.Metadata, dst.Metadata, "raw metadata text copied verbatim")
	require.Equal(t, src.Item.Content, dst.Content, "raw content copied verbatim")

	// The source is untouched.
	srcAgain, err := store.GetObject(ctx, "src-bucket", "src.txt")
	require.NoError(t, err, "GetObject source error")
	require.Equal(t, src.MD5, srcAgain.MD5, "source digest after copy")
}

func TestCopyObjectOverwritesDestination(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.StoreObject(ctx, "bucket", "src", rawRequest("", nil, []byte("fresh")))
	require.NoError(t, err, "StoreObject src error")
	_, err = store.StoreObject(ctx, "bucket", "dst", rawRequest("", nil, []byte("stale")))
	require.NoError(t, err, "StoreObject dst error")

	_, err = store.CopyObject(ctx, "bucket", "src", "bucket", "dst")
	require.NoError(t, err, "CopyObject error")

	count, err := store.Items().CountItems(ctx)
	require.NoError(t, err, "CountItems error")
	require.Equal(t, int64(2), count, "copy onto an existing key must reuse the row")

	got, err := store.GetObject(ctx, "bucket", "dst")
	require.NoError(t, err, "GetObject error")
	require.Equal(t, []byte("fresh"), got.Item.Content, "destination content after copy")
}

func TestCopyObjectMissingSource(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	_, err := store.CopyObject(context.Background(), "bucket", "missing", "bucket", "dst")
	require.ErrorIs(t, err, ErrNotFound, "expected ErrNotFound for a missing copy source")
}

func TestDeleteThenGet(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.StoreObject(ctx, "bucket", "key", rawRequest("", nil, []byte("bye")))
	require.NoError(t, err, "StoreObject error")

	require.NoError(t, store.DeleteObject(ctx, "bucket", "key"), "DeleteObject error")

	_, err = store.GetObject(ctx, "bucket", "key")
	require.ErrorIs(t, err, ErrNotFound, "expected ErrNotFound after delete")
}

func TestDeleteMissingObject(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	err := store.DeleteObject(context.Background(), "bucket", "never-stored")
	require.ErrorIs(t, err, ErrNotFound, "deleting an absent object reports ErrNotFound")
}

func TestCombineObjectPartsUnsupported(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	_, err := store.CombineObjectParts(context.Background(), "bucket", "upload-1", "key", []Part{
		{PartNumber: 1, ETag: "etag-1"},
	})
	require.ErrorIs(t, err, ErrNotSupported, "multipart assembly must be unsupported")
}

func TestBucketRegistryStub(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	// Even with items persisted, the registry stays an ephemeral stub.
	_, err := store.StoreObject(ctx, "bucket1", "a", rawRequest("", nil, []byte("x")))
	require.NoError(t, err, "StoreObject error")

	require.Empty(t, store.ListBuckets(), "ListBuckets is always empty")

	got := store.GetBucket("bucket1")
	require.Equal(t, "bucket1", got.Name, "GetBucket name")
	require.Empty(t, got.Objects, "GetBucket object list is never populated")
	require.WithinDuration(t, time.Now().UTC(), got.CreationDate, time.Minute, "GetBucket creation date is the current wall clock")

	created := store.CreateBucket("bucket2")
	require.Equal(t, "bucket2", created.Name, "CreateBucket name")

	// No-ops, but must not disturb persisted items.
	store.DeleteBucket("bucket1")
	store.SetRateLimit(1 << 20)

	_, err = store.GetObject(ctx, "bucket1", "a")
	require.NoError(t, err, "items survive bucket registry calls")
}

func TestStoreBadMultipartSurfacesBadRequest(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	body := bytes.NewReader([]byte("--xyz--\r\n"))
	_, err := store.StoreObject(context.Background(), "bucket", "key",
		NewRequest("multipart/form-data; boundary=xyz", nil, body))
	require.Error(t, err, "expected an error for a multipart upload without a file field")
	require.True(t, errors.Is(err, ErrBadRequest), "expected ErrBadRequest, got %v", err)
}
