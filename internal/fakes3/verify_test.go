package fakes3

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifyCleanStore(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		key := fmt.Sprintf("object-%d", i)
		payload := []byte(fmt.Sprintf("payload %d", i))
		_, err := store.StoreObject(ctx, "bucket", key, rawRequest("", nil, payload))
		require.NoErrorf(t, err, "StoreObject %s error", key)
	}

	faults, err := store.Verify(ctx, 4)
	require.NoError(t, err, "Verify error")
	require.Empty(t, faults, "a freshly written store must verify clean")
}

func TestVerifyDetectsMismatches(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.StoreObject(ctx, "bucket", "good", rawRequest("", nil, []byte("intact")))
	require.NoError(t, err, "StoreObject error")

	// A row whose recorded digest and size disagree with the content.
	lying, err := encodeMetadata(Metadata{
		Version:        metadataVersion,
		MD5:            "00000000000000000000000000000000",
		ContentType:    "application/octet-stream",
		Size:           999,
		CustomMetadata: map[string]string{},
	})
	require.NoError(t, err, "encodeMetadata error")
	_, err = store.Items().UpsertItem(ctx, "bucket", "tampered", lying, []byte("actual content"))
	require.NoError(t, err, "UpsertItem tampered error")

	// A row whose metadata does not decode at all.
	_, err = store.Items().UpsertItem(ctx, "bucket", "undecodable", "{broken", []byte("whatever"))
	require.NoError(t, err, "UpsertItem undecodable error")

	faults, err := store.Verify(ctx, 2)
	require.NoError(t, err, "Verify error")
	require.Len(t, faults, 3, "digest mismatch, size mismatch, and decode failure")

	// Faults come back sorted by (bucket, key).
	require.Equal(t, "tampered", faults[0].Key, "first fault key")
	require.Equal(t, "tampered", faults[1].Key, "second fault key")
	require.Equal(t, "undecodable", faults[2].Key, "third fault key")
	require.Contains(t, faults[0].Reason, "digest mismatch", "digest fault reason")
	require.Contains(t, faults[1].Reason, "size mismatch", "size fault reason")
	require.Contains(t, faults[2].Reason, "does not decode", "decode fault reason")
}

func TestVerifySingleWorkerFloor(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.StoreObject(ctx, "bucket", "key", rawRequest("", nil, []byte("ok")))
	require.NoError(t, err, "StoreObject error")

	// Worker counts below one are clamped rather than deadlocking.
	faults, err := store.Verify(ctx, 0)
	require.NoError(t, err, "Verify error")
	require.Empty(t, faults, "clean store with clamped workers")
}
