package fakes3

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Fault describes one integrity problem found by Verify.
type Fault struct {
	Bucket string
	Key    string
	Reason string
}

func (f Fault) String() string {
	return fmt.Sprintf("%s/%s: %s", f.Bucket, f.Key, f.Reason)
}

// Verify walks every persisted item and checks that its metadata record
// decodes and that the recorded digest and size match the stored content
// bytes. It is read-only. The check fans out across the given number of
// workers; faults are returned sorted by (bucket, key).
func (s *FileStore) Verify(ctx context.Context, workers int) ([]Fault, error) {
	if workers < 1 {
		workers = 1
	}

	itemCh := make(chan *Item)

	var (
		mu     sync.Mutex
		faults []Fault
	)

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		defer close(itemCh)
		return s.items.WalkItems(ctx, func(item *Item) error {
			select {
			case itemCh <- item:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	})

	for i := 0; i < workers; i++ {
		eg.Go(func() error {
			for item := range itemCh {
				found := checkItem(item)
				if len(found) == 0 {
					continue
				}
				mu.Lock()
				faults = append(faults, found...)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(faults, func(i, j int) bool {
		if faults[i].Bucket != faults[j].Bucket {
			return faults[i].Bucket < faults[j].Bucket
		}
		return faults[i].Key < faults[j].Key
	})

	return faults, nil
}

// checkItem re-derives the content digest and size for one item and compares
// them against the stored metadata record.
func checkItem(item *Item) []Fault {
	meta, err := decodeMetadata(item.Metadata)
	if err != nil {
		return []Fault{{
			Bucket: item.Bucket,
			Key:    item.Key,
			Reason: fmt.Sprintf("metadata does not decode: %v", err),
		}}
	}

	var faults []Fault

	sum := md5.Sum(item.Content)
	if got := hex.EncodeToString(sum[:]); got != meta.MD5 {
		faults = append(faults, Fault{
			Bucket: item.Bucket,
			Key:    item.Key,
			Reason: fmt.Sprintf("content digest mismatch: recorded %s, actual %s", meta.MD5, got),
		})
	}

	if got := int64(len(item.Content)); got != meta.Size {
		faults = append(faults, Fault{
			Bucket: item.Bucket,
			Key:    item.Key,
			Reason: fmt.Sprintf("content size mismatch: recorded %d, actual %d", meta.Size, got),
		})
	}

	return faults
}
