package fakes3

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	// defaultContentType is used when an upload does not declare one.
	defaultContentType = "application/octet-stream"

	// customMetadataPrefix marks request headers that carry user-supplied
	// object metadata.
	customMetadataPrefix = "x-amz-meta-"

	// metadataVersion identifies the serialized metadata schema. Bump it
	// if the record shape ever changes incompatibly.
	metadataVersion = 1
)

// Metadata is the per-object record stored alongside the content. MD5 and
// Size are always derived from the exact bytes persisted as content; they
// are never independently settable.
type Metadata struct {
	Version        int               `json:"version"`
	MD5            string            `json:"md5"`
	ContentType    string            `json:"content_type"`
	Size           int64             `json:"size"`
	ModifiedDate   time.Time         `json:"modified_date"`
	CustomMetadata map[string]string `json:"custom_metadata"`
}

// extractMetadata derives the metadata record for a payload from the bytes
// themselves and the originating request headers.
//
// The digest is the hex MD5 of the payload (the value S3 clients expect as
// the ETag for single-part uploads). The content type is the first
// Content-Type header value, falling back to application/octet-stream.
// Every x-amz-meta-* header contributes a custom metadata entry keyed by
// the lowercased suffix, which is the form clients see on the wire;
// multiple values for one header are joined with ", ".
func extractMetadata(payload []byte, header http.Header) Metadata {
	sum := md5.Sum(payload)

	contentType := defaultContentType
	if v := header.Get("Content-Type"); v != "" {
		contentType = v
	}

	custom := map[string]string{}
	for name, values := range header {
		lower := strings.ToLower(name)
		if suffix, ok := strings.CutPrefix(lower, customMetadataPrefix); ok && suffix != "" {
			custom[suffix] = strings.Join(values, ", ")
		}
	}

	return Metadata{
		Version:        metadataVersion,
		MD5:            hex.EncodeToString(sum[:]),
		ContentType:    contentType,
		Size:           int64(len(payload)),
		ModifiedDate:   time.Now().UTC(),
		CustomMetadata: custom,
	}
}

// encodeMetadata serializes a metadata record to the text form stored in the
// items table.
func encodeMetadata(m Metadata) (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}
	return string(data), nil
}

// decodeMetadata parses the stored text form back into a metadata record.
func decodeMetadata(text string) (Metadata, error) {
	var m Metadata
	if err := json.Unmarshal([]byte(text), &m); err != nil {
		return Metadata{}, fmt.Errorf("decode metadata: %w", err)
	}
	return m, nil
}
