package fakes3

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"strings"
)

// uploadFieldName is the multipart form field that carries the object
// payload, matching the browser-based S3 POST upload convention.
const uploadFieldName = "file"

// ingestPayload extracts the raw object payload from an upload body.
//
// Two encodings are recognized. If the declared content type is
// multipart/form-data with a boundary parameter (mime.ParseMediaType takes
// care of unquoting the boundary token), the body is parsed as a multipart
// form and the payload is the value of the "file" field; a missing or empty
// field is an ErrBadRequest. Anything else, including a multipart content
// type without a boundary, is treated as a raw streamed body and read to
// completion, chunks concatenated in arrival order.
func ingestPayload(contentType string, body io.Reader) ([]byte, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err == nil && strings.EqualFold(mediaType, "multipart/form-data") {
		if boundary := params["boundary"]; boundary != "" {
			return ingestMultipart(body, boundary)
		}
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read upload body: %w", err)
	}
	return data, nil
}

// ingestMultipart scans the multipart form for the payload field and returns
// its bytes.
func ingestMultipart(body io.Reader, boundary string) ([]byte, error) {
	reader := multipart.NewReader(body, boundary)

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: malformed multipart body: %v", ErrBadRequest, err)
		}

		if part.FormName() != uploadFieldName {
			// Drain unrelated fields so the reader can advance.
			_, _ = io.Copy(io.Discard, part)
			continue
		}

		data, err := io.ReadAll(part)
		if err != nil {
			return nil, fmt.Errorf("read multipart %q field: %w", uploadFieldName, err)
		}
		if len(data) == 0 {
			return nil, fmt.Errorf("%w: empty %q field in multipart upload", ErrBadRequest, uploadFieldName)
		}
		return data, nil
	}

	return nil, fmt.Errorf("%w: missing %q field in multipart upload", ErrBadRequest, uploadFieldName)
}
