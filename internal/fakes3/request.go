package fakes3

import (
	"io"
	"net/http"
)

// Request is the slice of an inbound protocol request that the store cares
// about: the declared content type, the full multi-valued header map, and a
// readable body. The wire layer owns parsing and response rendering; the
// store only ever consumes this view.
type Request struct {
	// ContentType is the declared Content-Type of the upload, possibly
	// empty.
	ContentType string

	// Header holds all request headers. Custom object metadata is
	// harvested from x-amz-meta-* entries.
	Header http.Header

	// Body is the raw request body. It is read to completion at most
	// once per operation.
	Body io.Reader
}

// NewRequest builds a Request from its parts. A nil header is replaced with
// an empty one so extraction never has to nil-check.
func NewRequest(contentType string, header http.Header, body io.Reader) Request {
	if header == nil {
		header = http.Header{}
	}
	return Request{
		ContentType: contentType,
		Header:      header,
		Body:        body,
	}
}

// FromHTTP adapts a standard *http.Request into the store's request view.
func FromHTTP(r *http.Request) Request {
	return NewRequest(r.Header.Get("Content-Type"), r.Header, r.Body)
}
