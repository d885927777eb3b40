// Package search isolates the service from the document store client.
// Implementations index JSON documents under a named index and return every
// document of an index, reporting the store's own status codes so callers can
// decide what counts as success.
package search

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	// ErrUnavailable is returned when the document store cannot be reached
	ErrUnavailable = errors.New("document store unavailable")
	// ErrMalformedResponse is returned when the store answers with a body that cannot be decoded
	ErrMalformedResponse = errors.New("malformed document store response")
)

// IndexNotFound is the error type the store reports for a missing index
const IndexNotFound = "index_not_found_exception"

// DocumentStore is the narrow contract the service needs from a document store
type DocumentStore interface {
	// Insert indexes a JSON document under the given index
	Insert(ctx context.Context, index string, document []byte) (*IndexResponse, error)
	// QueryAll returns every document of the given index
	QueryAll(ctx context.Context, index string) (*SearchResponse, error)
	// Ping checks that the store is reachable
	Ping(ctx context.Context) error
	// Close releases the resources held by the store
	Close() error
}

// IndexResponse is the store's answer to an insert
type IndexResponse struct {
	StatusCode  int
	ID          string
	Result      string
	ErrorType   string
	ErrorReason string
}

// Created reports whether the store created the document
func (r *IndexResponse) Created() bool {
	return r.StatusCode == 201
}

// SearchResponse is the store's answer to a query
type SearchResponse struct {
	StatusCode  int
	Hits        []Hit
	ErrorType   string
	ErrorReason string
}

// Hit is one document returned by a query
type Hit struct {
	ID     string
	Source json.RawMessage
}
