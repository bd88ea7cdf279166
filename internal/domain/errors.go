package domain

import "errors"

var (
	// ErrNotFound signals a missing object in the authoritative store.
	ErrNotFound = errors.New("not found")
	// ErrMalformedRawQuery signals a raw query fragment that does not parse.
	ErrMalformedRawQuery = errors.New("malformed raw query")
	// ErrIndexUnavailable signals a search index transport failure.
	ErrIndexUnavailable = errors.New("search index unavailable")
	// ErrQueryRejected signals a query the search index refused to run.
	ErrQueryRejected = errors.New("query rejected by search index")
	// ErrBatchChunkFailed signals a failed chunk lookup in a batch resolution.
	ErrBatchChunkFailed = errors.New("batch chunk failed")
)
