package putsign

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrMissingBucket indicates the request named no bucket
	ErrMissingBucket = errors.New("bucket is required")

	// ErrMissingObject indicates the request named no object key
	ErrMissingObject = errors.New("object key is required")

	// ErrInvalidTTL indicates the requested validity window is not a
	// positive duration
	ErrInvalidTTL = errors.New("expiration must be a positive duration")

	// ErrInvalidMethod indicates an HTTP method no signer supports
	ErrInvalidMethod = errors.New("method must be PUT or GET")

	// ErrBackendNotFound indicates the named signer backend is not registered
	ErrBackendNotFound = errors.New("signer backend not found")

	// ErrAuthentication indicates ambient credential resolution failed
	ErrAuthentication = errors.New("credential resolution failed")

	// ErrGrantNotFound indicates a grant record was not found
	ErrGrantNotFound = errors.New("grant not found")
)

// SignError represents a failure reported by a signer backend
type SignError struct {
	Backend string
	Bucket  string
	Key     string
	Op      string
	Err     error
}

func (e *SignError) Error() string {
	return fmt.Sprintf("sign operation %s failed for %s/%s on backend %s: %v", e.Op, e.Bucket, e.Key, e.Backend, e.Err)
}

func (e *SignError) Unwrap() error {
	return e.Err
}
