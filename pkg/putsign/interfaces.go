package putsign

import (
	"context"

	"github.com/google/uuid"
)

// URLSigner produces pre-authorized URLs for a single object. Signing is a
// local cryptographic computation; implementations must not require a
// network round trip to produce a URL.
type URLSigner interface {
	// SignPutURL returns a URL authorizing an HTTP PUT of the named object
	// within the request's validity window.
	SignPutURL(ctx context.Context, req SignRequest) (string, error)

	// SignGetURL returns a URL authorizing an HTTP GET of the named object.
	SignGetURL(ctx context.Context, req SignRequest) (string, error)
}

// GrantStore persists issued grants for later inspection.
type GrantStore interface {
	// RecordGrant stores an issued grant
	RecordGrant(ctx context.Context, grant *Grant) error

	// GetGrant retrieves a grant by ID
	GetGrant(ctx context.Context, id uuid.UUID) (*Grant, error)

	// ListGrants returns recorded grants, newest first. An empty bucket
	// matches all buckets.
	ListGrants(ctx context.Context, bucket string) ([]*Grant, error)
}
