package putsign

import (
	"context"
)

// Service defines the main interface for issuing signed URLs
type Service interface {
	// SignURL validates the request, applies defaults, delegates signing
	// to the selected backend and returns the issued grant. When a grant
	// store is configured the grant is recorded before it is returned.
	SignURL(ctx context.Context, req SignRequest) (*Grant, error)

	// ListGrants returns recorded grants, newest first. An empty bucket
	// matches all buckets. Requires a configured grant store.
	ListGrants(ctx context.Context, bucket string) ([]*Grant, error)

	// Signer backend operations
	RegisterSigner(name string, signer URLSigner)
	GetSigner(name string) (URLSigner, error)
}
