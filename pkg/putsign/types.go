package putsign

import (
	"time"

	"github.com/google/uuid"
)

// Supported HTTP methods for signed URLs.
const (
	MethodPut = "PUT"
	MethodGet = "GET"
)

// Defaults applied to a SignRequest when the caller leaves the field unset.
const (
	DefaultTTL         = 120 * time.Minute
	DefaultContentType = "text/plain"
)

// SignRequest describes a single URL signing operation.
//
// Bucket and ObjectKey are required. A zero TTL means DefaultTTL; a
// negative TTL is rejected. ContentType applies to PUT requests only and
// becomes a signed header, so the eventual upload must send the identical
// Content-Type or the storage provider rejects it.
type SignRequest struct {
	// Backend selects a registered signer by name. Empty means the
	// service default.
	Backend string

	Bucket      string
	ObjectKey   string
	Method      string
	TTL         time.Duration
	ContentType string
}

// Grant is an issued signed URL together with its validity window.
type Grant struct {
	ID          uuid.UUID `json:"id"`
	Backend     string    `json:"backend"`
	Bucket      string    `json:"bucket"`
	ObjectKey   string    `json:"object_key"`
	Method      string    `json:"method"`
	ContentType string    `json:"content_type,omitempty"`
	URL         string    `json:"url"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}
