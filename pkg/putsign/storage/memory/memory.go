package memory

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/putsign/putsign/pkg/putsign"
)

// Signer is an in-process implementation of the putsign.URLSigner
// interface. The URLs it produces carry an opaque token instead of a real
// signature and are meant for tests and local development, where an upload
// endpoint validates the signature/expires query parameters itself.
type Signer struct {
	host string
	now  func() time.Time
}

// Config options for the in-memory signer
type Config struct {
	Host string           // Host placed in generated URLs (default: memory.localhost)
	Now  func() time.Time // Clock override for tests
}

// New creates a new in-memory signer
func New(config Config) *Signer {
	if config.Host == "" {
		config.Host = "memory.localhost"
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Signer{
		host: config.Host,
		now:  config.Now,
	}
}

// SignPutURL returns an upload URL for the named object
func (s *Signer) SignPutURL(ctx context.Context, req putsign.SignRequest) (string, error) {
	return s.sign("/upload/", req, req.ContentType), nil
}

// SignGetURL returns a download URL for the named object
func (s *Signer) SignGetURL(ctx context.Context, req putsign.SignRequest) (string, error) {
	return s.sign("/download/", req, ""), nil
}

func (s *Signer) sign(prefix string, req putsign.SignRequest, contentType string) string {
	expires := s.now().UTC().Add(req.TTL).Unix()

	q := url.Values{}
	q.Set("signature", uuid.NewString())
	q.Set("expires", strconv.FormatInt(expires, 10))
	if contentType != "" {
		q.Set("content_type", contentType)
	}

	u := url.URL{
		Scheme:   "https",
		Host:     s.host,
		Path:     prefix + req.Bucket + "/" + req.ObjectKey,
		RawQuery: q.Encode(),
	}
	return u.String()
}
