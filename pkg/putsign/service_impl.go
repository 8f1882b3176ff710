package putsign

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	signers       map[string]URLSigner
	defaultSigner string
	grants        GrantStore
	now           func() time.Time
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithSigner registers a signer backend under the given name. The first
// registered signer becomes the default.
func WithSigner(name string, signer URLSigner) Option {
	return func(s *service) {
		if s.signers == nil {
			s.signers = make(map[string]URLSigner)
		}
		if len(s.signers) == 0 {
			s.defaultSigner = name
		}
		s.signers[name] = signer
	}
}

// WithDefaultSigner selects the backend used when a request names none.
func WithDefaultSigner(name string) Option {
	return func(s *service) {
		s.defaultSigner = name
	}
}

// WithGrantStore sets the store used to record issued grants
func WithGrantStore(store GrantStore) Option {
	return func(s *service) {
		s.grants = store
	}
}

// WithClock overrides the clock used for grant timestamps. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		signers: make(map[string]URLSigner),
		now:     time.Now,
	}

	for _, option := range options {
		option(s)
	}

	if len(s.signers) == 0 {
		return nil, fmt.Errorf("at least one signer backend is required")
	}
	if _, ok := s.signers[s.defaultSigner]; !ok {
		return nil, fmt.Errorf("default signer backend %q not registered", s.defaultSigner)
	}

	return s, nil
}

func (s *service) SignURL(ctx context.Context, req SignRequest) (*Grant, error) {
	if req.Bucket == "" {
		return nil, ErrMissingBucket
	}
	if req.ObjectKey == "" {
		return nil, ErrMissingObject
	}
	if req.TTL < 0 {
		return nil, ErrInvalidTTL
	}
	if req.TTL == 0 {
		req.TTL = DefaultTTL
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = MethodPut
	}
	if method != MethodPut && method != MethodGet {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, req.Method)
	}
	req.Method = method

	if method == MethodPut && req.ContentType == "" {
		req.ContentType = DefaultContentType
	}

	backend := req.Backend
	if backend == "" {
		backend = s.defaultSigner
	}
	signer, ok := s.signers[backend]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotFound, backend)
	}

	var (
		url string
		err error
	)
	switch method {
	case MethodPut:
		url, err = signer.SignPutURL(ctx, req)
	case MethodGet:
		url, err = signer.SignGetURL(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	issuedAt := s.now().UTC()
	grant := &Grant{
		ID:        uuid.New(),
		Backend:   backend,
		Bucket:    req.Bucket,
		ObjectKey: req.ObjectKey,
		Method:    method,
		URL:       url,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(req.TTL),
	}
	if method == MethodPut {
		grant.ContentType = req.ContentType
	}

	if s.grants != nil {
		if err := s.grants.RecordGrant(ctx, grant); err != nil {
			return nil, fmt.Errorf("failed to record grant: %w", err)
		}
	}

	return grant, nil
}

func (s *service) ListGrants(ctx context.Context, bucket string) ([]*Grant, error) {
	if s.grants == nil {
		return nil, fmt.Errorf("no grant store configured")
	}
	return s.grants.ListGrants(ctx, bucket)
}

func (s *service) RegisterSigner(name string, signer URLSigner) {
	if len(s.signers) == 0 {
		s.defaultSigner = name
	}
	s.signers[name] = signer
}

func (s *service) GetSigner(name string) (URLSigner, error) {
	signer, ok := s.signers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotFound, name)
	}
	return signer, nil
}
