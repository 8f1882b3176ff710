package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/putsign/putsign/pkg/putsign"
)

func newGrant(bucket, key string) *putsign.Grant {
	now := time.Now().UTC()
	return &putsign.Grant{
		ID:        uuid.New(),
		Backend:   "memory",
		Bucket:    bucket,
		ObjectKey: key,
		Method:    putsign.MethodPut,
		URL:       "https://example.com/" + bucket + "/" + key,
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	}
}

func TestRecordAndGetGrant(t *testing.T) {
	store := New()
	ctx := context.Background()

	grant := newGrant("b", "k")
	require.NoError(t, store.RecordGrant(ctx, grant))

	got, err := store.GetGrant(ctx, grant.ID)
	require.NoError(t, err)
	assert.Equal(t, grant.URL, got.URL)

	_, err = store.GetGrant(ctx, uuid.New())
	require.ErrorIs(t, err, putsign.ErrGrantNotFound)
}

func TestListGrants(t *testing.T) {
	store := New()
	ctx := context.Background()

	first := newGrant("alpha", "one")
	second := newGrant("beta", "two")
	third := newGrant("alpha", "three")
	for _, g := range []*putsign.Grant{first, second, third} {
		require.NoError(t, store.RecordGrant(ctx, g))
	}

	all, err := store.ListGrants(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, third.ID, all[0].ID, "newest first")

	alpha, err := store.ListGrants(ctx, "alpha")
	require.NoError(t, err)
	require.Len(t, alpha, 2)
	for _, g := range alpha {
		assert.Equal(t, "alpha", g.Bucket)
	}
}
