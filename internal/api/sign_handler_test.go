package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/putsign/putsign/pkg/putsign"
	memoryrepo "github.com/putsign/putsign/pkg/putsign/repo/memory"
	memorysigner "github.com/putsign/putsign/pkg/putsign/storage/memory"
)

func newTestServer(t *testing.T, now time.Time) *httptest.Server {
	t.Helper()

	signer := memorysigner.New(memorysigner.Config{Now: func() time.Time { return now }})
	svc, err := putsign.New(
		putsign.WithSigner("memory", signer),
		putsign.WithGrantStore(memoryrepo.New()),
		putsign.WithClock(func() time.Time { return now }),
	)
	require.NoError(t, err)

	server := httptest.NewServer(NewSignHandler(svc).Routes())
	t.Cleanup(server.Close)
	return server
}

func postSign(t *testing.T, server *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(server.URL+"/sign", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestSignURL(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	server := newTestServer(t, now)

	resp := postSign(t, server, `{
		"bucket": "media-uploads",
		"object_key": "reports/q1.pdf",
		"minutes": 30,
		"content_type": "application/pdf"
	}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var grant putsign.Grant
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&grant))

	assert.Equal(t, "media-uploads", grant.Bucket)
	assert.Equal(t, "reports/q1.pdf", grant.ObjectKey)
	assert.Equal(t, putsign.MethodPut, grant.Method)
	assert.Equal(t, "application/pdf", grant.ContentType)
	assert.True(t, grant.ExpiresAt.Equal(now.Add(30*time.Minute)))

	assert.Contains(t, grant.URL, "media-uploads")
	assert.Contains(t, grant.URL, "reports/q1.pdf")
	assert.Contains(t, grant.URL, "expires="+strconv.FormatInt(now.Add(30*time.Minute).Unix(), 10))
}

func TestSignURL_Defaults(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	server := newTestServer(t, now)

	resp := postSign(t, server, `{"bucket": "b", "object_key": "k"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var grant putsign.Grant
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&grant))
	assert.Equal(t, putsign.DefaultContentType, grant.ContentType)
	assert.True(t, grant.ExpiresAt.Equal(now.Add(putsign.DefaultTTL)))
}

func TestSignURL_Validation(t *testing.T) {
	server := newTestServer(t, time.Now())

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"MissingBucket", `{"object_key": "k"}`, "missing_bucket"},
		{"MissingObject", `{"bucket": "b"}`, "missing_object_key"},
		{"ZeroMinutes", `{"bucket": "b", "object_key": "k", "minutes": 0}`, "invalid_minutes"},
		{"NegativeMinutes", `{"bucket": "b", "object_key": "k", "minutes": -5}`, "invalid_minutes"},
		{"BadMethod", `{"bucket": "b", "object_key": "k", "method": "DELETE"}`, "invalid_method"},
		{"UnknownBackend", `{"bucket": "b", "object_key": "k", "backend": "gcs"}`, "backend_not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postSign(t, server, tt.body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var errResp ErrResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
			assert.Equal(t, tt.wantCode, errResp.Code)
		})
	}
}

func TestSignURL_InvalidBody(t *testing.T) {
	server := newTestServer(t, time.Now())

	resp := postSign(t, server, `{not json`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListGrants(t *testing.T) {
	server := newTestServer(t, time.Now())

	for _, body := range []string{
		`{"bucket": "alpha", "object_key": "one"}`,
		`{"bucket": "beta", "object_key": "two"}`,
	} {
		resp := postSign(t, server, body)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, err := http.Get(server.URL + "/grants")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var grants []putsign.Grant
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&grants))
	require.Len(t, grants, 2)
	assert.Equal(t, "beta", grants[0].Bucket, "newest first")

	resp, err = http.Get(server.URL + "/grants?bucket=alpha")
	require.NoError(t, err)
	defer resp.Body.Close()

	grants = nil
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&grants))
	require.Len(t, grants, 1)
	assert.Equal(t, "alpha", grants[0].Bucket)
}

func TestListGrants_Empty(t *testing.T) {
	server := newTestServer(t, time.Now())

	resp, err := http.Get(server.URL + "/grants")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(body)), "empty list, not null")
}
