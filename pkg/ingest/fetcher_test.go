package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcherFetch(t *testing.T) {
	var hits int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL, nil, nil, time.Hour)

	feed, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "The Beating Edge", feed.Title)
	assert.Len(t, feed.Episodes, 2)

	// Second call inside the revalidation window reuses the parse
	_, err = f.Fetch(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))

	// Invalidation forces a re-fetch
	f.Invalidate()
	_, err = f.Fetch(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits))
}

func TestFetcherStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL, nil, nil, 0)

	_, err := f.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestFetcherNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	f := NewFetcher(srv.URL, nil, nil, 0)

	_, err := f.Fetch(context.Background())
	assert.Error(t, err)
}

func TestFetcherRefresh(t *testing.T) {
	var hits int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL, nil, nil, time.Hour)

	require.NoError(t, f.Refresh(context.Background()))
	require.NoError(t, f.Refresh(context.Background()))
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits))
}
