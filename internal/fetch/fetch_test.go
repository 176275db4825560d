package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchRevalidatesWithETag(t *testing.T) {
	const body = `{"schedule":{"conference":{"days":[]}}}`

	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	f := New(t.TempDir())

	got, fromCache, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, body, string(got))

	// Second fetch revalidates and serves the cached body on 304.
	got, fromCache, err = f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Equal(t, body, string(got))
	assert.Equal(t, 2, hits)
}

func TestFetchFallsBackToCacheOnServerError(t *testing.T) {
	const body = `{"schedule":{}}`

	var failing bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	f := New(t.TempDir())

	_, _, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	failing = true
	got, fromCache, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Equal(t, body, string(got))
}

func TestFetchErrorsWithoutCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := New(t.TempDir())
	_, _, err := f.Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestFetchEmptyURL(t *testing.T) {
	f := New(t.TempDir())
	_, _, err := f.Fetch(context.Background(), "")
	assert.Error(t, err)
}

func TestRetain(t *testing.T) {
	f := New(t.TempDir())

	path, err := f.Retain("rejected-schedule.json", []byte("not quite json"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "not quite json", string(data))
}
