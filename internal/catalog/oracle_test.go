package catalog

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHTTPOracle_ProductExists(t *testing.T) {
	var gotQuery, gotK string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotK = r.URL.Query().Get("k")

		w.Header().Set("Content-Type", "application/json")
		if gotQuery == "Blue Hoodie" {
			w.Write([]byte(`[{"name": "Blue Hoodie", "price": 49.9}]`))
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	oracle := NewHTTPOracle(srv.URL, time.Second, testLogger())

	exists, err := oracle.ProductExists(context.Background(), "Blue Hoodie")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "Blue Hoodie", gotQuery)
	assert.Equal(t, "1", gotK)

	exists, err = oracle.ProductExists(context.Background(), "Striped Socks")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestHTTPOracle_BlankNameNeverMatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("blank names must not reach the catalog")
	}))
	defer srv.Close()

	oracle := NewHTTPOracle(srv.URL, time.Second, testLogger())

	for _, name := range []string{"", "   ", "\t\n"} {
		exists, err := oracle.ProductExists(context.Background(), name)
		require.NoError(t, err)
		assert.False(t, exists)
	}
}

func TestHTTPOracle_NonOKStatusIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	oracle := NewHTTPOracle(srv.URL, time.Second, testLogger())

	_, err := oracle.ProductExists(context.Background(), "Blue Hoodie")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestHTTPOracle_MalformedResponseIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "an array"}`))
	}))
	defer srv.Close()

	oracle := NewHTTPOracle(srv.URL, time.Second, testLogger())

	_, err := oracle.ProductExists(context.Background(), "Blue Hoodie")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode catalog response")
}

func TestHTTPOracle_QueryIsEscaped(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	oracle := NewHTTPOracle(srv.URL, time.Second, testLogger())

	_, err := oracle.ProductExists(context.Background(), "tee & hoodie 50%")
	require.NoError(t, err)
	assert.Equal(t, "tee & hoodie 50%", gotQuery)
}
