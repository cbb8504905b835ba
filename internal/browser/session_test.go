package browser

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProbe_Reachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/json/version", r.URL.Path)
		w.Write([]byte(`{"Browser":"Chrome/120.0"}`))
	}))
	defer srv.Close()

	assert.NoError(t, Probe(srv.URL))
}

func TestProbe_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := Probe(srv.URL)
	assert.True(t, errors.Is(err, ErrControlPlaneUnavailable))
}

func TestProbe_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() //nothing listening anymore

	err := Probe(srv.URL)
	assert.True(t, errors.Is(err, ErrControlPlaneUnavailable))
}
