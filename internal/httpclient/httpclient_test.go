package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	c := New(Options{})
	assert.Equal(t, 180*time.Second, c.Timeout)

	c = New(Options{Timeout: 5 * time.Second})
	assert.Equal(t, 5*time.Second, c.Timeout)
}

func TestNewPreferIPv4(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	resp, err := New(Options{PreferIPv4: true, Timeout: 5 * time.Second}).Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
