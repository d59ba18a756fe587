package netutil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClientThroughResolver(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	r := NewResolver(time.Minute)
	defer r.Stop()

	resp, err := r.NewHTTPClient().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Zero(t, r.NewHTTPClient().Timeout)
}

func TestDialContextErrors(t *testing.T) {
	r := NewResolver(0)
	defer r.Stop()
	assert.Equal(t, defaultRefresh, r.refresh)

	_, err := r.DialContext(context.Background(), "tcp", "no-port")
	assert.Error(t, err)

	_, err = r.DialContext(context.Background(), "tcp", "name.invalid:80")
	assert.Error(t, err)
}

func TestStopIsIdempotent(t *testing.T) {
	r := NewResolver(10 * time.Millisecond)
	time.Sleep(25 * time.Millisecond)
	r.Stop()
	r.Stop()
}
