package clients

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticDiscovery serves a fixed address, standing in for Consul.
type staticDiscovery struct {
	host string
	port int
	err  error
}

func (d *staticDiscovery) Discover(name string) (string, int, error) {
	if d.err != nil {
		return "", 0, d.err
	}
	return d.host, d.port, nil
}

func discoveryFor(t *testing.T, srv *httptest.Server) *staticDiscovery {
	t.Helper()
	host, portStr, err := net.SplitHostPort(srv.Listener.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return &staticDiscovery{host: host, port: port}
}

func strPtr(s string) *string { return &s }

func TestResolveIconURLEmptyID(t *testing.T) {
	client := NewFileServiceClient(nil, "file-service", time.Second)

	assert.Nil(t, client.ResolveIconURL(context.Background(), nil))
	assert.Nil(t, client.ResolveIconURL(context.Background(), strPtr("")))
}

func TestResolveIconURLSuccess(t *testing.T) {
	const fileID = "0b5ffa3e-6f1d-4f3e-9c61-0a9a38b1a001"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files/"+fileID, r.URL.Path)
		fmt.Fprintf(w, `{"code":200,"data":{"url":"https://cdn.example.com/%s.png"}}`, fileID)
	}))
	defer srv.Close()

	client := NewFileServiceClient(discoveryFor(t, srv), "file-service", time.Second)

	url := client.ResolveIconURL(context.Background(), strPtr(fileID))
	require.NotNil(t, url)
	assert.Equal(t, "https://cdn.example.com/"+fileID+".png", *url)
}

func TestResolveIconURLCachesResult(t *testing.T) {
	const fileID = "1c6ffa3e-6f1d-4f3e-9c61-0a9a38b1a002"

	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `{"data":{"url":"https://cdn.example.com/icon.png"}}`)
	}))
	defer srv.Close()

	client := NewFileServiceClient(discoveryFor(t, srv), "file-service", time.Second)

	first := client.ResolveIconURL(context.Background(), strPtr(fileID))
	require.NotNil(t, first)

	// the second lookup never reaches the upstream
	second := client.ResolveIconURL(context.Background(), strPtr(fileID))
	require.NotNil(t, second)
	assert.Equal(t, *first, *second)
	assert.Equal(t, 1, hits)
}

func TestResolveIconURLUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewFileServiceClient(discoveryFor(t, srv), "file-service", time.Second)
	assert.Nil(t, client.ResolveIconURL(context.Background(), strPtr("2d7ffa3e-6f1d-4f3e-9c61-0a9a38b1a003")))
}

func TestResolveIconURLMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{}}`)
	}))
	defer srv.Close()

	client := NewFileServiceClient(discoveryFor(t, srv), "file-service", time.Second)
	assert.Nil(t, client.ResolveIconURL(context.Background(), strPtr("3e8ffa3e-6f1d-4f3e-9c61-0a9a38b1a004")))
}

func TestResolveIconURLTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		fmt.Fprint(w, `{"data":{"url":"https://cdn.example.com/late.png"}}`)
	}))
	defer srv.Close()

	client := NewFileServiceClient(discoveryFor(t, srv), "file-service", 50*time.Millisecond)
	assert.Nil(t, client.ResolveIconURL(context.Background(), strPtr("4f9ffa3e-6f1d-4f3e-9c61-0a9a38b1a005")))
}

func TestResolveIconURLDiscoveryUnavailable(t *testing.T) {
	// discovery errors degrade to a missing icon
	client := NewFileServiceClient(&staticDiscovery{err: errors.New("no healthy instances")}, "file-service", time.Second)
	assert.Nil(t, client.ResolveIconURL(context.Background(), strPtr("5a0ffa3e-6f1d-4f3e-9c61-0a9a38b1a006")))

	// so does running without discovery at all
	client = NewFileServiceClient(nil, "file-service", time.Second)
	assert.Nil(t, client.ResolveIconURL(context.Background(), strPtr("5a0ffa3e-6f1d-4f3e-9c61-0a9a38b1a006")))
}
