package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"kennel-ops/internal/ports/refdata"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/clients/c1", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		require.Equal(t, "kennel-ops", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","name":" Ana ","phone":"555-1234","email":"ana@example.com"}`))
	})
	mux.HandleFunc("/animals/a1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"a1","clientId":"c1","name":"Rocky","species":"","rabiesExpiration":"2025-06-01"}`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(Config{BaseURL: baseURL, APIKey: "secret"})
	require.NoError(t, err)
	return c
}

func TestClient_ClientByID(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t, srv.URL)

	got, err := c.ClientByID(context.Background(), "c1")
	require.NoError(t, err)
	require.Equal(t, "c1", got.ID)
	require.Equal(t, "Ana", got.Name) // espacios recortados
	require.Equal(t, "555-1234", got.Phone)
}

func TestClient_AnimalByID_DefaultsSpeciesAndParsesExpiration(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t, srv.URL)

	got, err := c.AnimalByID(context.Background(), "a1")
	require.NoError(t, err)
	require.Equal(t, refdata.SpeciesDog, got.Species) // default histórico
	require.NotNil(t, got.RabiesExpiration)
	require.Equal(t, "2025-06-01", got.RabiesExpiration.Format("2006-01-02"))
}

func TestClient_NotFoundMapsToRefdataErr(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t, srv.URL)

	_, err := c.ClientByID(context.Background(), "ghost")
	require.True(t, errors.Is(err, refdata.ErrNotFound))

	_, err = c.AnimalByID(context.Background(), "ghost")
	require.True(t, errors.Is(err, refdata.ErrNotFound))
}

func TestClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv.URL)
	_, err := c.ClientByID(context.Background(), "c1")
	require.True(t, errors.Is(err, ErrUpstream))
}

func TestClient_NotConfigured(t *testing.T) {
	c, err := NewClient(Config{})
	require.NoError(t, err)

	_, err = c.ClientByID(context.Background(), "c1")
	require.True(t, errors.Is(err, ErrNotConfigured))
}
