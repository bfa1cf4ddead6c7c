package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestActorContext_ReadsStaffHeader(t *testing.T) {
	var got Actor
	var found bool

	h := ActorContext()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, found = GetActor(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Staff-ID", " staff-7 ")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if !found {
		t.Fatalf("expected actor in context")
	}
	if got.ID != "staff-7" {
		t.Fatalf("expected trimmed actor id, got %q", got.ID)
	}
}

func TestActorContext_NoHeaderPassesThrough(t *testing.T) {
	var found bool

	h := ActorContext()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, found = GetActor(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if found {
		t.Fatalf("expected no actor without header")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected request to pass through, got %d", rec.Code)
	}
}
