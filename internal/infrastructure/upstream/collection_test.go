package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rs/zerolog"

	"github.com/backoffice/admin-gateway/internal/core/domain"
)

func TestList_DecodesEnvelopeAndForwardsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("unexpected method %s", r.Method)
		}
		q := r.URL.Query()
		if q.Get("top") != "15" || q.Get("count") != "true" || q.Get("search") != `"jane"` {
			t.Fatalf("query not forwarded: %v", q)
		}
		if r.Header.Get("Cookie") != "session=abc" {
			t.Fatalf("credentials not forwarded: %q", r.Header.Get("Cookie"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count":2,"value":[{"id":"u1","email":"a@x.com"},{"id":"u2","email":"b@x.com"}]}`))
	}))
	defer srv.Close()

	query := url.Values{}
	query.Set("top", "15")
	query.Set("count", "true")
	query.Set("search", `"jane"`)

	page, err := List[domain.User](context.Background(), NewClient(zerolog.Nop()), srv.URL, "session=abc", query)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Count != 2 || len(page.Rows) != 2 || page.Rows[0].ID != "u1" {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestList_UnauthorizedMapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := List[domain.User](context.Background(), NewClient(zerolog.Nop()), srv.URL, "", url.Values{})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCreate_DecodesValidationErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors":{"email":["Email is already taken"]}}`))
	}))
	defer srv.Close()

	_, err := Create[domain.User](context.Background(), NewClient(zerolog.Nop()), srv.URL, "", map[string]string{})

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if got := ve.Fields["email"]; len(got) != 1 || got[0] != "Email is already taken" {
		t.Fatalf("unexpected field errors: %v", ve.Fields)
	}
}

func TestCreate_ServerErrorCarriesUpstreamMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"message":"catalog service unavailable"}`))
	}))
	defer srv.Close()

	_, err := Create[domain.CatalogItem](context.Background(), NewClient(zerolog.Nop()), srv.URL, "", map[string]string{})

	var ue *domain.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if ue.StatusCode != http.StatusBadGateway || ue.Message != "catalog service unavailable" {
		t.Fatalf("unexpected upstream error: %+v", ue)
	}
}

func TestUpdate_SendsPreferHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Fatalf("unexpected method %s", r.Method)
		}
		if r.URL.EscapedPath() != "/u%201" {
			t.Fatalf("id not path-escaped: %q", r.URL.EscapedPath())
		}
		if r.Header.Get("Prefer") != "return=representation" {
			t.Fatalf("missing Prefer header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"u 1","email":"a@x.com"}`))
	}))
	defer srv.Close()

	updated, err := Update[domain.User](context.Background(), NewClient(zerolog.Nop()), srv.URL, "", "u 1", map[string]string{"email": "a@x.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ID != "u 1" {
		t.Fatalf("unexpected representation: %+v", updated)
	}
}

func TestDelete_NoContentSucceeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/u1" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := Delete(context.Background(), NewClient(zerolog.Nop()), srv.URL, "", "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
