package upstream

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/backoffice/admin-gateway/internal/core/domain"
)

func TestIdentityClient_Me(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/oauth/me" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Cookie") != "session=abc" {
			t.Fatalf("credentials not forwarded: %q", r.Header.Get("Cookie"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"id-1","firstName":"Ann","email":"ann@example.com","role":"Administrator","status":"Active"}`))
	}))
	defer srv.Close()

	client := NewIdentityClient(srv.URL+"/", zerolog.Nop())

	identity, err := client.Me(context.Background(), "session=abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if identity.ID != "id-1" || identity.Role != domain.RoleAdministrator {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestIdentityClient_Me_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewIdentityClient(srv.URL, zerolog.Nop())

	if _, err := client.Me(context.Background(), ""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestIdentityClient_SignOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/oauth/signout" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if len(body) != 0 {
			t.Fatalf("sign-out must send an empty body, got %q", body)
		}
		if ct := r.Header.Get("Content-Type"); ct != "" {
			t.Fatalf("sign-out must not set a content type, got %q", ct)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewIdentityClient(srv.URL, zerolog.Nop())

	if err := client.SignOut(context.Background(), "session=abc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIdentityClient_SignOut_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewIdentityClient(srv.URL, zerolog.Nop())

	var ue *domain.UpstreamError
	if err := client.SignOut(context.Background(), ""); !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
}
