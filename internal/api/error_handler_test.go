package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/backoffice/admin-gateway/internal/core/domain"
)

func handleError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	NewHTTPErrorHandler(zerolog.Nop())(err, c)
	return rec
}

func TestErrorHandler_DomainSentinels(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized},
		{"table not found", domain.ErrTableNotFound, http.StatusNotFound},
		{"unknown collection", domain.ErrUnknownCollection, http.StatusBadRequest},
		{"sign out failed", domain.ErrSignOutFailed, http.StatusBadGateway},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := handleError(t, tc.err)
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
		})
	}
}

func TestErrorHandler_ValidationErrorsKeepFieldMap(t *testing.T) {
	rec := handleError(t, &domain.ValidationError{
		Fields: map[string][]string{"email": {"email must be a valid email"}},
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp struct {
		Errors map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got := resp.Errors["email"]; len(got) != 1 || got[0] != "email must be a valid email" {
		t.Fatalf("unexpected errors map: %v", resp.Errors)
	}
}

func TestErrorHandler_UpstreamErrorRelaysMessage(t *testing.T) {
	rec := handleError(t, &domain.UpstreamError{StatusCode: 503, Message: "users service unavailable"})

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["error"] != "users service unavailable" {
		t.Fatalf("expected the upstream message, got %q", resp["error"])
	}
}

func TestErrorHandler_UpstreamErrorWithoutMessage(t *testing.T) {
	rec := handleError(t, &domain.UpstreamError{StatusCode: 500})

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["error"] != "upstream request failed" {
		t.Fatalf("expected the generic fallback, got %q", resp["error"])
	}
}

func TestErrorHandler_EchoHTTPErrorPassesThrough(t *testing.T) {
	rec := handleError(t, echo.NewHTTPError(http.StatusNotFound, "not found"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
