// Package upstream holds the HTTP clients for the external collaborators:
// the identity service and the collection services (users, catalog). Every
// request forwards the browser session's ambient credentials; none of the
// clients hold credentials of their own.
package upstream

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/backoffice/admin-gateway/internal/core/domain"
)

// Client is the shared transport for all upstream calls. Timeouts are left to
// callers via ctx; the transport itself imposes none.
type Client struct {
	http *http.Client
	log  zerolog.Logger
}

func NewClient(log zerolog.Logger) *Client {
	return &Client{http: &http.Client{}, log: log}
}

// do sends the request with the session credentials attached and returns the
// response. Callers own the response body.
func (c *Client) do(req *http.Request, creds domain.Credentials) (*http.Response, error) {
	if creds != "" {
		req.Header.Set("Cookie", string(creds))
	}
	req.Header.Set("Accept", "application/json")
	return c.http.Do(req)
}

// decodeError turns a non-2xx response into the matching domain error:
// a field-error map becomes *domain.ValidationError, anything else becomes
// *domain.UpstreamError carrying the upstream's message when it sent one.
func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return domain.ErrUnauthorized
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		var ve struct {
			Errors map[string][]string `json:"errors"`
		}
		if err := json.Unmarshal(body, &ve); err == nil && len(ve.Errors) > 0 {
			return &domain.ValidationError{Fields: ve.Errors}
		}
	}

	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.Unmarshal(body, &envelope)
	msg := envelope.Message
	if msg == "" {
		msg = envelope.Error
	}
	return &domain.UpstreamError{StatusCode: resp.StatusCode, Message: msg}
}
