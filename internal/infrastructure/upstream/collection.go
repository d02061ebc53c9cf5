package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/backoffice/admin-gateway/internal/core/domain"
	"github.com/backoffice/admin-gateway/internal/table"
)

// List fetches one page of a remote collection. The query values are the
// engine-encoded state (top/skip/count/search/filter/orderby); the response
// envelope is {count, value}.
func List[T any](ctx context.Context, c *Client, endpoint string, creds domain.Credentials, query url.Values) (table.Page[T], error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return table.Page[T]{}, fmt.Errorf("list request: %w", err)
	}

	resp, err := c.do(req, creds)
	if err != nil {
		return table.Page[T]{}, fmt.Errorf("list %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return table.Page[T]{}, decodeError(resp)
	}

	var page table.Page[T]
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return table.Page[T]{}, fmt.Errorf("list decode: %w", err)
	}
	return page, nil
}

// Delete removes a single row by id.
func Delete(ctx context.Context, c *Client, endpoint string, creds domain.Credentials, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint+"/"+url.PathEscape(id), nil)
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}

	resp, err := c.do(req, creds)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", endpoint, id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	return nil
}

// Create posts a new row and returns the created representation.
func Create[T any](ctx context.Context, c *Client, endpoint string, creds domain.Credentials, body any) (T, error) {
	var created T

	payload, err := json.Marshal(body)
	if err != nil {
		return created, fmt.Errorf("create encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return created, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req, creds)
	if err != nil {
		return created, fmt.Errorf("create %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return created, decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return created, fmt.Errorf("create decode: %w", err)
	}
	return created, nil
}

// Update puts a row by id, asking the service to return the updated
// representation in the response.
func Update[T any](ctx context.Context, c *Client, endpoint string, creds domain.Credentials, id string, body any) (T, error) {
	var updated T

	payload, err := json.Marshal(body)
	if err != nil {
		return updated, fmt.Errorf("update encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint+"/"+url.PathEscape(id), bytes.NewReader(payload))
	if err != nil {
		return updated, fmt.Errorf("update request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.do(req, creds)
	if err != nil {
		return updated, fmt.Errorf("update %s/%s: %w", endpoint, id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return updated, decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		return updated, fmt.Errorf("update decode: %w", err)
	}
	return updated, nil
}
