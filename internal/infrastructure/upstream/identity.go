package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/backoffice/admin-gateway/internal/core/domain"
)

// IdentityClient implements ports.IdentityClient against the identity
// service's OAuth surface.
type IdentityClient struct {
	base   string
	client *Client
}

func NewIdentityClient(baseURL string, log zerolog.Logger) *IdentityClient {
	return &IdentityClient{
		base:   strings.TrimRight(baseURL, "/"),
		client: NewClient(log),
	}
}

// Me resolves the identity behind the session credentials. The request is
// attempted exactly once; there is no retry.
func (c *IdentityClient) Me(ctx context.Context, creds domain.Credentials) (domain.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/v1/oauth/me", nil)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("identity request: %w", err)
	}

	resp, err := c.client.do(req, creds)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("identity request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Identity{}, decodeError(resp)
	}

	var identity domain.Identity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return domain.Identity{}, fmt.Errorf("identity decode: %w", err)
	}
	return identity, nil
}

// SignOut invalidates the upstream session with an empty-body POST.
func (c *IdentityClient) SignOut(ctx context.Context, creds domain.Credentials) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/v1/oauth/signout", nil)
	if err != nil {
		return fmt.Errorf("sign-out request: %w", err)
	}

	resp, err := c.client.do(req, creds)
	if err != nil {
		return fmt.Errorf("sign-out request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	return nil
}
