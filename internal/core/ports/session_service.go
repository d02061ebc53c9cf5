package ports

import (
	"context"

	"github.com/backoffice/admin-gateway/internal/core/domain"
)

// IdentityClient talks to the identity service on behalf of a browser
// session, forwarding the session's ambient credentials.
type IdentityClient interface {
	// Me resolves the identity behind the given credentials.
	// Returns domain.ErrUnauthorized when the identity service rejects them.
	Me(ctx context.Context, creds domain.Credentials) (domain.Identity, error)
	// SignOut invalidates the upstream session.
	SignOut(ctx context.Context, creds domain.Credentials) error
}

// SessionService gates the console behind a verified, authorized identity.
type SessionService interface {
	// Resolve fetches the identity exactly once and enforces the staff-role
	// authorization invariant. Returns domain.ErrUnauthorized for absent
	// identities and for any role outside {Administrator, Employee}.
	Resolve(ctx context.Context, creds domain.Credentials) (domain.Identity, error)
	// Token mints a signed session token caching the resolved identity, so
	// subsequent requests in the same session skip the identity round-trip.
	Token(identity domain.Identity) (string, error)
	// Verify parses a previously minted session token. ok is false for
	// missing, malformed, expired or tampered tokens.
	Verify(token string) (identity domain.Identity, ok bool)
	// SignOut terminates the upstream session. On failure the session is
	// considered still active and domain.ErrSignOutFailed is returned.
	SignOut(ctx context.Context, creds domain.Credentials) error
}
