package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/backoffice/admin-gateway/internal/core/domain"
	"github.com/backoffice/admin-gateway/internal/core/ports"
)

// SessionService resolves identities through the identity service and caches
// them in signed session tokens, so the identity round-trip happens once per
// session rather than once per request.
type SessionService struct {
	identity ports.IdentityClient
	secret   string
	tokenTTL time.Duration
	log      zerolog.Logger
}

func NewSessionService(identity ports.IdentityClient, secret string, tokenTTL time.Duration, log zerolog.Logger) *SessionService {
	if tokenTTL <= 0 {
		tokenTTL = 12 * time.Hour
	}
	return &SessionService{identity: identity, secret: secret, tokenTTL: tokenTTL, log: log}
}

// Resolve fetches the identity exactly once and checks the staff-role gate.
// Any failure mode collapses to domain.ErrUnauthorized for the caller: absent
// identity, upstream rejection, and disallowed roles all redirect the same
// way, never retry.
func (s *SessionService) Resolve(ctx context.Context, creds domain.Credentials) (domain.Identity, error) {
	identity, err := s.identity.Me(ctx, creds)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return domain.Identity{}, domain.ErrUnauthorized
		}
		s.log.Error().Err(err).Msg("identity resolution failed")
		return domain.Identity{}, err
	}

	if !identity.Role.Authorized() {
		s.log.Warn().Str("role", string(identity.Role)).Str("identity_id", identity.ID).Msg("role not permitted")
		return domain.Identity{}, domain.ErrUnauthorized
	}

	return identity, nil
}

// Token mints an HS256 session token holding the resolved identity.
func (s *SessionService) Token(identity domain.Identity) (string, error) {
	claims := jwt.MapClaims{
		"sub":       identity.ID,
		"firstName": identity.FirstName,
		"lastName":  identity.LastName,
		"email":     identity.Email,
		"avatarUrl": identity.AvatarURL,
		"status":    string(identity.Status),
		"role":      string(identity.Role),
		"createdAt": identity.CreatedAt.Unix(),
		"exp":       time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.secret))
}

// Verify parses a session token minted by Token. The staff-role gate is
// re-checked so a stale token for a since-demoted role cannot slip through.
func (s *SessionService) Verify(token string) (domain.Identity, bool) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.secret), nil
	})
	if err != nil || !tkn.Valid {
		return domain.Identity{}, false
	}

	identity := domain.Identity{
		Role:   domain.Role(stringClaim(claims, "role")),
		Status: domain.Status(stringClaim(claims, "status")),
	}
	identity.ID = stringClaim(claims, "sub")
	identity.FirstName = stringClaim(claims, "firstName")
	identity.LastName = stringClaim(claims, "lastName")
	identity.Email = stringClaim(claims, "email")
	identity.AvatarURL = stringClaim(claims, "avatarUrl")
	if ts, ok := claims["createdAt"].(float64); ok {
		identity.CreatedAt = time.Unix(int64(ts), 0).UTC()
	}

	if identity.ID == "" || !identity.Role.Authorized() {
		return domain.Identity{}, false
	}
	return identity, true
}

// SignOut terminates the upstream session. On failure no redirect should
// happen and the session stays active, so the error is surfaced as-is.
func (s *SessionService) SignOut(ctx context.Context, creds domain.Credentials) error {
	if err := s.identity.SignOut(ctx, creds); err != nil {
		s.log.Error().Err(err).Msg("sign-out failed, session still active")
		return domain.ErrSignOutFailed
	}
	return nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}
