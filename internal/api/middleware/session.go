package middleware

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/backoffice/admin-gateway/internal/api/metrics"
	"github.com/backoffice/admin-gateway/internal/core/domain"
	"github.com/backoffice/admin-gateway/internal/core/ports"
)

// SessionCookieName is the cookie holding the signed session token that
// caches the resolved identity.
const SessionCookieName = "console_session"

const identityKey = "identity"

// SessionGate gates every request behind a verified, authorized identity.
//
// Fast path: a valid session cookie carries the identity without touching the
// identity service. Slow path: the identity is resolved once through the
// identity service using the browser's ambient credentials and cached in a
// fresh session cookie. Any failure, and any role outside the staff set,
// results in a hard redirect to the login surface, never a retry.
func SessionGate(sessions ports.SessionService, loginURL string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				if identity, ok := sessions.Verify(cookie.Value); ok {
					metrics.SessionResolutionsTotal.WithLabelValues("cached").Inc()
					c.Set(identityKey, identity)
					return next(c)
				}
			}

			creds := domain.Credentials(c.Request().Header.Get("Cookie"))
			identity, err := sessions.Resolve(c.Request().Context(), creds)
			if err != nil {
				outcome := "error"
				if errors.Is(err, domain.ErrUnauthorized) {
					outcome = "unauthorized"
				}
				metrics.SessionResolutionsTotal.WithLabelValues(outcome).Inc()
				return RedirectToLogin(c, loginURL)
			}
			metrics.SessionResolutionsTotal.WithLabelValues("authorized").Inc()

			if token, err := sessions.Token(identity); err == nil {
				c.SetCookie(&http.Cookie{
					Name:     SessionCookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(identityKey, identity)
			return next(c)
		}
	}
}

// Identity extracts the identity injected by SessionGate.
func Identity(c echo.Context) (domain.Identity, bool) {
	identity, ok := c.Get(identityKey).(domain.Identity)
	return identity, ok
}

// RedirectToLogin sends the browser to the login surface, passing the current
// URL as redirect_uri so the login flow can return the user afterward.
func RedirectToLogin(c echo.Context, loginURL string) error {
	target := loginURL + "?redirect_uri=" + url.QueryEscape(currentURL(c))
	return c.Redirect(http.StatusFound, target)
}

func currentURL(c echo.Context) string {
	return c.Scheme() + "://" + c.Request().Host + c.Request().RequestURI
}

// ClearSessionCookie expires the session cookie on sign-out.
func ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
