package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/backoffice/admin-gateway/internal/api/middleware"
	"github.com/backoffice/admin-gateway/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the session gate and the
// session credentials of the inbound request. A missing identity means the
// gate did not run; reject rather than proceed unauthenticated.
func ctxIdentity(c echo.Context) (domain.Identity, domain.Credentials, error) {
	identity, ok := middleware.Identity(c)
	if !ok {
		return domain.Identity{}, "", echo.NewHTTPError(http.StatusUnauthorized, "missing session identity")
	}
	return identity, domain.Credentials(c.Request().Header.Get("Cookie")), nil
}
