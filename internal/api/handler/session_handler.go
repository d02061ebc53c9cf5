package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/backoffice/admin-gateway/internal/api/middleware"
	"github.com/backoffice/admin-gateway/internal/core/ports"
)

// SessionHandler exposes the resolved identity and the sign-out action.
type SessionHandler struct {
	sessions ports.SessionService
	loginURL string
}

func NewSessionHandler(sessions ports.SessionService, loginURL string) *SessionHandler {
	return &SessionHandler{sessions: sessions, loginURL: loginURL}
}

// Current returns the identity behind the session.
//
// @Summary      Get the current identity
// @Tags         session
// @Produce      json
// @Success      200  {object}  domain.Identity
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/session [get]
func (h *SessionHandler) Current(c echo.Context) error {
	identity, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, identity)
}

// SignOut terminates the session upstream and redirects to the login
// surface. On upstream failure no redirect happens and the session is
// considered still active.
//
// @Summary      Sign out
// @Tags         session
// @Success      302
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/session/signout [post]
func (h *SessionHandler) SignOut(c echo.Context) error {
	_, creds, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.sessions.SignOut(c.Request().Context(), creds); err != nil {
		return err
	}

	middleware.ClearSessionCookie(c)
	return middleware.RedirectToLogin(c, h.loginURL)
}
