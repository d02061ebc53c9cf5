package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/backoffice/admin-gateway/internal/core/ports"
)

// AuditHandler exposes the console's mutation audit trail.
type AuditHandler struct {
	audit ports.AuditService
}

func NewAuditHandler(audit ports.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// Recent returns the latest audit entries, newest first.
//
// @Summary      List recent audit entries
// @Tags         audit
// @Produce      json
// @Param        limit  query     int  false  "Maximum entries (1-100, default 50)"
// @Success      200    {array}   domain.AuditEntry
// @Router       /api/v1/audit [get]
func (h *AuditHandler) Recent(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
		}
		limit = parsed
	}

	entries, err := h.audit.Recent(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}
