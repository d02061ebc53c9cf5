package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/backoffice/admin-gateway/internal/api/metrics"
	"github.com/backoffice/admin-gateway/internal/console"
	"github.com/backoffice/admin-gateway/internal/core/domain"
	"github.com/backoffice/admin-gateway/internal/core/ports"
	"github.com/backoffice/admin-gateway/internal/infrastructure/upstream"
)

// UserHandler proxies user create/update to the user service, mapping
// upstream field-error responses one-to-one onto the console's form errors.
type UserHandler struct {
	client   *upstream.Client
	endpoint string
	audit    ports.AuditService
}

func NewUserHandler(client *upstream.Client, endpoint string, audit ports.AuditService) *UserHandler {
	return &UserHandler{client: client, endpoint: endpoint, audit: audit}
}

type userRequest struct {
	Email     string `json:"email"     validate:"required,email,max=320"`
	FirstName string `json:"firstName" validate:"required,min=2,max=128"`
	LastName  string `json:"lastName"  validate:"required,min=2,max=128"`
	Status    string `json:"status"    validate:"required,oneof=Active Deleted"`
	Role      string `json:"role"      validate:"required,oneof=Administrator Customer Employee"`
}

// Create creates a user through the user service.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      userRequest  true  "User details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]map[string][]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	identity, creds, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req userRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.MutationsTotal.WithLabelValues(console.CollectionUsers, domain.AuditActionCreate, "validation_error").Inc()
		return err
	}

	created, err := upstream.Create[domain.User](c.Request().Context(), h.client, h.endpoint, creds, req)
	if err != nil {
		metrics.MutationsTotal.WithLabelValues(console.CollectionUsers, domain.AuditActionCreate, mutationResult(err)).Inc()
		return err
	}

	metrics.MutationsTotal.WithLabelValues(console.CollectionUsers, domain.AuditActionCreate, "ok").Inc()
	h.audit.Record(c.Request().Context(), identity, domain.AuditActionCreate,
		console.CollectionUsers, []string{created.ID}, created.Email)

	return c.JSON(http.StatusCreated, created)
}

// Update updates a user through the user service and returns the updated
// representation.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string       true  "User id"
// @Param        body  body      userRequest  true  "User details"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]map[string][]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	identity, creds, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req userRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.MutationsTotal.WithLabelValues(console.CollectionUsers, domain.AuditActionUpdate, "validation_error").Inc()
		return err
	}

	updated, err := upstream.Update[domain.User](c.Request().Context(), h.client, h.endpoint, creds, c.Param("id"), req)
	if err != nil {
		metrics.MutationsTotal.WithLabelValues(console.CollectionUsers, domain.AuditActionUpdate, mutationResult(err)).Inc()
		return err
	}

	metrics.MutationsTotal.WithLabelValues(console.CollectionUsers, domain.AuditActionUpdate, "ok").Inc()
	h.audit.Record(c.Request().Context(), identity, domain.AuditActionUpdate,
		console.CollectionUsers, []string{updated.ID}, updated.Email)

	return c.JSON(http.StatusOK, updated)
}
