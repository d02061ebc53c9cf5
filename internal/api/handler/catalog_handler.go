package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/backoffice/admin-gateway/internal/api/metrics"
	"github.com/backoffice/admin-gateway/internal/console"
	"github.com/backoffice/admin-gateway/internal/core/domain"
	"github.com/backoffice/admin-gateway/internal/core/ports"
	"github.com/backoffice/admin-gateway/internal/infrastructure/upstream"
)

// CatalogHandler proxies catalog item creation to the catalog service.
type CatalogHandler struct {
	client   *upstream.Client
	endpoint string
	audit    ports.AuditService
}

func NewCatalogHandler(client *upstream.Client, endpoint string, audit ports.AuditService) *CatalogHandler {
	return &CatalogHandler{client: client, endpoint: endpoint, audit: audit}
}

type catalogItemRequest struct {
	Name        string  `json:"name"        validate:"required,max=128"`
	Description string  `json:"description" validate:"required,min=2,max=1024"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
}

// Create creates a catalog item.
//
// @Summary      Create a catalog item
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        body  body      catalogItemRequest  true  "Item details"
// @Success      201   {object}  domain.CatalogItem
// @Failure      400   {object}  map[string]map[string][]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/catalog [post]
func (h *CatalogHandler) Create(c echo.Context) error {
	identity, creds, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req catalogItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.MutationsTotal.WithLabelValues(console.CollectionCatalog, domain.AuditActionCreate, "validation_error").Inc()
		return err
	}

	created, err := upstream.Create[domain.CatalogItem](c.Request().Context(), h.client, h.endpoint, creds, req)
	if err != nil {
		metrics.MutationsTotal.WithLabelValues(console.CollectionCatalog, domain.AuditActionCreate, mutationResult(err)).Inc()
		return err
	}

	metrics.MutationsTotal.WithLabelValues(console.CollectionCatalog, domain.AuditActionCreate, "ok").Inc()
	h.audit.Record(c.Request().Context(), identity, domain.AuditActionCreate,
		console.CollectionCatalog, []string{created.ID}, created.Name)

	return c.JSON(http.StatusCreated, created)
}

// mutationResult classifies an upstream mutation error for metrics.
func mutationResult(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return "validation_error"
	}
	return "error"
}
