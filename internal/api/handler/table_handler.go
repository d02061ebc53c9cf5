package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/backoffice/admin-gateway/internal/core/domain"
	"github.com/backoffice/admin-gateway/internal/core/ports"
	"github.com/backoffice/admin-gateway/internal/table"
)

// TableFactory mounts a table instance for a named collection.
type TableFactory interface {
	Mount(collection string, creds domain.Credentials, owner domain.Identity) (table.Instance, error)
}

// TableHandler drives session-scoped table instances: mount/unmount, query
// state transitions, selection, and bulk delete.
type TableHandler struct {
	registry *table.Registry
	factory  TableFactory
	audit    ports.AuditService
}

func NewTableHandler(registry *table.Registry, factory TableFactory, audit ports.AuditService) *TableHandler {
	return &TableHandler{registry: registry, factory: factory, audit: audit}
}

// Mount creates a table instance and waits for its first page.
//
// @Summary      Mount a table
// @Tags         tables
// @Accept       json
// @Produce      json
// @Param        body  body      mountTableRequest  true  "Collection to mount"
// @Success      201   {object}  mountTableResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/tables [post]
func (h *TableHandler) Mount(c echo.Context) error {
	identity, creds, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req mountTableRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	instance, err := h.factory.Mount(req.Collection, creds, identity)
	if err != nil {
		return err
	}

	id := h.registry.Add(identity.ID, instance)
	waitSettled(c, instance.Refresh())
	return c.JSON(http.StatusCreated, mountTableResponse{ID: id, Snapshot: instance.Snapshot()})
}

// Snapshot returns the table's current state.
//
// @Summary      Get a table snapshot
// @Tags         tables
// @Produce      json
// @Param        id   path      string  true  "Table id"
// @Success      200  {object}  snapshotResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/tables/{id} [get]
func (h *TableHandler) Snapshot(c echo.Context) error {
	instance, err := h.instance(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snapshotResponse{Snapshot: instance.Snapshot()})
}

// Unmount destroys the table instance.
func (h *TableHandler) Unmount(c echo.Context) error {
	identity, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := h.registry.Remove(c.Param("id"), identity.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Search schedules a debounced search update. The snapshot returned still
// reflects the previous query; the fetch fires once the debounce interval
// elapses without another keystroke.
func (h *TableHandler) Search(c echo.Context) error {
	instance, err := h.instance(c)
	if err != nil {
		return err
	}
	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	instance.Search(req.Value)
	return c.JSON(http.StatusAccepted, snapshotResponse{Snapshot: instance.Snapshot()})
}

// Sort toggles the ordering on a column.
func (h *TableHandler) Sort(c echo.Context) error {
	instance, err := h.instance(c)
	if err != nil {
		return err
	}
	var req sortRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	waitSettled(c, instance.ToggleSort(req.Column))
	return c.JSON(http.StatusOK, snapshotResponse{Snapshot: instance.Snapshot()})
}

// Page navigates to a 1-indexed page.
func (h *TableHandler) Page(c echo.Context) error {
	instance, err := h.instance(c)
	if err != nil {
		return err
	}
	var req pageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	waitSettled(c, instance.GoToPage(req.Page))
	return c.JSON(http.StatusOK, snapshotResponse{Snapshot: instance.Snapshot()})
}

// PageSize changes rows-per-page, persisting the preference.
func (h *TableHandler) PageSize(c echo.Context) error {
	instance, err := h.instance(c)
	if err != nil {
		return err
	}
	var req pageSizeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	waitSettled(c, instance.SetPageSize(c.Request().Context(), req.Size))
	return c.JSON(http.StatusOK, snapshotResponse{Snapshot: instance.Snapshot()})
}

// ApplyFilters replaces the filter predicate with the submitted form values.
func (h *TableHandler) ApplyFilters(c echo.Context) error {
	instance, err := h.instance(c)
	if err != nil {
		return err
	}
	var req filtersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	waitSettled(c, instance.ApplyFilters(req.Values))
	return c.JSON(http.StatusOK, snapshotResponse{Snapshot: instance.Snapshot()})
}

// ResetFilter clears one filter field and re-applies the rest.
func (h *TableHandler) ResetFilter(c echo.Context) error {
	instance, err := h.instance(c)
	if err != nil {
		return err
	}
	waitSettled(c, instance.ResetFilter(c.Param("field")))
	return c.JSON(http.StatusOK, snapshotResponse{Snapshot: instance.Snapshot()})
}

// ResetFilters clears the whole filter predicate.
func (h *TableHandler) ResetFilters(c echo.Context) error {
	instance, err := h.instance(c)
	if err != nil {
		return err
	}
	waitSettled(c, instance.ResetFilters())
	return c.JSON(http.StatusOK, snapshotResponse{Snapshot: instance.Snapshot()})
}

// Refresh re-issues the fetch for the current query state.
func (h *TableHandler) Refresh(c echo.Context) error {
	instance, err := h.instance(c)
	if err != nil {
		return err
	}
	waitSettled(c, instance.Refresh())
	return c.JSON(http.StatusOK, snapshotResponse{Snapshot: instance.Snapshot()})
}

// ToggleRow toggles a single row in the selection.
func (h *TableHandler) ToggleRow(c echo.Context) error {
	instance, err := h.instance(c)
	if err != nil {
		return err
	}
	var req toggleRowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	instance.ToggleRow(req.Key)
	return c.JSON(http.StatusOK, snapshotResponse{Snapshot: instance.Snapshot()})
}

// ToggleAll selects or clears every row on the current page.
func (h *TableHandler) ToggleAll(c echo.Context) error {
	instance, err := h.instance(c)
	if err != nil {
		return err
	}
	var req toggleAllRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	instance.ToggleAll(req.Selected)
	return c.JSON(http.StatusOK, snapshotResponse{Snapshot: instance.Snapshot()})
}

// DeleteSelected bulk-deletes the selected rows, best-effort. Succeeded rows
// disappear; failed rows stay selected and are reported individually.
//
// @Summary      Delete the selected rows
// @Tags         tables
// @Produce      json
// @Param        id   path      string  true  "Table id"
// @Success      200  {object}  bulkDeleteResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/tables/{id}/rows/delete [post]
func (h *TableHandler) DeleteSelected(c echo.Context) error {
	identity, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	instance, err := h.instance(c)
	if err != nil {
		return err
	}

	result, done := instance.DeleteSelected(c.Request().Context())
	waitSettled(c, done)

	if len(result.Deleted) > 0 {
		h.audit.Record(c.Request().Context(), identity, domain.AuditActionBulkDelete,
			instance.Collection(), result.Deleted, "")
	}

	return c.JSON(http.StatusOK, bulkDeleteResponse{Result: result, Snapshot: instance.Snapshot()})
}

func (h *TableHandler) instance(c echo.Context) (table.Instance, error) {
	identity, _, err := ctxIdentity(c)
	if err != nil {
		return nil, err
	}
	return h.registry.Get(c.Param("id"), identity.ID)
}

// waitSettled blocks until the transition's fetch settles or the request is
// abandoned. An abandoned wait does not cancel the fetch: the engine outlives
// the request.
func waitSettled(c echo.Context, done <-chan struct{}) {
	select {
	case <-done:
	case <-c.Request().Context().Done():
	}
}
