package handler

import "github.com/backoffice/admin-gateway/internal/table"

// --- Request / Response types ---

type mountTableRequest struct {
	Collection string `json:"collection" validate:"required,oneof=users catalog"`
}

type searchRequest struct {
	Value string `json:"value"`
}

type sortRequest struct {
	Column string `json:"column" validate:"required"`
}

type pageRequest struct {
	Page int `json:"page" validate:"required,min=1"`
}

// Page-size options mirror the rows-per-page select of the console.
type pageSizeRequest struct {
	Size int `json:"size" validate:"required,oneof=15 25 50 100"`
}

type filtersRequest struct {
	Values map[string]string `json:"values"`
}

type toggleRowRequest struct {
	Key string `json:"key" validate:"required"`
}

type toggleAllRequest struct {
	Selected bool `json:"selected"`
}

type mountTableResponse struct {
	ID       string         `json:"id"`
	Snapshot table.Snapshot `json:"snapshot"`
}

type snapshotResponse struct {
	Snapshot table.Snapshot `json:"snapshot"`
}

type bulkDeleteResponse struct {
	Result   table.BulkDeleteResult `json:"result"`
	Snapshot table.Snapshot         `json:"snapshot"`
}
