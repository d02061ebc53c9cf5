package console

import (
	"context"
	"fmt"
	"net/url"

	"github.com/backoffice/admin-gateway/internal/core/domain"
	"github.com/backoffice/admin-gateway/internal/infrastructure/upstream"
	"github.com/backoffice/admin-gateway/internal/table"
)

func (f *Factory) catalog(creds domain.Credentials, owner domain.Identity) table.Instance {
	cfg := table.Config[domain.CatalogItem]{
		Collection: CollectionCatalog,
		RowKey:     func(item domain.CatalogItem) string { return item.ID },
		Columns: []table.Column[domain.CatalogItem]{
			{ID: "id", Name: "ID", Orderable: true, Cell: func(item domain.CatalogItem) string {
				return item.ID
			}},
			{ID: "name", Name: "Name", Orderable: true, Cell: func(item domain.CatalogItem) string {
				return item.Name
			}},
			{ID: "description", Name: "Description", Cell: func(item domain.CatalogItem) string {
				return item.Description
			}},
			{ID: "price", Name: "Price", Orderable: true, Cell: func(item domain.CatalogItem) string {
				return fmt.Sprintf("£%.2f", item.Price)
			}},
		},
		FilterFields:  []string{"name", "description"},
		CreateEnabled: true,
		DefaultOrder:  &table.Order{Column: "name", Direction: table.Ascending},
		Fetch: func(ctx context.Context, query url.Values) (table.Page[domain.CatalogItem], error) {
			return upstream.List[domain.CatalogItem](ctx, f.client, f.catalogEndpoint, creds, query)
		},
		Preferences: f.prefs,
		OwnerID:     owner.ID,
	}
	return table.New(f.root, cfg, f.log)
}
