package console

import (
	"context"
	"net/http"
	"net/url"

	"github.com/backoffice/admin-gateway/internal/core/domain"
	"github.com/backoffice/admin-gateway/internal/infrastructure/upstream"
	"github.com/backoffice/admin-gateway/internal/table"
)

func (f *Factory) users(creds domain.Credentials, owner domain.Identity) table.Instance {
	cfg := table.Config[domain.User]{
		Collection: CollectionUsers,
		RowKey:     func(u domain.User) string { return u.ID },
		Columns: []table.Column[domain.User]{
			{ID: "id", Name: "Id", Orderable: true, Cell: func(u domain.User) string {
				return u.ID
			}},
			{ID: "email", Name: "Email", Orderable: true, Cell: func(u domain.User) string {
				return u.Email
			}},
			{ID: "role", Name: "Role", Orderable: true, Cell: func(u domain.User) string {
				return string(u.Role)
			}},
			{ID: "createdAt", Name: "Created At", Orderable: true, Cell: func(u domain.User) string {
				return u.CreatedAt.UTC().Format(http.TimeFormat)
			}},
			{ID: "updatedAt", Name: "Updated At", Orderable: true, Cell: func(u domain.User) string {
				if u.UpdatedAt == nil {
					return "-"
				}
				return u.UpdatedAt.UTC().Format(http.TimeFormat)
			}},
		},
		FilterFields:  []string{"firstName", "lastName", "email"},
		DeleteEnabled: true,
		CreateEnabled: true,
		Fetch: func(ctx context.Context, query url.Values) (table.Page[domain.User], error) {
			return upstream.List[domain.User](ctx, f.client, f.usersEndpoint, creds, query)
		},
		Delete: func(ctx context.Context, id string) error {
			return upstream.Delete(ctx, f.client, f.usersEndpoint, creds, id)
		},
		Preferences: f.prefs,
		OwnerID:     owner.ID,
	}
	return table.New(f.root, cfg, f.log)
}
