package console

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/backoffice/admin-gateway/internal/core/domain"
	"github.com/backoffice/admin-gateway/internal/infrastructure/upstream"
	"github.com/backoffice/admin-gateway/internal/table"
)

type stubPrefs struct{}

func (stubPrefs) PageSize(ctx context.Context, userID string) (int, error)       { return 0, nil }
func (stubPrefs) SetPageSize(ctx context.Context, userID string, size int) error { return nil }

func testFactory(t *testing.T, usersEndpoint, catalogEndpoint string) *Factory {
	t.Helper()
	return NewFactory(context.Background(), upstream.NewClient(zerolog.Nop()), stubPrefs{},
		usersEndpoint, catalogEndpoint, zerolog.Nop())
}

func mountTable(t *testing.T, f *Factory, collection string) table.Instance {
	t.Helper()
	instance, err := f.Mount(collection, "session=abc", domain.Identity{ID: "owner-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(instance.Close)
	return instance
}

func TestFactory_Mount_UnknownCollection(t *testing.T) {
	f := testFactory(t, "http://unused.invalid", "http://unused.invalid")

	if _, err := f.Mount("invoices", "", domain.Identity{}); !errors.Is(err, domain.ErrUnknownCollection) {
		t.Fatalf("expected ErrUnknownCollection, got %v", err)
	}
}

func TestFactory_UsersTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Cookie") != "session=abc" {
			t.Fatalf("credentials not forwarded: %q", r.Header.Get("Cookie"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count":1,"value":[{
			"id":"u1","email":"ann@example.com","role":"Administrator",
			"createdAt":"2024-03-01T12:00:00Z","updatedAt":null}]}`))
	}))
	defer srv.Close()

	instance := mountTable(t, testFactory(t, srv.URL, "http://unused.invalid"), CollectionUsers)
	<-instance.Refresh()

	snap := instance.Snapshot()
	if snap.Collection != CollectionUsers {
		t.Fatalf("unexpected collection: %s", snap.Collection)
	}
	if !snap.DeleteEnabled || !snap.CreateEnabled {
		t.Fatalf("users table must allow create and delete: %+v", snap)
	}
	if snap.Order != nil {
		t.Fatalf("users table starts unordered, got %+v", snap.Order)
	}

	ids := make([]string, len(snap.Columns))
	for i, col := range snap.Columns {
		ids[i] = col.ID
	}
	want := []string{"id", "email", "role", "createdAt", "updatedAt"}
	for i, id := range want {
		if ids[i] != id {
			t.Fatalf("unexpected column order: %v", ids)
		}
	}

	if len(snap.Rows) != 1 {
		t.Fatalf("expected one row, got %d", len(snap.Rows))
	}
	cells := snap.Rows[0].Cells
	if cells[3] != "Fri, 01 Mar 2024 12:00:00 GMT" {
		t.Fatalf("unexpected createdAt rendering: %q", cells[3])
	}
	if cells[4] != "-" {
		t.Fatalf("expected dash for a never-updated user, got %q", cells[4])
	}
}

func TestFactory_CatalogTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("orderby"); got != "name asc" {
			t.Fatalf("expected default name ordering, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count":1,"value":[{"id":"c1","name":"Mug","description":"Ceramic mug","price":7.5}]}`))
	}))
	defer srv.Close()

	instance := mountTable(t, testFactory(t, "http://unused.invalid", srv.URL), CollectionCatalog)
	<-instance.Refresh()

	snap := instance.Snapshot()
	if snap.DeleteEnabled {
		t.Fatal("catalog rows must not be deletable")
	}
	if !snap.CreateEnabled {
		t.Fatal("catalog table must allow create")
	}
	if snap.Order == nil || snap.Order.Column != "name" || snap.Order.Direction != table.Ascending {
		t.Fatalf("expected default name asc ordering, got %+v", snap.Order)
	}

	if got := snap.Rows[0].Cells[3]; got != "£7.50" {
		t.Fatalf("unexpected price rendering: %q", got)
	}

	for _, col := range snap.Columns {
		if col.ID == "description" && col.Orderable {
			t.Fatal("description column must not be orderable")
		}
	}
}
