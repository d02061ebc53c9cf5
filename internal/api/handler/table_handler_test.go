package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/backoffice/admin-gateway/internal/core/domain"
	"github.com/backoffice/admin-gateway/internal/table"
)

type stubFactory struct {
	mountFn func(collection string, creds domain.Credentials, owner domain.Identity) (table.Instance, error)
}

func (s *stubFactory) Mount(collection string, creds domain.Credentials, owner domain.Identity) (table.Instance, error) {
	return s.mountFn(collection, creds, owner)
}

type stubAuditService struct {
	records []string
}

func (s *stubAuditService) Record(ctx context.Context, actor domain.Identity, action, collection string, rowIDs []string, detail string) {
	s.records = append(s.records, action+":"+collection+":"+strings.Join(rowIDs, ","))
}

func (s *stubAuditService) Recent(ctx context.Context, limit int) ([]*domain.AuditEntry, error) {
	return nil, nil
}

func newTestEngine(t *testing.T, rows []string) *table.Engine[string] {
	t.Helper()
	e := table.New(context.Background(), table.Config[string]{
		Collection: "users",
		RowKey:     func(row string) string { return row },
		Columns: []table.Column[string]{
			{ID: "id", Name: "ID", Cell: func(row string) string { return row }, Orderable: true},
		},
		Fetch: func(ctx context.Context, query url.Values) (table.Page[string], error) {
			return table.Page[string]{Count: int64(len(rows)), Rows: rows}, nil
		},
		Delete:        func(ctx context.Context, id string) error { return nil },
		DeleteEnabled: true,
		Debounce:      5 * time.Millisecond,
	}, zerolog.Nop())
	t.Cleanup(e.Close)
	return e
}

func tableContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("identity", domain.Identity{ID: "owner-1", Role: domain.RoleAdministrator})
	return c, rec
}

func TestTableHandler_Mount(t *testing.T) {
	engine := newTestEngine(t, []string{"a", "b"})
	factory := &stubFactory{
		mountFn: func(collection string, creds domain.Credentials, owner domain.Identity) (table.Instance, error) {
			if collection != "users" || owner.ID != "owner-1" {
				t.Fatalf("unexpected mount args: %s %s", collection, owner.ID)
			}
			return engine, nil
		},
	}
	registry := table.NewRegistry(time.Minute, zerolog.Nop())
	h := NewTableHandler(registry, factory, &stubAuditService{})

	c, rec := tableContext(t, http.MethodPost, "/api/v1/tables", `{"collection":"users"}`)
	if err := h.Mount(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp struct {
		ID       string         `json:"id"`
		Snapshot table.Snapshot `json:"snapshot"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID == "" {
		t.Fatal("expected a table id")
	}
	// Mount waits for the first page before answering.
	if resp.Snapshot.TotalCount != 2 || resp.Snapshot.Loading {
		t.Fatalf("expected a settled first page, got %+v", resp.Snapshot)
	}
}

func TestTableHandler_Mount_UnknownCollection(t *testing.T) {
	h := NewTableHandler(table.NewRegistry(time.Minute, zerolog.Nop()), &stubFactory{}, &stubAuditService{})

	c, _ := tableContext(t, http.MethodPost, "/api/v1/tables", `{"collection":"invoices"}`)
	err := h.Mount(c)

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if _, ok := ve.Fields["collection"]; !ok {
		t.Fatalf("expected collection field error, got %v", ve.Fields)
	}
}

func TestTableHandler_Snapshot_UnknownTable(t *testing.T) {
	h := NewTableHandler(table.NewRegistry(time.Minute, zerolog.Nop()), &stubFactory{}, &stubAuditService{})

	c, _ := tableContext(t, http.MethodGet, "/api/v1/tables/missing", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := h.Snapshot(c); !errors.Is(err, domain.ErrTableNotFound) {
		t.Fatalf("expected ErrTableNotFound, got %v", err)
	}
}

func TestTableHandler_Snapshot_ForeignOwner(t *testing.T) {
	engine := newTestEngine(t, nil)
	registry := table.NewRegistry(time.Minute, zerolog.Nop())
	id := registry.Add("someone-else", engine)
	h := NewTableHandler(registry, &stubFactory{}, &stubAuditService{})

	c, _ := tableContext(t, http.MethodGet, "/api/v1/tables/"+id, "")
	c.SetParamNames("id")
	c.SetParamValues(id)

	if err := h.Snapshot(c); !errors.Is(err, domain.ErrTableNotFound) {
		t.Fatalf("expected ErrTableNotFound for a foreign table, got %v", err)
	}
}

func TestTableHandler_Sort(t *testing.T) {
	engine := newTestEngine(t, []string{"a"})
	registry := table.NewRegistry(time.Minute, zerolog.Nop())
	id := registry.Add("owner-1", engine)
	h := NewTableHandler(registry, &stubFactory{}, &stubAuditService{})

	c, rec := tableContext(t, http.MethodPost, "/api/v1/tables/"+id+"/sort", `{"column":"id"}`)
	c.SetParamNames("id")
	c.SetParamValues(id)

	if err := h.Sort(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Snapshot table.Snapshot `json:"snapshot"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Snapshot.Order == nil || resp.Snapshot.Order.Column != "id" || resp.Snapshot.Order.Direction != table.Ascending {
		t.Fatalf("expected id asc, got %+v", resp.Snapshot.Order)
	}
}

func TestTableHandler_Search_AcceptedWithoutWaiting(t *testing.T) {
	engine := newTestEngine(t, nil)
	registry := table.NewRegistry(time.Minute, zerolog.Nop())
	id := registry.Add("owner-1", engine)
	h := NewTableHandler(registry, &stubFactory{}, &stubAuditService{})

	c, rec := tableContext(t, http.MethodPost, "/api/v1/tables/"+id+"/search", `{"value":"jane"}`)
	c.SetParamNames("id")
	c.SetParamValues(id)

	if err := h.Search(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202 for a debounced search, got %d", rec.Code)
	}
}

func TestTableHandler_DeleteSelected_AuditsDeletedRows(t *testing.T) {
	engine := newTestEngine(t, []string{"a", "b"})
	<-engine.Refresh()
	engine.ToggleAll(true)

	registry := table.NewRegistry(time.Minute, zerolog.Nop())
	id := registry.Add("owner-1", engine)
	audit := &stubAuditService{}
	h := NewTableHandler(registry, &stubFactory{}, audit)

	c, rec := tableContext(t, http.MethodPost, "/api/v1/tables/"+id+"/rows:delete", "")
	c.SetParamNames("id")
	c.SetParamValues(id)

	if err := h.DeleteSelected(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(audit.records) != 1 || audit.records[0] != "bulk_delete:users:a,b" {
		t.Fatalf("unexpected audit trail: %v", audit.records)
	}
}

func TestTableHandler_MissingIdentityRejected(t *testing.T) {
	h := NewTableHandler(table.NewRegistry(time.Minute, zerolog.Nop()), &stubFactory{}, &stubAuditService{})

	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tables", strings.NewReader(`{"collection":"users"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	err := h.Mount(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a session identity, got %v", err)
	}
}
