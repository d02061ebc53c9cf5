// Package console declares the tables the admin console exposes: which
// collection endpoint each one binds to, its column set and renderers, its
// filter schema, and which affordances (create, delete) are active. The table
// engine consumes these declarations; nothing here implements behavior.
package console

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/backoffice/admin-gateway/internal/core/domain"
	"github.com/backoffice/admin-gateway/internal/core/ports"
	"github.com/backoffice/admin-gateway/internal/infrastructure/upstream"
	"github.com/backoffice/admin-gateway/internal/table"
)

// Collection names accepted by the factory.
const (
	CollectionUsers   = "users"
	CollectionCatalog = "catalog"
)

// Factory mounts table instances for the console's collections, binding each
// engine to the mounting session's credentials.
type Factory struct {
	client          *upstream.Client
	prefs           ports.PreferenceStore
	usersEndpoint   string
	catalogEndpoint string
	log             zerolog.Logger

	// root bounds every engine's background fetches; it is the server
	// lifetime context, not a request context, because fetches outlive the
	// request that triggered them.
	root context.Context
}

func NewFactory(root context.Context, client *upstream.Client, prefs ports.PreferenceStore, usersEndpoint, catalogEndpoint string, log zerolog.Logger) *Factory {
	return &Factory{
		client:          client,
		prefs:           prefs,
		usersEndpoint:   usersEndpoint,
		catalogEndpoint: catalogEndpoint,
		log:             log,
		root:            root,
	}
}

// Mount creates a table instance for the named collection on behalf of the
// given identity. Returns domain.ErrUnknownCollection for anything else.
func (f *Factory) Mount(collection string, creds domain.Credentials, owner domain.Identity) (table.Instance, error) {
	switch collection {
	case CollectionUsers:
		return f.users(creds, owner), nil
	case CollectionCatalog:
		return f.catalog(creds, owner), nil
	default:
		return nil, domain.ErrUnknownCollection
	}
}
