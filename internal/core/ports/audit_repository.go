package ports

import (
	"context"

	"github.com/backoffice/admin-gateway/internal/core/domain"
)

// AuditRepository persists audit entries for staff mutations.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
	// Recent returns the latest entries, newest first, capped at limit.
	Recent(ctx context.Context, limit int) ([]*domain.AuditEntry, error)
}

// AuditService records staff mutations performed through the console.
type AuditService interface {
	Record(ctx context.Context, actor domain.Identity, action, collection string, rowIDs []string, detail string)
	Recent(ctx context.Context, limit int) ([]*domain.AuditEntry, error)
}
