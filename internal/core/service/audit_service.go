package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/backoffice/admin-gateway/internal/core/domain"
	"github.com/backoffice/admin-gateway/internal/core/ports"
)

// AuditService appends an entry for every staff mutation performed through
// the console. Recording is best-effort: a failed write is logged and never
// blocks the mutation that triggered it.
type AuditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) *AuditService {
	return &AuditService{repo: repo, log: log}
}

func (s *AuditService) Record(ctx context.Context, actor domain.Identity, action, collection string, rowIDs []string, detail string) {
	entry := &domain.AuditEntry{
		ID:         uuid.NewString(),
		ActorID:    actor.ID,
		ActorEmail: actor.Email,
		Action:     action,
		Collection: collection,
		RowIDs:     rowIDs,
		Detail:     detail,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.log.Error().Err(err).
			Str("action", action).
			Str("collection", collection).
			Msg("failed to record audit entry")
		return
	}

	s.log.Info().
		Str("actor", actor.Email).
		Str("action", action).
		Str("collection", collection).
		Strs("row_ids", rowIDs).
		Msg("staff mutation recorded")
}

func (s *AuditService) Recent(ctx context.Context, limit int) ([]*domain.AuditEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.Recent(ctx, limit)
}
