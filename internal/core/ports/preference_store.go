package ports

import "context"

// PreferenceStore persists per-user console preferences across sessions.
// The page size is the only preference today; writes are last-write-wins.
type PreferenceStore interface {
	// PageSize returns the stored rows-per-page preference for the user,
	// or 0 when none is stored.
	PageSize(ctx context.Context, userID string) (int, error)
	// SetPageSize stores the rows-per-page preference for the user.
	SetPageSize(ctx context.Context, userID string, size int) error
}
