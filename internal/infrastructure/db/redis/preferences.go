package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// PreferenceStore persists per-user console preferences in Redis. The stored
// value is a string-encoded integer; writes are last-write-wins and entries
// never expire.
type PreferenceStore struct {
	client *redis.Client
}

func NewPreferenceStore(client *redis.Client) *PreferenceStore {
	return &PreferenceStore{client: client}
}

// PageSize returns the stored rows-per-page preference for the user, or 0
// when none is stored.
func (s *PreferenceStore) PageSize(ctx context.Context, userID string) (int, error) {
	raw, err := s.client.Get(ctx, s.key(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("page size read: %w", err)
	}
	size, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("page size parse: %w", err)
	}
	return size, nil
}

// SetPageSize stores the rows-per-page preference for the user.
func (s *PreferenceStore) SetPageSize(ctx context.Context, userID string, size int) error {
	if err := s.client.Set(ctx, s.key(userID), strconv.Itoa(size), 0).Err(); err != nil {
		return fmt.Errorf("page size write: %w", err)
	}
	return nil
}

func (s *PreferenceStore) key(userID string) string {
	return "pref:table-page-size:" + userID
}
