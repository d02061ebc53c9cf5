package table

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/backoffice/admin-gateway/internal/core/domain"
)

const sweepInterval = time.Minute

type registryEntry struct {
	instance Instance
	ownerID  string
	lastUsed time.Time
}

// Registry holds the mounted table instances, keyed by a generated id and
// scoped to the identity that mounted them. Instances untouched for longer
// than the idle TTL are closed and evicted by the sweeper.
type Registry struct {
	ttl time.Duration
	log zerolog.Logger

	mu      sync.Mutex
	entries map[string]*registryEntry
}

// NewRegistry creates a registry evicting instances idle for longer than ttl.
func NewRegistry(ttl time.Duration, log zerolog.Logger) *Registry {
	return &Registry{
		ttl:     ttl,
		log:     log,
		entries: make(map[string]*registryEntry),
	}
}

// Add mounts an instance for the given owner and returns its id.
func (r *Registry) Add(ownerID string, instance Instance) string {
	id := uuid.NewString()
	r.mu.Lock()
	r.entries[id] = &registryEntry{instance: instance, ownerID: ownerID, lastUsed: time.Now()}
	r.mu.Unlock()
	return id
}

// Get returns the instance with the given id. An id that does not exist, or
// that belongs to a different identity, yields domain.ErrTableNotFound —
// tables are never shared across sessions.
func (r *Registry) Get(id, ownerID string) (Instance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok || entry.ownerID != ownerID {
		return nil, domain.ErrTableNotFound
	}
	entry.lastUsed = time.Now()
	return entry.instance, nil
}

// Remove unmounts and closes the instance with the given id.
func (r *Registry) Remove(id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok || entry.ownerID != ownerID {
		return domain.ErrTableNotFound
	}
	delete(r.entries, id)
	entry.instance.Close()
	return nil
}

// Start runs the idle sweeper until ctx is cancelled, then closes every
// remaining instance.
func (r *Registry) Start(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

func (r *Registry) sweep() {
	cutoff := time.Now().Add(-r.ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, entry := range r.entries {
		if entry.lastUsed.Before(cutoff) {
			delete(r.entries, id)
			entry.instance.Close()
			r.log.Debug().Str("table_id", id).Str("collection", entry.instance.Collection()).Msg("idle table evicted")
		}
	}
}

func (r *Registry) closeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, entry := range r.entries {
		delete(r.entries, id)
		entry.instance.Close()
	}
}
