package slack

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pressline/taskboard/pkg/domain/interfaces"
)

// DefaultDirectoryTTL is how long a user lookup result is reused
const DefaultDirectoryTTL = 10 * time.Minute

// cacheEntry holds a cached lookup result with expiration
type cacheEntry struct {
	exists    bool
	expiresAt time.Time
}

// Directory resolves assignee IDs as Slack user IDs
type Directory struct {
	svc Service
	ttl time.Duration
	now func() time.Time

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

var _ interfaces.AssigneeDirectory = &Directory{}

type DirectoryOption func(*Directory)

// WithDirectoryTTL sets the TTL for user lookup cache
func WithDirectoryTTL(ttl time.Duration) DirectoryOption {
	return func(d *Directory) {
		d.ttl = ttl
	}
}

func NewDirectory(svc Service, opts ...DirectoryOption) *Directory {
	d := &Directory{
		svc:   svc,
		ttl:   DefaultDirectoryTTL,
		now:   time.Now,
		cache: make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Exists reports whether assigneeID is a known Slack user. Both hits and
// misses are cached.
func (d *Directory) Exists(ctx context.Context, assigneeID string) (bool, error) {
	now := d.now()

	d.mu.RLock()
	entry, ok := d.cache[assigneeID]
	d.mu.RUnlock()
	if ok && entry.expiresAt.After(now) {
		return entry.exists, nil
	}

	exists := true
	if _, err := d.svc.GetUserInfo(ctx, assigneeID); err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			return false, err
		}
		exists = false
	}

	d.mu.Lock()
	d.cache[assigneeID] = cacheEntry{exists: exists, expiresAt: now.Add(d.ttl)}
	d.mu.Unlock()

	return exists, nil
}

// Warm loads every workspace user into the cache
func (d *Directory) Warm(ctx context.Context) (int, error) {
	users, err := d.svc.ListUsers(ctx)
	if err != nil {
		return 0, err
	}

	expiresAt := d.now().Add(d.ttl)
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range users {
		d.cache[u.ID] = cacheEntry{exists: true, expiresAt: expiresAt}
	}
	return len(users), nil
}
