package token

import (
	"context"
	"sync"
	"time"
)

// Denylist holds the jti of access tokens that were revoked before they expired.
// Entries only need to live until the token's own expiry.
type Denylist interface {
	Deny(ctx context.Context, jti string, until time.Time) error
	IsDenied(ctx context.Context, jti string) (bool, error)
}

var _ Denylist = (*MemoryDenylist)(nil)

// MemoryDenylist keeps entries in a map and prunes lapsed ones on every Deny.
type MemoryDenylist struct {
	lock    sync.RWMutex
	entries map[string]time.Time
	nowFunc func() time.Time
}

func NewMemoryDenylist(now func() time.Time) *MemoryDenylist {
	if now == nil {
		now = time.Now
	}
	return &MemoryDenylist{entries: make(map[string]time.Time), nowFunc: now}
}

func (d *MemoryDenylist) Deny(_ context.Context, jti string, until time.Time) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	now := d.nowFunc()
	for id, exp := range d.entries {
		if !exp.After(now) {
			delete(d.entries, id)
		}
	}
	if until.After(now) {
		d.entries[jti] = until
	}
	return nil
}

func (d *MemoryDenylist) IsDenied(_ context.Context, jti string) (bool, error) {
	d.lock.RLock()
	defer d.lock.RUnlock()
	until, ok := d.entries[jti]
	return ok && until.After(d.nowFunc()), nil
}

// Len is the number of entries currently held, lapsed or not.
func (d *MemoryDenylist) Len() int {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return len(d.entries)
}
