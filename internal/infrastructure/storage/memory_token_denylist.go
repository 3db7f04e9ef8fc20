package storage

import (
	"context"
	"sync"
	"time"

	"tomato-health/internal/domain/port"
)

// MemoryTokenDenylist хранит отозванные токены в памяти процесса
type MemoryTokenDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryTokenDenylist() *MemoryTokenDenylist {
	return &MemoryTokenDenylist{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (d *MemoryTokenDenylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.revoked[tokenID] = until
	d.evictExpired()
	return nil
}

func (d *MemoryTokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	until, ok := d.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if d.now().After(until) {
		delete(d.revoked, tokenID)
		return false, nil
	}
	return true, nil
}

// evictExpired чистит записи с истёкшим сроком, вызывается под мьютексом
func (d *MemoryTokenDenylist) evictExpired() {
	now := d.now()
	for id, until := range d.revoked {
		if now.After(until) {
			delete(d.revoked, id)
		}
	}
}

// Проверка реализации интерфейса
var _ port.TokenDenylist = (*MemoryTokenDenylist)(nil)
