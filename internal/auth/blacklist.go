package auth

import (
	"sync"
	"time"
)

// Blacklist is a concurrency-safe set of logged-out tokens. Entries carry
// the token's natural expiry so stale ones can be evicted instead of
// accumulating until process restart.
type Blacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewBlacklist() *Blacklist {
	return &Blacklist{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke adds the token to the set until expiresAt. Idempotent.
func (b *Blacklist) Revoke(token string, expiresAt time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.evictLocked()
	b.revoked[token] = expiresAt
}

// Contains reports whether the token is blacklisted and not yet expired.
func (b *Blacklist) Contains(token string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	expiresAt, ok := b.revoked[token]
	if !ok {
		return false
	}
	if b.now().After(expiresAt) {
		delete(b.revoked, token)
		return false
	}
	return true
}

// Len reports the number of tracked tokens, expired entries included.
func (b *Blacklist) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.revoked)
}

// evictLocked drops entries whose tokens have expired on their own.
// Callers must hold b.mu.
func (b *Blacklist) evictLocked() {
	now := b.now()
	for token, expiresAt := range b.revoked {
		if now.After(expiresAt) {
			delete(b.revoked, token)
		}
	}
}
