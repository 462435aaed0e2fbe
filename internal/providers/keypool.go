package providers

import (
	"fmt"
	"sync"
)

// APIKeyPool holds the configured Sportradar keys and tracks which one
// is active. All requests share the active key until a rotation is
// forced by an auth or rate limit rejection.
type APIKeyPool struct {
	mu    sync.Mutex
	keys  []string
	index int
}

// NewAPIKeyPool builds a pool from the configured key list.
func NewAPIKeyPool(keys []string) (*APIKeyPool, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("at least one API key is required")
	}
	return &APIKeyPool{keys: keys}, nil
}

// Current returns the active key.
func (p *APIKeyPool) Current() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.keys[p.index]
}

// Rotate advances to the next key, wrapping around past the last one,
// and returns the new active key.
func (p *APIKeyPool) Rotate() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.index = (p.index + 1) % len(p.keys)
	return p.keys[p.index]
}

// Size returns the number of keys in the pool.
func (p *APIKeyPool) Size() int {
	return len(p.keys)
}
