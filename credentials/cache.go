// Package credentials holds the process-wide token delegate used to
// authorize outbound API calls.
package credentials

import (
	"context"
	"sync"
)

// Delegate resolves the current bearer token on demand. Implementations
// must not panic and report failures through the returned Resolution.
type Delegate func(ctx context.Context) Resolution

// Cache is a single-slot store for the current Delegate.
// Construct one per process and share it by pointer.
type Cache struct {
	mu       sync.RWMutex
	delegate Delegate
}

// NewCache creates an empty Cache
func NewCache() *Cache {
	return &Cache{}
}

// HasDelegate reports whether a delegate is registered
func (c *Cache) HasDelegate() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.delegate != nil
}

// SetDelegate registers d, discarding any previous delegate.
// A nil d is equivalent to Clear.
func (c *Cache) SetDelegate(d Delegate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.delegate = d
}

// Delegate returns the registered delegate, if any
func (c *Cache) Delegate() (Delegate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.delegate, c.delegate != nil
}

// Clear removes the registered delegate
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.delegate = nil
}

// Resolve invokes the registered delegate. The delegate is captured under
// the lock and run outside it, so a Clear landing mid-resolution does not
// affect the result of a call already in flight.
func (c *Cache) Resolve(ctx context.Context) Resolution {
	d, ok := c.Delegate()
	if !ok {
		return NoCredential()
	}
	return d(ctx)
}
