// Package roles serves role/permission definitions through an in-process
// read-through cache. This is the only shared mutable state kept in memory;
// it is a convenience cache, not a correctness-critical path.
package roles

import (
	"context"
	"sync"

	"freightbroker/models"
	"freightbroker/repository"
)

type Cache struct {
	repo repository.RoleRepository

	mu      sync.RWMutex
	entries map[string]*models.Role
}

func NewCache(repo repository.RoleRepository) *Cache {
	return &Cache{repo: repo, entries: make(map[string]*models.Role)}
}

// Get returns the role definition, loading it from the store on first use.
// A missing role is cached as nil so repeated lookups stay cheap.
func (c *Cache) Get(ctx context.Context, name string) (*models.Role, error) {
	c.mu.RLock()
	role, ok := c.entries[name]
	c.mu.RUnlock()
	if ok {
		return role, nil
	}

	role, err := c.repo.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[name] = role
	c.mu.Unlock()
	return role, nil
}

// Save writes through to the store and invalidates the cached entry, so the
// next Get observes the mutation.
func (c *Cache) Save(ctx context.Context, role *models.Role) error {
	if err := c.repo.Upsert(ctx, role); err != nil {
		return err
	}
	c.Invalidate(role.Name)
	return nil
}

func (c *Cache) DeleteRole(ctx context.Context, name string) (bool, error) {
	deleted, err := c.repo.Delete(ctx, name)
	if err != nil {
		return false, err
	}
	c.Invalidate(name)
	return deleted, nil
}

func (c *Cache) Invalidate(name string) {
	c.mu.Lock()
	delete(c.entries, name)
	c.mu.Unlock()
}
