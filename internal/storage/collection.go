package storage

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// collection is one persisted list of entities. Every operation reads the
// whole list from the backend, changes it and writes it back while holding
// the collection lock.
type collection[T any] struct {
	key  string
	mu   sync.Mutex
	seed func() []T
	id   func(*T) *string
}

// load must be called with c.mu held. A missing or unreadable document is
// seeded and written back; a backend error yields the seed without writing,
// so the stored data is left alone.
func (c *collection[T]) load(ctx context.Context, s *Store) []T {
	data, err := s.backend.Get(ctx, c.key)
	switch {
	case errors.Is(err, ErrNotFound):
		return c.initialize(ctx, s)
	case err != nil:
		s.logger.Warn("failed to read collection, using defaults", zap.String("key", c.key), zap.Error(err))
		return c.defaults()
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn("corrupt collection, reinitializing", zap.String("key", c.key), zap.Error(err))
		return c.initialize(ctx, s)
	}
	if items == nil {
		items = []T{}
	}
	return items
}

func (c *collection[T]) defaults() []T {
	if c.seed == nil {
		return []T{}
	}
	return c.seed()
}

func (c *collection[T]) initialize(ctx context.Context, s *Store) []T {
	items := c.defaults()
	c.save(ctx, s, items)
	return items
}

// save must be called with c.mu held. Failures are logged and swallowed.
func (c *collection[T]) save(ctx context.Context, s *Store, items []T) {
	data, err := json.Marshal(items)
	if err != nil {
		s.logger.Warn("failed to encode collection", zap.String("key", c.key), zap.Error(err))
		return
	}
	if err := s.backend.Put(ctx, c.key, data); err != nil {
		s.logger.Warn("failed to write collection", zap.String("key", c.key), zap.Error(err))
	}
}

func (c *collection[T]) all(ctx context.Context, s *Store) []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx, s)
}

func (c *collection[T]) byID(ctx context.Context, s *Store, id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.load(ctx, s) {
		if *c.id(&item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (c *collection[T]) create(ctx context.Context, s *Store, item T) T {
	c.mu.Lock()
	defer c.mu.Unlock()
	*c.id(&item) = s.NewID()
	items := append(c.load(ctx, s), item)
	c.save(ctx, s, items)
	return item
}

// put replaces the entity with the same id or appends it.
func (c *collection[T]) put(ctx context.Context, s *Store, item T) T {
	c.mu.Lock()
	defer c.mu.Unlock()
	if *c.id(&item) == "" {
		*c.id(&item) = s.NewID()
	}
	items := c.load(ctx, s)
	for i := range items {
		if *c.id(&items[i]) == *c.id(&item) {
			items[i] = item
			c.save(ctx, s, items)
			return item
		}
	}
	c.save(ctx, s, append(items, item))
	return item
}

// update applies fn to the entity with id. It never creates. The id field
// is restored after fn runs.
func (c *collection[T]) update(ctx context.Context, s *Store, id string, fn func(*T)) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := c.load(ctx, s)
	for i := range items {
		if *c.id(&items[i]) != id {
			continue
		}
		fn(&items[i])
		*c.id(&items[i]) = id
		c.save(ctx, s, items)
		return items[i], true
	}
	var zero T
	return zero, false
}

func (c *collection[T]) remove(ctx context.Context, s *Store, id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := c.load(ctx, s)
	for i := range items {
		if *c.id(&items[i]) == id {
			c.save(ctx, s, append(items[:i], items[i+1:]...))
			return true
		}
	}
	return false
}
