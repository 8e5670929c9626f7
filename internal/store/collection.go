package store

import (
	"fmt"
	"time"

	"club_admin_backend/internal/models"
)

// Collection is one entity kind held by an EntityStore.
// All collections of a store share the store's lock.
type Collection[E any] struct {
	name  string
	owner *EntityStore
	items []E

	meta  func(*E) *models.Base
	club  func(*E) string
	clone func(E) E
}

func newCollection[E any](owner *EntityStore, name string, meta func(*E) *models.Base, club func(*E) string, clone func(E) E) *Collection[E] {
	return &Collection[E]{name: name, owner: owner, meta: meta, club: club, clone: clone}
}

// Name returns the collection name used in events and metrics.
func (c *Collection[E]) Name() string { return c.name }

func (c *Collection[E]) copyOf(e E) E {
	if c.clone != nil {
		return c.clone(e)
	}
	return e
}

func (c *Collection[E]) indexOf(id string) int {
	for i := range c.items {
		if c.meta(&c.items[i]).ID == id {
			return i
		}
	}
	return -1
}

// SetAll replaces the whole collection. Nothing is validated.
func (c *Collection[E]) SetAll(items []E) {
	c.owner.mu.Lock()
	c.setAllLocked(items)
	c.owner.mu.Unlock()

	c.owner.notify(Event{Collection: c.name, Action: ActionSet})
}

func (c *Collection[E]) setAllLocked(items []E) {
	c.items = make([]E, 0, len(items))
	for _, e := range items {
		c.items = append(c.items, c.copyOf(e))
	}
}

// Add appends e. Zero timestamps are stamped with the store clock.
// An empty id or one already present yields ErrDuplicateID and leaves the collection unchanged.
func (c *Collection[E]) Add(e E) error {
	c.owner.mu.Lock()
	if c.owner.closed {
		c.owner.mu.Unlock()
		return ErrStoreClosed
	}
	m := c.meta(&e)
	if m.ID == "" {
		c.owner.mu.Unlock()
		return fmt.Errorf("%w: %s id must not be empty", ErrDuplicateID, c.name)
	}
	if c.indexOf(m.ID) >= 0 {
		c.owner.mu.Unlock()
		return fmt.Errorf("%w: %s %s", ErrDuplicateID, c.name, m.ID)
	}
	now := c.owner.now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = now
	}
	id := m.ID
	c.items = append(c.items, c.copyOf(e))
	c.owner.mu.Unlock()

	c.owner.notify(Event{Collection: c.name, Action: ActionAdd, ID: id})
	return nil
}

// Update replaces the element with e's id and stamps updatedAt.
// It reports false, changing nothing, when no element matches.
func (c *Collection[E]) Update(e E) bool {
	c.owner.mu.Lock()
	m := c.meta(&e)
	i := c.indexOf(m.ID)
	if c.owner.closed || i < 0 {
		c.owner.mu.Unlock()
		return false
	}
	prev := c.meta(&c.items[i])
	if m.CreatedAt.IsZero() {
		m.CreatedAt = prev.CreatedAt
	}
	m.UpdatedAt = nextStamp(c.owner.now(), prev.UpdatedAt)
	id := m.ID
	c.items[i] = c.copyOf(e)
	c.owner.mu.Unlock()

	c.owner.notify(Event{Collection: c.name, Action: ActionUpdate, ID: id})
	return true
}

// nextStamp returns now, or the smallest instant after prev when the clock has not advanced.
func nextStamp(now, prev time.Time) time.Time {
	if now.After(prev) {
		return now
	}
	return prev.Add(time.Nanosecond)
}

// Remove filters out the element with id. Removing a missing id is a no-op and reports false.
func (c *Collection[E]) Remove(id string) bool {
	c.owner.mu.Lock()
	i := c.indexOf(id)
	if i < 0 {
		c.owner.mu.Unlock()
		return false
	}
	c.items = append(c.items[:i:i], c.items[i+1:]...)
	c.owner.mu.Unlock()

	c.owner.notify(Event{Collection: c.name, Action: ActionDelete, ID: id})
	return true
}

// QueryByClub returns the elements whose clubId equals clubID, in insertion order.
// Collections without a club scope always return an empty slice.
func (c *Collection[E]) QueryByClub(clubID string) []E {
	c.owner.mu.RLock()
	defer c.owner.mu.RUnlock()

	out := []E{}
	if c.club == nil {
		return out
	}
	for i := range c.items {
		if c.club(&c.items[i]) == clubID {
			out = append(out, c.copyOf(c.items[i]))
		}
	}
	return out
}

// All returns a copy of every element in insertion order.
func (c *Collection[E]) All() []E {
	c.owner.mu.RLock()
	defer c.owner.mu.RUnlock()

	out := make([]E, 0, len(c.items))
	for _, e := range c.items {
		out = append(out, c.copyOf(e))
	}
	return out
}

// Get looks an element up by id.
func (c *Collection[E]) Get(id string) (E, bool) {
	c.owner.mu.RLock()
	defer c.owner.mu.RUnlock()

	var zero E
	i := c.indexOf(id)
	if i < 0 {
		return zero, false
	}
	return c.copyOf(c.items[i]), true
}

// Len returns the number of elements.
func (c *Collection[E]) Len() int {
	c.owner.mu.RLock()
	defer c.owner.mu.RUnlock()
	return len(c.items)
}

// Meta exposes the identity of e for generic callers.
func (c *Collection[E]) Meta(e *E) *models.Base { return c.meta(e) }

// ClubOf returns the club scope of e, or "" for unscoped collections.
func (c *Collection[E]) ClubOf(e *E) string {
	if c.club == nil {
		return ""
	}
	return c.club(e)
}
