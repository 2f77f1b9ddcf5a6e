package shopping

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/aggregate"
)

// ProgressStore persists the checked item keys of a user's week.
type ProgressStore interface {
	LoadChecked(ctx context.Context, userID, weekKey string) ([]string, error)
	SaveChecked(ctx context.Context, userID, weekKey string, keys []string) error
	DeleteWeek(ctx context.Context, userID, weekKey string) error
}

// WeekKey derives the storage key of a plan week.
func WeekKey(weekStart time.Time) string {
	return weekStart.Format(time.DateOnly)
}

// Checklist is the checked state of one shopping list.
// It is loaded once per view and written through on every toggle.
type Checklist struct {
	store   ProgressStore
	userID  string
	weekKey string

	mu      sync.Mutex
	checked map[string]struct{}
}

// LoadChecklist reads the stored progress for (userID, weekKey).
func LoadChecklist(ctx context.Context, store ProgressStore, userID, weekKey string) (*Checklist, error) {
	keys, err := store.LoadChecked(ctx, userID, weekKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping progress: %w", err)
	}

	c := &Checklist{
		store:   store,
		userID:  userID,
		weekKey: weekKey,
		checked: make(map[string]struct{}, len(keys)),
	}
	for _, k := range keys {
		c.checked[k] = struct{}{}
	}
	return c, nil
}

// IsChecked reports whether the item key is checked.
func (c *Checklist) IsChecked(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.checked[key]
	return ok
}

// Toggle flips an item and persists the whole set. On a failed write the
// in-memory state is restored.
func (c *Checklist) Toggle(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, was := c.checked[key]
	if was {
		delete(c.checked, key)
	} else {
		c.checked[key] = struct{}{}
	}

	if err := c.store.SaveChecked(ctx, c.userID, c.weekKey, c.keysLocked()); err != nil {
		if was {
			c.checked[key] = struct{}{}
		} else {
			delete(c.checked, key)
		}
		return was, fmt.Errorf("failed to save shopping progress: %w", err)
	}
	return !was, nil
}

// Keys returns the checked keys sorted.
func (c *Checklist) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.keysLocked()
}

func (c *Checklist) keysLocked() []string {
	keys := make([]string, 0, len(c.checked))
	for k := range c.checked {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Progress counts how many of the list's items are checked. Keys of items no
// longer on the list are ignored.
func (c *Checklist) Progress(items []Item) aggregate.Progress {
	return aggregate.ComputeProgress(items, func(item Item) bool { return c.IsChecked(item.Key) })
}
