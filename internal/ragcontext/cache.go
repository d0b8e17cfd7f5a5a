package ragcontext

import (
	"container/list"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"
)

// Fingerprint derives the coarsened cache key: owner, categories sorted
// ascending, total floored to the nearest $100 bucket, and expense count.
// Two requests whose totals land in the same bucket collide on purpose —
// the coarsening trades context precision for hit rate.
func Fingerprint(userID string, summary Summary) string {
	cats := make([]string, len(summary.Categories))
	for i, c := range summary.Categories {
		cats[i] = string(c)
	}
	sort.Strings(cats)
	bucket := int(math.Floor(summary.TotalAmount/100)) * 100
	return fmt.Sprintf("%s|%s|%d|%d", userID, strings.Join(cats, ","), bucket, summary.ExpenseCount)
}

// Cache holds assembled context bundles for a short TTL. Expiry is checked
// lazily on read; an LRU bound caps memory for write-without-read patterns,
// which would otherwise grow without limit. The clock is injectable so TTL
// behavior is testable without real timers.
type Cache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	clock      func() time.Time
	ll         *list.List
	index      map[string]*list.Element
}

type cacheEntry struct {
	key       string
	items     []Item
	createdAt time.Time
}

func NewCache(ttl time.Duration, maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = 256
	}
	return &Cache{
		ttl:        ttl,
		maxEntries: maxEntries,
		clock:      time.Now,
		ll:         list.New(),
		index:      make(map[string]*list.Element),
	}
}

// WithClock overrides the time source, for tests.
func (c *Cache) WithClock(clock func() time.Time) *Cache {
	c.clock = clock
	return c
}

// Get returns the cached items for key, or false when absent or expired.
// An expired entry is deleted on access rather than swept proactively.
func (c *Cache) Get(key string) ([]Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.index[key]
	if !ok {
		return nil, false
	}
	entry := el.Value.(*cacheEntry)
	if c.clock().Sub(entry.createdAt) > c.ttl {
		c.removeLocked(el)
		return nil, false
	}
	c.ll.MoveToFront(el)
	return entry.items, true
}

// Put stores items under key, refreshing the creation timestamp and evicting
// the least recently used entry when the bound is exceeded.
func (c *Cache) Put(key string, items []Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.index[key]; ok {
		entry := el.Value.(*cacheEntry)
		entry.items = items
		entry.createdAt = c.clock()
		c.ll.MoveToFront(el)
		return
	}

	el := c.ll.PushFront(&cacheEntry{key: key, items: items, createdAt: c.clock()})
	c.index[key] = el

	for c.ll.Len() > c.maxEntries {
		oldest := c.ll.Back()
		if oldest == nil {
			break
		}
		c.removeLocked(oldest)
	}
}

// Len reports the number of live entries, expired ones included until read.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

func (c *Cache) removeLocked(el *list.Element) {
	entry := el.Value.(*cacheEntry)
	delete(c.index, entry.key)
	c.ll.Remove(el)
}
