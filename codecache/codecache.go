// Package codecache tracks the generations of emitted source and
// loaded plugins produced for each compiled method: a compiled-function
// cache that never stores machine code directly — only the path to the
// built plugin and the symbol a caller looks up through it, since this
// repo's JIT emits Go source text rather than machine code.
package codecache

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Generation is one build of a single method: the source it was built
// from, the plugin file it was built into, and bookkeeping for
// eviction and diagnostics.
type Generation struct {
	ID uuid.UUID

	FuncName   string
	SourcePath string
	PluginPath string
	Symbol     string

	BuiltAt time.Time

	ExecutionCount int64
}

// Cache maps a function name to its most recent Generation, evicting
// the oldest entry once MaxEntries is exceeded. It is safe for
// concurrent use.
type Cache struct {
	maxEntries int

	mu      sync.Mutex
	entries map[string]*Generation
	order   []string // insertion order, oldest first, for eviction
}

// New returns an empty Cache that holds at most maxEntries generations.
// maxEntries <= 0 means unbounded.
func New(maxEntries int) *Cache {
	return &Cache{
		maxEntries: maxEntries,
		entries:    make(map[string]*Generation),
	}
}

// Store records a freshly built generation for funcName, evicting the
// oldest entry first if the cache is full. Storing again under a name
// that already has a generation replaces it outright — a redefined
// method never shares a generation with its predecessor.
func (c *Cache) Store(funcName, sourcePath, pluginPath, symbol string, now time.Time) *Generation {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[funcName]; exists {
		// Replacing a live entry: drop its old position from order so
		// eviction never targets funcName's now-stale slot instead of
		// whatever is genuinely oldest.
		c.removeFromOrderLocked(funcName)
	} else if len(c.entries) >= c.maxEntries && c.maxEntries > 0 {
		c.evictOldestLocked()
	}

	gen := &Generation{
		ID:         uuid.New(),
		FuncName:   funcName,
		SourcePath: sourcePath,
		PluginPath: pluginPath,
		Symbol:     symbol,
		BuiltAt:    now,
	}
	c.entries[funcName] = gen
	c.order = append(c.order, funcName)
	return gen
}

func (c *Cache) removeFromOrderLocked(funcName string) {
	for i, name := range c.order {
		if name == funcName {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func (c *Cache) evictOldestLocked() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

// Lookup returns funcName's current generation, if any.
func (c *Cache) Lookup(funcName string) (*Generation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	gen, ok := c.entries[funcName]
	return gen, ok
}

// RecordExecution increments funcName's execution counter, used by
// diagnostics to show which generations are actually paying for their
// compilation cost.
func (c *Cache) RecordExecution(funcName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen, ok := c.entries[funcName]; ok {
		gen.ExecutionCount++
	}
}

// Len returns the number of live generations.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
