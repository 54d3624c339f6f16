package apollo

import (
	"sort"
	"sync"
)

// LabelCache remembers the last label set this process wrote for each
// entity. Apollo's read endpoints return label_ids, which cannot be fed
// back into the writable label_names field, so the last written set is
// the only label state the process can trust.
//
// Entries live for the lifetime of the process: no eviction, no TTL,
// no persistence. An entry may be stale if another client mutated the
// entity out of band.
type LabelCache struct {
	mu     sync.Mutex
	labels map[string][]string
}

func NewLabelCache() *LabelCache {
	return &LabelCache{labels: make(map[string][]string)}
}

// Get returns the known label set for id. ok is false when the entity
// has never been recorded in this process.
func (c *LabelCache) Get(id string) (names []string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stored, ok := c.labels[id]
	if !ok {
		return nil, false
	}
	out := make([]string, len(stored))
	copy(out, stored)
	return out, true
}

// Set unconditionally records names as the entity's label set. Called
// after every successful label write.
func (c *LabelCache) Set(id string, names []string) {
	normalized := normalizeLabels(names)
	c.mu.Lock()
	c.labels[id] = normalized
	c.mu.Unlock()
}

// Seed records names only when the entity is unknown. Used right after
// a create, where the labels come from the request payload (the create
// response does not echo label_names). A later Set always wins over a
// Seed, never the other way around.
func (c *LabelCache) Seed(id string, names []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.labels[id]; ok {
		return
	}
	c.labels[id] = normalizeLabels(names)
}

// Len reports how many entities have a recorded label set.
func (c *LabelCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.labels)
}

// normalizeLabels copies, deduplicates, and sorts a label set. The
// result is never nil so a cached entry always marshals as [].
func normalizeLabels(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
