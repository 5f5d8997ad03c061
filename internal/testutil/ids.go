package testutil

import (
	"fmt"
	"sync"
)

// IDGenerator hands out sequential IDs with a fixed prefix instead of
// random UUIDs. The same test always sees id-0001, id-0002, ...
// Implements client.IDGenerator.
type IDGenerator struct {
	mu     sync.Mutex
	prefix string
	next   int
}

// NewIDGenerator creates a generator. An empty prefix defaults to
// "test-id".
func NewIDGenerator(prefix string) *IDGenerator {
	if prefix == "" {
		prefix = "test-id"
	}
	return &IDGenerator{prefix: prefix, next: 1}
}

// NewID returns the next sequential ID.
func (g *IDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := fmt.Sprintf("%s-%04d", g.prefix, g.next)
	g.next++
	return id
}
