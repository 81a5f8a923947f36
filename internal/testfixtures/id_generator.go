package testfixtures

import "sync"

// IDGenerator produces deterministic sequential identifiers for tests.
type IDGenerator struct {
	mu      sync.Mutex
	counter int64
}

// NewIDGenerator constructs a generator starting after the given offset. The
// first generated id is offset+1.
func NewIDGenerator(offset int64) *IDGenerator {
	return &IDGenerator{counter: offset}
}

// Next returns the next identifier in the sequence.
func (g *IDGenerator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return g.counter
}

// NextFunc exposes Next as a function suitable for dependency injection.
func (g *IDGenerator) NextFunc() func() int64 {
	if g == nil {
		return func() int64 { return 0 }
	}
	return g.Next
}

// SetCounter overrides the internal counter, enabling deterministic resets.
func (g *IDGenerator) SetCounter(counter int64) {
	g.mu.Lock()
	g.counter = counter
	g.mu.Unlock()
}
