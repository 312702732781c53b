package mocks

import (
	"sync"

	"github.com/mcoot/fluency-harness/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing.
// Queued results are returned first; after that each call returns
// a distinct deterministic sequence so generated tokens never collide.
type MockRandom struct {
	mu      sync.Mutex
	results [][]byte
	index   int
	counter byte

	// Err, when set, is returned from every call
	Err error
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Bytes returns the next queued result, or a counter-derived fill
func (r *MockRandom) Bytes(n int) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	if r.index < len(r.results) {
		result := r.results[r.index]
		r.index++
		return result, nil
	}

	r.counter++
	b := make([]byte, n)
	for i := range b {
		b[i] = r.counter
	}
	return b, nil
}

// QueueBytes adds values to the result queue
func (r *MockRandom) QueueBytes(values ...[]byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, values...)
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = nil
	r.index = 0
	r.counter = 0
	r.Err = nil
}
