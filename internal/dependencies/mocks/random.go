package mocks

import (
	"github.com/kmicah/cardtable-go/internal/dependencies/random"
)

// MockRandom is a deterministic implementation of Random for testing.
// Intn returns queued values (0 when exhausted) and Shuffle is a no-op, so
// a freshly built shoe keeps its construction order.
type MockRandom struct {
	IntnResults []int
	intnIndex   int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 if none remaining
func (r *MockRandom) Intn(n int) int {
	if r.intnIndex >= len(r.IntnResults) {
		return 0
	}
	result := r.IntnResults[r.intnIndex]
	r.intnIndex++
	return result
}

// Shuffle leaves the order unchanged
func (r *MockRandom) Shuffle(n int, swap func(i, j int)) {}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.IntnResults = append(r.IntnResults, values...)
}
