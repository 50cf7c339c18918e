package retry

import "sync"

// Budget counts the manual retries left for a failed view. It starts at the
// policy's attempt count and never goes below zero.
type Budget struct {
	mu        sync.Mutex
	remaining int
}

// NewBudget returns a budget holding n retries.
func NewBudget(n int) *Budget {
	if n < 0 {
		n = 0
	}
	return &Budget{remaining: n}
}

// Use consumes one retry and reports whether one was available.
func (b *Budget) Use() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.remaining == 0 {
		return false
	}
	b.remaining--
	return true
}

// Remaining returns the retries left.
func (b *Budget) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.remaining
}
