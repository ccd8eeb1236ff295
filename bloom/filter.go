// Package bloom suppresses duplicate work items with a Bloom filter.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// DefaultFalsePositiveRate is used when a batch is sized by NewForBatch.
const DefaultFalsePositiveRate = 0.0001

// Filter remembers keys seen during one batch. A false positive drops an
// item that was not actually seen before; false negatives do not occur.
// Filter is not safe for concurrent use.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a filter sized for n keys at the given false positive
// rate.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = 1
	}
	return &Filter{f: bloom.NewWithEstimates(n, fpRate)}
}

// NewForBatch creates a filter sized for a batch of n keys.
func NewForBatch(n int) *Filter {
	return NewFilter(uint(n), DefaultFalsePositiveRate)
}

// Add records key.
func (f *Filter) Add(key string) {
	f.f.AddString(key)
}

// Test reports whether key may have been recorded.
func (f *Filter) Test(key string) bool {
	return f.f.TestString(key)
}

// FirstSeen records key and reports whether it had not been seen before.
func (f *Filter) FirstSeen(key string) bool {
	return !f.f.TestAndAddString(key)
}

// EstimatedCount returns the approximate number of keys recorded.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
