package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/harvest/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_AddAndTest(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.Test("https://example.com/search?q=a"))

	f.Add("https://example.com/search?q=a")

	assert.True(t, f.Test("https://example.com/search?q=a"))
	assert.False(t, f.Test("https://example.com/search?q=b"))
}

func TestFilter_FirstSeen(t *testing.T) {
	t.Parallel()

	f := bloom.NewForBatch(3)

	assert.True(t, f.FirstSeen("https://example.com/a"))
	assert.True(t, f.FirstSeen("https://example.com/b"))
	assert.False(t, f.FirstSeen("https://example.com/a"))
	assert.False(t, f.FirstSeen("https://example.com/b"))
}

func TestFilter_EstimatedCount(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)
	assert.Equal(t, uint(0), f.EstimatedCount())

	f.Add("https://example.com/page1")
	f.Add("https://example.com/page2")
	f.Add("https://example.com/page3")

	count := f.EstimatedCount()
	assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
}

func TestNewForBatch_EmptyBatch(t *testing.T) {
	t.Parallel()

	f := bloom.NewForBatch(0)
	assert.True(t, f.FirstSeen("https://example.com/"))
}

func TestFilter_LowFalsePositiveRate(t *testing.T) {
	t.Parallel()

	f := bloom.NewForBatch(500)
	for i := range 500 {
		f.Add(fmt.Sprintf("https://example.com/search?page=%d", i))
	}

	falsePositives := 0
	for i := range 1000 {
		if f.Test(fmt.Sprintf("https://other.example/search?page=%d", i)) {
			falsePositives++
		}
	}
	assert.Less(t, falsePositives, 5)
}
