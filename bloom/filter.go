// Package bloom deduplicates discovered post URLs. A Bloom filter
// answers the cheap common case; hits are confirmed against an exact
// set, so a false positive can never drop a post.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter records URLs and reports repeats. Safe for concurrent use.
type Filter struct {
	mu    sync.Mutex
	bloom *bloom.BloomFilter
	exact map[string]bool
}

// NewFilter creates an empty filter sized for n expected URLs with the
// given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		bloom: bloom.NewWithEstimates(n, fpRate),
		exact: make(map[string]bool),
	}
}

// Seen records the URL and reports whether it had been recorded before.
// A Bloom miss is a definitive no; a hit is only trusted after the
// exact set confirms it.
func (f *Filter) Seen(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.bloom.TestString(url) && f.exact[url] {
		return true
	}
	f.bloom.AddString(url)
	f.exact[url] = true
	return false
}

// Len returns the number of distinct URLs recorded.
func (f *Filter) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.exact)
}
