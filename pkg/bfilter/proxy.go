package bfilter

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// ProxiedFilter is the in-memory-only underlying filter. It never creates a
// bloomd.<name> directory and always reports IsProxied() == true, which
// per spec.md §4.4 is the only kind of filter the manager's clear operation
// may act on: Flush and Delete are no-ops (nothing on disk) and
// Close/Destroy only drop the in-memory bitset.
type ProxiedFilter struct {
	mu    sync.RWMutex
	name  string
	bloom *bloom.BloomFilter
}

func newProxiedFilter(name string, config Config) *ProxiedFilter {
	return &ProxiedFilter{
		name:  name,
		bloom: bloom.NewWithEstimates(config.ExpectedItems, config.FalsePositiveRate),
	}
}

func (f *ProxiedFilter) Name() string { return f.name }

func (f *ProxiedFilter) Contains(key []byte) (bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.bloom.Test(key), nil
}

func (f *ProxiedFilter) Add(key []byte) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	alreadyPresent := f.bloom.Test(key)
	f.bloom.Add(key)
	return !alreadyPresent, nil
}

// Flush is a no-op: a proxied filter has no backing file.
func (f *ProxiedFilter) Flush() error { return nil }

// Close drops the in-memory bitset; there is nothing else to release.
func (f *ProxiedFilter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bloom = nil
	return nil
}

// Delete is a no-op: there are no on-disk files to remove.
func (f *ProxiedFilter) Delete() error { return nil }

func (f *ProxiedFilter) Destroy() error { return f.Close() }

func (f *ProxiedFilter) IsProxied() bool { return true }

func (f *ProxiedFilter) Stats() Stats {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.bloom == nil {
		return Stats{}
	}
	return Stats{
		Capacity:    f.bloom.Cap(),
		ApproxItems: f.bloom.ApproximatedSize(),
	}
}
