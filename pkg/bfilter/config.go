package bfilter

// Config holds the per-filter parameters the manager threads through to
// add_filter: either the manager-wide default, or a caller-supplied custom
// config owned by one wrapper.
type Config struct {
	// ExpectedItems sizes the bit array via bloom.NewWithEstimates.
	ExpectedItems uint `yaml:"expected_items"`
	// FalsePositiveRate is the target false-positive probability at
	// ExpectedItems insertions.
	FalsePositiveRate float64 `yaml:"false_positive_rate"`
	// InMemory mirrors filter_config.in_memory: true means unmap is a
	// no-op (there is nothing to page out) because the filter never
	// backs itself with files in the first place.
	InMemory bool `yaml:"in_memory"`
}

// DefaultConfig mirrors the manager's built-in default: a 1% false-positive
// rate at 10,000 expected items, matching the sizing tradik-mddb's
// BloomFilterManager.GetOrCreate falls back to for untuned collections.
func DefaultConfig() Config {
	return Config{
		ExpectedItems:     10000,
		FalsePositiveRate: 0.01,
		InMemory:          false,
	}
}
