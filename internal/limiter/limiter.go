// Package limiter trims listings to a window of records: the first n, a page
// after an offset, or the last n.
package limiter

import (
	"fmt"
)

// Config holds the record-limiting parameters.
type Config struct {
	Limit  int // Show only this many records (0 = unlimited)
	Offset int // Skip the first N records (0 = no skip)
	Tail   int // Show only the last N records (0 = disabled); mutually exclusive with Limit
}

// Validate checks for conflicting flag combinations and returns an error if invalid.
// Rules:
// - Limit and Tail are mutually exclusive
// - If Tail is set, Offset is ignored
// - All numeric values must be non-negative
func (c Config) Validate() error {
	if c.Limit < 0 {
		return fmt.Errorf("--limit must be non-negative, got %d", c.Limit)
	}
	if c.Offset < 0 {
		return fmt.Errorf("--offset must be non-negative, got %d", c.Offset)
	}
	if c.Tail < 0 {
		return fmt.Errorf("--tail must be non-negative, got %d", c.Tail)
	}
	if c.Limit > 0 && c.Tail > 0 {
		return fmt.Errorf("--limit and --tail are mutually exclusive")
	}
	return nil
}

// IsActive returns true if any limiting is configured.
func (c Config) IsActive() bool {
	return c.Limit > 0 || c.Offset > 0 || c.Tail > 0
}

// Window returns the half-open range [start, end) of a listing of length n
// that the configuration keeps.
func (c Config) Window(n int) (start, end int) {
	if c.Tail > 0 {
		return max(0, n-c.Tail), n
	}
	start = min(c.Offset, n)
	end = n
	if c.Limit > 0 {
		end = min(start+c.Limit, n)
	}
	return start, end
}

// Apply returns the records of items the configuration keeps. The result
// shares items' backing array.
func Apply[T any](c Config, items []T) []T {
	if !c.IsActive() {
		return items
	}
	start, end := c.Window(len(items))
	return items[start:end]
}
