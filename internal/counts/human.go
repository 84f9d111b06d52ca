// Package counts renders quantities (mostly byte counts) for humans.
package counts

import (
	"fmt"
)

type Prefix struct {
	Name       string
	Multiplier uint64
}

var MetricPrefixes = []Prefix{
	{"", 1},
	{"k", 1e3},
	{"M", 1e6},
	{"G", 1e9},
	{"T", 1e12},
	{"P", 1e15},
}

var BinaryPrefixes = []Prefix{
	{"", 1 << (10 * 0)},
	{"Ki", 1 << (10 * 1)},
	{"Mi", 1 << (10 * 2)},
	{"Gi", 1 << (10 * 3)},
	{"Ti", 1 << (10 * 4)},
	{"Pi", 1 << (10 * 5)},
}

// Human formats `n` using the largest of `prefixes` that fits, with
// three significant digits, and returns the number and the prefixed
// unit separately.
func Human(n uint64, prefixes []Prefix, unit string) (string, string) {
	prefix := prefixes[0]
	wholePart := n
	for _, p := range prefixes {
		w := n / p.Multiplier
		if w >= 1 {
			wholePart = w
			prefix = p
		}
	}

	if prefix.Multiplier == 1 {
		return fmt.Sprintf("%d", n), unit
	}

	mantissa := float64(n) / float64(prefix.Multiplier)
	var format string
	switch {
	case wholePart >= 100:
		// `mantissa` can actually be up to 1023.999.
		format = "%.0f"
	case wholePart >= 10:
		format = "%.1f"
	default:
		format = "%.2f"
	}
	return fmt.Sprintf(format, mantissa), prefix.Name + unit
}

// Bytes formats a byte count, e.g., "1.21 KiB".
func Bytes(n int) string {
	if n < 0 {
		n = 0
	}
	number, unit := Human(uint64(n), BinaryPrefixes, "B")
	return number + " " + unit
}
