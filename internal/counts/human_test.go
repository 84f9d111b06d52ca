package counts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/runsascoded/dffs/internal/counts"
)

type humanTest struct {
	n            uint64
	number, unit string
}

func TestMetric(t *testing.T) {
	assert := assert.New(t)

	for _, ht := range []humanTest{
		{0, "0", "cd"},
		{999, "999", "cd"},
		{1000, "1.00", "kcd"},
		{1094, "1.09", "kcd"},
		{9999, "10.00", "kcd"}, // Not ideal, but ok
		{10060, "10.1", "kcd"},
		{100000, "100", "kcd"},
		{1000000, "1.00", "Mcd"},
		{1000000000000000, "1.00", "Pcd"},
		{0xffffffffffffffff, "18447", "Pcd"},
	} {
		number, unit := counts.Human(ht.n, counts.MetricPrefixes, "cd")
		assert.Equalf(ht.number, number, "Number for %d in metric", ht.n)
		assert.Equalf(ht.unit, unit, "Unit for %d in metric", ht.n)
	}
}

func TestBinary(t *testing.T) {
	assert := assert.New(t)

	for _, ht := range []humanTest{
		{0, "0", "B"},
		{1023, "1023", "B"},
		{1024, "1.00", "KiB"},
		{1234, "1.21", "KiB"},
		{1048575, "1024", "KiB"}, // Not ideal, but ok
		{1048576, "1.00", "MiB"},
		{0xffffffffffffffff, "16384", "PiB"},
	} {
		number, unit := counts.Human(ht.n, counts.BinaryPrefixes, "B")
		assert.Equalf(ht.number, number, "Number for %d in binary", ht.n)
		assert.Equalf(ht.unit, unit, "Unit for %d in binary", ht.n)
	}
}

func TestBytes(t *testing.T) {
	assert.Equal(t, "0 B", counts.Bytes(0))
	assert.Equal(t, "0 B", counts.Bytes(-5))
	assert.Equal(t, "1.21 KiB", counts.Bytes(1234))
	assert.Equal(t, "1.00 MiB", counts.Bytes(1<<20))
}
