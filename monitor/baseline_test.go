package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaselinesRecord(t *testing.T) {
	b := NewBaselines()

	_, ok := b.Record(7, time.Second)
	assert.False(t, ok)

	prev, ok := b.Record(7, 3*time.Second)
	assert.True(t, ok)
	assert.Equal(t, time.Second, prev)
}

func TestBaselinesInvalidateNewIsNotUsable(t *testing.T) {
	b := NewBaselines()
	b.Invalidate(9)
	assert.True(t, b.Has(9))

	_, ok := b.Record(9, time.Second)
	assert.False(t, ok)
}

func TestBaselinesInvalidate(t *testing.T) {
	b := NewBaselines()
	b.Record(5, time.Second)

	b.Mark()
	b.Invalidate(5)
	b.Compact()
	require.True(t, b.Has(5))

	_, ok := b.Record(5, 3*time.Second)
	assert.False(t, ok)

	prev, ok := b.Record(5, 4*time.Second)
	assert.True(t, ok)
	assert.Equal(t, 3*time.Second, prev)
}

func TestBaselinesCompact(t *testing.T) {
	b := NewBaselines()
	b.Record(1, 0)
	b.Record(2, 0)
	b.Record(3, 0)

	b.Mark()
	b.Record(1, time.Second)
	b.Invalidate(3)
	b.Compact()

	assert.Equal(t, 2, b.Len())
	assert.True(t, b.Has(1))
	assert.False(t, b.Has(2))
	assert.True(t, b.Has(3))
}
