package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntervalContains(t *testing.T) {
	iv := Interval{Start: 5, End: 10}
	assert.True(t, iv.Contains(5))
	assert.True(t, iv.Contains(10))
	assert.True(t, iv.Contains(7))
	assert.False(t, iv.Contains(4.999))
	assert.False(t, iv.Contains(10.001))
}

func TestIntervalOverlaps(t *testing.T) {
	a := Interval{Start: 0, End: 5}
	b := Interval{Start: 5, End: 10}
	c := Interval{Start: 6, End: 10}

	assert.True(t, a.Overlaps(b), "touching at a single instant counts as overlap")
	assert.False(t, a.Overlaps(c))
}

func TestIntervalIntersect(t *testing.T) {
	a := Interval{Start: 0, End: 10}
	b := Interval{Start: 4, End: 20}

	got, ok := a.Intersect(b)
	assert.True(t, ok)
	assert.Equal(t, Interval{Start: 4, End: 10}, got)

	_, ok = a.Intersect(Interval{Start: 11, End: 12})
	assert.False(t, ok)
}
