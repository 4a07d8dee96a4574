package set

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func bitsOf(k ...int) (s Bits[int]) {
	for _, k := range k {
		s.Set(k)
	}

	return s
}

func TestBits(t *testing.T) {
	var s Bits[int]

	assert.Equal(t, 0, s.Size())
	assert.Empty(t, s.Slice())

	s = bitsOf(3, 70, 1, 3)

	assert.Equal(t, 3, s.Size())
	assert.Equal(t, []int{1, 3, 70}, s.Slice())

	assert.True(t, bitsOf(1, 3, 70).Equal(s))
	assert.False(t, bitsOf(1, 3).Equal(s))
	assert.True(t, Bits[int]{b: []uint64{0, 0}}.Equal(Bits[int]{}))
}

func TestBitsRangeStop(t *testing.T) {
	var got []int

	bitsOf(1, 2, 65).Range(func(k int) bool {
		got = append(got, k)
		return k < 2
	})

	assert.Equal(t, []int{1, 2}, got)
}

func TestBitsMerge(t *testing.T) {
	s := bitsOf(2)
	s.Merge(bitsOf(100, 2, 5))

	assert.Equal(t, []int{2, 5, 100}, s.Slice())

	var e Bits[int]
	e.Merge(s)

	assert.True(t, e.Equal(s))
}

func TestBitsNegative(t *testing.T) {
	var s Bits[int]

	assert.Panics(t, func() { s.Set(-1) })
}

func TestBitmapFirstClear(t *testing.T) {
	s := MakeBitmap(10)

	assert.Equal(t, 0, s.FirstClear(10))

	for i := 0; i < 70; i++ {
		if i != 66 {
			s.Set(i)
		}
	}

	assert.Equal(t, 66, s.FirstClear(70))
	assert.Equal(t, -1, s.FirstClear(66))
	assert.Equal(t, 69, s.Size())
}
