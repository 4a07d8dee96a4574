package set

import (
	"math/bits"

	"tlog.app/go/tlog/tlwire"
)

type (
	// Bitmap marks positions of a dense index space,
	// such as instruction indexes of a unit.
	Bitmap struct {
		b []uint64
	}
)

func MakeBitmap(n int) Bitmap {
	return Bitmap{b: make([]uint64, (n+63)/64)}
}

func (s *Bitmap) Set(i int) {
	i, j := i/64, i%64

	for i >= len(s.b) {
		s.b = append(s.b, 0)
	}

	s.b[i] |= 1 << j
}

func (s *Bitmap) Size() (r int) {
	for _, c := range s.b {
		r += bits.OnesCount64(c)
	}

	return r
}

// FirstClear returns the first position below n that is not set, or -1.
func (s *Bitmap) FirstClear(n int) int {
	for i := 0; i*64 < n; i++ {
		x := ^s.word(i)
		if x == 0 {
			continue
		}

		j := i*64 + bits.TrailingZeros64(x)
		if j >= n {
			break
		}

		return j
	}

	return -1
}

func (s Bitmap) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	b = e.AppendTag(b, tlwire.Array, -1)

	for i, x := range s.b {
		for x != 0 {
			j := bits.TrailingZeros64(x)
			x &^= 1 << j

			b = e.AppendInt(b, i*64+j)
		}
	}

	return e.AppendBreak(b)
}

func (s *Bitmap) word(i int) uint64 {
	if i < len(s.b) {
		return s.b[i]
	}

	return 0
}
