package compiler

import "math/bits"

// idset is a fixed-capacity bitset over batch-local gate ids, mirroring the
// std::bitset<MAX_GATES> used by the original OneLayerCompiler. MAX_GATES is
// 2048 for SimpleCompiler and 512 for AdvanceCompiler (see §9 of the spec);
// both fit comfortably in a handful of uint64 words.
type idset struct {
	words []uint64
}

func newIDSet(maxGates int) idset {
	return idset{words: make([]uint64, (maxGates+63)/64)}
}

func (s idset) set(i int) {
	s.words[i/64] |= 1 << uint(i%64)
}

func (s idset) test(i int) bool {
	return s.words[i/64]&(1<<uint(i%64)) != 0
}

func (s idset) any() bool {
	for _, w := range s.words {
		if w != 0 {
			return true
		}
	}
	return false
}

func (s idset) count() int {
	n := 0
	for _, w := range s.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// orInto sets dst |= src, returning dst for chaining.
func (dst idset) orInto(src idset) idset {
	for i := range dst.words {
		dst.words[i] |= src.words[i]
	}
	return dst
}

func (dst idset) copyFrom(src idset) idset {
	copy(dst.words, src.words)
	return dst
}

// andNot clears every bit of dst that is set in src.
func (dst idset) andNot(src idset) idset {
	for i := range dst.words {
		dst.words[i] &^= src.words[i]
	}
	return dst
}

func (s idset) clone() idset {
	c := idset{words: make([]uint64, len(s.words))}
	copy(c.words, s.words)
	return c
}
