// Package recordset holds compressed sets of record ids, used to collect
// and intersect current_eq/ever_eq query results without allocating a
// []uint64 per candidate set.
//
// The upstream RoaringBitmap/roaring/v2 bitmap only addresses 32-bit
// members, but Felix record ids are uint64 (§3). Set sharded on the high
// 32 bits of the id, with a roaring.Bitmap over the low 32 bits per shard —
// the same technique a sharded hash index would use, applied to bitmaps.
package recordset

import (
	"iter"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
)

// Set is a compressed, mutable set of uint64 record ids.
type Set struct {
	shards map[uint32]*roaring.Bitmap
}

// New returns an empty Set.
func New() *Set {
	return &Set{shards: make(map[uint32]*roaring.Bitmap)}
}

func split(id uint64) (hi, lo uint32) {
	return uint32(id >> 32), uint32(id)
}

// Add inserts id into the set.
func (s *Set) Add(id uint64) {
	hi, lo := split(id)
	b, ok := s.shards[hi]
	if !ok {
		b = roaring.New()
		s.shards[hi] = b
	}
	b.Add(lo)
}

// Contains reports whether id is in the set.
func (s *Set) Contains(id uint64) bool {
	hi, lo := split(id)
	b, ok := s.shards[hi]
	if !ok {
		return false
	}
	return b.Contains(lo)
}

// Cardinality returns the number of ids in the set.
func (s *Set) Cardinality() uint64 {
	var total uint64
	for _, b := range s.shards {
		total += b.GetCardinality()
	}
	return total
}

// And replaces s with its intersection with other, matching
// roaring.Bitmap.And's in-place convention.
func (s *Set) And(other *Set) {
	for hi, b := range s.shards {
		ob, ok := other.shards[hi]
		if !ok {
			delete(s.shards, hi)
			continue
		}
		b.And(ob)
		if b.IsEmpty() {
			delete(s.shards, hi)
		}
	}
}

// Or merges other into s, matching roaring.Bitmap.Or's in-place convention.
func (s *Set) Or(other *Set) {
	for hi, ob := range other.shards {
		b, ok := s.shards[hi]
		if !ok {
			s.shards[hi] = ob.Clone()
			continue
		}
		b.Or(ob)
	}
}

// All iterates every record id in the set in ascending order within each
// shard (shard order itself is unspecified — callers needing a total order
// should sort the collected ids).
func (s *Set) All() iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		for hi, b := range s.shards {
			it := b.Iterator()
			for it.HasNext() {
				lo := it.Next()
				if !yield(uint64(hi)<<32 | uint64(lo)) {
					return
				}
			}
		}
	}
}

// FromSlice builds a Set from a slice of record ids, e.g. the result of a
// store query.
func FromSlice(ids []uint64) *Set {
	s := New()
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// ToSortedSlice collects every id in the set into an ascending slice.
func (s *Set) ToSortedSlice() []uint64 {
	out := make([]uint64, 0, s.Cardinality())
	for id := range s.All() {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
