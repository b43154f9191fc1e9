// Package stylesheet implements the C6 stylesheet store: an element-name-id
// indexed bucket array with a push/pop snapshot stack for document-fragment
// scoping, grounded on css/types.go's Stylesheet/MediaBlock shape (the
// bucket-array representation itself is new — the teacher's flat Items
// slice has no indexing — and is built the way lvstsheet.h's selector
// table is organised: buckets keyed by rightmost element name, index 0
// reserved for the universal bucket).
package stylesheet

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/koreader/crengine-sub001/domid"
	"github.com/koreader/crengine-sub001/selector"
)

// Store holds compiled selectors indexed by the selector's rightmost
// element-name id (§4.6). Selectors within a bucket are sorted ascending
// by specificity; the sequence number baked into each selector's low 9
// bits separates otherwise-equal selectors, so ties occur only once that
// number wraps after 512 insertions.
type Store struct {
	log        *zap.Logger
	buckets    map[domid.ElementNameID][]*selector.Selector
	seq        uint32
	stack      []snapshot
	fragAlloc  fragmentAllocator
}

type snapshot struct {
	buckets map[domid.ElementNameID][]*selector.Selector
	seq     uint32
}

// NewStore creates an empty stylesheet store.
func NewStore(log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		log:     log.Named("css-stylesheet"),
		buckets: make(map[domid.ElementNameID][]*selector.Selector),
	}
}

// Insert adds sel to its bucket, assigning it the store's next sequence
// number (OR'd into the low bits already reserved by the selector
// compiler) and splicing it into ascending-specificity position.
func (s *Store) Insert(sel *selector.Selector) {
	sel.Specificity = (sel.Specificity &^ selector.SeqMask) | (s.seq & selector.SeqMask)
	s.seq++

	key := sel.ElementName()
	bucket := s.buckets[key]
	idx := sort.Search(len(bucket), func(i int) bool { return bucket[i].Specificity >= sel.Specificity })
	bucket = append(bucket, nil)
	copy(bucket[idx+1:], bucket[idx:])
	bucket[idx] = sel
	s.buckets[key] = bucket
}

// Bucket returns the selectors whose rightmost element name is id, in
// ascending specificity order.
func (s *Store) Bucket(id domid.ElementNameID) []*selector.Selector {
	return s.buckets[id]
}

// Universal returns the universal-selector bucket (index 0).
func (s *Store) Universal() []*selector.Selector {
	return s.buckets[domid.UniversalID]
}

// Len returns the total number of selectors currently held across every
// bucket.
func (s *Store) Len() int {
	n := 0
	for _, b := range s.buckets {
		n += len(b)
	}
	return n
}

// Push captures the current (selector_count, bucket_array) state so a
// later Pop can restore it (§4.6). The bucket map and slices are cloned so
// subsequent inserts never mutate the snapshot.
func (s *Store) Push() {
	s.stack = append(s.stack, snapshot{
		buckets: cloneBuckets(s.buckets),
		seq:     s.seq,
	})
}

// Pop restores the most recently pushed snapshot. It is an error to call
// Pop without a matching Push; per §5 "partial parses that fail must still
// pop any frame they pushed", callers are responsible for unwinding on
// every code path, including error returns.
func (s *Store) Pop() error {
	if len(s.stack) == 0 {
		return fmt.Errorf("stylesheet: pop without matching push")
	}
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.buckets = top.buckets
	s.seq = top.seq
	return nil
}

// Depth returns the current snapshot-stack depth, for tests asserting LIFO
// unwinding.
func (s *Store) Depth() int {
	return len(s.stack)
}

func cloneBuckets(in map[domid.ElementNameID][]*selector.Selector) map[domid.ElementNameID][]*selector.Selector {
	out := make(map[domid.ElementNameID][]*selector.Selector, len(in))
	for k, v := range in {
		cp := make([]*selector.Selector, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}
