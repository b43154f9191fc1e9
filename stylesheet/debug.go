package stylesheet

import (
	"sort"

	"github.com/maruel/natural"

	"github.com/koreader/crengine-sub001/domid"
	"github.com/koreader/crengine-sub001/utils/debug"
)

// DumpBuckets writes a human-readable tree of every bucket and its
// selectors in natural sort order by element name, adapted from
// content/content_debug.go's natural-ordered debug map dump.
func (s *Store) DumpBuckets(interner domid.Interner) string {
	names := make([]string, 0, len(s.buckets))
	byName := make(map[string]domid.ElementNameID, len(s.buckets))
	for id := range s.buckets {
		name := "*"
		if id != domid.UniversalID {
			name = interner.ElementName(id)
		}
		names = append(names, name)
		byName[name] = id
	}
	sort.Sort(natural.StringSlice(names))

	tw := debug.NewTreeWriter()
	for _, name := range names {
		id := byName[name]
		bucket := s.buckets[id]
		tw.Line(0, "%s (%d selector(s))", name, len(bucket))
		for _, sel := range bucket {
			tw.Line(1, "spec=0x%08x %s", sel.Specificity, sel.Source)
		}
	}
	return tw.String()
}
