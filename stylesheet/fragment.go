package stylesheet

import (
	"fmt"

	"github.com/google/uuid"
)

// fragmentAllocator hands out the "_doc_fragment_N_" id prefixes used to
// scope per-fragment #id matching (§4.7), labelling each with a uuid.UUID
// for debug traces — adapted from content/content.go's uuid.NewV7() use
// for document identity.
type fragmentAllocator struct {
	counter int
}

// FragmentLabel identifies one document fragment: Prefix is what the
// matcher tolerates before an authored #id, DebugID is a stable per-run
// identifier useful in logs/dumps.
type FragmentLabel struct {
	Prefix  string
	DebugID uuid.UUID
}

// NextFragment allocates the next fragment label.
func (s *Store) NextFragment() FragmentLabel {
	s.fragAlloc.counter++
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return FragmentLabel{
		Prefix:  fmt.Sprintf("_doc_fragment_%d_", s.fragAlloc.counter),
		DebugID: id,
	}
}
