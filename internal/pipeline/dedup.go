package pipeline

// index is the in-memory snapshot of already-persisted item IDs for one run.
// It is always derived from the ledger, never persisted itself, and has a
// single writer: the orchestrator.
type index struct {
	ids map[string]struct{}
}

func newIndex(ids []string) *index {
	ix := &index{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		ix.ids[id] = struct{}{}
	}
	return ix
}

func (ix *index) Contains(id string) bool {
	_, ok := ix.ids[id]
	return ok
}

func (ix *index) Add(id string) {
	ix.ids[id] = struct{}{}
}

func (ix *index) Len() int {
	return len(ix.ids)
}
