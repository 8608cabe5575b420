package reconcile

// Verdict is the result of probing one key against a set of indexes.
type Verdict struct {
	Matched bool

	// Existing is the matched entry, valid only when Matched.
	Existing IndexEntry

	// Source is the label of the index that produced the hit.
	Source string
}

// Match probes indexes in priority order and returns the first hit.
// It is pure: the indexes are pre-built and no I/O happens here.
func Match(key Key, indexes ...*Index) Verdict {
	for _, ix := range indexes {
		if ix == nil {
			continue
		}
		if entry, ok := ix.Lookup(key); ok {
			return Verdict{Matched: true, Existing: entry, Source: ix.Label()}
		}
	}
	return Verdict{}
}
