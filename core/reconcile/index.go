package reconcile

import "fmt"

// IndexEntry is one indexed object and enough identity to audit it.
type IndexEntry struct {
	ID   int
	Name string
	Key  Key
	Item Item
}

// DuplicateKeyWarning records two distinct objects that normalize to
// the same key. The index keeps the first-seen mapping; the collision
// must still be visible in the run's diagnostics.
type DuplicateKeyWarning struct {
	Key     Key
	Kept    string
	Dropped string
}

func (w DuplicateKeyWarning) String() string {
	return fmt.Sprintf("duplicate key %q: kept %q, ignored %q", w.Key, w.Kept, w.Dropped)
}

// IndexSkip records an object left out of an index because it could not
// produce a key.
type IndexSkip struct {
	Name string
	Err  error
}

// Index is an immutable key -> entry lookup over one side's objects,
// built once per run per kind.
type Index struct {
	kind     Kind
	label    string
	entries  map[Key]IndexEntry
	warnings []DuplicateKeyWarning
	skipped  []IndexSkip
}

// BuildIndex iterates items once, keying each through the adapter.
// On a key collision the first-seen entry wins and a warning is kept.
// Items failing normalization are recorded, not fatal. Input items are
// never mutated.
func BuildIndex(adapter Adapter, label string, items []Item) *Index {
	ix := &Index{
		kind:    adapter.Kind(),
		label:   label,
		entries: make(map[Key]IndexEntry, len(items)),
	}

	for _, item := range items {
		name := adapter.Identity(item)
		key, err := adapter.Key(item)
		if err != nil {
			ix.skipped = append(ix.skipped, IndexSkip{Name: name, Err: err})
			continue
		}
		if prev, exists := ix.entries[key]; exists {
			ix.warnings = append(ix.warnings, DuplicateKeyWarning{
				Key:     key,
				Kept:    prev.Name,
				Dropped: name,
			})
			continue
		}
		ix.entries[key] = IndexEntry{
			ID:   adapter.SourceID(item),
			Name: name,
			Key:  key,
			Item: item,
		}
	}

	return ix
}

// Lookup returns the entry for key, if present.
func (ix *Index) Lookup(key Key) (IndexEntry, bool) {
	entry, ok := ix.entries[key]
	return entry, ok
}

// Kind returns the object kind this index covers.
func (ix *Index) Kind() Kind { return ix.kind }

// Label names the environment the index was built from (e.g.
// "reference", "target"), used in match justifications.
func (ix *Index) Label() string { return ix.label }

// Len returns the number of indexed entries.
func (ix *Index) Len() int { return len(ix.entries) }

// Warnings returns the duplicate-key collisions seen during the build.
func (ix *Index) Warnings() []DuplicateKeyWarning { return ix.warnings }

// Skipped returns the objects that failed normalization during the build.
func (ix *Index) Skipped() []IndexSkip { return ix.skipped }
