package report

import "sort"

// KeySet is the cumulative set of dedup keys seen across the current batch
// and, when the caller supplies prior state, earlier batches. It is explicit
// state passed in and returned out; the pipeline keeps no hidden singleton.
type KeySet struct {
	keys  map[string]struct{}
	added []string
}

// NewKeySet builds a KeySet seeded with previously-committed keys
func NewKeySet(prior []string) *KeySet {
	ks := &KeySet{keys: make(map[string]struct{}, len(prior))}
	for _, k := range prior {
		ks.keys[k] = struct{}{}
	}
	return ks
}

// Add records a key, reporting whether it was newly seen
func (ks *KeySet) Add(key string) bool {
	if _, ok := ks.keys[key]; ok {
		return false
	}
	ks.keys[key] = struct{}{}
	ks.added = append(ks.added, key)
	return true
}

// Contains reports whether a key has been seen
func (ks *KeySet) Contains(key string) bool {
	_, ok := ks.keys[key]
	return ok
}

// Added returns the keys first seen during this batch, sorted for
// deterministic commits
func (ks *KeySet) Added() []string {
	out := make([]string, len(ks.added))
	copy(out, ks.added)
	sort.Strings(out)
	return out
}

// Len returns the total number of keys tracked
func (ks *KeySet) Len() int {
	return len(ks.keys)
}
