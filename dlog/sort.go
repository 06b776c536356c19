package dlog

import "github.com/qri-io/dlog/entry"

// Lookup resolves a hash to an entry not present in Sort's own input set —
// an input log's Get during Join, or a map over the present and fetched
// entries during Expand.
// The bool return is false when the lookup has nothing for hash.
type Lookup func(hash string) (*entry.Entry, bool)

// Sort linearizes entries (plus anything reachable through lookups, tried
// in order) into a deterministic, causally consistent sequence: every
// entry in the result appears after all of its predecessors that are also
// in the result. See spec §4.3 for the algorithm this implements.
func Sort(entries []*entry.Entry, lookups ...Lookup) []*entry.Entry {
	byHash := map[string]*entry.Entry{}
	queue := make([]*entry.Entry, 0, len(entries))
	for _, e := range entries {
		if e == nil {
			continue
		}
		queue = append(queue, e)
		if _, ok := byHash[e.Hash()]; !ok {
			byHash[e.Hash()] = e
		}
	}

	seen := map[string]bool{}
	var result []*entry.Entry
	pos := map[string]int{}

	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]

		if seen[e.Hash()] {
			continue
		}
		seen[e.Hash()] = true

		i1 := -1
		for _, h := range e.Next() {
			if p, ok := pos[h]; ok && p > i1 {
				i1 = p
			}
		}

		i2 := -1
		for idx, r := range result {
			if entryReferences(r, e.Hash()) && idx > i2 {
				i2 = idx
			}
		}

		at := i1 + 1
		if i1 == -1 && i2 == -1 {
			at = 0
		} else if i2 != -1 && i2 < at {
			at = i2
		}

		result = insertEntryAt(result, at, e)
		reindex(result, pos)

		resolved := make([]*entry.Entry, 0, len(e.Next()))
		for _, h := range e.Next() {
			if seen[h] {
				continue
			}
			if p, ok := byHash[h]; ok {
				resolved = append(resolved, p)
				continue
			}
			p := resolveLookup(h, lookups)
			if p != nil {
				byHash[h] = p
				resolved = append(resolved, p)
			}
		}
		queue = append(resolved, queue...)
	}

	return result
}

// entryReferences reports whether e.Next() contains hash, i.e. whether e
// is a (causal) descendant that already lists hash as a parent.
func entryReferences(e *entry.Entry, hash string) bool {
	for _, h := range e.Next() {
		if h == hash {
			return true
		}
	}
	return false
}

func resolveLookup(hash string, lookups []Lookup) *entry.Entry {
	for _, lk := range lookups {
		if lk == nil {
			continue
		}
		if e, ok := lk(hash); ok && e != nil {
			return e
		}
	}
	return nil
}

func insertEntryAt(s []*entry.Entry, i int, e *entry.Entry) []*entry.Entry {
	if i < 0 {
		i = 0
	}
	if i > len(s) {
		i = len(s)
	}
	s = append(s, nil)
	copy(s[i+1:], s[i:])
	s[i] = e
	return s
}

func reindex(result []*entry.Entry, pos map[string]int) {
	for k := range pos {
		delete(pos, k)
	}
	for idx, e := range result {
		pos[e.Hash()] = idx
	}
}
