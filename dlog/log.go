// Package dlog implements the logical core of an append-only,
// content-addressed, causally-ordered log: the Entry DAG's deterministic
// linearization, the Log value that holds it, and the pure and
// store-backed operations over Logs (create, append, join, expand,
// from_hash, to_hash). See the module's SPEC_FULL.md for the full contract.
package dlog

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/qri-io/dlog/entry"
)

// Log is an immutable value: an ordered, causally consistent sequence of
// entries plus the set of current head hashes. All Log operations return a
// fresh Log; none mutate an existing one.
type Log struct {
	entries []*entry.Entry
	heads   []string
}

// Create builds a Log from entries. If heads is omitted, it is computed as
// FindHeads(entries). Fails with ErrBadArgument if entries contains two
// entries with the same hash.
func Create(entries []*entry.Entry, heads ...string) (*Log, error) {
	seen := map[string]bool{}
	for _, e := range entries {
		if seen[e.Hash()] {
			return nil, fmt.Errorf("%w: duplicate entry hash %s", ErrBadArgument, e.Hash())
		}
		seen[e.Hash()] = true
	}
	if len(heads) == 0 {
		heads = FindHeads(entries)
	}
	return &Log{entries: entries, heads: heads}, nil
}

// Entries is the log's linearization, in causal order.
func (l *Log) Entries() []*entry.Entry { return l.entries }

// Heads is the set of current head hashes.
func (l *Log) Heads() []string { return l.heads }

// Get does a linear scan of Entries for hash, returning nil if absent.
func (l *Log) Get(hash string) *entry.Entry {
	for _, e := range l.entries {
		if e.Hash() == hash {
			return e
		}
	}
	return nil
}

// FindHeads returns the hashes of entries in entries that are not
// referenced as a Next of any other entry in entries, sorted
// lexicographically for determinism. Spec §9 flags the reference
// implementation's head-sort as relying on a boolean "less" function
// rather than a real comparator; sort.Strings uses a proper total order.
func FindHeads(entries []*entry.Entry) []string {
	referenced := map[string]bool{}
	for _, e := range entries {
		for _, h := range e.Next() {
			referenced[h] = true
		}
	}

	var heads []string
	for _, e := range entries {
		if !referenced[e.Hash()] {
			heads = append(heads, e.Hash())
		}
	}
	sort.Strings(heads)
	return heads
}

// String renders the log newest-first, one entry per line. Indent is built
// from the depth of the entry's parent chain measured back from the
// nearest head: each level contributes two spaces, and the last level
// renders as "└─". A head (or any entry no head chain reaches) has no
// indent. See spec §6.
func (l *Log) String() string {
	depth := map[string]int{}
	for _, h := range l.heads {
		depth[h] = 0
	}
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := l.entries[i]
		d, ok := depth[e.Hash()]
		if !ok {
			d = 0
			depth[e.Hash()] = d
		}
		for _, h := range e.Next() {
			if cur, ok := depth[h]; !ok || d+1 < cur {
				depth[h] = d + 1
			}
		}
	}

	lines := make([]string, 0, len(l.entries))
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := l.entries[i]
		d := depth[e.Hash()]
		var b strings.Builder
		if d > 0 {
			b.WriteString(strings.Repeat("  ", d-1))
			b.WriteString("└─")
		}
		b.Write(e.Payload())
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

// logMetadata is the canonical JSON form of a Log's identity: its head
// hashes. The payload tree is reachable only via the store (spec §4.5/§6).
type logMetadata struct {
	Heads []string `json:"heads"`
}

// ToJSON returns the log's canonical JSON metadata form.
func (l *Log) ToJSON() ([]byte, error) {
	return json.Marshal(logMetadata{Heads: l.heads})
}
