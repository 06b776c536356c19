package dlog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/qri-io/dlog/entry"
	"github.com/qri-io/dlog/store"
)

// Append creates a new entry whose parents are log's current heads, and
// returns a new Log with that entry appended and as its sole head.
func Append(ctx context.Context, s store.Store, l *Log, payload []byte) (*Log, error) {
	if l == nil {
		return nil, ErrLogMissing
	}
	if s == nil {
		return nil, ErrStoreMissing
	}

	e, err := entry.Create(ctx, s, payload, l.Heads())
	if err != nil {
		return nil, fmt.Errorf("dlog: append: %w", err)
	}

	entries := make([]*entry.Entry, len(l.entries)+1)
	copy(entries, l.entries)
	entries[len(l.entries)] = e

	// e isn't referenced by anything yet, and every one of log's former
	// heads now is (by e.Next()), so FindHeads(entries) == {e.Hash()}.
	return Create(entries)
}

// Join returns the causal union of a and b, linearized per Sort and
// optionally truncated to size entries (default: len(a.Entries()) +
// len(b.Entries())). Join(a, b) and Join(b, a) produce logs with equal
// entry sets; see spec §4.6 for the tie-break orientation that makes this
// true regardless of argument order.
func Join(a, b *Log, size ...int) (*Log, error) {
	if a == nil || b == nil {
		return nil, ErrLogMissing
	}

	n := len(a.entries) + len(b.entries)
	if len(size) > 0 {
		n = size[0]
	}

	headsA := resolveHeads(a)
	headsB := resolveHeads(b)

	l1, l2 := a.Get, b.Get
	if len(headsA) > 0 && len(headsB) > 0 {
		aa, bb := headsA[0].Hash(), headsB[0].Hash()
		if !(aa < bb) {
			l1, l2 = b.Get, a.Get
		}
	}

	seeds := make([]*entry.Entry, 0, len(headsA)+len(headsB))
	seeds = append(seeds, headsA...)
	seeds = append(seeds, headsB...)

	sorted := Sort(seeds, lookupFunc(l1), lookupFunc(l2))
	if n >= 0 && n < len(sorted) {
		sorted = sorted[:n]
	}

	return Create(sorted)
}

// JoinAll left-folds Join over logs; the initial accumulator is the first
// non-empty log in the sequence.
func JoinAll(logs []*Log, size ...int) (*Log, error) {
	var acc *Log
	start := -1
	for i, l := range logs {
		if l != nil && len(l.entries) > 0 {
			acc = l
			start = i
			break
		}
	}
	if acc == nil {
		return Create(nil)
	}

	for _, l := range logs[start+1:] {
		if l == nil {
			continue
		}
		var err error
		acc, err = Join(acc, l, size...)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// Expand grows log backward along its unresolved ancestry, fetching up to
// length - len(log.Entries()) additional entries from s starting from the
// log's tails (hashes referenced by some entry's Next but not themselves
// present). length = -1 fetches the whole remaining reachable DAG.
func Expand(ctx context.Context, s store.Store, l *Log, length int, exclude map[string]bool) (*Log, error) {
	if l == nil {
		return nil, ErrLogMissing
	}

	present := map[string]bool{}
	for _, e := range l.entries {
		present[e.Hash()] = true
	}

	var tails []string
	tailSeen := map[string]bool{}
	for _, e := range l.entries {
		for _, h := range e.Next() {
			if !present[h] && !tailSeen[h] {
				tailSeen[h] = true
				tails = append(tails, h)
			}
		}
	}

	merged := map[string]bool{}
	for h := range exclude {
		merged[h] = true
	}
	for h := range present {
		merged[h] = true
	}

	budget := -1
	if length >= 0 {
		budget = length - len(l.entries)
		if budget <= 0 {
			return Create(append([]*entry.Entry{}, l.entries...), l.heads...)
		}
	}

	fetched, err := Fetch(ctx, s, tails, budget, merged)
	if err != nil {
		return nil, fmt.Errorf("dlog: expand: %w", err)
	}

	union := make([]*entry.Entry, 0, len(l.entries)+len(fetched))
	union = append(union, l.entries...)
	union = append(union, fetched...)

	byHash := map[string]*entry.Entry{}
	for _, e := range union {
		byHash[e.Hash()] = e
	}
	sorted := Sort(union, lookupFunc(func(h string) *entry.Entry { return byHash[h] }))

	return Create(sorted)
}

// FromHash fetches the log-metadata block at hash, then fetches up to
// length entries starting from its heads (length -1 fetches the whole
// reachable DAG), returning a new Log whose Heads equals the metadata's.
func FromHash(ctx context.Context, s store.Store, hash string, length int) (*Log, error) {
	if s == nil {
		return nil, ErrStoreMissing
	}

	data, err := s.Get(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("dlog: from_hash: %w", err)
	}

	var meta logMetadata
	if err := json.Unmarshal(data, &meta); err != nil || meta.Heads == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotALog, hash)
	}

	fetched, err := Fetch(ctx, s, meta.Heads, length, nil)
	if err != nil {
		return nil, fmt.Errorf("dlog: from_hash: %w", err)
	}

	sorted := Sort(fetched)
	return Create(sorted, meta.Heads...)
}

// ToHash serializes log's JSON form and writes it to s, returning the
// resulting hash. Fails with ErrEmptyLog if log has no entries.
func ToHash(ctx context.Context, s store.Store, l *Log) (string, error) {
	if l == nil {
		return "", ErrLogMissing
	}
	if s == nil {
		return "", ErrStoreMissing
	}
	if len(l.entries) == 0 {
		return "", ErrEmptyLog
	}

	data, err := l.ToJSON()
	if err != nil {
		return "", err
	}

	hash, err := s.Put(ctx, data)
	if err != nil {
		return "", fmt.Errorf("dlog: to_hash: %w", err)
	}
	return hash, nil
}

func resolveHeads(l *Log) []*entry.Entry {
	out := make([]*entry.Entry, 0, len(l.heads))
	for _, h := range l.heads {
		if e := l.Get(h); e != nil {
			out = append(out, e)
		}
	}
	return out
}

func lookupFunc(get func(string) *entry.Entry) Lookup {
	return func(hash string) (*entry.Entry, bool) {
		e := get(hash)
		return e, e != nil
	}
}
