package dlog

import (
	"context"

	"github.com/qri-io/dlog/entry"
	"github.com/qri-io/dlog/store"
)

// Fetch performs a bounded, causally-biased breadth-first traversal of the
// DAG reachable from seeds, materializing entries from s. See spec §4.4.
//
// budget caps the number of entries returned; -1 means unbounded, though
// traversal still terminates provided the reachable DAG is finite. exclude
// names hashes to treat as already known: they are neither refetched nor
// counted against budget. A get failure partway through is fatal for the
// whole call — Fetch returns no entries on error, per spec §7.
func Fetch(ctx context.Context, s store.Store, seeds []string, budget int, exclude map[string]bool) ([]*entry.Entry, error) {
	if s == nil {
		return nil, ErrStoreMissing
	}

	queue := make([]string, len(seeds))
	copy(queue, seeds)

	seen := map[string]bool{}
	result := make([]*entry.Entry, 0, len(seeds))

	for len(queue) > 0 && (budget < 0 || len(result) < budget) {
		h := queue[0]
		queue = queue[1:]

		if exclude[h] || seen[h] {
			continue
		}
		seen[h] = true

		e, err := entry.FromHash(ctx, s, h)
		if err != nil {
			log.Debugw("fetch: entry unavailable, aborting traversal", "hash", h, "err", err)
			return nil, err
		}
		result = append(result, e)

		// Insert this entry's parents immediately after it: parents are
		// considered before the current level's remaining siblings but
		// after the entry itself (causally-biased BFS).
		next := make([]string, len(e.Next()))
		copy(next, e.Next())
		queue = append(next, queue...)
	}

	return result, nil
}
