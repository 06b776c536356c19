// Package entry implements the immutable DAG node spec.md calls an Entry:
// a payload plus an ordered list of predecessor hashes, self-identified by a
// content hash assigned by the block store it was written through.
package entry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	golog "github.com/ipfs/go-log"

	"github.com/qri-io/dlog/store"
)

var log = golog.Logger("dlog/entry")

// ErrMalformed is returned by FromHash when the bytes at a hash don't
// decode to a valid Entry.
var ErrMalformed = errors.New("entry: malformed")

// Entry is an immutable DAG node: a payload, its causal parents' hashes,
// and a hash identifying the entry itself. Two entries are equal iff their
// hashes are equal. Entry values are never mutated after construction; all
// fields are unexported to enforce that from outside the package.
type Entry struct {
	hash    string
	payload []byte
	next    []string
}

// wireEntry is the on-block-store shape of an Entry: a plain bijection
// between (payload, next) and bytes. The concrete encoding is this
// package's own affair, per spec.md §1 ("serialization of individual
// entries" is out of scope to make pluggable).
type wireEntry struct {
	Payload []byte   `json:"payload"`
	Next    []string `json:"next"`
}

// Hash is the entry's content-addressed identifier.
func (e *Entry) Hash() string { return e.hash }

// Payload is the entry's opaque application data.
func (e *Entry) Payload() []byte { return e.payload }

// Next is the ordered list of the entry's causal parent hashes. May be
// empty for a root/genesis entry.
func (e *Entry) Next() []string { return e.next }

// Equal reports whether two entries have the same hash. A nil Entry is
// equal only to another nil Entry.
func (e *Entry) Equal(other *Entry) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.hash == other.hash
}

// Create serializes (payload, next), writes it to store, and returns the
// resulting Entry with its store-assigned hash.
func Create(ctx context.Context, s store.Store, payload []byte, next []string) (*Entry, error) {
	if s == nil {
		return nil, fmt.Errorf("entry: %w", errStoreMissing)
	}
	if next == nil {
		next = []string{}
	}

	data, err := json.Marshal(wireEntry{Payload: payload, Next: next})
	if err != nil {
		return nil, err
	}

	hash, err := s.Put(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("entry: store put: %w", err)
	}

	return &Entry{hash: hash, payload: payload, next: next}, nil
}

// FromHash fetches and deserializes the entry stored at hash.
func FromHash(ctx context.Context, s store.Store, hash string) (*Entry, error) {
	if s == nil {
		return nil, fmt.Errorf("entry: %w", errStoreMissing)
	}

	data, err := s.Get(ctx, hash)
	if err != nil {
		log.Debugw("fetch: entry unavailable", "hash", hash, "err", err)
		return nil, fmt.Errorf("entry: fetching %s: %w", hash, err)
	}

	var wire wireEntry
	if err := json.Unmarshal(data, &wire); err != nil {
		log.Debugw("fetch: entry block malformed", "hash", hash, "err", err)
		return nil, fmt.Errorf("%w: %s: %s", ErrMalformed, hash, err)
	}
	if wire.Next == nil {
		wire.Next = []string{}
	}

	return &Entry{hash: hash, payload: wire.Payload, next: wire.Next}, nil
}

// HasChild reports whether child is listed as one of parent's causal
// predecessors. Despite the name (kept for parity with spec.md §4.1), this
// asks "does parent reference child in its Next list", i.e. whether child
// is a parent-of parent in the DAG.
func HasChild(parent, child *Entry) bool {
	if parent == nil || child == nil {
		return false
	}
	for _, h := range parent.next {
		if h == child.hash {
			return true
		}
	}
	return false
}

var errStoreMissing = errors.New("store handle is nil")
