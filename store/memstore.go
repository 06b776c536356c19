package store

import (
	"context"
	"sync"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// dlogMulticodecType is the CID codec tag for blocks written by this
// package's Store implementations. The core treats content hashing as
// opaque (spec: "cryptographic hashing ... is an opaque, collision
// resistant function supplied by the store"), so this constant only needs
// to be distinct from other codecs a shared backing store might use; it is
// not interpreted anywhere in the dlog core.
//
// TODO(qri): pick a registered multicodec code instead of a dummy one, same
// as automation/workflow.RunMulticodecType.
const dlogMulticodecType = 2300

// MemStore is an in-memory Store, good enough to exercise the dlog core in
// tests without a real backing block store. It is not a production block
// store: nothing is persisted, and there is no eviction.
type MemStore struct {
	mu     sync.RWMutex
	blocks map[string][]byte
}

// NewMemStore returns an empty in-memory Store.
func NewMemStore() *MemStore {
	return &MemStore{blocks: map[string][]byte{}}
}

// Put implements Store.
func (s *MemStore) Put(ctx context.Context, data []byte) (string, error) {
	hash, err := hashBytes(data)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blocks[hash]; !ok {
		// copy so later caller-side mutation of data can't corrupt the block
		cp := make([]byte, len(data))
		copy(cp, data)
		s.blocks[hash] = cp
	}
	return hash, nil
}

// Get implements Store.
func (s *MemStore) Get(ctx context.Context, hash string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blocks[hash]
	if !ok {
		log.Debugw("block not found", "hash", hash)
		return nil, ErrNotFound
	}
	return data, nil
}

// hashBytes computes the content hash MemStore assigns to a block, the same
// multihash-plus-cid pattern the teacher repo uses for its own content
// identifiers (base/dsfs/dataset.go, automation/workflow/run.go).
func hashBytes(data []byte) (string, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return "", err
	}
	return cid.NewCidV1(dlogMulticodecType, sum).String(), nil
}
