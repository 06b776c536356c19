// Package store defines the block store contract the dlog core consumes: a
// minimal, content-addressed put/get over opaque bytes. The store itself —
// durable storage, the concrete hashing scheme, network replication — is an
// external collaborator; this package only pins down the interface and
// ships an in-memory reference implementation for use in this module's own
// tests.
package store

import (
	"context"
	"errors"

	golog "github.com/ipfs/go-log"
)

var log = golog.Logger("dlog/store")

// ErrNotFound is returned by Get when hash names no known block.
var ErrNotFound = errors.New("store: not found")

// Store is the content-addressed block store adapter the dlog core
// consumes.
type Store interface {
	// Put writes data to the store and returns its content hash. Put is
	// idempotent with respect to content: putting identical bytes twice
	// returns the same hash.
	Put(ctx context.Context, data []byte) (hash string, err error)
	// Get fetches the bytes previously stored at hash, failing with
	// ErrNotFound if hash is unknown to the store.
	Get(ctx context.Context, hash string) (data []byte, err error)
}
