package dlog

import (
	"errors"

	golog "github.com/ipfs/go-log"
)

var log = golog.Logger("dlog")

var (
	// ErrStoreMissing is returned when an operation needs a store handle
	// that was not provided.
	ErrStoreMissing = errors.New("dlog: store is required")
	// ErrLogMissing is returned when an operation needs a log argument
	// that was not provided.
	ErrLogMissing = errors.New("dlog: log is required")
	// ErrBadArgument is returned for malformed arguments: Create returns
	// it when given two entries with the same hash.
	ErrBadArgument = errors.New("dlog: bad argument")
	// ErrNotALog is returned when a fetched metadata block doesn't decode
	// to {"heads": [...]}.
	ErrNotALog = errors.New("dlog: not a log")
	// ErrEmptyLog is returned by ToHash when called on a log with no
	// entries.
	ErrEmptyLog = errors.New("dlog: log is empty")
)
