package storage

import "errors"

var (
	// ErrNotFound: no archived receipt exists under the requested CID.
	ErrNotFound = errors.New("storage: receipt not found")
	// ErrInvalidCID: the CID is undefined or not a valid receipt address.
	ErrInvalidCID = errors.New("storage: invalid receipt cid")
	// ErrCIDMismatch: stored bytes no longer hash to their CID (corruption).
	ErrCIDMismatch = errors.New("storage: receipt bytes do not match cid")
	// ErrImmutable: a write would alter an already-archived receipt.
	ErrImmutable = errors.New("storage: archived receipt is immutable")
	// ErrNotCanonical: the bytes are not a canonical settlement receipt.
	ErrNotCanonical = errors.New("storage: receipt not canonical")
)

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
