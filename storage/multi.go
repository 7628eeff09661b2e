package storage

import (
	"errors"

	"github.com/ipfs/go-cid"

	"xdao.co/settle/cidutil"
)

// MultiArchive provides deterministic, ordered fallback across multiple
// archive backends, for deployments that keep receipts on a primary directory
// with read-only mirrors behind it.
//
// Retrieval order is the slice order in Backends; callers MUST supply a fixed
// order. This avoids map-iteration nondeterminism and makes the retrieval
// strategy explicit.
//
// Put is defined to write only to the first backend. Get re-hashes every
// candidate before returning it: a mirror holding corrupted bytes is skipped
// and the chain continues, so one bad mirror cannot poison a read that a
// later backend can still serve.
type MultiArchive struct {
	Backends []Archive
}

func (m MultiArchive) Put(bytes []byte) (cid.Cid, error) {
	if len(m.Backends) == 0 {
		return cid.Undef, errors.New("storage: MultiArchive has no backends")
	}
	return m.Backends[0].Put(bytes)
}

func (m MultiArchive) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, ErrInvalidCID
	}
	var sawMismatch bool
	for _, a := range m.Backends {
		b, err := a.Get(id)
		if err == nil {
			got, cerr := cidutil.Sum(b)
			if cerr == nil && got == id {
				return b, nil
			}
			sawMismatch = true
			continue
		}
		if IsNotFound(err) || errors.Is(err, ErrCIDMismatch) {
			if errors.Is(err, ErrCIDMismatch) {
				sawMismatch = true
			}
			continue
		}
		return nil, err
	}
	if sawMismatch {
		return nil, ErrCIDMismatch
	}
	return nil, ErrNotFound
}

func (m MultiArchive) Has(id cid.Cid) bool {
	for _, a := range m.Backends {
		if a.Has(id) {
			return true
		}
	}
	return false
}
