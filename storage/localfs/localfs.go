// Package localfs stores settlement receipts on the local filesystem, one
// immutable file per receipt, keyed strictly by CID.
package localfs

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	"github.com/ipfs/go-cid"

	"xdao.co/settle/cidutil"
	"xdao.co/settle/storage"
)

// Archive is a local filesystem-backed receipt archive.
//
// Layout: <root>/<first two CID chars>/<cid>.receipt, mode 0444. Writes go
// through a temporary file that is hard-linked into place, so a crash never
// leaves a partially written receipt under its final name and a concurrent
// writer of the same CID cannot observe torn bytes.
//
// This implementation is offline and deterministic: it never uses the network
// and never depends on wall-clock time.
type Archive struct {
	root string
}

// New constructs a filesystem archive rooted at root. The directory will be
// created if needed.
func New(root string) (*Archive, error) {
	if root == "" {
		return nil, errors.New("localfs: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Archive{root: root}, nil
}

func (a *Archive) Put(receiptBytes []byte) (cid.Cid, error) {
	id, err := cidutil.Sum(receiptBytes)
	if err != nil {
		return cid.Undef, err
	}
	if !id.Defined() {
		return cid.Undef, storage.ErrInvalidCID
	}

	path := a.pathFor(id)
	if existing, rerr := os.ReadFile(path); rerr == nil {
		if !bytes.Equal(existing, receiptBytes) {
			return cid.Undef, storage.ErrImmutable
		}
		return id, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return cid.Undef, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".incoming-*")
	if err != nil {
		return cid.Undef, err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(receiptBytes); err != nil {
		_ = tmp.Close()
		return cid.Undef, err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return cid.Undef, err
	}
	if err := tmp.Close(); err != nil {
		return cid.Undef, err
	}
	if err := os.Chmod(tmpName, 0o444); err != nil {
		return cid.Undef, err
	}

	// Publish atomically. Link fails if the name appeared since the read
	// above; re-check the winner's bytes instead of overwriting.
	if err := os.Link(tmpName, path); err != nil {
		if os.IsExist(err) {
			existing, rerr := os.ReadFile(path)
			if rerr != nil || !bytes.Equal(existing, receiptBytes) {
				return cid.Undef, storage.ErrImmutable
			}
			return id, nil
		}
		return cid.Undef, err
	}
	return id, nil
}

func (a *Archive) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, storage.ErrInvalidCID
	}
	b, err := os.ReadFile(a.pathFor(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	got, err := cidutil.Sum(b)
	if err != nil {
		return nil, err
	}
	if got != id {
		return nil, storage.ErrCIDMismatch
	}
	return b, nil
}

func (a *Archive) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	_, err := os.Stat(a.pathFor(id))
	return err == nil
}

func (a *Archive) pathFor(id cid.Cid) string {
	s := id.String()
	if len(s) < 2 {
		return filepath.Join(a.root, s+".receipt")
	}
	return filepath.Join(a.root, s[:2], s+".receipt")
}
