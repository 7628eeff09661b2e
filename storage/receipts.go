package storage

import (
	"fmt"

	"github.com/ipfs/go-cid"

	"xdao.co/settle/receipt"
)

// ReceiptArchive enforces the archive's canonical-receipt contract in front of
// any backend: only canonical receipt bytes are written, and reads hand back
// documents whose grammar and CID have already been re-verified. Callers that
// archive receipts should go through this type rather than the raw Archive,
// so the "archived receipts are canonical" invariant holds no matter which
// backend is configured.
type ReceiptArchive struct {
	Backend Archive
}

// Put archives receipt bytes. Non-canonical bytes are rejected with
// ErrNotCanonical; nothing reaches the backend in that case.
func (r ReceiptArchive) Put(receiptBytes []byte) (*receipt.Document, error) {
	doc, err := receipt.NewDocumentFromBytes(receiptBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotCanonical, err)
	}
	if _, err := r.Backend.Put(doc.Bytes); err != nil {
		return nil, err
	}
	return doc, nil
}

// Get retrieves an archived receipt and re-verifies it end to end: the bytes
// must still be a canonical receipt and must still hash to the requested CID.
func (r ReceiptArchive) Get(id cid.Cid) (*receipt.Document, error) {
	if !id.Defined() {
		return nil, ErrInvalidCID
	}
	b, err := r.Backend.Get(id)
	if err != nil {
		return nil, err
	}
	doc, err := receipt.NewDocumentFromBytes(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotCanonical, err)
	}
	if doc.CID != id.String() {
		return nil, ErrCIDMismatch
	}
	return doc, nil
}

// Has reports whether a receipt is archived under the CID.
func (r ReceiptArchive) Has(id cid.Cid) bool {
	return id.Defined() && r.Backend.Has(id)
}
