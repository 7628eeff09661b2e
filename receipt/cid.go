package receipt

import (
	"fmt"

	"xdao.co/settle/cidutil"
	"xdao.co/settle/settlement"
)

// CID returns an IPFS-compatible CIDv1 (raw + sha2-256) for receipt bytes.
//
// Receipt bytes must be canonical before CID derivation. If input is not
// canonical, this function fails.
func CID(receiptBytes []byte) (string, error) {
	canon, err := Canonicalize(receiptBytes)
	if err != nil {
		return "", fmt.Errorf("canonical receipt required: %w", err)
	}
	return cidutil.SumString(canon), nil
}

// Document is a first-class receipt evidence object.
//
// Bytes are canonical receipt bytes. CID is derived from Bytes.
//
// Receipts are intentionally treated as documents (not ephemeral output) so
// they can be archived, inspected, and re-verified against later claims.
type Document struct {
	Bytes []byte
	CID   string
}

// NewDocumentFromBytes canonicalizes receipt bytes and computes the receipt CID.
func NewDocumentFromBytes(receiptBytes []byte) (*Document, error) {
	canon, err := Canonicalize(receiptBytes)
	if err != nil {
		return nil, err
	}
	return &Document{Bytes: canon, CID: cidutil.SumString(canon)}, nil
}

// RenderDocument renders a receipt and returns a canonical Document (bytes + CID).
func RenderDocument(round settlement.RoundResult, rewards *settlement.UserRoundRewards, opts RenderOptions) (*Document, error) {
	return NewDocumentFromBytes(Render(round, rewards, opts))
}

// RenderSignedDocument renders a receipt with a required signature and returns
// a canonical Document.
func RenderSignedDocument(round settlement.RoundResult, rewards *settlement.UserRoundRewards, opts RenderOptions) (*Document, error) {
	b, err := RenderSigned(round, rewards, opts)
	if err != nil {
		return nil, err
	}
	return NewDocumentFromBytes(b)
}
