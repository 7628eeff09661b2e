package cidutil

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// Sum returns a CIDv1 (raw multicodec + sha2-256 multihash) derived from data.
//
// Settlement receipts and archive objects are addressed exclusively by this
// derivation so their identifiers are interchangeable with IPFS CIDs.
func Sum(data []byte) (cid.Cid, error) {
	mh, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, mh), nil
}

// SumString returns the string form of Sum.
func SumString(data []byte) string {
	id, err := Sum(data)
	if err != nil {
		// multihash.Sum with SHA2_256 and default length cannot fail on any
		// input; keep the signature convenient for callers building strings.
		return ""
	}
	return id.String()
}
