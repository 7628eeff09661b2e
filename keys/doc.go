// Package keys implements signing helpers for settlement receipt issuers.
//
// Receipts support ed25519 (classical) and dilithium3 (post-quantum)
// signatures over a selectable digest. Key custody is out of scope: callers
// supply seeds or key files directly; wallets and KMS layers live outside
// this module.
package keys
