// Package settlement mirrors the on-chain settlement arithmetic of the XDAO
// arbitration protocol: reputation-priced minimum bonds and per-role reward
// distribution for resolved dispute rounds.
//
// Every function is a pure, deterministic function of its arguments. The
// package performs no I/O, holds no shared state, and is safe under arbitrary
// concurrent use. Results must match the authoritative on-chain computation
// bit-for-bit; all arithmetic is fixed-width 64-bit with 128-bit intermediate
// products and explicit overflow failures.
package settlement
