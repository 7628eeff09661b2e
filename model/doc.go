// Package model defines stable boundary types for API layers.
//
// Settlement identity (fixed-width integer arithmetic in package settlement)
// is unaffected by any projection. These structs are the only types intended
// for direct JSON serialization by consumers; monetary amounts travel as
// decimal strings so 64-bit values never pass through a float.
package model
