package model

import (
	"bytes"
	"strconv"
)

// Amount is a base-unit monetary value.
//
// JSON encoding is always a decimal string; decoding additionally accepts a
// bare JSON integer literal, parsed from its source text so values above 2^53
// survive intact (they must never round-trip through a float64).
type Amount uint64

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatUint(uint64(a), 10))), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(bytes.TrimSpace(data))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return NewError(ErrInvalidAmount, "amount must be a non-negative decimal integer")
	}
	*a = Amount(v)
	return nil
}
