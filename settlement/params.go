package settlement

// Params carries the protocol's economic constants.
//
// The constants are threaded explicitly rather than held as package globals so
// the formulas can be exercised against alternative economic parameters. The
// on-chain deployment values are DefaultParams(); any Params passed into this
// package must satisfy Validate().
type Params struct {
	// ReputationScale represents 100% reputation at 6-decimal fixed point.
	ReputationScale uint64

	// ReputationBaseline is the reputation at which the bond multiplier is
	// exactly 1.0x (the deployment uses 50%).
	ReputationBaseline uint64

	// SqrtReputationBaseline is IntegerSqrt(ReputationBaseline), precomputed
	// so MinBond costs a single square root per call.
	SqrtReputationBaseline uint64

	// ZeroReputationMultiplier is the maximum penalty multiplier applied when
	// reputation is zero (or rounds to a zero square root).
	ZeroReputationMultiplier uint64

	// MinMultiplierNum/MinMultiplierDen floor the bond multiplier regardless
	// of how high reputation climbs (the deployment floors at 0.7x).
	MinMultiplierNum uint64
	MinMultiplierDen uint64
}

// DefaultParams returns the deployed protocol constants.
func DefaultParams() Params {
	return Params{
		ReputationScale:          100_000_000,
		ReputationBaseline:       50_000_000,
		SqrtReputationBaseline:   7071,
		ZeroReputationMultiplier: 10,
		MinMultiplierNum:         7,
		MinMultiplierDen:         10,
	}
}

// Validate rejects parameter sets the formulas cannot operate on.
func (p Params) Validate() error {
	if p.ReputationScale == 0 {
		return newError(KindParams, "SETTLE-PARAM-001", "reputation scale must be positive")
	}
	if p.ReputationBaseline == 0 || p.ReputationBaseline > p.ReputationScale {
		return newError(KindParams, "SETTLE-PARAM-002", "reputation baseline must be in (0, scale]")
	}
	if p.SqrtReputationBaseline != IntegerSqrt(p.ReputationBaseline) {
		return newError(KindParams, "SETTLE-PARAM-003", "sqrt baseline does not match IntegerSqrt(baseline)")
	}
	if p.ZeroReputationMultiplier == 0 {
		return newError(KindParams, "SETTLE-PARAM-004", "zero-reputation multiplier must be positive")
	}
	if p.MinMultiplierDen == 0 {
		return newError(KindParams, "SETTLE-PARAM-005", "minimum multiplier denominator must be positive")
	}
	if p.MinMultiplierNum > p.MinMultiplierDen {
		return newError(KindParams, "SETTLE-PARAM-006", "minimum multiplier must not exceed 1.0x")
	}
	return nil
}
