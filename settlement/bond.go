package settlement

import "fmt"

// MinBond returns the minimum bond a challenger must post, priced inversely by
// reputation:
//
//	minBond = floor(baseBond * sqrt(baseline) / sqrt(reputation))
//
// using integer square roots throughout so the result matches the on-chain
// fixed-point computation exactly. Zero reputation (or any reputation whose
// integer square root is zero) prices at the maximum penalty multiplier, and
// the result never drops below the floored minimum multiplier no matter how
// high reputation climbs.
//
// reputation must lie in [0, params.ReputationScale]; values above the 100%
// ceiling are an upstream bug and fail explicitly rather than clamping.
func MinBond(params Params, reputation, baseBond uint64) (uint64, error) {
	if err := params.Validate(); err != nil {
		return 0, err
	}
	if reputation > params.ReputationScale {
		return 0, newError(KindDomain, "SETTLE-DOM-001",
			fmt.Sprintf("reputation %d above scale %d", reputation, params.ReputationScale))
	}
	if err := validateAmount("baseBond", baseBond); err != nil {
		return 0, err
	}

	s := IntegerSqrt(reputation)
	if s == 0 {
		// Maximum penalty; also avoids the division by zero below.
		return mulChecked(baseBond, params.ZeroReputationMultiplier)
	}

	bond, err := mulDiv(baseBond, params.SqrtReputationBaseline, s)
	if err != nil {
		return 0, err
	}
	floor, err := mulDiv(baseBond, params.MinMultiplierNum, params.MinMultiplierDen)
	if err != nil {
		return 0, err
	}
	if bond < floor {
		return floor, nil
	}
	return bond, nil
}
