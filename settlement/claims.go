package settlement

// Claim eligibility gates decide whether a claim action may be offered for a
// record. They are pure predicates: they never fetch state and never toggle
// the claimed flag (the external claim transaction does that, exactly once).

// JurorRewardClaimable reports whether a juror claim may be offered.
// Jurors are owed their juror-pool share on every outcome, so eligibility
// depends only on the claimed flag; callers filter zero-value claims
// separately if desired.
func JurorRewardClaimable(rec JurorRecord) bool {
	return !rec.RewardClaimed
}

// ChallengerRewardClaimable reports whether a challenger claim may be offered.
// No claim is ever offered for a losing or no-quorum challenger.
func ChallengerRewardClaimable(rec ChallengerRecord, outcome Outcome) bool {
	return !rec.RewardClaimed && outcome.IsChallengerWins()
}

// DefenderRewardClaimable reports whether a defender claim may be offered.
// The safe-bond portion is owed regardless of outcome.
func DefenderRewardClaimable(rec DefenderRecord) bool {
	return !rec.RewardClaimed
}
