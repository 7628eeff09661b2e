package settlement

// JurorReward settles one juror record against a round.
//
// Jurors are paid from the juror pool regardless of outcome; their share
// depends only on voting-power weight. A round where nobody voted is a valid
// state and yields a zero share.
func JurorReward(round RoundResult, rec JurorRecord) (*RewardBreakdown, error) {
	if err := round.Validate(); err != nil {
		return nil, err
	}
	if err := validateAmount("votingPower", rec.VotingPower); err != nil {
		return nil, err
	}

	b := &RewardBreakdown{Round: round.Round, Role: RoleJuror, Contribution: rec.VotingPower}
	if round.TotalVoteWeight > 0 {
		share, err := mulDiv(round.JurorPool, rec.VotingPower, round.TotalVoteWeight)
		if err != nil {
			return nil, err
		}
		b.JurorPoolShare = share
	}
	b.Total = b.JurorPoolShare
	return b, nil
}

// ChallengerReward settles one challenger record against a round.
//
// On a challenger win the winner pool splits proportionally over the
// challenger side. On NoParticipation the denominator switches to the
// combined contested pool (totalStake + bondAtRisk): the refund is
// proportional to each party's share of everything contested, not a
// challenger-only split. On a defender win the stake is forfeited entirely.
func ChallengerReward(round RoundResult, rec ChallengerRecord) (*RewardBreakdown, error) {
	if err := round.Validate(); err != nil {
		return nil, err
	}
	if err := validateAmount("stake", rec.Stake); err != nil {
		return nil, err
	}

	b := &RewardBreakdown{Round: round.Round, Role: RoleChallenger, Contribution: rec.Stake}
	switch round.Outcome {
	case OutcomeChallengerWins:
		if round.TotalStake > 0 {
			share, err := mulDiv(round.WinnerPool, rec.Stake, round.TotalStake)
			if err != nil {
				return nil, err
			}
			b.WinnerPoolShare = share
		}
	case OutcomeNoParticipation:
		if contested := round.TotalStake + round.BondAtRisk; contested > 0 {
			share, err := mulDiv(round.WinnerPool, rec.Stake, contested)
			if err != nil {
				return nil, err
			}
			b.WinnerPoolShare = share
		}
	case OutcomeDefenderWins:
		// Stake forfeited to the winner pool.
	case OutcomeNone:
		// Unresolved round: degenerate zero result, caller's precondition.
	}
	b.Total = b.WinnerPoolShare
	return b, nil
}

// DefenderReward settles one defender record against a round.
//
// The safe-bond component pays out proportionally on every outcome, since that
// portion was never at risk. The at-risk component pays from the winner pool
// on a defender win, refunds against the combined contested pool on
// NoParticipation, and is forfeited on a challenger win. Proportions are taken
// against the round-wide available bond, not the individual defender's total.
func DefenderReward(round RoundResult, rec DefenderRecord) (*RewardBreakdown, error) {
	if err := round.Validate(); err != nil {
		return nil, err
	}
	if err := validateAmount("bond", rec.Bond); err != nil {
		return nil, err
	}

	b := &RewardBreakdown{Round: round.Round, Role: RoleDefender, Contribution: rec.Bond}

	availableBond := round.BondAtRisk + round.SafeBond
	var defenderAtRisk uint64
	if availableBond > 0 {
		share, err := mulDiv(round.SafeBond, rec.Bond, availableBond)
		if err != nil {
			return nil, err
		}
		b.SafeBondShare = share

		defenderAtRisk, err = mulDiv(round.BondAtRisk, rec.Bond, availableBond)
		if err != nil {
			return nil, err
		}
	}

	switch round.Outcome {
	case OutcomeDefenderWins:
		if round.BondAtRisk > 0 {
			share, err := mulDiv(round.WinnerPool, defenderAtRisk, round.BondAtRisk)
			if err != nil {
				return nil, err
			}
			b.WinnerPoolShare = share
		}
	case OutcomeNoParticipation:
		if contested := round.TotalStake + round.BondAtRisk; contested > 0 {
			share, err := mulDiv(round.WinnerPool, defenderAtRisk, contested)
			if err != nil {
				return nil, err
			}
			b.WinnerPoolShare = share
		}
	case OutcomeChallengerWins:
		// At-risk bond forfeited to the winner pool.
	case OutcomeNone:
		// Unresolved round: degenerate zero result, caller's precondition.
	}

	b.Total = b.SafeBondShare + b.WinnerPoolShare
	return b, nil
}

// UserRewards settles every record a single wallet holds for one round.
// Nil records contribute nothing; a wallet may legitimately hold any
// combination of the three roles.
func UserRewards(round RoundResult, juror *JurorRecord, challenger *ChallengerRecord, defender *DefenderRecord) (*UserRoundRewards, error) {
	if err := round.Validate(); err != nil {
		return nil, err
	}

	out := &UserRoundRewards{
		ChallengerWins: round.Outcome.IsChallengerWins(),
		DefenderWins:   round.Outcome.IsDefenderWins(),
	}

	if juror != nil {
		b, err := JurorReward(round, *juror)
		if err != nil {
			return nil, err
		}
		out.Juror = b
		if out.Total, err = addChecked(out.Total, b.Total); err != nil {
			return nil, err
		}
	}
	if challenger != nil {
		b, err := ChallengerReward(round, *challenger)
		if err != nil {
			return nil, err
		}
		out.Challenger = b
		if out.Total, err = addChecked(out.Total, b.Total); err != nil {
			return nil, err
		}
	}
	if defender != nil {
		b, err := DefenderReward(round, *defender)
		if err != nil {
			return nil, err
		}
		out.Defender = b
		if out.Total, err = addChecked(out.Total, b.Total); err != nil {
			return nil, err
		}
	}
	return out, nil
}
