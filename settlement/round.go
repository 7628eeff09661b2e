package settlement

import (
	"fmt"
	"math"
)

// RoundResult is the frozen economic record of a resolved dispute round.
//
// It is produced exactly once by the chain when the round resolves and is
// never mutated afterwards; this package only reads copies fetched from the
// account boundary. All amounts are in the protocol's base monetary unit and
// must not exceed 2^63-1.
type RoundResult struct {
	Round   uint64
	Outcome Outcome

	// TotalStake is the sum of challenger contributions.
	TotalStake uint64
	// BondAtRisk is the sum of defender contributions exposed to forfeiture.
	BondAtRisk uint64
	// SafeBond is the sum of defender contributions never at risk.
	SafeBond uint64
	// WinnerPool is the amount earmarked for the prevailing side, net of fees.
	WinnerPool uint64
	// JurorPool is the amount earmarked for jurors.
	JurorPool uint64
	// TotalVoteWeight is the sum of voting power across all jurors who voted.
	TotalVoteWeight uint64
}

// JurorRecord is one wallet's juror participation in one round.
type JurorRecord struct {
	VotingPower   uint64
	RewardClaimed bool
}

// ChallengerRecord is one wallet's challenger participation in one round.
type ChallengerRecord struct {
	Stake         uint64
	RewardClaimed bool
}

// DefenderRecord is one wallet's defender participation in one round.
type DefenderRecord struct {
	Bond          uint64
	RewardClaimed bool
}

// Role identifies which participation record a RewardBreakdown settles.
type Role string

const (
	RoleJuror      Role = "juror"
	RoleChallenger Role = "challenger"
	RoleDefender   Role = "defender"
)

// RewardBreakdown is the computed settlement for one record in one round.
//
// It is purely derived and never persisted. Component shares are zero when
// they do not apply to the role or outcome; Total is always the sum of the
// populated components.
type RewardBreakdown struct {
	Round uint64
	Role  Role
	Total uint64

	JurorPoolShare  uint64
	WinnerPoolShare uint64
	SafeBondShare   uint64

	// Contribution echoes the record's input amount (voting power, stake, or
	// bond) for display.
	Contribution uint64
}

// UserRoundRewards aggregates settlements across whichever subset of roles a
// single wallet holds for one round.
type UserRoundRewards struct {
	Total uint64

	Juror      *RewardBreakdown
	Challenger *RewardBreakdown
	Defender   *RewardBreakdown

	ChallengerWins bool
	DefenderWins   bool
}

const maxAmount = math.MaxInt64

// Validate rejects rounds whose amounts leave the protocol's value domain.
// A malformed round points at an upstream account-fetch bug; failing here
// beats previewing a plausible-looking wrong payout.
func (r RoundResult) Validate() error {
	fields := []struct {
		name string
		v    uint64
	}{
		{"totalStake", r.TotalStake},
		{"bondAtRisk", r.BondAtRisk},
		{"safeBond", r.SafeBond},
		{"winnerPool", r.WinnerPool},
		{"jurorPool", r.JurorPool},
		{"totalVoteWeight", r.TotalVoteWeight},
	}
	for _, f := range fields {
		if f.v > maxAmount {
			return newError(KindDomain, "SETTLE-DOM-002",
				fmt.Sprintf("round %d: %s exceeds 2^63-1", r.Round, f.name))
		}
	}
	switch r.Outcome {
	case OutcomeNone, OutcomeChallengerWins, OutcomeDefenderWins, OutcomeNoParticipation:
		return nil
	default:
		return newError(KindDomain, "SETTLE-DOM-011",
			fmt.Sprintf("round %d: outcome out of range", r.Round))
	}
}

func validateAmount(name string, v uint64) error {
	if v > maxAmount {
		return newError(KindDomain, "SETTLE-DOM-003", fmt.Sprintf("%s exceeds 2^63-1", name))
	}
	return nil
}
