package model

import (
	"errors"
	"fmt"

	"xdao.co/settle/settlement"
)

// ToRound converts the boundary DTO to the core round record.
func ToRound(r RoundResult) (settlement.RoundResult, error) {
	outcome, err := settlement.ParseOutcome(r.Outcome)
	if err != nil {
		return settlement.RoundResult{}, NewError(ErrInvalidOutcome, fmt.Sprintf("round %d: unknown outcome %q", r.Round, r.Outcome))
	}
	round := settlement.RoundResult{
		Round:           r.Round,
		Outcome:         outcome,
		TotalStake:      uint64(r.TotalStake),
		BondAtRisk:      uint64(r.BondAtRisk),
		SafeBond:        uint64(r.SafeBond),
		WinnerPool:      uint64(r.WinnerPool),
		JurorPool:       uint64(r.JurorPool),
		TotalVoteWeight: uint64(r.TotalVoteWeight),
	}
	if err := round.Validate(); err != nil {
		return settlement.RoundResult{}, CodeError(err)
	}
	return round, nil
}

// FromBreakdown projects a core breakdown into the boundary DTO, attaching the
// display-only pool percentage.
func FromBreakdown(b *settlement.RewardBreakdown, pool uint64) *RewardBreakdown {
	if b == nil {
		return nil
	}
	out := &RewardBreakdown{
		Role:            string(b.Role),
		Total:           Amount(b.Total),
		JurorPoolShare:  Amount(b.JurorPoolShare),
		WinnerPoolShare: Amount(b.WinnerPoolShare),
		SafeBondShare:   Amount(b.SafeBondShare),
		Contribution:    Amount(b.Contribution),
	}
	if pool > 0 {
		out.ShareOfPool = float64(b.Total) / float64(pool) * 100
	}
	return out
}

// SettleRequest converts a boundary request into core types and runs the
// aggregator. Callers that need the core values (receipt rendering, custom
// projections) use this; ComputeUserRewards wraps it for the response DTO.
func SettleRequest(req UserRewardsRequest) (settlement.RoundResult, *settlement.UserRoundRewards, error) {
	round, err := ToRound(req.Round)
	if err != nil {
		return settlement.RoundResult{}, nil, err
	}

	var juror *settlement.JurorRecord
	if req.Juror != nil {
		juror = &settlement.JurorRecord{VotingPower: uint64(req.Juror.VotingPower), RewardClaimed: req.Juror.RewardClaimed}
	}
	var challenger *settlement.ChallengerRecord
	if req.Challenger != nil {
		challenger = &settlement.ChallengerRecord{Stake: uint64(req.Challenger.Stake), RewardClaimed: req.Challenger.RewardClaimed}
	}
	var defender *settlement.DefenderRecord
	if req.Defender != nil {
		defender = &settlement.DefenderRecord{Bond: uint64(req.Defender.Bond), RewardClaimed: req.Defender.RewardClaimed}
	}

	ur, err := settlement.UserRewards(round, juror, challenger, defender)
	if err != nil {
		return settlement.RoundResult{}, nil, CodeError(err)
	}
	return round, ur, nil
}

// ComputeUserRewards runs the core aggregator over a request and projects the
// response DTO.
func ComputeUserRewards(req UserRewardsRequest) (*UserRewardsResponse, error) {
	round, ur, err := SettleRequest(req)
	if err != nil {
		return nil, err
	}

	return &UserRewardsResponse{
		Wallet:         req.Wallet,
		Round:          round.Round,
		Total:          Amount(ur.Total),
		Juror:          FromBreakdown(ur.Juror, round.JurorPool),
		Challenger:     FromBreakdown(ur.Challenger, round.WinnerPool),
		Defender:       FromBreakdown(ur.Defender, round.WinnerPool+round.SafeBond),
		ChallengerWins: ur.ChallengerWins,
		DefenderWins:   ur.DefenderWins,
	}, nil
}

// CodeError maps a core settlement error onto a stable boundary code.
// Non-settlement errors map to INTERNAL.
func CodeError(err error) *CodedError {
	if err == nil {
		return nil
	}
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded
	}
	var se *settlement.Error
	if !errors.As(err, &se) {
		return NewError(ErrInternal, err.Error())
	}
	switch se.Kind {
	case settlement.KindDomain:
		return NewError(ErrDomain, se.Message)
	case settlement.KindOverflow:
		return NewError(ErrOverflow, se.Message)
	default:
		return NewError(ErrInternal, se.Message)
	}
}
