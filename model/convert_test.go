package model

import (
	"encoding/json"
	"testing"

	"xdao.co/settle/settlement"
)

func TestAmount_JSONRoundTrip(t *testing.T) {
	// 2^63-1 cannot survive a float64 path; the string encoding must.
	in := Amount(9223372036854775807)
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `"9223372036854775807"` {
		t.Fatalf("Marshal = %s", b)
	}
	var out Amount
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out != in {
		t.Fatalf("round trip: got %d, want %d", out, in)
	}
}

func TestAmount_AcceptsIntegerLiteral(t *testing.T) {
	var a Amount
	if err := json.Unmarshal([]byte(`18446744073709551615`), &a); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if a != 18446744073709551615 {
		t.Fatalf("got %d", a)
	}
}

func TestAmount_RejectsFloatsAndNegatives(t *testing.T) {
	for _, in := range []string{`1.5`, `"1.5"`, `-3`, `"-3"`, `"1e6"`, `true`, `""`} {
		var a Amount
		if err := json.Unmarshal([]byte(in), &a); err == nil {
			t.Errorf("Unmarshal(%s): expected error", in)
		}
	}
}

func TestToRound_RejectsUnknownOutcome(t *testing.T) {
	_, err := ToRound(RoundResult{Round: 1, Outcome: "challengerWins"})
	if err == nil {
		t.Fatal("expected error")
	}
	coded, ok := err.(*CodedError)
	if !ok || coded.Code != ErrInvalidOutcome {
		t.Fatalf("expected INVALID_OUTCOME, got %v", err)
	}
}

func TestComputeUserRewards_NoParticipationVector(t *testing.T) {
	req := UserRewardsRequest{
		Wallet: "wallet-1",
		Round: RoundResult{
			Round:      7,
			Outcome:    "NoParticipation",
			TotalStake: 1000,
			BondAtRisk: 500,
			SafeBond:   200,
			WinnerPool: 1200,
		},
		Challenger: &ChallengerRecord{Stake: 1000},
		Defender:   &DefenderRecord{Bond: 700},
	}
	resp, err := ComputeUserRewards(req)
	if err != nil {
		t.Fatalf("ComputeUserRewards: %v", err)
	}
	if resp.Total != 1400 {
		t.Fatalf("total: got %d, want 1400", resp.Total)
	}
	if resp.Challenger == nil || resp.Challenger.Total != 800 {
		t.Fatalf("challenger: %+v", resp.Challenger)
	}
	if resp.Defender == nil || resp.Defender.Total != 600 {
		t.Fatalf("defender: %+v", resp.Defender)
	}
	if resp.Juror != nil {
		t.Fatal("absent juror record must project to null")
	}
	if resp.ChallengerWins || resp.DefenderWins {
		t.Fatal("NoParticipation must not flag a winner")
	}
}

func TestComputeUserRewards_DomainErrorSurfacesCode(t *testing.T) {
	req := UserRewardsRequest{
		Round: RoundResult{Round: 1, Outcome: "ChallengerWins", TotalStake: Amount(1) << 63},
	}
	_, err := ComputeUserRewards(req)
	if err == nil {
		t.Fatal("expected error")
	}
	coded, ok := err.(*CodedError)
	if !ok || coded.Code != ErrDomain {
		t.Fatalf("expected DOMAIN, got %v", err)
	}
}

func TestSettleRequest_ReturnsCoreValues(t *testing.T) {
	req := UserRewardsRequest{
		Round: RoundResult{
			Round:      7,
			Outcome:    "NoParticipation",
			TotalStake: 1000,
			BondAtRisk: 500,
			SafeBond:   200,
			WinnerPool: 1200,
		},
		Challenger: &ChallengerRecord{Stake: 1000},
	}
	round, ur, err := SettleRequest(req)
	if err != nil {
		t.Fatalf("SettleRequest: %v", err)
	}
	if round.Outcome != settlement.OutcomeNoParticipation {
		t.Fatalf("outcome: got %v", round.Outcome)
	}
	if ur.Challenger == nil || ur.Challenger.Total != 800 {
		t.Fatalf("challenger total: got %+v, want 800", ur.Challenger)
	}

	// The DTO projection must agree with the core values.
	resp, err := ComputeUserRewards(req)
	if err != nil {
		t.Fatalf("ComputeUserRewards: %v", err)
	}
	if uint64(resp.Total) != ur.Total {
		t.Fatalf("projection total: got %d, want %d", resp.Total, ur.Total)
	}
}
