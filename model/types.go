package model

// RoundResult mirrors the on-chain round settlement record fetched from the
// account boundary. Outcome is the canonical name of a settlement outcome:
// "None", "ChallengerWins", "DefenderWins", or "NoParticipation".
type RoundResult struct {
	Round           uint64 `json:"round"`
	Outcome         string `json:"outcome"`
	TotalStake      Amount `json:"totalStake"`
	BondAtRisk      Amount `json:"bondAtRisk"`
	SafeBond        Amount `json:"safeBond"`
	WinnerPool      Amount `json:"winnerPool"`
	JurorPool       Amount `json:"jurorPool"`
	TotalVoteWeight Amount `json:"totalVoteWeight"`
}

type JurorRecord struct {
	VotingPower   Amount `json:"votingPower"`
	RewardClaimed bool   `json:"rewardClaimed"`
}

type ChallengerRecord struct {
	Stake         Amount `json:"stake"`
	RewardClaimed bool   `json:"rewardClaimed"`
}

type DefenderRecord struct {
	Bond          Amount `json:"bond"`
	RewardClaimed bool   `json:"rewardClaimed"`
}

type MinBondRequest struct {
	// Reputation is a 6-decimal fixed-point percentage in [0, 100_000_000].
	Reputation uint64 `json:"reputation"`
	BaseBond   Amount `json:"baseBond"`
}

type MinBondResponse struct {
	MinBond Amount `json:"minBond"`
}

// UserRewardsRequest carries a resolved round plus whichever participation
// records the wallet holds for it. Absent records are null.
type UserRewardsRequest struct {
	Wallet     string            `json:"wallet,omitempty"`
	Round      RoundResult       `json:"round"`
	Juror      *JurorRecord      `json:"juror,omitempty"`
	Challenger *ChallengerRecord `json:"challenger,omitempty"`
	Defender   *DefenderRecord   `json:"defender,omitempty"`
}

// RewardBreakdown is the settlement of one record.
//
// ShareOfPool is a display-only percentage of the paying pool; it must never
// feed back into settlement arithmetic.
type RewardBreakdown struct {
	Role            string  `json:"role"`
	Total           Amount  `json:"total"`
	JurorPoolShare  Amount  `json:"jurorPoolShare,omitempty"`
	WinnerPoolShare Amount  `json:"winnerPoolShare,omitempty"`
	SafeBondShare   Amount  `json:"safeBondShare,omitempty"`
	Contribution    Amount  `json:"contribution"`
	ShareOfPool     float64 `json:"shareOfPool,omitempty"`
}

type UserRewardsResponse struct {
	Wallet         string           `json:"wallet,omitempty"`
	Round          uint64           `json:"round"`
	Total          Amount           `json:"total"`
	Juror          *RewardBreakdown `json:"juror,omitempty"`
	Challenger     *RewardBreakdown `json:"challenger,omitempty"`
	Defender       *RewardBreakdown `json:"defender,omitempty"`
	ChallengerWins bool             `json:"challengerWins"`
	DefenderWins   bool             `json:"defenderWins"`
}

// ReceiptRequest asks for a canonical settlement receipt for the rewards a
// wallet is owed on a round.
type ReceiptRequest struct {
	UserRewardsRequest
	SupersedesReceiptCID string `json:"supersedesReceiptCID,omitempty"`
}

// ReceiptResponse carries canonical receipt text plus the CID computed over
// those exact bytes. Archived reports whether the serving engine stored the
// receipt in its archive.
type ReceiptResponse struct {
	CID      string `json:"cid"`
	Receipt  string `json:"receipt"`
	Archived bool   `json:"archived,omitempty"`
}
