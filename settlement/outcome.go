package settlement

import "fmt"

// Outcome is the terminal state of a dispute round.
//
// The set is closed: exactly one of the three resolved outcomes holds once a
// round resolves. OutcomeNone means the round has not resolved yet; it
// classifies as none of the three and must not normally reach settlement
// arithmetic (callers check resolution status upstream; if they do not, the
// computed shares degenerate to zero rather than failing).
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeChallengerWins
	OutcomeDefenderWins
	OutcomeNoParticipation
)

// IsChallengerWins reports whether the challenger side prevailed.
func (o Outcome) IsChallengerWins() bool { return o == OutcomeChallengerWins }

// IsDefenderWins reports whether the defender side prevailed.
func (o Outcome) IsDefenderWins() bool { return o == OutcomeDefenderWins }

// IsNoParticipation reports whether the round closed without quorum and
// settles as a fee-adjusted proportional refund to both sides.
func (o Outcome) IsNoParticipation() bool { return o == OutcomeNoParticipation }

// IsResolved reports whether the outcome is terminal.
func (o Outcome) IsResolved() bool {
	return o == OutcomeChallengerWins || o == OutcomeDefenderWins || o == OutcomeNoParticipation
}

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "None"
	case OutcomeChallengerWins:
		return "ChallengerWins"
	case OutcomeDefenderWins:
		return "DefenderWins"
	case OutcomeNoParticipation:
		return "NoParticipation"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// ParseOutcome parses the canonical outcome name used at serialization
// boundaries. Unknown names are a domain error.
func ParseOutcome(s string) (Outcome, error) {
	switch s {
	case "None":
		return OutcomeNone, nil
	case "ChallengerWins":
		return OutcomeChallengerWins, nil
	case "DefenderWins":
		return OutcomeDefenderWins, nil
	case "NoParticipation":
		return OutcomeNoParticipation, nil
	default:
		return OutcomeNone, newError(KindDomain, "SETTLE-DOM-010", fmt.Sprintf("unknown outcome %q", s))
	}
}
