package receipt

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"xdao.co/settle/settlement"
)

// Canonicalize is the mandatory canonicalization choke point for receipts.
//
// Receipt bytes MUST be canonical before CID derivation, signature
// verification, or supersession validation. This function enforces byte-level
// canonical rules by rejecting any non-canonical input.
func Canonicalize(input []byte) ([]byte, error) {
	if !utf8.Valid(input) {
		return nil, errors.New("receipt must be valid UTF-8")
	}
	if bytes.HasPrefix(input, []byte{0xEF, 0xBB, 0xBF}) {
		return nil, errors.New("BOM not allowed")
	}
	if bytes.Contains(input, []byte("\r")) {
		return nil, errors.New("CR line endings not allowed")
	}
	if len(input) == 0 {
		return nil, errors.New("empty receipt")
	}
	// Canonical receipts emitted by Render always end with a newline.
	if input[len(input)-1] != '\n' {
		return nil, errors.New("missing trailing newline")
	}
	for _, line := range bytes.Split(input, []byte("\n")) {
		if len(line) > 0 && (line[len(line)-1] == ' ' || line[len(line)-1] == '\t') {
			return nil, errors.New("trailing whitespace forbidden")
		}
	}

	if err := validateCanonicalReceipt(string(input)); err != nil {
		return nil, err
	}

	// Return a copy to prevent caller mutation.
	return append([]byte(nil), input...), nil
}

var receiptSectionOrder = []string{"META", "ROUND", "REWARDS", "CRYPTO"}

func validateCanonicalReceipt(doc string) error {
	lines := strings.Split(doc, "\n")
	// Canonical receipts have a trailing newline, so last line is always empty.
	if len(lines) < 3 {
		return errors.New("receipt too short")
	}
	if lines[0] != Preamble {
		return errors.New("missing receipt preamble")
	}
	if lines[len(lines)-1] != "" {
		return errors.New("missing trailing newline")
	}
	if lines[len(lines)-2] != Postamble {
		return errors.New("missing receipt postamble")
	}

	i := 1
	for _, sec := range receiptSectionOrder {
		if i >= len(lines)-2 {
			return fmt.Errorf("missing section %q", sec)
		}
		if lines[i] != sec {
			return fmt.Errorf("sections missing or out of order (expected %q got %q)", sec, lines[i])
		}
		i++
		start := i
		for i < len(lines)-2 && lines[i] != "" {
			i++
		}
		if i >= len(lines)-2 {
			return fmt.Errorf("missing blank line after section %q", sec)
		}
		if err := validateSection(sec, lines[start:i]); err != nil {
			return err
		}
		// Consume the required section terminator blank line.
		i++
	}

	if i != len(lines)-2 {
		return errors.New("unexpected content before postamble")
	}
	return nil
}

func validateSection(section string, body []string) error {
	switch section {
	case "META":
		return validateMeta(body)
	case "ROUND":
		return validateRound(body)
	case "REWARDS":
		return validateRewards(body)
	case "CRYPTO":
		return validateCrypto(body)
	default:
		return fmt.Errorf("unknown section %q", section)
	}
}

func validateSortedStrict(lines []string) error {
	seen := make(map[string]bool)
	for i := 0; i < len(lines); i++ {
		l := lines[i]
		if l == "" {
			return errors.New("empty line inside section")
		}
		if seen[l] {
			return errors.New("duplicate line")
		}
		seen[l] = true
		if i > 0 && !(lines[i-1] < lines[i]) {
			return errors.New("lines not sorted lexicographically")
		}
	}
	return nil
}

func validateKVLine(line string) (string, string, error) {
	if !strings.Contains(line, ": ") {
		return "", "", errors.New("invalid key-value formatting")
	}
	k, v, _ := strings.Cut(line, ": ")
	if k == "" {
		return "", "", errors.New("empty key")
	}
	if v == "" {
		return "", "", errors.New("empty value")
	}
	return k, v, nil
}

func validateAmountValue(section, key, v string) error {
	// Amounts are canonical decimal: no sign, no leading zeros (except "0").
	if _, err := strconv.ParseUint(v, 10, 64); err != nil {
		return fmt.Errorf("%s: invalid %s amount", section, key)
	}
	if len(v) > 1 && v[0] == '0' {
		return fmt.Errorf("%s: non-canonical %s amount", section, key)
	}
	return nil
}

func validateMeta(body []string) error {
	if err := validateSortedStrict(body); err != nil {
		return fmt.Errorf("META: %w", err)
	}
	need := map[string]bool{"Engine-ID": false, "Spec": false, "Version": false}
	for _, l := range body {
		k, _, err := validateKVLine(l)
		if err != nil {
			return fmt.Errorf("META: %w", err)
		}
		if _, ok := need[k]; ok {
			need[k] = true
		}
	}
	for k, ok := range need {
		if !ok {
			return fmt.Errorf("META: missing %s", k)
		}
	}
	return nil
}

var roundAmountKeys = []string{
	"Bond-At-Risk", "Juror-Pool", "Round", "Safe-Bond",
	"Total-Stake", "Total-Vote-Weight", "Winner-Pool",
}

func validateRound(body []string) error {
	if err := validateSortedStrict(body); err != nil {
		return fmt.Errorf("ROUND: %w", err)
	}
	got := make(map[string]string, len(body))
	for _, l := range body {
		k, v, err := validateKVLine(l)
		if err != nil {
			return fmt.Errorf("ROUND: %w", err)
		}
		got[k] = v
	}
	for _, k := range roundAmountKeys {
		v, ok := got[k]
		if !ok {
			return fmt.Errorf("ROUND: missing %s", k)
		}
		if err := validateAmountValue("ROUND", k, v); err != nil {
			return err
		}
	}
	outcome, ok := got["Outcome"]
	if !ok {
		return errors.New("ROUND: missing Outcome")
	}
	if _, err := settlement.ParseOutcome(outcome); err != nil {
		return fmt.Errorf("ROUND: unknown outcome %q", outcome)
	}
	if len(got) != len(roundAmountKeys)+1 {
		return errors.New("ROUND: unexpected keys")
	}
	return nil
}

// rewardFieldOrder fixes the per-record field sequence after the Role line.
var rewardFieldOrder = map[string][]string{
	"challenger": {"Contribution", "Winner-Pool-Share", "Total"},
	"defender":   {"Contribution", "Safe-Bond-Share", "Winner-Pool-Share", "Total"},
	"juror":      {"Contribution", "Juror-Pool-Share", "Total"},
}

func validateRewards(body []string) error {
	if len(body) == 0 {
		return errors.New("REWARDS: missing Total-Reward")
	}
	if !strings.HasPrefix(body[0], "Total-Reward: ") {
		return errors.New("REWARDS: first line must be Total-Reward")
	}
	_, total, err := validateKVLine(body[0])
	if err != nil {
		return fmt.Errorf("REWARDS: %w", err)
	}
	if err := validateAmountValue("REWARDS", "Total-Reward", total); err != nil {
		return err
	}

	i := 1
	var lastRole string
	for i < len(body) {
		if !strings.HasPrefix(body[i], "Role: ") {
			return errors.New("REWARDS: expected Role")
		}
		_, role, err := validateKVLine(body[i])
		if err != nil {
			return fmt.Errorf("REWARDS: %w", err)
		}
		fields, ok := rewardFieldOrder[role]
		if !ok {
			return fmt.Errorf("REWARDS: unknown role %q", role)
		}
		if lastRole != "" && !(lastRole < role) {
			return errors.New("REWARDS: roles not sorted")
		}
		lastRole = role
		i++
		for _, key := range fields {
			if i >= len(body) || !strings.HasPrefix(body[i], key+": ") {
				return fmt.Errorf("REWARDS: %s record missing %s", role, key)
			}
			_, v, err := validateKVLine(body[i])
			if err != nil {
				return fmt.Errorf("REWARDS: %w", err)
			}
			if err := validateAmountValue("REWARDS", key, v); err != nil {
				return err
			}
			i++
		}
	}
	return nil
}

func validateCrypto(body []string) error {
	if len(body) == 0 {
		return nil
	}
	if err := validateSortedStrict(body); err != nil {
		return fmt.Errorf("CRYPTO: %w", err)
	}
	need := map[string]bool{"Hash-Alg": false, "Issuer-Key": false, "Signature-Alg": false, "Signature": false}
	for _, l := range body {
		k, _, err := validateKVLine(l)
		if err != nil {
			return fmt.Errorf("CRYPTO: %w", err)
		}
		if _, ok := need[k]; ok {
			need[k] = true
		}
	}
	for k, ok := range need {
		if !ok {
			return fmt.Errorf("CRYPTO: missing %s", k)
		}
	}
	return nil
}
