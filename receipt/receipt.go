// Package receipt implements the canonical settlement receipt format: a
// deterministic, content-addressed text record of the payout preview a client
// was shown for one wallet in one resolved round.
//
// Receipts exist so a preview can be archived and re-verified bit-for-bit
// against the on-chain settlement: identical inputs always yield identical
// receipt bytes, and therefore an identical CID.
package receipt

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cloudflare/circl/sign/dilithium/mode3"

	"xdao.co/settle/keys"
	"xdao.co/settle/settlement"
)

const (
	Preamble  = "-----BEGIN XDAO SETTLEMENT RECEIPT-----"
	Postamble = "-----END XDAO SETTLEMENT RECEIPT-----"
)

// RenderOptions controls receipt metadata and optional signing.
type RenderOptions struct {
	// EngineID names the settlement engine; empty means the reference engine.
	EngineID string

	// Wallet is the wallet the rewards belong to; empty omits the line.
	Wallet string

	// ComputedAt is informational only; zero means omit.
	ComputedAt time.Time

	// SupersedesReceiptCID, when set, asserts this receipt supersedes a prior
	// receipt identified by CID (e.g. after a corrected round fetch).
	SupersedesReceiptCID string

	// Optional signing. IssuerKey must carry the wire form of the public key
	// ("ed25519:<base64>" or "dilithium3:<base64>") matching whichever private
	// key is set. HashAlg defaults to sha256. The signature covers the receipt
	// bytes excluding the Signature: line.
	IssuerKey     string
	Ed25519Key    ed25519.PrivateKey
	Dilithium3Key *mode3.PrivateKey
	HashAlg       string
}

// Render produces canonical receipt bytes for one wallet's settlement of one
// round. Section order and line order are deterministic; rendering the same
// inputs twice yields identical bytes.
//
// If signing was requested but fails, the receipt is rendered unsigned (no
// CRYPTO fields) rather than carrying an unverifiable placeholder signature.
// Use RenderSigned when a signature is required.
func Render(round settlement.RoundResult, rewards *settlement.UserRoundRewards, opts RenderOptions) []byte {
	out, err := render(round, rewards, opts)
	if err != nil {
		unsigned := opts
		unsigned.IssuerKey = ""
		unsigned.Ed25519Key = nil
		unsigned.Dilithium3Key = nil
		out, _ = render(round, rewards, unsigned)
	}
	return out
}

func render(round settlement.RoundResult, rewards *settlement.UserRoundRewards, opts RenderOptions) ([]byte, error) {
	engineID := opts.EngineID
	if engineID == "" {
		engineID = "xdao-settle-reference"
	}

	var sb strings.Builder
	sb.WriteString(Preamble)
	sb.WriteString("\n")

	// META
	sb.WriteString("META\n")
	metaLines := []string{
		"Engine-ID: " + engineID,
		"Spec: xdao-settle-1",
		"Version: 1",
	}
	if !opts.ComputedAt.IsZero() {
		metaLines = append(metaLines, "Computed-At: "+opts.ComputedAt.UTC().Format(time.RFC3339))
	}
	if opts.SupersedesReceiptCID != "" {
		metaLines = append(metaLines, "Supersedes-Receipt-CID: "+opts.SupersedesReceiptCID)
	}
	if opts.Wallet != "" {
		metaLines = append(metaLines, "Wallet: "+opts.Wallet)
	}
	sort.Strings(metaLines)
	for _, l := range metaLines {
		sb.WriteString(l)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	// ROUND
	sb.WriteString("ROUND\n")
	roundLines := []string{
		"Bond-At-Risk: " + strconv.FormatUint(round.BondAtRisk, 10),
		"Juror-Pool: " + strconv.FormatUint(round.JurorPool, 10),
		"Outcome: " + round.Outcome.String(),
		"Round: " + strconv.FormatUint(round.Round, 10),
		"Safe-Bond: " + strconv.FormatUint(round.SafeBond, 10),
		"Total-Stake: " + strconv.FormatUint(round.TotalStake, 10),
		"Total-Vote-Weight: " + strconv.FormatUint(round.TotalVoteWeight, 10),
		"Winner-Pool: " + strconv.FormatUint(round.WinnerPool, 10),
	}
	sort.Strings(roundLines)
	for _, l := range roundLines {
		sb.WriteString(l)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	// REWARDS: grand total first, then one record per held role in role-name
	// order with a fixed field order per record.
	sb.WriteString("REWARDS\n")
	var total uint64
	var breakdowns []*settlement.RewardBreakdown
	if rewards != nil {
		total = rewards.Total
		for _, b := range []*settlement.RewardBreakdown{rewards.Challenger, rewards.Defender, rewards.Juror} {
			if b != nil {
				breakdowns = append(breakdowns, b)
			}
		}
		sort.Slice(breakdowns, func(i, j int) bool { return breakdowns[i].Role < breakdowns[j].Role })
	}
	sb.WriteString("Total-Reward: ")
	sb.WriteString(strconv.FormatUint(total, 10))
	sb.WriteString("\n")
	for _, b := range breakdowns {
		sb.WriteString("Role: ")
		sb.WriteString(string(b.Role))
		sb.WriteString("\n")
		sb.WriteString("Contribution: ")
		sb.WriteString(strconv.FormatUint(b.Contribution, 10))
		sb.WriteString("\n")
		switch b.Role {
		case settlement.RoleJuror:
			sb.WriteString("Juror-Pool-Share: ")
			sb.WriteString(strconv.FormatUint(b.JurorPoolShare, 10))
			sb.WriteString("\n")
		case settlement.RoleChallenger:
			sb.WriteString("Winner-Pool-Share: ")
			sb.WriteString(strconv.FormatUint(b.WinnerPoolShare, 10))
			sb.WriteString("\n")
		case settlement.RoleDefender:
			sb.WriteString("Safe-Bond-Share: ")
			sb.WriteString(strconv.FormatUint(b.SafeBondShare, 10))
			sb.WriteString("\n")
			sb.WriteString("Winner-Pool-Share: ")
			sb.WriteString(strconv.FormatUint(b.WinnerPoolShare, 10))
			sb.WriteString("\n")
		}
		sb.WriteString("Total: ")
		sb.WriteString(strconv.FormatUint(b.Total, 10))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	// CRYPTO (empty unless signing was requested)
	sb.WriteString("CRYPTO\n")
	var cryptoLines []string
	if opts.IssuerKey != "" {
		cryptoLines = []string{
			"Hash-Alg: " + hashAlgOrDefault(opts.HashAlg),
			"Issuer-Key: " + opts.IssuerKey,
			"Signature-Alg: " + signatureAlg(opts),
			"Signature: 0",
		}
	}
	sort.Strings(cryptoLines)
	for _, l := range cryptoLines {
		sb.WriteString(l)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString(Postamble)
	sb.WriteString("\n")
	out := []byte(sb.String())

	if opts.IssuerKey != "" && (len(opts.Ed25519Key) > 0 || opts.Dilithium3Key != nil) {
		sig, err := signReceipt(out, opts)
		if err != nil {
			return nil, err
		}
		out = []byte(strings.Replace(string(out), "Signature: 0", "Signature: "+sig, 1))
	}

	return out, nil
}

// RenderSigned renders a receipt with a required signature.
//
// Unlike Render, this fails explicitly if signing cannot be performed.
func RenderSigned(round settlement.RoundResult, rewards *settlement.UserRoundRewards, opts RenderOptions) ([]byte, error) {
	if opts.IssuerKey == "" {
		return nil, errors.New("receipt: missing issuer key")
	}
	if len(opts.Ed25519Key) == 0 && opts.Dilithium3Key == nil {
		return nil, errors.New("receipt: missing private key")
	}
	return render(round, rewards, opts)
}

func hashAlgOrDefault(alg string) string {
	if alg == "" {
		return "sha256"
	}
	return alg
}

func signatureAlg(opts RenderOptions) string {
	if opts.Dilithium3Key != nil {
		return "dilithium3"
	}
	return "ed25519"
}

func signReceipt(receiptBytes []byte, opts RenderOptions) (string, error) {
	scope, err := signatureScope(receiptBytes)
	if err != nil {
		return "", err
	}
	if opts.Dilithium3Key != nil {
		return keys.SignDilithium3(scope, hashAlgOrDefault(opts.HashAlg), opts.Dilithium3Key)
	}
	if hashAlgOrDefault(opts.HashAlg) != "sha256" {
		return "", fmt.Errorf("receipt: ed25519 signing requires sha256, got %q", opts.HashAlg)
	}
	return keys.SignEd25519SHA256(scope, opts.Ed25519Key), nil
}

// signatureScope returns the receipt bytes with the Signature: line removed.
func signatureScope(receiptBytes []byte) ([]byte, error) {
	lines := strings.Split(string(receiptBytes), "\n")
	var out []string
	removed := false
	for _, l := range lines {
		if strings.HasPrefix(l, "Signature: ") {
			if removed {
				return nil, errors.New("multiple Signature lines")
			}
			removed = true
			continue
		}
		out = append(out, l)
	}
	if !removed {
		return nil, errors.New("missing Signature line")
	}
	return []byte(strings.Join(out, "\n")), nil
}

func sectionLines(receiptBytes []byte, section string) ([]string, error) {
	lines := strings.Split(string(receiptBytes), "\n")
	idx := -1
	for i, l := range lines {
		if l == section {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("missing section %q", section)
	}
	var out []string
	for i := idx + 1; i < len(lines); i++ {
		if lines[i] == "" {
			break
		}
		out = append(out, lines[i])
	}
	return out, nil
}

func fieldValues(lines []string, key string) []string {
	prefix := key + ": "
	var out []string
	for _, l := range lines {
		if strings.HasPrefix(l, prefix) {
			out = append(out, strings.TrimPrefix(l, prefix))
		}
	}
	return out
}

func singleFieldFromSection(receiptBytes []byte, section, key string) (string, bool, error) {
	lines, err := sectionLines(receiptBytes, section)
	if err != nil {
		return "", false, err
	}
	vals := fieldValues(lines, key)
	if len(vals) == 0 {
		return "", false, nil
	}
	if len(vals) > 1 {
		return "", false, fmt.Errorf("multiple %s: %s", section, key)
	}
	if vals[0] == "" {
		return "", false, fmt.Errorf("empty %s: %s", section, key)
	}
	return vals[0], true, nil
}

func requiredFieldFromSection(receiptBytes []byte, section, key string) (string, error) {
	v, ok, err := singleFieldFromSection(receiptBytes, section, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("missing %s: %s", section, key)
	}
	return v, nil
}
