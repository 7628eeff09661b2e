package receipt

import (
	"bytes"
	"crypto/ed25519"
	"io"
	"strings"
	"testing"

	"xdao.co/settle/keys"
	"xdao.co/settle/settlement"
)

func mustKeypair(t *testing.T, seedByte byte) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = seedByte
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return priv.Public().(ed25519.PublicKey), priv
}

type deterministicReader struct{ b byte }

func (r *deterministicReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.b
		r.b++
	}
	return len(p), nil
}

func testRound() settlement.RoundResult {
	return settlement.RoundResult{
		Round:           7,
		Outcome:         settlement.OutcomeNoParticipation,
		TotalStake:      1000,
		BondAtRisk:      500,
		SafeBond:        200,
		WinnerPool:      1200,
		JurorPool:       300,
		TotalVoteWeight: 3,
	}
}

func testRewards(t *testing.T) *settlement.UserRoundRewards {
	t.Helper()
	ur, err := settlement.UserRewards(testRound(),
		&settlement.JurorRecord{VotingPower: 1},
		&settlement.ChallengerRecord{Stake: 1000},
		&settlement.DefenderRecord{Bond: 700},
	)
	if err != nil {
		t.Fatalf("UserRewards: %v", err)
	}
	return ur
}

func TestRender_IsCanonicalAndDeterministic(t *testing.T) {
	opts := RenderOptions{Wallet: "wallet-1"}
	a := Render(testRound(), testRewards(t), opts)
	b := Render(testRound(), testRewards(t), opts)
	if !bytes.Equal(a, b) {
		t.Fatal("identical inputs must render identical bytes")
	}
	if _, err := Canonicalize(a); err != nil {
		t.Fatalf("rendered receipt is not canonical: %v", err)
	}

	cidA, err := CID(a)
	if err != nil {
		t.Fatalf("CID: %v", err)
	}
	cidB, err := CID(b)
	if err != nil {
		t.Fatalf("CID: %v", err)
	}
	if cidA != cidB {
		t.Fatalf("CID mismatch across identical renders: %s vs %s", cidA, cidB)
	}
}

func TestRender_FieldValues(t *testing.T) {
	b := Render(testRound(), testRewards(t), RenderOptions{Wallet: "wallet-1"})

	total, err := requiredFieldFromSection(b, "REWARDS", "Total-Reward")
	if err != nil {
		t.Fatalf("Total-Reward: %v", err)
	}
	// 100 juror + 800 challenger + 600 defender.
	if total != "1500" {
		t.Fatalf("Total-Reward: got %s, want 1500", total)
	}

	outcome, err := requiredFieldFromSection(b, "ROUND", "Outcome")
	if err != nil {
		t.Fatalf("Outcome: %v", err)
	}
	if outcome != "NoParticipation" {
		t.Fatalf("Outcome: got %s", outcome)
	}

	wallet, err := requiredFieldFromSection(b, "META", "Wallet")
	if err != nil {
		t.Fatalf("Wallet: %v", err)
	}
	if wallet != "wallet-1" {
		t.Fatalf("Wallet: got %s", wallet)
	}

	// Roles render in name order: challenger, defender, juror.
	rewards, err := sectionLines(b, "REWARDS")
	if err != nil {
		t.Fatalf("sectionLines: %v", err)
	}
	roles := fieldValues(rewards, "Role")
	if len(roles) != 3 || roles[0] != "challenger" || roles[1] != "defender" || roles[2] != "juror" {
		t.Fatalf("roles out of order: %v", roles)
	}
}

func TestRender_OmitsAbsentRoles(t *testing.T) {
	ur, err := settlement.UserRewards(testRound(), nil, nil, &settlement.DefenderRecord{Bond: 700})
	if err != nil {
		t.Fatalf("UserRewards: %v", err)
	}
	b := Render(testRound(), ur, RenderOptions{})
	rewards, err := sectionLines(b, "REWARDS")
	if err != nil {
		t.Fatalf("sectionLines: %v", err)
	}
	roles := fieldValues(rewards, "Role")
	if len(roles) != 1 || roles[0] != "defender" {
		t.Fatalf("roles: %v", roles)
	}
	if _, err := Canonicalize(b); err != nil {
		t.Fatalf("canonical: %v", err)
	}
}

func TestRenderSigned_Ed25519_Verifies(t *testing.T) {
	pub, priv := mustKeypair(t, 0xA1)
	b, err := RenderSigned(testRound(), testRewards(t), RenderOptions{
		Wallet:     "wallet-1",
		IssuerKey:  keys.Ed25519IssuerKey(pub),
		Ed25519Key: priv,
	})
	if err != nil {
		t.Fatalf("RenderSigned: %v", err)
	}
	ok, err := VerifySignature(b)
	if err != nil {
		t.Fatalf("VerifySignature: %v", err)
	}
	if !ok {
		t.Fatal("expected signed receipt to verify")
	}
}

func TestRenderSigned_Dilithium3_Verifies(t *testing.T) {
	pk, sk, err := keys.GenerateDilithium3Keypair(io.Reader(&deterministicReader{}))
	if err != nil {
		t.Fatalf("GenerateDilithium3Keypair: %v", err)
	}
	issuer, err := keys.Dilithium3IssuerKey(pk)
	if err != nil {
		t.Fatalf("Dilithium3IssuerKey: %v", err)
	}
	b, err := RenderSigned(testRound(), testRewards(t), RenderOptions{
		IssuerKey:     issuer,
		Dilithium3Key: sk,
		HashAlg:       "sha3-256",
	})
	if err != nil {
		t.Fatalf("RenderSigned: %v", err)
	}
	ok, err := VerifySignature(b)
	if err != nil {
		t.Fatalf("VerifySignature: %v", err)
	}
	if !ok {
		t.Fatal("expected signed receipt to verify")
	}
}

func TestVerifySignature_UnsignedReceipt(t *testing.T) {
	b := Render(testRound(), testRewards(t), RenderOptions{})
	ok, err := VerifySignature(b)
	if err != nil {
		t.Fatalf("VerifySignature: %v", err)
	}
	if ok {
		t.Fatal("unsigned receipt must report (false, nil)")
	}
}

func TestVerifySignature_RejectsMutatedAmount(t *testing.T) {
	pub, priv := mustKeypair(t, 0xB2)
	b, err := RenderSigned(testRound(), testRewards(t), RenderOptions{
		IssuerKey:  keys.Ed25519IssuerKey(pub),
		Ed25519Key: priv,
	})
	if err != nil {
		t.Fatalf("RenderSigned: %v", err)
	}
	// A one-unit bump keeps the receipt canonical but must break the signature.
	mutated := []byte(strings.Replace(string(b), "Total-Reward: 1500", "Total-Reward: 1501", 1))
	if _, err := Canonicalize(mutated); err != nil {
		t.Fatalf("mutated receipt should still be canonical: %v", err)
	}
	ok, err := VerifySignature(mutated)
	if ok || err == nil {
		t.Fatal("expected signature failure for mutated receipt")
	}
}

func TestRenderSigned_MissingKeyFails(t *testing.T) {
	if _, err := RenderSigned(testRound(), testRewards(t), RenderOptions{}); err == nil {
		t.Fatal("expected error without issuer key")
	}
	if _, err := RenderSigned(testRound(), testRewards(t), RenderOptions{IssuerKey: "ed25519:AAAA"}); err == nil {
		t.Fatal("expected error without private key")
	}
}

func TestRenderDocument_BindsCID(t *testing.T) {
	doc, err := RenderDocument(testRound(), testRewards(t), RenderOptions{})
	if err != nil {
		t.Fatalf("RenderDocument: %v", err)
	}
	want, err := CID(doc.Bytes)
	if err != nil {
		t.Fatalf("CID: %v", err)
	}
	if doc.CID != want {
		t.Fatalf("document CID mismatch: %s vs %s", doc.CID, want)
	}
}

func TestRender_SigningFailureFallsBackToUnsigned(t *testing.T) {
	pub, priv := mustKeypair(t, 0xC3)
	opts := RenderOptions{
		Wallet:     "wallet-1",
		IssuerKey:  keys.Ed25519IssuerKey(pub),
		Ed25519Key: priv,
		HashAlg:    "sha512", // ed25519 signing requires sha256
	}

	b := Render(testRound(), testRewards(t), opts)
	if strings.Contains(string(b), "Signature:") {
		t.Fatalf("receipt must carry no signature fields when signing fails:\n%s", b)
	}
	if _, err := Canonicalize(b); err != nil {
		t.Fatalf("fallback receipt not canonical: %v", err)
	}
	ok, err := VerifySignature(b)
	if err != nil {
		t.Fatalf("VerifySignature: %v", err)
	}
	if ok {
		t.Fatal("fallback receipt must report unsigned")
	}

	if _, err := RenderSigned(testRound(), testRewards(t), opts); err == nil {
		t.Fatal("RenderSigned must fail when the digest cannot be produced")
	}
}
