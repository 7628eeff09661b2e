package storage

import (
	"errors"
	"testing"

	"github.com/ipfs/go-cid"

	"xdao.co/settle/receipt"
	"xdao.co/settle/settlement"
)

func canonicalReceipt(t *testing.T) []byte {
	t.Helper()
	round := settlement.RoundResult{
		Round:      7,
		Outcome:    settlement.OutcomeNoParticipation,
		TotalStake: 1000,
		BondAtRisk: 500,
		SafeBond:   200,
		WinnerPool: 1200,
	}
	rewards, err := settlement.UserRewards(round, nil, &settlement.ChallengerRecord{Stake: 1000}, nil)
	if err != nil {
		t.Fatalf("UserRewards: %v", err)
	}
	return receipt.Render(round, rewards, receipt.RenderOptions{Wallet: "wallet-1"})
}

func TestReceiptArchive_RoundTrip(t *testing.T) {
	arc := ReceiptArchive{Backend: newMemArchive()}
	b := canonicalReceipt(t)

	doc, err := arc.Put(b)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	id, err := cid.Decode(doc.CID)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !arc.Has(id) {
		t.Fatalf("Has returned false after Put")
	}

	got, err := arc.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got.Bytes) != string(b) {
		t.Fatalf("Get bytes mismatch")
	}
	if got.CID != doc.CID {
		t.Fatalf("Get CID mismatch: got %s want %s", got.CID, doc.CID)
	}
}

func TestReceiptArchive_RejectsNonCanonicalBytes(t *testing.T) {
	backend := newMemArchive()
	arc := ReceiptArchive{Backend: backend}

	_, err := arc.Put([]byte("not a receipt"))
	if !errors.Is(err, ErrNotCanonical) {
		t.Fatalf("Put: got %v want ErrNotCanonical", err)
	}
	if len(backend.objects) != 0 {
		t.Fatalf("non-canonical bytes reached the backend")
	}
}

func TestReceiptArchive_GetRejectsNonCanonicalStoredBytes(t *testing.T) {
	backend := newMemArchive()
	arc := ReceiptArchive{Backend: backend}

	// Arbitrary bytes written behind the wrapper's back must not come back
	// out as a receipt.
	id, err := backend.Put([]byte("raw bytes, not a receipt"))
	if err != nil {
		t.Fatalf("backend Put failed: %v", err)
	}
	if _, err := arc.Get(id); !errors.Is(err, ErrNotCanonical) {
		t.Fatalf("Get: got %v want ErrNotCanonical", err)
	}
}

func TestReceiptArchive_UndefCID(t *testing.T) {
	arc := ReceiptArchive{Backend: newMemArchive()}
	var undef cid.Cid
	if arc.Has(undef) {
		t.Fatalf("Has should be false for undefined CID")
	}
	if _, err := arc.Get(undef); err != ErrInvalidCID {
		t.Fatalf("Get: got %v want %v", err, ErrInvalidCID)
	}
}
