package testkit

import (
	"bytes"
	"testing"

	"github.com/ipfs/go-cid"

	"xdao.co/settle/cidutil"
	"xdao.co/settle/storage"
)

// NewArchive constructs a fresh, empty archive instance for a test.
// The returned archive MUST be isolated from other tests.
type NewArchive func(t *testing.T) storage.Archive

func RunArchiveConformance(t *testing.T, newArchive NewArchive) {
	t.Helper()

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		arc := newArchive(t)
		want := []byte("hello, settlement archive")

		id, err := arc.Put(want)
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		wantID, err := cidutil.Sum(want)
		if err != nil {
			t.Fatalf("Sum failed: %v", err)
		}
		if id != wantID {
			t.Fatalf("Put CID mismatch: got %s want %s", id, wantID)
		}

		got, err := arc.Get(id)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("Get bytes mismatch")
		}

		gotID, err := cidutil.Sum(got)
		if err != nil {
			t.Fatalf("Sum(got) failed: %v", err)
		}
		if gotID != id {
			t.Fatalf("Get returned bytes not matching requested CID")
		}
	})

	t.Run("PutIdempotent", func(t *testing.T) {
		arc := newArchive(t)
		b := []byte("same bytes")

		id1, err := arc.Put(b)
		if err != nil {
			t.Fatalf("Put(1) failed: %v", err)
		}
		id2, err := arc.Put(b)
		if err != nil {
			t.Fatalf("Put(2) failed: %v", err)
		}
		if id1 != id2 {
			t.Fatalf("Put not idempotent: %s vs %s", id1, id2)
		}
	})

	t.Run("HasAndNotFound", func(t *testing.T) {
		arc := newArchive(t)
		b := []byte("missing")
		id, err := cidutil.Sum(b)
		if err != nil {
			t.Fatalf("Sum failed: %v", err)
		}

		if arc.Has(id) {
			t.Fatalf("Has returned true for missing CID")
		}
		_, err = arc.Get(id)
		if !storage.IsNotFound(err) {
			t.Fatalf("Get missing: got err=%v want ErrNotFound", err)
		}

		_, err = arc.Put(b)
		if err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if !arc.Has(id) {
			t.Fatalf("Has returned false after Put")
		}
	})

	t.Run("RejectUndefCID", func(t *testing.T) {
		arc := newArchive(t)
		var undef cid.Cid
		if arc.Has(undef) {
			t.Fatalf("Has should be false for undefined CID")
		}
		if _, err := arc.Get(undef); err == nil {
			t.Fatalf("Get should fail for undefined CID")
		}
	})
}
