package dlog

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/qri-io/dlog/entry"
	"github.com/qri-io/dlog/store"
)

func TestAppendGrowsByOneAndMovesHead(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemStore()

	l, err := Create(nil)
	if err != nil {
		t.Fatal(err)
	}

	l, err = Append(ctx, s, l, []byte("one"))
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Entries()) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(l.Entries()))
	}
	firstHead := l.Heads()

	l, err = Append(ctx, s, l, []byte("two"))
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Entries()) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(l.Entries()))
	}
	if len(l.Heads()) != 1 || l.Heads()[0] == firstHead[0] {
		t.Errorf("expected a new single head after appending, got %v", l.Heads())
	}
}

func TestAppendRejectsNilLog(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemStore()
	if _, err := Append(ctx, s, nil, []byte("x")); err == nil {
		t.Errorf("expected appending to a nil log to fail")
	}
}

func entrySet(entries []*entry.Entry) map[string]bool {
	out := map[string]bool{}
	for _, e := range entries {
		out[e.Hash()] = true
	}
	return out
}

func TestJoinIsCommutativeInEntrySet(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemStore()

	root, err := Create(nil)
	if err != nil {
		t.Fatal(err)
	}
	root, err = Append(ctx, s, root, []byte("root"))
	if err != nil {
		t.Fatal(err)
	}

	a := root
	for _, p := range []string{"a1", "a2", "a3"} {
		a, err = Append(ctx, s, a, []byte(p))
		if err != nil {
			t.Fatal(err)
		}
	}

	b := root
	for _, p := range []string{"b1", "b2", "b3"} {
		b, err = Append(ctx, s, b, []byte(p))
		if err != nil {
			t.Fatal(err)
		}
	}

	ab, err := Join(a, b)
	if err != nil {
		t.Fatal(err)
	}
	ba, err := Join(b, a)
	if err != nil {
		t.Fatal(err)
	}

	if len(ab.Entries()) != 7 {
		t.Errorf("expected 7 entries (1 root + 3 + 3), got %d", len(ab.Entries()))
	}
	if diff := cmp.Diff(entrySet(ab.Entries()), entrySet(ba.Entries())); diff != "" {
		t.Errorf("join(a,b) and join(b,a) entry sets differ (-want +got):\n%s", diff)
	}
}

func TestJoinIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemStore()

	l, err := Create(nil)
	if err != nil {
		t.Fatal(err)
	}
	l, err = Append(ctx, s, l, []byte("one"))
	if err != nil {
		t.Fatal(err)
	}

	joined, err := Join(l, l)
	if err != nil {
		t.Fatal(err)
	}
	if len(joined.Entries()) != len(l.Entries()) {
		t.Errorf("expected self-join to not duplicate entries, got %d want %d", len(joined.Entries()), len(l.Entries()))
	}
}

func TestJoinRejectsNilLogs(t *testing.T) {
	if _, err := Join(nil, nil); err == nil {
		t.Errorf("expected join of nil logs to fail")
	}
}

func TestJoinAllFoldsFromFirstNonEmpty(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemStore()

	empty, err := Create(nil)
	if err != nil {
		t.Fatal(err)
	}

	a, err := Create(nil)
	if err != nil {
		t.Fatal(err)
	}
	a, err = Append(ctx, s, a, []byte("a"))
	if err != nil {
		t.Fatal(err)
	}

	b, err := Create(nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err = Append(ctx, s, b, []byte("b"))
	if err != nil {
		t.Fatal(err)
	}

	joined, err := JoinAll([]*Log{empty, nil, a, b})
	if err != nil {
		t.Fatal(err)
	}
	if len(joined.Entries()) != 2 {
		t.Errorf("expected 2 entries, got %d", len(joined.Entries()))
	}
}

func TestJoinAllAllEmptyReturnsEmptyLog(t *testing.T) {
	empty, err := Create(nil)
	if err != nil {
		t.Fatal(err)
	}
	joined, err := JoinAll([]*Log{empty, nil})
	if err != nil {
		t.Fatal(err)
	}
	if len(joined.Entries()) != 0 {
		t.Errorf("expected empty result, got %d entries", len(joined.Entries()))
	}
}

func TestRoundTripToHashFromHash(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemStore()

	l, err := Create(nil)
	if err != nil {
		t.Fatal(err)
	}
	l, err = Append(ctx, s, l, []byte("only"))
	if err != nil {
		t.Fatal(err)
	}

	hash, err := ToHash(ctx, s, l)
	if err != nil {
		t.Fatal(err)
	}

	restored, err := FromHash(ctx, s, hash, -1)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(entrySet(l.Entries()), entrySet(restored.Entries())); diff != "" {
		t.Errorf("entry sets differ after round trip (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(l.Heads(), restored.Heads()); diff != "" {
		t.Errorf("heads differ after round trip (-want +got):\n%s", diff)
	}
}

func TestToHashRejectsEmptyLog(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemStore()

	l, err := Create(nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ToHash(ctx, s, l); err == nil {
		t.Errorf("expected an empty log to be rejected")
	}
}

func TestFromHashRejectsNonLogBlock(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemStore()

	hash, err := s.Put(ctx, []byte("not log metadata"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := FromHash(ctx, s, hash, -1); err == nil {
		t.Errorf("expected a non-log block to be rejected")
	}
}

func TestFromHashBoundedChain(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemStore()

	l, err := Create(nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		l, err = Append(ctx, s, l, []byte{byte(i)})
		if err != nil {
			t.Fatal(err)
		}
	}

	hash, err := ToHash(ctx, s, l)
	if err != nil {
		t.Fatal(err)
	}

	restored, err := FromHash(ctx, s, hash, 42)
	if err != nil {
		t.Fatal(err)
	}
	if len(restored.Entries()) != 42 {
		t.Errorf("expected 42 entries, got %d", len(restored.Entries()))
	}
}

func TestExpandFillsInTruncatedHistory(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemStore()

	l, err := Create(nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 30; i++ {
		l, err = Append(ctx, s, l, []byte{byte(i)})
		if err != nil {
			t.Fatal(err)
		}
	}

	hash, err := ToHash(ctx, s, l)
	if err != nil {
		t.Fatal(err)
	}

	partial, err := FromHash(ctx, s, hash, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(partial.Entries()) != 10 {
		t.Fatalf("expected a truncated 10-entry log, got %d", len(partial.Entries()))
	}

	expanded, err := Expand(ctx, s, partial, 30, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(expanded.Entries()) != 30 {
		t.Errorf("expected expansion to recover all 30 entries, got %d", len(expanded.Entries()))
	}
	if diff := cmp.Diff(entrySet(l.Entries()), entrySet(expanded.Entries())); diff != "" {
		t.Errorf("expanded entry set differs from the original chain (-want +got):\n%s", diff)
	}
}

func TestExpandRejectsNilLog(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemStore()
	if _, err := Expand(ctx, s, nil, -1, nil); err == nil {
		t.Errorf("expected expanding a nil log to fail")
	}
}
