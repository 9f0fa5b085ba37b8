package lodcache

import (
	"context"
	"testing"
	"time"
)

func TestMetadataIndexEvictsOldestOnOverflow(t *testing.T) {
	idx := NewMetadataIndex(MinimumIndexCapacity, nil)

	for i := 0; i < MinimumIndexCapacity; i++ {
		graphIRI := "http://ex/" + string(rune('a'+i%26)) + string(rune('0'+i/26))
		if err := idx.SetMemo(context.Background(), graphIRI, CacheEntry{Status: StatusSuccess, Timestamp: time.Now()}, nil); err != nil {
			t.Fatalf("SetMemo: %v", err)
		}
	}
	if idx.Len() != MinimumIndexCapacity {
		t.Fatalf("Len() = %d, want %d", idx.Len(), MinimumIndexCapacity)
	}

	if err := idx.SetMemo(context.Background(), "http://ex/overflow", CacheEntry{Status: StatusSuccess, Timestamp: time.Now()}, nil); err != nil {
		t.Fatalf("SetMemo: %v", err)
	}
	if idx.Len() != MinimumIndexCapacity {
		t.Fatalf("Len() after overflow = %d, want unchanged %d", idx.Len(), MinimumIndexCapacity)
	}
	if _, found, _ := idx.GetMemo(context.Background(), "http://ex/a0", nil); found {
		t.Fatal("oldest entry http://ex/a0 should have been evicted")
	}
}

func TestGetOrCreateMemoWinnerLoser(t *testing.T) {
	idx := NewMetadataIndex(DefaultIndexCapacity, nil)
	policy := NewExpirationPolicy(time.Hour)

	entry1, winner1, err := idx.GetOrCreateMemo(context.Background(), "http://ex/a", nil, policy)
	if err != nil {
		t.Fatalf("GetOrCreateMemo: %v", err)
	}
	if !winner1 {
		t.Fatal("first caller should win")
	}
	if entry1.Status != StatusCacheLookup {
		t.Fatalf("fresh entry status = %v, want CacheLookup", entry1.Status)
	}

	_, winner2, err := idx.GetOrCreateMemo(context.Background(), "http://ex/a", nil, policy)
	if err != nil {
		t.Fatalf("GetOrCreateMemo: %v", err)
	}
	if winner2 {
		t.Fatal("second caller should lose while the first is in flight")
	}
}

func TestSetMemoOmitsNonTerminalFromStore(t *testing.T) {
	idx := NewMetadataIndex(DefaultIndexCapacity, nil)
	conn := newFakeConn()

	if err := idx.SetMemo(context.Background(), "http://ex/a", CacheEntry{Status: StatusUndetermined}, conn); err != nil {
		t.Fatalf("SetMemo: %v", err)
	}
	stmts, err := conn.Statements(context.Background(), "http://ex/a", PredMemo, "", "")
	if err != nil {
		t.Fatalf("Statements: %v", err)
	}
	if len(stmts) != 0 {
		t.Fatalf("non-terminal status should not be persisted, got %d statements", len(stmts))
	}

	if err := idx.SetMemo(context.Background(), "http://ex/a", CacheEntry{Status: StatusSuccess, Timestamp: time.Now()}, conn); err != nil {
		t.Fatalf("SetMemo: %v", err)
	}
	stmts, err = conn.Statements(context.Background(), "http://ex/a", PredMemo, "", "")
	if err != nil {
		t.Fatalf("Statements: %v", err)
	}
	if len(stmts) != 1 {
		t.Fatalf("terminal status should be persisted, got %d statements", len(stmts))
	}
}
