package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLedgerRecordAndLookup(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	if _, found, err := ledger.LastStatus(ctx, "batch-1"); err != nil || found {
		t.Fatalf("empty ledger should report not found, got found=%v err=%v", found, err)
	}

	if err := ledger.Record(ctx, "batch-1", "success", time.Hour); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	status, found, err := ledger.LastStatus(ctx, "batch-1")
	if err != nil || !found || status != "success" {
		t.Fatalf("unexpected lookup: status=%q found=%v err=%v", status, found, err)
	}

	// Later outcomes overwrite earlier ones.
	if err := ledger.Record(ctx, "batch-1", "partial", time.Hour); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	status, _, _ = ledger.LastStatus(ctx, "batch-1")
	if status != "partial" {
		t.Fatalf("expected overwrite, got %q", status)
	}
}

func TestMemoryLedgerExpiry(t *testing.T) {
	ledger := NewMemoryLedger()
	ctx := context.Background()

	if err := ledger.Record(ctx, "batch-1", "success", 10*time.Millisecond); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	if _, found, _ := ledger.LastStatus(ctx, "batch-1"); found {
		t.Fatal("expired entry should report not found")
	}
}
