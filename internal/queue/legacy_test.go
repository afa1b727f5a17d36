package queue

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/warunglabs/tillsync/internal/tx"
)

func TestImportLegacy_QueueEntries(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "offline_queue.json")

	entries := []tx.QueueEntry{
		testEntry("TRX-legacy-1", time.Now().UTC()),
		testEntry("TRX-legacy-2", time.Now().UTC()),
	}
	data, err := json.Marshal(entries)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write legacy file: %v", err)
	}

	n, err := s.ImportLegacy(ctx, path)
	if err != nil {
		t.Fatalf("ImportLegacy failed: %v", err)
	}
	if n != 2 {
		t.Errorf("imported %d entries, want 2", n)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("legacy file should be removed after import")
	}

	qlen, err := s.Len(ctx)
	if err != nil {
		t.Fatalf("Len failed: %v", err)
	}
	if qlen != 2 {
		t.Errorf("queue length = %d, want 2", qlen)
	}
}

func TestImportLegacy_BareRecords(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "offline_queue.json")

	records := []tx.TransactionRecord{
		{
			ID:            "TRX-bare",
			CreatedAt:     time.Now().UTC(),
			TotalAmount:   5000,
			PaymentMethod: tx.PaymentCash,
			LineItems:     []tx.LineItem{{ProductName: "Teh", Quantity: 1, UnitPrice: 5000}},
		},
	}
	data, err := json.Marshal(records)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write legacy file: %v", err)
	}

	n, err := s.ImportLegacy(ctx, path)
	if err != nil {
		t.Fatalf("ImportLegacy failed: %v", err)
	}
	if n != 1 {
		t.Errorf("imported %d entries, want 1", n)
	}

	entries, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Record.ID != "TRX-bare" {
		t.Errorf("bare record not imported: %+v", entries)
	}
}

func TestImportLegacy_MissingFile(t *testing.T) {
	s := openTestStore(t)

	n, err := s.ImportLegacy(context.Background(), filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Errorf("missing legacy file should not error: %v", err)
	}
	if n != 0 {
		t.Errorf("imported %d entries from missing file, want 0", n)
	}
}

func TestImportLegacy_Garbage(t *testing.T) {
	s := openTestStore(t)
	path := filepath.Join(t.TempDir(), "offline_queue.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := s.ImportLegacy(context.Background(), path); err == nil {
		t.Error("expected error for unparseable legacy file")
	}
	if _, err := os.Stat(path); err != nil {
		t.Error("legacy file must be kept when import fails")
	}
}
