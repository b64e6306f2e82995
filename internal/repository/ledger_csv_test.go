package repository_test

import (
	"os"
	"path/filepath"
	"testing"

	"fortuna/internal/models"
	"fortuna/internal/repository"
)

func TestLedgerStartsEmptyWithoutFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")

	ledger, err := repository.NewCSVLedger(path)
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	if len(ledger.All()) != 0 {
		t.Fatalf("expected empty ledger, got %d entries", len(ledger.All()))
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("ledger file must not be created before the first append")
	}
}

func TestLedgerAppendAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")

	ledger, err := repository.NewCSVLedger(path)
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}

	entries := []models.LedgerEntry{
		{Date: "2026-08-01", Home: "Team A", Away: "Team B", AIPick: "Team A", Result: "Team A", Correct: true},
		{Date: "2026-08-02", Home: "레알", Away: "바르사", AIPick: "레알", Result: "Draw", Correct: false},
	}
	for _, e := range entries {
		if err := ledger.Append(e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	reloaded, err := repository.NewCSVLedger(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	got := reloaded.All()
	if len(got) != len(entries) {
		t.Fatalf("expected %d entries after reload, got %d", len(entries), len(got))
	}
	for i, e := range entries {
		if got[i] != e {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], e)
		}
	}
}

func TestLedgerFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")

	ledger, err := repository.NewCSVLedger(path)
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	err = ledger.Append(models.LedgerEntry{
		Date: "2026-08-23", Home: "Home FC", Away: "Away FC",
		AIPick: "Draw", Result: "Away FC", Correct: false,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	want := "Date,Home,Away,AI_Pick,Result,Correct\n" +
		"2026-08-23,Home FC,Away FC,Draw,Away FC,false\n"
	if string(data) != want {
		t.Fatalf("file = %q, want %q", string(data), want)
	}
}

func TestLedgerRewriteIsReproducible(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")

	ledger, err := repository.NewCSVLedger(path)
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	for i := 0; i < 3; i++ {
		err := ledger.Append(models.LedgerEntry{
			Date: "2026-08-23", Home: "A", Away: "B", AIPick: "A", Result: "A", Correct: true,
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	// Reload and rewrite the same content: bytes must not change.
	reloaded, err := repository.NewCSVLedger(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	err = reloaded.Append(models.LedgerEntry{
		Date: "2026-08-23", Home: "A", Away: "B", AIPick: "A", Result: "A", Correct: true,
	})
	if err != nil {
		t.Fatalf("append after reload: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(second) != string(first)+"2026-08-23,A,B,A,A,true\n" {
		t.Fatalf("rewrite not reproducible:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}
