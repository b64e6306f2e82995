package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"fortuna/internal/models"
)

var ledgerHeader = []string{"Date", "Home", "Away", "AI_Pick", "Result", "Correct"}

// CSVLedger keeps the full ledger in memory and mirrors it to a flat CSV
// file. The file is rewritten in full on every append so a restart always
// sees a consistent, fully reloadable history. Single-writer by design;
// there is no concurrent access in this process model.
type CSVLedger struct {
	path    string
	entries []models.LedgerEntry
}

// NewCSVLedger loads the ledger file at path. A missing file means an
// empty history, not an error.
func NewCSVLedger(path string) (*CSVLedger, error) {
	l := &CSVLedger{path: path}
	if err := l.load(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *CSVLedger) load() error {
	f, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read ledger: %w", err)
	}

	for i, rec := range records {
		if i == 0 {
			continue // header
		}
		if len(rec) != len(ledgerHeader) {
			return fmt.Errorf("malformed ledger row %d: %d columns", i, len(rec))
		}
		correct, err := strconv.ParseBool(rec[5])
		if err != nil {
			return fmt.Errorf("malformed ledger row %d: %w", i, err)
		}
		l.entries = append(l.entries, models.LedgerEntry{
			Date:    rec[0],
			Home:    rec[1],
			Away:    rec[2],
			AIPick:  rec[3],
			Result:  rec[4],
			Correct: correct,
		})
	}
	return nil
}

func (l *CSVLedger) Append(entry models.LedgerEntry) error {
	l.entries = append(l.entries, entry)
	return l.flush()
}

func (l *CSVLedger) All() []models.LedgerEntry {
	return l.entries
}

// flush rewrites the whole file through a temp-and-rename so a crash
// mid-write can't leave a truncated ledger behind.
func (l *CSVLedger) flush() error {
	tmp, err := os.CreateTemp(filepath.Dir(l.path), ".ledger-*")
	if err != nil {
		return fmt.Errorf("failed to create ledger temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(ledgerHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write ledger header: %w", err)
	}
	for _, e := range l.entries {
		row := []string{e.Date, e.Home, e.Away, e.AIPick, e.Result, strconv.FormatBool(e.Correct)}
		if err := w.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write ledger row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close ledger temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		return fmt.Errorf("failed to replace ledger file: %w", err)
	}
	return nil
}
