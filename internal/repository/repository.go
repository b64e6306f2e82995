package repository

import (
	"fortuna/internal/models"
)

// Ledger is the append-only record of past predictions and their real
// outcomes. Entries are never updated or deleted.
type Ledger interface {
	Append(entry models.LedgerEntry) error
	All() []models.LedgerEntry
}

type Repository struct {
	Ledger
}

func NewRepository(ledgerPath string) (*Repository, error) {
	ledger, err := NewCSVLedger(ledgerPath)
	if err != nil {
		return nil, err
	}
	return &Repository{Ledger: ledger}, nil
}
