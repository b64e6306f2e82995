package integration

import (
	"context"
	"fmt"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const mirrorRange = "A1:Z10000"

// SheetService mirrors the prediction ledger to a Google Sheet so the
// history can be eyeballed outside the bot. Purely a mirror: the CSV
// ledger stays the source of truth.
type SheetService struct {
	sheetsSr *sheets.Service
	driveSr  *drive.Service
	sheetID  string
}

func NewSheetService(credJSON string) (*SheetService, error) {
	ctx := context.Background()

	srv, err := sheets.NewService(ctx, option.WithCredentialsFile(credJSON))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Sheets client: %v", err)
	}

	drv, err := drive.NewService(ctx, option.WithCredentialsFile(credJSON))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Drive client: %v", err)
	}

	return &SheetService{
		sheetsSr: srv,
		driveSr:  drv,
	}, nil
}

func (s *SheetService) SetSpreadsheetID(id string) {
	s.sheetID = id
}

// EnsureSheetExists creates the spreadsheet on first use and makes it
// readable by link. Returns the spreadsheet ID and URL.
func (s *SheetService) EnsureSheetExists(title string) (string, string, error) {
	if s.sheetID != "" {
		return s.sheetID, fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s", s.sheetID), nil
	}

	resp, err := s.sheetsSr.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title: title,
		},
	}).Do()
	if err != nil {
		return "", "", err
	}
	s.sheetID = resp.SpreadsheetId

	_, err = s.driveSr.Permissions.Create(s.sheetID, &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}).Do()
	if err != nil {
		return "", "", fmt.Errorf("failed to make public: %v", err)
	}

	return s.sheetID, resp.SpreadsheetUrl, nil
}

// UpdateLedger replaces the sheet contents with the given rows.
func (s *SheetService) UpdateLedger(rows [][]interface{}) error {
	if s.sheetID == "" {
		return fmt.Errorf("sheet not initialized")
	}

	_, err := s.sheetsSr.Spreadsheets.Values.Clear(s.sheetID, mirrorRange, &sheets.ClearValuesRequest{}).Do()
	if err != nil {
		return err
	}

	valRange := &sheets.ValueRange{Values: rows}
	_, err = s.sheetsSr.Spreadsheets.Values.Update(s.sheetID, "A1", valRange).ValueInputOption("RAW").Do()
	return err
}
